package tcpsrv

import (
	"bytes"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"
)

func Test_ServerParam(t *testing.T) {
	t.Parallel()

	// check that correct config field is assigned

	t.Run("Listener", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to create listener: %v", err)
		}
		defer ln.Close()

		cfg := serverConf{}
		Listener(ln).apply(&cfg)
		if cfg.l == nil {
			t.Fatal("expected that the cfg.l is assigned")
		}
		if cfg.l != ln {
			t.Error("config has different listener assigned")
		}
	})

	t.Run("ReadSize", func(t *testing.T) {
		cfg := defaultConf()
		ReadSize(64).apply(&cfg)
		if cfg.readSize != 64 {
			t.Errorf("unexpected read size %d", cfg.readSize)
		}

		ReadSize(0).apply(&cfg)
		ReadSize(-1).apply(&cfg)
		if cfg.readSize != 64 {
			t.Errorf("invalid value should have been ignored, got read size %d", cfg.readSize)
		}
	})

	t.Run("ReadTimeout", func(t *testing.T) {
		cfg := serverConf{}
		ReadTimeout(time.Second).apply(&cfg)
		if cfg.readTimeout != time.Second {
			t.Errorf("unexpected timeout value %s", cfg.readTimeout)
		}
	})

	t.Run("WriteTimeout", func(t *testing.T) {
		cfg := serverConf{}
		WriteTimeout(2 * time.Second).apply(&cfg)
		if cfg.writeTimeout != 2*time.Second {
			t.Errorf("unexpected timeout value %s", cfg.writeTimeout)
		}
	})

	t.Run("ShutdownTimeout", func(t *testing.T) {
		cfg := serverConf{}
		ShutdownTimeout(time.Second).apply(&cfg)
		if cfg.shutdownTO != time.Second {
			t.Errorf("unexpected timeout value %s", cfg.shutdownTO)
		}
	})

	t.Run("ShutdownOnPanic", func(t *testing.T) {
		cfg := serverConf{}
		ShutdownOnPanic().apply(&cfg)
		if !cfg.dieOnPanic {
			t.Error("expected dieOnPanic to be set")
		}
	})

	loggerFunc := func() (*slog.Logger, *bytes.Buffer) {
		buf := bytes.NewBuffer(nil)
		return slog.New(slog.NewTextHandler(buf, nil)), buf
	}

	t.Run("Logger", func(t *testing.T) {
		l, buf := loggerFunc()
		cfg := defaultConf()
		Logger(l).apply(&cfg)
		if cfg.log != l {
			t.Fatal("unexpectedly logger is not assigned")
		}
		cfg.log.Info("test message")
		if s := buf.String(); !strings.Contains(s, "msg=\"test message\"") {
			t.Errorf("unexpected message was logged:\n%s\n", s)
		}
	})

	t.Run("Logger nil value is ignored", func(t *testing.T) {
		l, _ := loggerFunc()
		cfg := serverConf{log: l}
		Logger(nil).apply(&cfg)
		if cfg.log != l {
			t.Fatal("unexpectedly logger was replaced")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := defaultConf()
		if cfg.readSize != DefaultReadSize {
			t.Errorf("unexpected read size %d", cfg.readSize)
		}
		if cfg.log == nil {
			t.Error("expected default logger to be assigned")
		}
		if cfg.readTimeout != 0 || cfg.writeTimeout != 0 || cfg.shutdownTO != 0 || cfg.dieOnPanic {
			t.Errorf("unexpected non-zero defaults: %+v", cfg)
		}
	})
}
