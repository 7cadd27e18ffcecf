package tcpsrv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func Test_Config(t *testing.T) {
	t.Parallel()

	t.Run("default config", func(t *testing.T) {
		cfg := DefaultConfig()
		if err := cfg.Validate(); err != nil {
			t.Fatalf("default config is invalid: %v", err)
		}
		if s := cfg.Addr(); s != "127.0.0.1:8080" {
			t.Errorf("unexpected address %q", s)
		}
	})

	t.Run("IPv6 host is bracketed", func(t *testing.T) {
		cfg := Config{Host: "::1", Port: 8000}
		if s := cfg.Addr(); s != "[::1]:8000" {
			t.Errorf("unexpected address %q", s)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		tests := []struct {
			cfg Config
			err error
		}{
			{cfg: Config{Port: 8000}, err: errInvalidHost},
			{cfg: Config{Host: "localhost"}, err: errInvalidPort},
			{cfg: Config{Host: "localhost", Port: 70000}, err: errInvalidPort},
		}
		for _, tc := range tests {
			if err := tc.cfg.Validate(); !errors.Is(err, tc.err) {
				t.Errorf("%+v: expected error %v, got %v", tc.cfg, tc.err, err)
			}
		}
	})
}

func Test_serverConf_listener(t *testing.T) {
	t.Parallel()

	t.Run("when listener is assigned it is returned once", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to create listener: %v", err)
		}
		defer ln.Close()

		cfg := &serverConf{l: ln}
		l, err := cfg.listener(context.Background(), "127.0.0.1:0")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if l != ln {
			t.Fatal("unexpectedly different listener was returned")
		}

		// second call binds new listener to the address
		l2, err := cfg.listener(context.Background(), "127.0.0.1:0")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer l2.Close()
		if l2 == ln {
			t.Fatal("unexpectedly the assigned listener was returned twice")
		}
	})

	t.Run("bind to random port", func(t *testing.T) {
		cfg := &serverConf{}
		l, err := cfg.listener(context.Background(), "127.0.0.1:0")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer l.Close()
		if port := l.Addr().(*net.TCPAddr).Port; port == 0 {
			t.Error("expected listener to be bound to some port")
		}
	})

	t.Run("try to open the same addr twice", func(t *testing.T) {
		// first attempt should succeed
		cfg := &serverConf{}
		l, err := cfg.listener(context.Background(), "127.0.0.1:0")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if l == nil {
			t.Fatal("unexpectedly nil listener was returned")
		}
		defer l.Close()

		// second attempt with the same addr should fail, SO_REUSEADDR doesn't allow
		// two sockets listening on the same address
		cfg2 := &serverConf{}
		l2, err := cfg2.listener(context.Background(), l.Addr().String())
		if err != nil {
			expErrMsg := fmt.Sprintf("failed to create listener on %q: listen tcp %[1]s: bind: address already in use", l.Addr().String())
			if err.Error() != expErrMsg {
				t.Fatalf("unexpected error: %v", err)
			}
		} else {
			t.Error("unexpectedly no error was returned")
		}
		if l2 != nil {
			l2.Close()
			t.Fatal("unexpectedly non-nil listener was returned for the second time too")
		}
	})

	t.Run("invalid address", func(t *testing.T) {
		cfg := &serverConf{}
		l, err := cfg.listener(context.Background(), "127.0.0.1:99999")
		if err == nil {
			l.Close()
			t.Fatal("expected error, got nil")
		}
	})
}
