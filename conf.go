package tcpsrv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8080

	// DefaultReadSize is the size of the single read done per connection.
	DefaultReadSize = 1024
)

/*
Config is the address the server binds to. It is copied into the [Server] by [New]
and never changes after that.
*/
type Config struct {
	Host string // interface to bind, ie IP literal or host name
	Port int    // TCP port, 1-65535
}

// DefaultConfig returns config for the loopback interface and port 8080.
func DefaultConfig() Config {
	return Config{Host: DefaultHost, Port: DefaultPort}
}

// Addr returns the "host:port" form of the config suitable for net.Listen.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

var (
	errInvalidHost = errors.New("host to bind to is not assigned")
	errInvalidPort = errors.New("port must be in range 1-65535")
)

// Validate returns non-nil error when the config can't be used to bind a listener.
func (c Config) Validate() error {
	if c.Host == "" {
		return errInvalidHost
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: %w", c.Port, errInvalidPort)
	}
	return nil
}

type serverConf struct {
	// listener provided by the Listener param, used by the first Start only
	l net.Listener

	readSize     int
	readTimeout  time.Duration
	writeTimeout time.Duration
	shutdownTO   time.Duration // how long Stop waits for the in-flight connection

	dieOnPanic bool

	log *slog.Logger
}

func defaultConf() serverConf {
	return serverConf{
		readSize: DefaultReadSize,
		log:      slog.Default(),
	}
}

/*
listener returns the listener assigned by the Listener param (once) or binds a new one
on addr with the SO_REUSEADDR option set so that restarting the server on the same
address doesn't fail because of sockets lingering in TIME_WAIT state.
*/
func (cfg *serverConf) listener(ctx context.Context, addr string) (net.Listener, error) {
	if cfg.l != nil {
		l := cfg.l
		cfg.l = nil
		return l, nil
	}

	lc := net.ListenConfig{Control: reuseAddr}
	l, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on %q: %w", addr, err)
	}
	return l, nil
}
