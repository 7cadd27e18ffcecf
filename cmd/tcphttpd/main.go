// tcphttpd serves the static page of the http1 server until interrupted.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ainvaltin/tcpsrv"
	"github.com/ainvaltin/tcpsrv/http1"
)

func main() {
	cfg := &srvConf{}
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.logLevel}))
	slog.SetDefault(logger)

	err := run(context.Background(), cfg)
	logger.Info("service exited", "error", err)
}

// run starts the server and stops it when quit signal is received or ctx is cancelled.
func run(ctx context.Context, cfg Configuration) error {
	srv, err := http1.NewServer(cfg.Server(), http1.TCP(cfg.ServerParams()...))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	slog.Info("starting", "addr", srv.Config().Addr(), "methods", srv.Methods())
	return srv.RunUntilSignal(ctx)
}

type Configuration interface {
	Server() tcpsrv.Config
	ServerParams() []tcpsrv.ServerParam
}

type srvConf struct {
	srv tcpsrv.Config

	readTimeout, writeTimeout, shutdownTimeout time.Duration
	logLevel                                   slog.Level

	// tests use the same conf struct with listener on random port
	l net.Listener
}

func (c *srvConf) validate() error {
	c.srv = tcpsrv.DefaultConfig()
	c.readTimeout = 5 * time.Second
	c.writeTimeout = 5 * time.Second
	c.shutdownTimeout = 2 * time.Second

	if s := os.Getenv("HTTP_HOST"); s != "" {
		c.srv.Host = s
	}
	if s := os.Getenv("HTTP_PORT"); s != "" {
		port, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid value for port: %w", err)
		}
		c.srv.Port = port
	}
	if err := c.srv.Validate(); err != nil {
		return err
	}

	for env, dst := range map[string]*time.Duration{
		"READ_TIMEOUT":     &c.readTimeout,
		"WRITE_TIMEOUT":    &c.writeTimeout,
		"SHUTDOWN_TIMEOUT": &c.shutdownTimeout,
	} {
		s := os.Getenv(env)
		if s == "" {
			continue
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", strings.ToLower(env), err)
		}
		*dst = d
	}

	if s := os.Getenv("LOG_LEVEL"); s != "" {
		if err := c.logLevel.UnmarshalText([]byte(s)); err != nil {
			return fmt.Errorf("invalid value for log level: %w", err)
		}
	}
	return nil
}

func (c *srvConf) Server() tcpsrv.Config { return c.srv }

func (c *srvConf) ServerParams() []tcpsrv.ServerParam {
	p := []tcpsrv.ServerParam{
		tcpsrv.ReadTimeout(c.readTimeout),
		tcpsrv.WriteTimeout(c.writeTimeout),
		tcpsrv.ShutdownTimeout(c.shutdownTimeout),
	}
	if c.l != nil {
		p = append(p, tcpsrv.Listener(c.l))
	}
	return p
}
