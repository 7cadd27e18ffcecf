package tcpsrv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

/*
ErrReceivedQuitSignal is returned by [ListenForQuitSignal] and [Server.RunUntilSignal]
when one of the quit signals arrives.
*/
var ErrReceivedQuitSignal = errors.New("received quit signal")

// signals the server quits on when caller doesn't name any
var defaultQuitSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

/*
ListenForQuitSignal blocks until one of the signals sig (by default [os.Interrupt] and
[syscall.SIGTERM]) is received or ctx is cancelled. The server never installs signal
handlers itself, use [Server.RunUntilSignal] or run this func in an errgroup next to
[Server.Start].

The returned error wraps [ErrReceivedQuitSignal] when the signal was received, otherwise
it is the ctx error.
*/
func ListenForQuitSignal(ctx context.Context, sig ...os.Signal) error {
	quit := notifyQuit(sig)
	defer signal.Stop(quit)

	select {
	case s := <-quit:
		return fmt.Errorf("%s: %w", s, ErrReceivedQuitSignal)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func notifyQuit(sig []os.Signal) chan os.Signal {
	if len(sig) == 0 {
		sig = defaultQuitSignals
	}
	c := make(chan os.Signal, 1)
	signal.Notify(c, sig...)
	return c
}

/*
RunUntilSignal runs the server like [Server.Start] and stops it when one of the signals
sig is received (see [ListenForQuitSignal] for the defaults) or ctx is cancelled.

Error returned is the one which caused the server to stop: the signal error wrapping
[ErrReceivedQuitSignal], the ctx error or failure of the server itself.
*/
func (s *Server) RunUntilSignal(ctx context.Context, sig ...os.Signal) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ListenForQuitSignal(ctx, sig...) })
	g.Go(func() error { return s.Start(ctx) })
	return g.Wait()
}
