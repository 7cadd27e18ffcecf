package tcpsrv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// State of the [Server].
type State int32

const (
	Stopped State = iota
	Listening
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Listening:
		return "listening"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

/*
HandlerFunc turns the bytes read from the connection into the response written back.
Returning an error causes the connection to be closed without response.
*/
type HandlerFunc func(data []byte) ([]byte, error)

var (
	errUnassignedHandler = errors.New("misconfigured server, no handler attached")
	errAlreadyListening  = errors.New("server is already listening")
)

/*
Server accepts connections and handles them strictly one after another on a single
goroutine. Zero value is not usable, use [New] to create one.
*/
type Server struct {
	cfg    Config
	conf   serverConf
	handle HandlerFunc

	mu     sync.Mutex
	state  State
	ln     net.Listener  // current listener, nil when stopped
	done   chan struct{} // closed when the accept loop of ln exits
	active net.Conn      // connection being handled
}

// New returns server which binds to the cfg address and uses h to produce responses.
func New(cfg Config, h HandlerFunc, params ...ServerParam) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if h == nil {
		return nil, errUnassignedHandler
	}

	s := &Server{cfg: cfg, handle: h, conf: defaultConf()}
	for _, p := range params {
		p.apply(&s.conf)
	}
	return s, nil
}

// Config returns the configuration the server was created with.
func (s *Server) Config() Config { return s.cfg }

// State returns current state of the server.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Addr returns the address the server is listening on, nil when the server is stopped.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

/*
Start binds the listener and runs the accept loop until the server is stopped.

Failure to bind is returned immediately. When the server is stopped by calling [Server.Stop]
nil is returned, when it is stopped by cancelling the ctx the ctx error is returned.
Otherwise the error which caused the loop to exit is returned.
*/
func (s *Server) Start(ctx context.Context) error {
	ln, done, err := s.listen(ctx)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln, done)
}

/*
StartInBackground is like [Server.Start] but the accept loop runs on its own goroutine.
Binding happens before it returns so error to bind is returned directly, the value
[Server.Start] would return is sent to the returned channel once the loop exits.
*/
func (s *Server) StartInBackground(ctx context.Context) (<-chan error, error) {
	ln, done, err := s.listen(ctx)
	if err != nil {
		return nil, err
	}

	errc := make(chan error, 1)
	go func() { errc <- s.serve(ctx, ln, done) }()
	return errc, nil
}

/*
Stop closes the listener which unblocks pending Accept and waits for the accept loop to
exit. Connection being handled is given time set by [ShutdownTimeout] to complete before
it is closed. Calling Stop on server which is not listening is no-op.

Stop must not be called from within the handler as it waits for the handler to return.
*/
func (s *Server) Stop() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return nil
	}
	return s.stop(ln)
}

// stop shuts down the run which listens on ln, no-op when ln is not the current listener.
func (s *Server) stop(ln net.Listener) error {
	s.mu.Lock()
	if s.state != Listening || s.ln != ln {
		s.mu.Unlock()
		return nil
	}
	done := s.done
	s.state, s.ln = Stopped, nil
	s.mu.Unlock()

	var rerr error
	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		rerr = fmt.Errorf("closing listener: %w", err)
	}

	if !s.waitLoop(done, s.conf.shutdownTO) {
		s.closeActive()
		<-done
	}

	s.conf.log.Info("stopped", "addr", ln.Addr().String())
	return rerr
}

// waitLoop reports whether the loop exited within the timeout.
func (s *Server) waitLoop(done <-chan struct{}, to time.Duration) bool {
	if to <= 0 {
		return false
	}
	t := time.NewTimer(to)
	defer t.Stop()
	select {
	case <-done:
		return true
	case <-t.C:
		return false
	}
}

func (s *Server) listen(ctx context.Context) (net.Listener, chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Listening {
		return nil, nil, errAlreadyListening
	}

	ln, err := s.conf.listener(ctx, s.cfg.Addr())
	if err != nil {
		return nil, nil, err
	}

	s.ln, s.done, s.state = ln, make(chan struct{}), Listening
	s.conf.log.Info("listening", "addr", ln.Addr().String())
	return ln, s.done, nil
}

func (s *Server) serve(ctx context.Context, ln net.Listener, done chan struct{}) error {
	defer close(done)

	loopDone := make(chan struct{})
	defer close(loopDone)
	go func() {
		select {
		case <-ctx.Done():
			// the server might have been stopped and started again meanwhile
			if err := s.stop(ln); err != nil {
				s.conf.log.Error("stopping server", "error", err)
			}
		case <-loopDone:
		}
	}()

	if err := s.acceptLoop(ln); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Server) acceptLoop(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if !s.owns(ln) {
				// listener was closed by Stop
				return nil
			}
			s.abort(ln)
			return fmt.Errorf("accepting connection: %w", err)
		}

		remote := conn.RemoteAddr().String()
		s.conf.log.Debug("connected", "remote", remote)

		if err := s.serveConn(ln, conn); err != nil {
			var pe *panicError
			if errors.As(err, &pe) && s.conf.dieOnPanic {
				s.abort(ln)
				return err
			}

			lvl := slog.LevelError
			if !s.owns(ln) {
				lvl = slog.LevelDebug
			}
			s.conf.log.Log(context.Background(), lvl, "handling connection", "remote", remote, "error", err)
		}
	}
}

// owns reports whether ln is still the listener of the running server.
func (s *Server) owns(ln net.Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ln == ln
}

// abort stops the server because of error in the accept loop of ln.
func (s *Server) abort(ln net.Listener) {
	s.mu.Lock()
	if s.ln == ln {
		s.state, s.ln = Stopped, nil
	}
	s.mu.Unlock()

	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.conf.log.Error("closing listener", "error", err)
	}
}

// track registers conn accepted from ln as the active connection, returns false when
// the server has been stopped meanwhile.
func (s *Server) track(ln net.Listener, conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != ln {
		return false
	}
	s.active = conn
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == conn {
		s.active = nil
	}
}

func (s *Server) closeActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Close()
	}
}
