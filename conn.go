package tcpsrv

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// panicError is the error returned for a connection when the handler panicked.
type panicError struct{ v any }

func (pe *panicError) Error() string { return fmt.Sprintf("unhandled panic: %v", pe.v) }

/*
readRequest does single read of at most size bytes. Clients closing the connection
is not an error, whatever was read (possibly nothing) is returned.
*/
func readRequest(conn net.Conn, size int, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return nil, fmt.Errorf("setting read deadline: %w", err)
		}
	}

	buf := make([]byte, size)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading request: %w", err)
	}
	return buf[:n], nil
}

func writeResponse(conn net.Conn, data []byte, timeout time.Duration) error {
	if timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return fmt.Errorf("setting write deadline: %w", err)
		}
	}

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

/*
serveConn handles one accepted connection: read, handle, write, close. Panic in the
handler is returned as *panicError. The connection is closed on every path.
*/
func (s *Server) serveConn(ln net.Listener, conn net.Conn) (rerr error) {
	if !s.track(ln, conn) {
		conn.Close()
		return fmt.Errorf("server stopped before connection from %s was handled", conn.RemoteAddr())
	}

	defer func() {
		if r := recover(); r != nil {
			rerr = &panicError{v: r}
		}
		s.untrack(conn)
		if err := conn.Close(); err != nil && rerr == nil && !errors.Is(err, net.ErrClosed) {
			rerr = fmt.Errorf("closing connection: %w", err)
		}
	}()

	data, err := readRequest(conn, s.conf.readSize, s.conf.readTimeout)
	if err != nil {
		return err
	}
	s.conf.log.Debug("read request", "remote", conn.RemoteAddr().String(), "bytes", len(data))

	rsp, err := s.handle(data)
	if err != nil {
		return fmt.Errorf("handling request: %w", err)
	}

	return writeResponse(conn, rsp, s.conf.writeTimeout)
}
