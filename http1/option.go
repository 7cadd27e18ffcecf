package http1

import (
	"log/slog"

	"github.com/ainvaltin/tcpsrv"
)

type (
	// Option is the optional parameter type for [NewServer].
	Option interface {
		apply(s *Server)
	}

	option struct{ set func(*Server) }
)

func (o option) apply(s *Server) { o.set(s) }

// Handle registers handler for the request method. Built in GET handler can be replaced this way.
func Handle(method string, h Handler) Option {
	return option{func(s *Server) { s.dispatch.Register(method, h) }}
}

// DefaultHeader adds header to the default headers sent with every response (or overrides the built in value).
func DefaultHeader(name, value string) Option {
	return option{func(s *Server) { s.rsp.headers.Set(name, value) }}
}

// Status registers reason phrase for the status code so that handlers can respond with it.
func Status(code int, reason string) Option {
	return option{func(s *Server) { s.rsp.reasons[code] = reason }}
}

// TCP passes parameters to the underlying [tcpsrv.Server].
func TCP(params ...tcpsrv.ServerParam) Option {
	return option{func(s *Server) { s.params = append(s.params, params...) }}
}

// Logger sets the logger of both the HTTP layer and the underlying [tcpsrv.Server], nil value is ignored.
func Logger(l *slog.Logger) Option {
	return option{func(s *Server) {
		if l != nil {
			s.log = l
			s.params = append(s.params, tcpsrv.Logger(l))
		}
	}}
}
