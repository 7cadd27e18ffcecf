package http1

import (
	"log/slog"

	"github.com/ainvaltin/tcpsrv"
)

const (
	indexPage = `<html>
    <body>
        <h1>Hi, I'm tcpsrv!</h1>
    </body>
</html>
`
	notImplementedPage = `<h1>501 Not Implemented</h1>`
)

/*
Server is a [tcpsrv.Server] answering HTTP/1.1 requests. Out of the box it responds
to GET with a static page and to any other method with "501 Not Implemented".
*/
type Server struct {
	*tcpsrv.Server

	dispatch *Dispatcher
	rsp      *Responder
	params   []tcpsrv.ServerParam
	log      *slog.Logger
}

// NewServer returns server bound to the cfg address, use Start or StartInBackground to run it.
func NewServer(cfg tcpsrv.Config, opts ...Option) (*Server, error) {
	s := &Server{
		dispatch: NewDispatcher(handleNotImplemented),
		rsp:      newResponder(),
		log:      slog.Default(),
	}
	s.dispatch.Register("GET", handleGet)

	for _, o := range opts {
		o.apply(s)
	}

	var err error
	if s.Server, err = tcpsrv.New(cfg, s.HandleRequest, s.params...); err != nil {
		return nil, err
	}
	return s, nil
}

// HandleRequest parses the request line in data and returns the response of the handler
// registered for the method.
func (s *Server) HandleRequest(data []byte) ([]byte, error) {
	req := ParseRequest(data)
	s.log.Debug("request", "method", req.Method, "target", req.Target, "version", req.ProtocolVersion)
	return s.dispatch.Resolve(req.Method)(s.rsp, req)
}

// Resolve returns the handler which serves the method.
func (s *Server) Resolve(method string) Handler { return s.dispatch.Resolve(method) }

// Methods returns the methods which have handler registered.
func (s *Server) Methods() []string { return s.dispatch.Methods() }

func handleGet(rsp *Responder, req *Request) ([]byte, error) {
	return rsp.Build(200, []byte(indexPage), nil)
}

func handleNotImplemented(rsp *Responder, req *Request) ([]byte, error) {
	return rsp.Build(501, []byte(notImplementedPage), nil)
}
