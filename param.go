package tcpsrv

import (
	"log/slog"
	"net"
	"time"
)

type (
	// ServerParam is the optional parameter type for [New] function.
	ServerParam interface {
		apply(cfg *serverConf)
	}

	serverParam struct{ set func(*serverConf) }
)

func (p serverParam) apply(cfg *serverConf) { p.set(cfg) }

/*
Listener allows to set the net listener the server accepts connections from instead of
binding to the address in [Config].

The listener is used by the first [Server.Start] only, when the server is started again
after [Server.Stop] it binds to the address in the Config. This parameter is mostly useful
for testing where server is bound to a random port which the test needs to know.
*/
func Listener(l net.Listener) ServerParam {
	return serverParam{func(cfg *serverConf) { cfg.l = l }}
}

/*
ReadSize sets the size of the buffer for the single read done for each connection,
anything the client sends beyond that is ignored. Values smaller than one are ignored,
default is [DefaultReadSize].
*/
func ReadSize(n int) ServerParam {
	return serverParam{func(cfg *serverConf) {
		if n > 0 {
			cfg.readSize = n
		}
	}}
}

/*
ReadTimeout sets the deadline for reading the request. When not provided (or the duration
is not greater than zero) the read blocks until client sends something or closes the
connection, ie idle client stalls the server as connections are handled one at a time.
*/
func ReadTimeout(to time.Duration) ServerParam {
	return serverParam{func(cfg *serverConf) { cfg.readTimeout = to }}
}

// WriteTimeout sets the deadline for writing the response, by default there is none.
func WriteTimeout(to time.Duration) ServerParam {
	return serverParam{func(cfg *serverConf) { cfg.writeTimeout = to }}
}

/*
ShutdownTimeout sets how long [Server.Stop] waits for the connection being handled to
complete before closing it. When not provided or duration is smaller than or equal to zero
the connection in flight (if any) is closed immediately.
*/
func ShutdownTimeout(to time.Duration) ServerParam {
	return serverParam{func(cfg *serverConf) { cfg.shutdownTO = to }}
}

/*
ShutdownOnPanic instructs the server to shut down when unhandled panic escapes the
handler. [Server.Start] then returns error describing the panic.

By default the panic is logged as any other connection error and server carries on
accepting connections.
*/
func ShutdownOnPanic() ServerParam {
	return serverParam{func(cfg *serverConf) { cfg.dieOnPanic = true }}
}

// Logger sets the logger used by the server, nil value is ignored. Default is [slog.Default].
func Logger(l *slog.Logger) ServerParam {
	return serverParam{func(cfg *serverConf) {
		if l != nil {
			cfg.log = l
		}
	}}
}
