/*
Package tcpsrv implements the lifetime of a minimal, strictly sequential TCP server.

The server owns one listening socket, accepts one connection at a time, reads a single
bounded chunk from it, hands the bytes to a [HandlerFunc] and writes the returned bytes
back before closing the connection. Protocol knowledge lives in the handler, see the
http1 subpackage for the HTTP/1.1 request line flavour.

Errors scoped to one connection (read/write failures, handler errors and panics) are
logged and the server carries on accepting. Errors of the listening socket itself
terminate the accept loop and are returned by [Server.Start].
*/
package tcpsrv
