/*
Package http1 layers a minimal HTTP/1.1 responder on top of the [tcpsrv.Server].

Only the request line of the first chunk read from the connection is interpreted,
headers and body are ignored. The request method selects the handler from a table
built when the server is created, methods without a handler get "501 Not Implemented".
Every response carries "Connection: close" as the server handles single request per
connection.
*/
package http1
