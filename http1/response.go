package http1

import (
	"bytes"
	"errors"
	"fmt"
	"net/textproto"
	"sort"
	"strconv"
)

// ErrUnknownStatus is returned when building response with status code which has no reason registered.
var ErrUnknownStatus = errors.New("unknown status code")

// Header maps header name to value. Names are compared in their canonical form.
type Header map[string]string

// Set assigns value to the header, name is canonicalized so "content-type" and
// "Content-Type" refer to the same header.
func (h Header) Set(name, value string) {
	h[textproto.CanonicalMIMEHeaderKey(name)] = value
}

// Clone returns copy of h, modifying the copy doesn't affect h.
func (h Header) Clone() Header {
	c := make(Header, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// merge copies values from src into h, existing values are overwritten.
func (h Header) merge(src Header) {
	for k, v := range src {
		h.Set(k, v)
	}
}

// writeTo writes "name:value\r\n" line for each header, ordered by name.
func (h Header) writeTo(buf *bytes.Buffer) {
	names := make([]string, 0, len(h))
	for k := range h {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, k := range names {
		buf.WriteString(k)
		buf.WriteByte(':')
		buf.WriteString(h[k])
		buf.Write(crlf)
	}
}

/*
Responder builds response bytes. It holds the default headers and the status code to
reason phrase table, both are populated when the server is created and only read
afterwards so Responder is safe for concurrent use.
*/
type Responder struct {
	headers Header
	reasons map[int]string
}

func newResponder() *Responder {
	return &Responder{
		headers: Header{
			"Server":       "tcpsrv",
			"Content-Type": "text/html",
		},
		reasons: map[int]string{
			200: "OK",
			501: "Not Implemented",
		},
	}
}

// Reason returns the reason phrase registered for the status code.
func (r *Responder) Reason(code int) (string, error) {
	s, ok := r.reasons[code]
	if !ok {
		return "", fmt.Errorf("%w %d", ErrUnknownStatus, code)
	}
	return s, nil
}

/*
Headers returns the headers for response with body of given length: copy of the
default headers, "Content-Length" and "Connection" computed and finally the extra
headers, extra headers win when names collide.
*/
func (r *Responder) Headers(bodyLen int, extra Header) Header {
	h := r.headers.Clone()
	h["Content-Length"] = strconv.Itoa(bodyLen)
	h["Connection"] = "close"
	h.merge(extra)
	return h
}

/*
Build returns the response: status line, headers, blank line and body. Error is
returned when there is no reason phrase registered for the code.
*/
func (r *Responder) Build(code int, body []byte, extra Header) ([]byte, error) {
	reason, err := r.Reason(code)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, 256+len(body)))
	fmt.Fprintf(buf, "HTTP/1.1 %d %s", code, reason)
	buf.Write(crlf)
	r.Headers(len(body), extra).writeTo(buf)
	buf.Write(crlf)
	buf.Write(body)
	return buf.Bytes(), nil
}
