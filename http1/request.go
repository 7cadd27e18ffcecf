package http1

import "bytes"

// DefaultProtocolVersion is used when the request line has no version token.
const DefaultProtocolVersion = "1.1"

var (
	crlf  = []byte("\r\n")
	space = []byte(" ")
)

// Request is the parsed request line.
type Request struct {
	Method          string
	Target          string
	HasTarget       bool // whether the request line had the target token at all
	ProtocolVersion string
}

/*
ParseRequest parses the first line of data. It never fails: tokens missing from the
request line keep their zero value, except the ProtocolVersion which defaults to
[DefaultProtocolVersion]. Tokens are not validated and tokens after the third are ignored.
*/
func ParseRequest(data []byte) *Request {
	r := &Request{ProtocolVersion: DefaultProtocolVersion}

	line, _, _ := bytes.Cut(data, crlf)
	words := bytes.Split(line, space)
	r.Method = string(words[0])
	if len(words) > 1 {
		r.Target, r.HasTarget = string(words[1]), true
	}
	if len(words) > 2 {
		r.ProtocolVersion = string(words[2])
	}
	return r
}
