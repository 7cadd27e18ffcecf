package http1

import "sort"

// Handler produces the complete response for the request.
type Handler func(rsp *Responder, req *Request) ([]byte, error)

/*
Dispatcher maps request method to handler. Methods without registered handler resolve
to the fallback handler, ie lookup never fails.

Handlers must be registered before the server starts, the table is not safe to modify
while requests are served.
*/
type Dispatcher struct {
	handlers map[string]Handler
	fallback Handler
}

func NewDispatcher(fallback Handler) *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler), fallback: fallback}
}

// Register sets h as the handler of the method, replacing previous handler if any.
// Registering nil handler removes the method from the table.
func (d *Dispatcher) Register(method string, h Handler) {
	if h == nil {
		delete(d.handlers, method)
		return
	}
	d.handlers[method] = h
}

func (d *Dispatcher) Resolve(method string) Handler {
	if h, ok := d.handlers[method]; ok {
		return h
	}
	return d.fallback
}

// Methods returns sorted list of methods which have handler registered.
func (d *Dispatcher) Methods() []string {
	m := make([]string, 0, len(d.handlers))
	for k := range d.handlers {
		m = append(m, k)
	}
	sort.Strings(m)
	return m
}
