// Package ctl implements C8: the control channel. An iteratee may emit a
// typed control request (Size, Seek, Tell, GetSocket, or a custom tag)
// that travels outward through any number of enclosing enumerators
// until one that registers a matching handler answers it, or the
// request reaches the top unanswered. Requests are synchronous — the
// iteratee blocks on the reply.
package ctl

import "reflect"

// Request is a type-erased control request. Concrete request types
// (Size{}, Seek{...}, Tell{}, GetSocket{}, or a caller-defined tag)
// simply need to be comparable-by-type; dispatch keys on reflect.Type
// the way a runtime type tag would in a systems language without sum
// types (§9 REDESIGN FLAGS).
type Request any

// Response is whatever a handler replies with. When no handler in the
// chain understands the request, Dispatch reports (nil, false).
type Response any

// Size asks the nearest enumerator that knows its own length for it.
type Size struct{}

// Seek asks to reposition the stream; the handling enumerator flushes
// any residual input it was holding before honoring the seek.
type Seek struct{ Offset int64 }

// Tell asks for the current stream position.
type Tell struct{}

// GetSocket asks for the underlying net.Conn/socket handle, if any.
type GetSocket struct{}

// Handler answers one request type. It returns (response, true) if it
// recognizes the request, or (nil, false) to let it pass through
// untouched to the next handler in the chain.
type Handler func(Request) (Response, bool)

// Chain is an enumerator's ordered list of handlers — registration
// order is precedence order: the first handler that recognizes the
// request wins.
type Chain struct {
	handlers []Handler
}

// Register appends h to the chain.
func (c *Chain) Register(h Handler) { c.handlers = append(c.handlers, h) }

// Dispatch runs req through the chain, returning the first matching
// response, or (nil, false) if nothing recognized it (the caller
// should keep propagating outward, or deliver the top-level
// "no handler" reply if this was the last enumerator).
func (c *Chain) Dispatch(req Request) (Response, bool) {
	for _, h := range c.handlers {
		if resp, ok := h(req); ok {
			return resp, ok
		}
	}
	return nil, false
}

// Forward registers next as a fallback for c: a request that none of
// c's own handlers recognize is tried against next before c.Dispatch
// gives up. This is how a request travels outward through a fused
// pipeline per §4.7 — each stage forwards to the next enclosing one
// instead of only answering for itself.
func (c *Chain) Forward(next *Chain) {
	if next == nil {
		return
	}
	c.Register(next.Dispatch)
}

// TypeTag returns a comparable key for req's concrete type, for
// handlers that want to dispatch on type rather than a type-switch —
// mirroring the "TypeId on both request and response" recommendation
// in §9.
func TypeTag(req Request) reflect.Type { return reflect.TypeOf(req) }

// HandleSize returns a Handler that answers Size{} with size, passing
// everything else through.
func HandleSize(size int64) Handler {
	return func(req Request) (Response, bool) {
		if _, ok := req.(Size); ok {
			return size, true
		}
		return nil, false
	}
}

// HandleTell returns a Handler that answers Tell{} with pos.
func HandleTell(pos func() int64) Handler {
	return func(req Request) (Response, bool) {
		if _, ok := req.(Tell); ok {
			return pos(), true
		}
		return nil, false
	}
}

// HandleSeek returns a Handler that answers Seek by calling seek and,
// per the §4.7 rule, flushing residual input (flush is invoked before
// seek runs, since whatever was buffered downstream of the seek point
// is no longer valid).
func HandleSeek(flush func(), seek func(offset int64) error) Handler {
	return func(req Request) (Response, bool) {
		s, ok := req.(Seek)
		if !ok {
			return nil, false
		}
		flush()
		return seek(s.Offset), true
	}
}
