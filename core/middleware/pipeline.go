package middleware

import (
	"log"

	"github.com/google/uuid"

	"github.com/Bhaumik0/Live-rocket/core/http"
)

// HandlerFunc is one middleware step. It runs against the mutable request
// before the route handler and may annotate it, but never produces the
// response itself.
type HandlerFunc func(*http.Request)

// Pipeline is an ordered middleware chain.
type Pipeline struct {
	handlers []HandlerFunc
}

// NewPipeline creates a pipeline seeded with the given middlewares.
func NewPipeline(handlers ...HandlerFunc) *Pipeline {
	return &Pipeline{handlers: handlers}
}

// Use appends a middleware to the pipeline.
func (p *Pipeline) Use(handler HandlerFunc) *Pipeline {
	p.handlers = append(p.handlers, handler)
	return p
}

// Len reports the number of registered middlewares.
func (p *Pipeline) Len() int {
	return len(p.handlers)
}

// Run executes every middleware in registration order.
func (p *Pipeline) Run(req *http.Request) {
	for _, h := range p.handlers {
		h(req)
	}
}

// Common middleware implementations

// Logger logs the method and path of each request.
func Logger() HandlerFunc {
	return func(req *http.Request) {
		log.Printf("[%s] %s", req.Method, req.Path)
	}
}

// RequestID annotates the request with a unique id under "request_id".
func RequestID() HandlerFunc {
	return func(req *http.Request) {
		req.Set("request_id", uuid.NewString())
	}
}
