package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/net/netutil"
	"golang.org/x/sys/unix"

	"github.com/Bhaumik0/Live-rocket/core/http"
	"github.com/Bhaumik0/Live-rocket/core/middleware"
	"github.com/Bhaumik0/Live-rocket/core/pools"
	"github.com/Bhaumik0/Live-rocket/core/router"
)

// HandlerFunc is the route handler signature.
type HandlerFunc = router.HandlerFunc

// ErrRequestTooLarge reports a request exceeding the engine's size cap.
var ErrRequestTooLarge = errors.New("request too large")

// Engine owns the route table, the global middleware chain and the accept
// loop. Each accepted connection is served by its own goroutine: one
// request is read, dispatched through parsing, middleware, routing and the
// handler, then the serialized response is written and the connection
// closed.
type Engine struct {
	// Knobs, set before Run.
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxConns        int
	MaxRequestBytes int

	routes  *router.Table
	global  *middleware.Pipeline
	bufPool *pools.BufferPool

	mu sync.Mutex
	ln net.Listener
}

// NewEngine creates an engine with default timeouts and limits.
func NewEngine() *Engine {
	return &Engine{
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		MaxConns:        1024,
		MaxRequestBytes: 1 << 20,
		routes:          router.NewTable(),
		global:          middleware.NewPipeline(),
		bufPool:         pools.NewBufferPool(pools.DefaultBufferSize),
	}
}

// Use appends middlewares to the global chain, run before route resolution
// on every request.
func (e *Engine) Use(mws ...middleware.HandlerFunc) {
	for _, mw := range mws {
		e.global.Use(mw)
	}
}

// Handle registers a route for an explicit method.
func (e *Engine) Handle(method, path string, handler HandlerFunc, mws ...middleware.HandlerFunc) *router.Route {
	return e.routes.Add(path, method, handler, mws...)
}

// GET registers a GET route.
func (e *Engine) GET(path string, handler HandlerFunc, mws ...middleware.HandlerFunc) *router.Route {
	return e.Handle("GET", path, handler, mws...)
}

// POST registers a POST route.
func (e *Engine) POST(path string, handler HandlerFunc, mws ...middleware.HandlerFunc) *router.Route {
	return e.Handle("POST", path, handler, mws...)
}

// PUT registers a PUT route.
func (e *Engine) PUT(path string, handler HandlerFunc, mws ...middleware.HandlerFunc) *router.Route {
	return e.Handle("PUT", path, handler, mws...)
}

// DELETE registers a DELETE route.
func (e *Engine) DELETE(path string, handler HandlerFunc, mws ...middleware.HandlerFunc) *router.Route {
	return e.Handle("DELETE", path, handler, mws...)
}

// PATCH registers a PATCH route.
func (e *Engine) PATCH(path string, handler HandlerFunc, mws ...middleware.HandlerFunc) *router.Route {
	return e.Handle("PATCH", path, handler, mws...)
}

// Resource groups verb handlers for one path. Mount registers each non-nil
// handler individually; the engine never inspects handler internals.
type Resource struct {
	Get    HandlerFunc
	Post   HandlerFunc
	Put    HandlerFunc
	Delete HandlerFunc
	Patch  HandlerFunc
}

// Mount registers every handler a resource defines under the same path and
// middleware chain.
func (e *Engine) Mount(path string, res Resource, mws ...middleware.HandlerFunc) {
	register := func(method string, h HandlerFunc) {
		if h != nil {
			e.Handle(method, path, h, mws...)
		}
	}
	register("GET", res.Get)
	register("POST", res.Post)
	register("PUT", res.Put)
	register("DELETE", res.Delete)
	register("PATCH", res.Patch)
}

// URLFor builds the URL for a named route.
func (e *Engine) URLFor(name string, params map[string]any) (string, error) {
	return e.routes.URLFor(name, params)
}

// Run binds addr and serves until the listener is closed. The socket is
// opened with SO_REUSEADDR and, when MaxConns is positive, wrapped in a
// limit listener that caps concurrent connections.
func (e *Engine) Run(addr string) error {
	lc := net.ListenConfig{Control: reuseAddr}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}

	if e.MaxConns > 0 {
		ln = netutil.LimitListener(ln, e.MaxConns)
	}

	log.Printf("🚀 Live Rocket listening on %s (max %d connections)", addr, e.MaxConns)
	return e.Serve(ln)
}

// Serve accepts connections from ln, dispatching each to its own
// goroutine. It returns nil once the listener is closed.
func (e *Engine) Serve(ln net.Listener) error {
	e.mu.Lock()
	e.ln = ln
	e.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go e.handleConn(conn)
	}
}

// Close shuts the listening socket, unblocking Serve. In-flight connection
// handlers finish naturally.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ln == nil {
		return nil
	}
	return e.ln.Close()
}

// handleConn serves exactly one request on conn. Every per-request failure
// becomes a best-effort HTTP response; nothing propagates out of the
// goroutine.
func (e *Engine) handleConn(conn net.Conn) {
	defer conn.Close()

	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}
	if e.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(e.ReadTimeout))
	}

	data, err := e.readRequest(conn)
	if len(data) == 0 {
		return
	}

	var out []byte
	if err != nil {
		log.Printf("read %s: %v", conn.RemoteAddr(), err)
		out = http.ErrorBytes(500, err.Error())
	} else {
		req, perr := http.ParseRequest(data)
		if perr != nil {
			out = http.ErrorBytes(500, perr.Error())
		} else {
			req.RemoteAddr = conn.RemoteAddr().String()
			out = e.dispatch(req)
		}
	}

	if e.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(e.WriteTimeout))
	}
	if _, werr := conn.Write(out); werr != nil {
		log.Printf("write %s: %v", conn.RemoteAddr(), werr)
	}
}

// dispatch runs the request pipeline: global middleware, route resolution,
// route middleware, then the handler against a fresh response context. A
// panicking handler is converted into a 500 carrying the panic message.
func (e *Engine) dispatch(req *http.Request) (out []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("handler panic on %s %s: %v", req.Method, req.Path, r)
			out = http.ErrorBytes(500, fmt.Sprint(r))
		}
	}()

	e.global.Run(req)

	route, params, ok := e.routes.Find(req.Path, req.Method)
	if !ok {
		return http.ErrorBytes(404, "Route not found")
	}

	route.Middlewares.Run(req)

	resp := http.NewResponse()
	route.Handler(req, resp, params)
	return resp.Bytes()
}

// readRequest reads from conn until the header block is complete and the
// declared Content-Length bytes of body have arrived, or the peer closes.
// The whole request is bounded by MaxRequestBytes.
func (e *Engine) readRequest(conn net.Conn) ([]byte, error) {
	chunk := e.bufPool.Get()
	defer e.bufPool.Put(chunk)

	var data []byte
	for {
		n, err := conn.Read(chunk)
		data = append(data, chunk[:n]...)

		if end := bytes.Index(data, []byte("\r\n\r\n")); end != -1 {
			want := contentLength(data[:end])
			if len(data) >= end+4+want {
				return data, nil
			}
		}

		if err != nil {
			if err == io.EOF {
				return data, nil
			}
			return data, err
		}
		if e.MaxRequestBytes > 0 && len(data) > e.MaxRequestBytes {
			return data, ErrRequestTooLarge
		}
	}
}

// contentLength extracts the Content-Length value from a raw header block,
// or 0 when absent or unparseable.
func contentLength(header []byte) int {
	for _, line := range bytes.Split(header, []byte("\r\n")) {
		name, value, ok := bytes.Cut(line, []byte(":"))
		if !ok {
			continue
		}
		if strings.EqualFold(string(bytes.TrimSpace(name)), "Content-Length") {
			n, err := strconv.Atoi(string(bytes.TrimSpace(value)))
			if err != nil || n < 0 {
				return 0
			}
			return n
		}
	}
	return 0
}

// reuseAddr sets SO_REUSEADDR on the listening socket before bind so a
// restarted server can rebind immediately.
func reuseAddr(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
