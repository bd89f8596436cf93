package router

import (
	"fmt"
	"strings"

	"github.com/Bhaumik0/Live-rocket/core/http"
	"github.com/Bhaumik0/Live-rocket/core/middleware"
)

// HandlerFunc handles one request: it reads the request context, mutates
// the response context in place and returns when the response is ready.
type HandlerFunc func(req *http.Request, resp *http.Response, params Params)

// Route binds a path template and method to a handler and its middleware
// chain. Routes are immutable after registration.
type Route struct {
	Pattern     string
	Method      string
	Handler     HandlerFunc
	Middlewares *middleware.Pipeline

	compiled *Pattern
	name     string
	table    *Table
}

// Named registers the route under a name for reverse routing and returns
// the route for chaining.
func (r *Route) Named(name string) *Route {
	r.name = name
	r.table.names[name] = r
	return r
}

// Table is the route index: exact-match routes keyed by path and method,
// plus pattern routes consulted in registration order. Registration happens
// at startup only; the table is read-only during dispatch, so lookups need
// no locking.
type Table struct {
	static  map[string]map[string]*Route
	dynamic []*Route
	names   map[string]*Route
}

// NewTable creates an empty route table.
func NewTable() *Table {
	return &Table{
		static: make(map[string]map[string]*Route),
		names:  make(map[string]*Route),
	}
}

// Add registers a route. Paths without placeholder syntax go into the
// exact-match index, where the last registration for a (path, method) pair
// wins. Paths with placeholders are compiled and appended to the ordered
// pattern list. An uncompilable pattern is a programming error and panics.
func (t *Table) Add(pattern, method string, handler HandlerFunc, mws ...middleware.HandlerFunc) *Route {
	route := &Route{
		Pattern:     pattern,
		Method:      method,
		Handler:     handler,
		Middlewares: middleware.NewPipeline(mws...),
		table:       t,
	}

	if strings.Contains(pattern, "<") && strings.Contains(pattern, ">") {
		compiled, err := Compile(pattern)
		if err != nil {
			panic(err)
		}
		route.compiled = compiled
		t.dynamic = append(t.dynamic, route)
		return route
	}

	if t.static[pattern] == nil {
		t.static[pattern] = make(map[string]*Route)
	}
	t.static[pattern][method] = route
	return route
}

// Find resolves a path and method to a route and its extracted parameters.
// The exact-match index is consulted first; pattern routes are then scanned
// in registration order, so an earlier overlapping pattern beats a later
// one.
func (t *Table) Find(path, method string) (*Route, Params, bool) {
	if methods, ok := t.static[path]; ok {
		if route, ok := methods[method]; ok {
			return route, Params{}, true
		}
	}

	for _, route := range t.dynamic {
		if route.Method != method {
			continue
		}
		if params, ok := route.compiled.Match(path); ok {
			return route, params, true
		}
	}

	return nil, nil, false
}

// URLFor builds the URL for a named route by substituting params into its
// template.
func (t *Table) URLFor(name string, params map[string]any) (string, error) {
	route, ok := t.names[name]
	if !ok {
		return "", fmt.Errorf("no route named %q", name)
	}
	return Reverse(route.Pattern, params), nil
}
