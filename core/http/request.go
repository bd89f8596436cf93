package http

import "strings"

// Request is the parsed, per-connection request context. It is written once
// by the parser and treated as read-only afterwards, except for the values
// map which middleware may annotate.
type Request struct {
	Method   string
	Path     string
	Proto    string
	RawQuery string

	// Query holds decoded query parameters; a duplicated key keeps its
	// last-seen value.
	Query map[string]string

	// Headers holds request headers keyed by their normalized name
	// (upper-case, '-' replaced with '_').
	Headers map[string]string

	// Form holds the decoded body for application/x-www-form-urlencoded
	// requests. A field with a single value is a string, a repeated field
	// becomes a []string.
	Form map[string]any

	// JSON holds the decoded body for application/json requests. A
	// malformed JSON body decodes to an empty map rather than failing.
	JSON any

	// RawBody holds the body bytes for any other content type.
	RawBody []byte

	RemoteAddr string

	values map[string]any
}

// NormalizeHeader converts a header name to its internal lookup form:
// upper-case with '-' replaced by '_'.
func NormalizeHeader(name string) string {
	return strings.ReplaceAll(strings.ToUpper(name), "-", "_")
}

// Header looks up a request header by any casing of its name.
func (r *Request) Header(name string) string {
	return r.Headers[NormalizeHeader(name)]
}

// QueryParam returns a query parameter or def when absent.
func (r *Request) QueryParam(key, def string) string {
	if v, ok := r.Query[key]; ok {
		return v
	}
	return def
}

// FormValue returns a decoded form field or nil when absent.
func (r *Request) FormValue(key string) any {
	if r.Form == nil {
		return nil
	}
	return r.Form[key]
}

// Set annotates the request with a middleware-supplied value.
func (r *Request) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	r.values[key] = value
}

// Value returns an annotation previously stored with Set.
func (r *Request) Value(key string) any {
	if r.values == nil {
		return nil
	}
	return r.values[key]
}
