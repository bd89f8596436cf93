package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidRequest reports a request line or header block that could
	// not be parsed.
	ErrInvalidRequest = errors.New("invalid HTTP request")
)

// ParseRequest converts the raw bytes of one complete HTTP/1.1 request into
// a Request. The buffer is expected to contain the whole request including
// the body; the connection handler is responsible for reading it fully.
func ParseRequest(data []byte) (*Request, error) {
	lines := strings.Split(string(data), "\r\n")

	parts := strings.SplitN(lines[0], " ", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: bad request line %q", ErrInvalidRequest, lines[0])
	}

	req := &Request{
		Method: parts[0],
		Proto:  parts[2],
	}

	target := parts[1]
	if i := strings.Index(target, "?"); i != -1 {
		req.RawQuery = target[i+1:]
		target = target[:i]
	}

	path, err := url.PathUnescape(target)
	if err != nil {
		return nil, fmt.Errorf("%w: bad path %q", ErrInvalidRequest, target)
	}
	req.Path = path

	// Header lines run until the first empty line. Lines without a colon
	// are skipped rather than rejected.
	req.Headers = make(map[string]string)
	i := 1
	for ; i < len(lines) && lines[i] != ""; i++ {
		name, value, ok := strings.Cut(lines[i], ":")
		if !ok {
			continue
		}
		req.Headers[NormalizeHeader(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}

	// Everything after the blank line is the body, rejoined with CRLF.
	var body string
	if i+1 < len(lines) {
		body = strings.Join(lines[i+1:], "\r\n")
	}
	decodeBody(req, body)

	if req.RawQuery != "" {
		req.Query = parseQuery(req.RawQuery)
	} else {
		req.Query = make(map[string]string)
	}

	return req, nil
}

// decodeBody interprets the body according to Content-Type. Form bodies
// decode to a map whose repeated fields become slices; JSON bodies decode to
// any JSON value, with malformed JSON deliberately swallowed into an empty
// map; anything else is kept as raw bytes.
func decodeBody(req *Request, body string) {
	if body == "" {
		return
	}

	ct := req.Headers["CONTENT_TYPE"]
	switch {
	case strings.Contains(ct, "application/x-www-form-urlencoded"):
		values, _ := url.ParseQuery(body)
		req.Form = make(map[string]any, len(values))
		for key, vals := range values {
			if len(vals) == 1 {
				req.Form[key] = vals[0]
			} else {
				req.Form[key] = vals
			}
		}
	case strings.Contains(ct, "application/json"):
		if err := json.Unmarshal([]byte(body), &req.JSON); err != nil {
			req.JSON = map[string]any{}
		}
	default:
		req.RawBody = []byte(body)
	}
}

// parseQuery decodes a raw query string; a key that appears more than once
// keeps its last value, and pairs with a blank value are dropped entirely.
// Pairs that fail to unescape keep their raw form.
func parseQuery(rawQuery string) map[string]string {
	query := make(map[string]string)
	for _, pair := range strings.Split(rawQuery, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if value == "" {
			continue
		}
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		query[key] = value
	}
	return query
}
