package http

import (
	"fmt"
	"strconv"
	"strings"
)

// Header is one name/value pair in a response's ordered header sequence.
type Header struct {
	Name  string
	Value string
}

// Response is the mutable response context handed to handlers. It stays
// mutable until Bytes serializes it; serialization itself never mutates, so
// repeated calls produce identical output.
type Response struct {
	// Status is the full status line suffix, e.g. "200 OK".
	Status string

	// Body is written verbatim after the header block.
	Body []byte

	headers []Header
}

// NewResponse returns a response with the framework defaults: a handler
// that never touches it yields a plain-text 404, same as the original
// framework's fallback.
func NewResponse() *Response {
	return &Response{
		Status:  "404 Not Found",
		Body:    []byte("Route not Found"),
		headers: []Header{{Name: "Content-Type", Value: "text/plain"}},
	}
}

// Send sets the body and status in one call.
func (r *Response) Send(text, status string) {
	r.Body = []byte(text)
	r.Status = status
}

// SendCode is Send with a bare integer status. The code is normalized by
// appending " OK", so callers wanting a proper reason phrase should use
// Send instead.
func (r *Response) SendCode(text string, code int) {
	r.Send(text, fmt.Sprintf("%d OK", code))
}

// SetHeader appends a header pair; duplicates are allowed and emitted in
// order.
func (r *Response) SetHeader(name, value string) {
	r.headers = append(r.headers, Header{Name: name, Value: value})
}

// SetContentType replaces any existing Content-Type header, or appends one;
// the last assignment wins.
func (r *Response) SetContentType(contentType string) {
	for i := range r.headers {
		if strings.EqualFold(r.headers[i].Name, "Content-Type") {
			r.headers[i].Value = contentType
			return
		}
	}
	r.SetHeader("Content-Type", contentType)
}

// Headers returns the ordered header sequence.
func (r *Response) Headers() []Header {
	return r.headers
}

// HTML sets an HTML body with a 200 status.
func (r *Response) HTML(body string) {
	r.SetContentType("text/html")
	r.Body = []byte(body)
	r.Status = "200 OK"
}

// Redirect points the client at location with a 302, or 301 when permanent.
func (r *Response) Redirect(location string, permanent bool) {
	if permanent {
		r.Status = "301 Moved Permanently"
	} else {
		r.Status = "302 Found"
	}
	r.headers = []Header{{Name: "Location", Value: location}}
	r.Body = []byte("Redirecting to " + location)
}

// Bytes serializes the response into the exact wire form: status line,
// headers in order, an inferred Content-Length when none was supplied, an
// unconditional Connection: close, a blank line, then the body.
func (r *Response) Bytes() []byte {
	var b strings.Builder
	b.WriteString("HTTP/1.1 ")
	b.WriteString(r.Status)
	b.WriteString("\r\n")

	hasContentLength := false
	for _, h := range r.headers {
		if strings.EqualFold(h.Name, "Content-Length") {
			hasContentLength = true
		}
		b.WriteString(h.Name)
		b.WriteString(": ")
		b.WriteString(h.Value)
		b.WriteString("\r\n")
	}

	if !hasContentLength {
		b.WriteString("Content-Length: ")
		b.WriteString(strconv.Itoa(len(r.Body)))
		b.WriteString("\r\n")
	}
	b.WriteString("Connection: close\r\n\r\n")

	out := make([]byte, 0, b.Len()+len(r.Body))
	out = append(out, b.String()...)
	out = append(out, r.Body...)
	return out
}

var statusTexts = map[int]string{
	400: "Bad Request",
	404: "Not Found",
	500: "Internal Server Error",
}

// ErrorBytes builds a complete error response: always text/html with a
// small HTML body naming the status and the message, framed by the same
// rules as Bytes.
func ErrorBytes(code int, message string) []byte {
	text, ok := statusTexts[code]
	if !ok {
		text = "Error"
	}

	resp := &Response{
		Status:  fmt.Sprintf("%d %s", code, text),
		Body:    []byte(fmt.Sprintf("<h1>%d %s</h1><p>%s</p>", code, text, message)),
		headers: []Header{{Name: "Content-Type", Value: "text/html"}},
	}
	return resp.Bytes()
}
