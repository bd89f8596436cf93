package http

import (
	"reflect"
	"testing"
)

// TestParseRequestLine tests method, path and protocol extraction
func TestParseRequestLine(t *testing.T) {
	req, err := ParseRequest([]byte("GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	if req.Method != "GET" {
		t.Errorf("Expected method GET, got %s", req.Method)
	}
	if req.Path != "/index.html" {
		t.Errorf("Expected path /index.html, got %s", req.Path)
	}
	if req.Proto != "HTTP/1.1" {
		t.Errorf("Expected proto HTTP/1.1, got %s", req.Proto)
	}
}

// TestParseMalformedRequestLine tests parse failure on bad request lines
func TestParseMalformedRequestLine(t *testing.T) {
	tests := []string{
		"",
		"GET\r\n\r\n",
		"GET /only-two\r\n\r\n",
	}

	for _, raw := range tests {
		if _, err := ParseRequest([]byte(raw)); err == nil {
			t.Errorf("Expected parse error for %q", raw)
		}
	}
}

// TestParsePathDecoding tests URL-decoding of the path component
func TestParsePathDecoding(t *testing.T) {
	req, err := ParseRequest([]byte("GET /files/my%20doc.txt HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Path != "/files/my doc.txt" {
		t.Errorf("Expected decoded path, got %s", req.Path)
	}
}

// TestParseQueryLastWins tests that duplicate query keys keep the last value
func TestParseQueryLastWins(t *testing.T) {
	req, err := ParseRequest([]byte("GET /search?q=first&lang=go&q=second HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	if req.RawQuery != "q=first&lang=go&q=second" {
		t.Errorf("Unexpected raw query %s", req.RawQuery)
	}
	if req.Query["q"] != "second" {
		t.Errorf("Expected q=second, got %s", req.Query["q"])
	}
	if req.Query["lang"] != "go" {
		t.Errorf("Expected lang=go, got %s", req.Query["lang"])
	}
	if req.Path != "/search" {
		t.Errorf("Expected path /search, got %s", req.Path)
	}
}

// TestParseQueryDropsBlankValues tests that bare keys and keys with an
// empty value are omitted from the query map
func TestParseQueryDropsBlankValues(t *testing.T) {
	req, err := ParseRequest([]byte("GET /search?flag&empty=&q=go HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	if _, ok := req.Query["flag"]; ok {
		t.Error("Bare key should be dropped")
	}
	if _, ok := req.Query["empty"]; ok {
		t.Error("Blank-valued key should be dropped")
	}
	if req.Query["q"] != "go" {
		t.Errorf("Expected q=go, got %q", req.Query["q"])
	}
}

// TestQueryParamDefault tests the query accessor and its fallback value
func TestQueryParamDefault(t *testing.T) {
	req, err := ParseRequest([]byte("GET /search?q=go HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	if got := req.QueryParam("q", "none"); got != "go" {
		t.Errorf("Expected go, got %q", got)
	}
	if got := req.QueryParam("missing", "none"); got != "none" {
		t.Errorf("Expected the default, got %q", got)
	}
}

// TestParseHeaderNormalization tests upper-case, underscore header keys
func TestParseHeaderNormalization(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nContent-Type: text/plain\r\nX-Custom-Header:  spaced  \r\nno-colon-line\r\n\r\n"
	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	if req.Headers["CONTENT_TYPE"] != "text/plain" {
		t.Errorf("Expected CONTENT_TYPE=text/plain, got %q", req.Headers["CONTENT_TYPE"])
	}
	if req.Headers["X_CUSTOM_HEADER"] != "spaced" {
		t.Errorf("Expected trimmed value, got %q", req.Headers["X_CUSTOM_HEADER"])
	}
	if req.Header("content-type") != "text/plain" {
		t.Error("Header lookup should normalize any casing")
	}
}

// TestParseFormBody tests form decoding: single values stay scalar,
// repeated fields become slices
func TestParseFormBody(t *testing.T) {
	body := "name=Ada&tag=a&tag=b"
	raw := "POST /submit HTTP/1.1\r\nContent-Type: application/x-www-form-urlencoded\r\n\r\n" + body
	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	if req.Form["name"] != "Ada" {
		t.Errorf("Expected name=Ada, got %v", req.Form["name"])
	}
	tags, ok := req.Form["tag"].([]string)
	if !ok {
		t.Fatalf("Expected tag to be []string, got %T", req.Form["tag"])
	}
	if !reflect.DeepEqual(tags, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", tags)
	}
}

// TestParseJSONBody tests JSON decoding
func TestParseJSONBody(t *testing.T) {
	raw := "POST /api HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{\"n\": 3, \"s\": \"x\"}"
	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	obj, ok := req.JSON.(map[string]any)
	if !ok {
		t.Fatalf("Expected JSON object, got %T", req.JSON)
	}
	if obj["n"] != float64(3) || obj["s"] != "x" {
		t.Errorf("Unexpected JSON body %v", obj)
	}
}

// TestParseMalformedJSONSwallowed tests that broken JSON becomes an empty
// map instead of an error
func TestParseMalformedJSONSwallowed(t *testing.T) {
	raw := "POST /api HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{broken"
	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	obj, ok := req.JSON.(map[string]any)
	if !ok || len(obj) != 0 {
		t.Errorf("Expected empty map for malformed JSON, got %v (%T)", req.JSON, req.JSON)
	}
}

// TestParseRawBody tests that unknown content types keep opaque bytes
func TestParseRawBody(t *testing.T) {
	raw := "POST /upload HTTP/1.1\r\nContent-Type: application/octet-stream\r\n\r\nbinary\r\npayload"
	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	if string(req.RawBody) != "binary\r\npayload" {
		t.Errorf("Expected body rejoined with CRLF, got %q", req.RawBody)
	}
	if req.Form != nil || req.JSON != nil {
		t.Error("Raw body should not populate Form or JSON")
	}
}

// TestRequestAnnotations tests middleware annotation storage
func TestRequestAnnotations(t *testing.T) {
	req := &Request{}
	if req.Value("missing") != nil {
		t.Error("Expected nil for unset annotation")
	}

	req.Set("request_id", "abc")
	if req.Value("request_id") != "abc" {
		t.Errorf("Expected abc, got %v", req.Value("request_id"))
	}
}
