package router

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Params holds the typed path parameters extracted by a pattern match.
// Values are int for <int:..>, float64 for <float:..> and string for
// everything else.
type Params map[string]any

// String returns the parameter as a string, or "" when absent.
func (p Params) String(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the parameter as an int, or 0 when absent or not an int.
func (p Params) Int(key string) int {
	if v, ok := p[key].(int); ok {
		return v
	}
	return 0
}

// Float returns the parameter as a float64, or 0 when absent or not a float.
func (p Params) Float(key string) float64 {
	if v, ok := p[key].(float64); ok {
		return v
	}
	return 0
}

// placeholderRegexp recognizes <name> and <type:name> segments in a route
// template.
var placeholderRegexp = regexp.MustCompile(`<(?:([^:>]+):)?([^>]+)>`)

// subPatterns maps a placeholder type to its capturing sub-pattern. Unknown
// types fall back to the string sub-pattern.
var subPatterns = map[string]string{
	"string": `([^/]+)`,
	"int":    `(\d+)`,
	"float":  `(\d+\.?\d*)`,
	"path":   `(.+)`,
	"uuid":   `([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})`,
}

type paramSpec struct {
	name string
	kind string
}

// Pattern is a compiled route template. The matcher is anchored at both ends
// so a route never partially matches a longer path.
type Pattern struct {
	Template string
	re       *regexp.Regexp
	params   []paramSpec
}

// Compile converts a route template with zero or more <name> or <type:name>
// placeholders into an anchored matcher. Parameter names must be unique
// within one template.
func Compile(template string) (*Pattern, error) {
	p := &Pattern{Template: template}

	var src strings.Builder
	src.WriteByte('^')

	last := 0
	seen := make(map[string]bool)
	for _, loc := range placeholderRegexp.FindAllStringSubmatchIndex(template, -1) {
		src.WriteString(regexp.QuoteMeta(template[last:loc[0]]))
		last = loc[1]

		kind := "string"
		if loc[2] != -1 {
			kind = template[loc[2]:loc[3]]
		}
		name := template[loc[4]:loc[5]]
		if seen[name] {
			return nil, fmt.Errorf("duplicate parameter %q in pattern %q", name, template)
		}
		seen[name] = true

		sub, ok := subPatterns[kind]
		if !ok {
			sub = subPatterns["string"]
			kind = "string"
		}
		src.WriteString(sub)
		p.params = append(p.params, paramSpec{name: name, kind: kind})
	}
	src.WriteString(regexp.QuoteMeta(template[last:]))
	src.WriteByte('$')

	re, err := regexp.Compile(src.String())
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", template, err)
	}
	p.re = re
	return p, nil
}

// Match tests path against the compiled pattern and extracts typed
// parameters. Conversion failures are treated as no-match rather than
// propagated; the sub-patterns make them unlikely but not impossible
// (an int capture can still overflow).
func (p *Pattern) Match(path string) (Params, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}

	params := make(Params, len(p.params))
	for i, spec := range p.params {
		raw := m[i+1]
		switch spec.kind {
		case "int":
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, false
			}
			params[spec.name] = n
		case "float":
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, false
			}
			params[spec.name] = f
		case "uuid":
			if _, err := uuid.Parse(raw); err != nil {
				return nil, false
			}
			params[spec.name] = raw
		default:
			params[spec.name] = raw
		}
	}
	return params, true
}

// Reverse substitutes params into a route template, producing a concrete
// URL. Placeholders without a matching param are left untouched.
func Reverse(template string, params map[string]any) string {
	return placeholderRegexp.ReplaceAllStringFunc(template, func(ph string) string {
		m := placeholderRegexp.FindStringSubmatch(ph)
		if v, ok := params[m[2]]; ok {
			return fmt.Sprint(v)
		}
		return ph
	})
}
