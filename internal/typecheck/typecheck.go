// Package typecheck validates typed #declare values against a compiled
// JSON Schema fragment.
package typecheck

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
)

// supportedMin/Max bound the @draft= pragma a schema fragment may declare
// on its first line, e.g. "@draft=v1.2.0". Absent a pragma, the fragment
// is assumed to target the newest supported draft.
const (
	supportedMin = "v1.0.0"
	supportedMax = "v1.999.0"
)

// Validator compiles and caches schema fragments by their raw source text,
// so a #declare inside a #for loop body is compiled once, not every
// iteration.
type Validator struct {
	mu    sync.Mutex
	cache map[string]*jsonschema.Schema
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{cache: map[string]*jsonschema.Schema{}}
}

// DraftError reports a schema fragment's @draft= pragma falling outside
// [supportedMin, supportedMax].
type DraftError struct {
	Draft string
}

func (e *DraftError) Error() string {
	return fmt.Sprintf("unsupported schema draft %q (supported %s..%s)", e.Draft, supportedMin, supportedMax)
}

// Compile parses raw — an optional "@draft=vX.Y.Z" pragma line followed by
// a JSON Schema object — returning the compiled Schema. Compiling the same
// raw text twice returns the cached Schema.
func (v *Validator) Compile(id, raw string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.cache[raw]; ok {
		return s, nil
	}

	body := raw
	if draft, rest, ok := stripDraftPragma(raw); ok {
		if semver.Compare(draft, supportedMin) < 0 || semver.Compare(draft, supportedMax) > 0 {
			return nil, &DraftError{Draft: draft}
		}
		body = rest
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(id, strings.NewReader(body)); err != nil {
		return nil, err
	}
	schema, err := compiler.Compile(id)
	if err != nil {
		return nil, err
	}
	v.cache[raw] = schema
	return schema, nil
}

// Validate checks val (already cast to its JSON-ish shape — map[string]any,
// []any, string, float64, bool, or nil) against schema.
func (v *Validator) Validate(schema *jsonschema.Schema, val interface{}) error {
	return schema.Validate(val)
}

func stripDraftPragma(raw string) (draft string, rest string, ok bool) {
	trimmed := strings.TrimLeft(raw, " \t\n")
	if !strings.HasPrefix(trimmed, "@draft=") {
		return "", raw, false
	}
	nl := strings.IndexByte(trimmed, '\n')
	if nl < 0 {
		return "", raw, false
	}
	line := strings.TrimSpace(trimmed[len("@draft="):nl])
	if !semver.IsValid(line) {
		return "", raw, false
	}
	return line, trimmed[nl+1:], true
}
