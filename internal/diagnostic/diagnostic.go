// Package diagnostic implements the Diagnostic channel: severity-leveled
// records carrying a message and an optional Document+Reference, with at
// least textual emission.
package diagnostic

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cufyorg/jamplate-processor/internal/ref"
)

// Severity levels a Diagnostic carries.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// Diagnostic is one reported error/warning/info triple: severity, message,
// and an optional tree-or-reference location.
type Diagnostic struct {
	Severity  Severity
	Message   string
	Document  ref.Document
	Reference ref.Reference
	HasLoc    bool
}

// Sink accumulates Diagnostics across a Unit's actions. Safe for
// concurrent use by distinct Compilations driven by distinct owners —
// processing distinct Compilations in parallel is admissible.
type Sink struct {
	mu    sync.Mutex
	items []Diagnostic
}

// NewSink creates an empty Sink.
func NewSink() *Sink { return &Sink{} }

// Report records a Diagnostic with no location.
func (s *Sink) Report(severity Severity, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, Diagnostic{Severity: severity, Message: message})
}

// ReportAt records a Diagnostic located at doc/r.
func (s *Sink) ReportAt(severity Severity, message string, doc ref.Document, r ref.Reference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, Diagnostic{
		Severity: severity, Message: message,
		Document: doc, Reference: r, HasLoc: true,
	})
}

// Items returns a snapshot of every recorded Diagnostic, in report order.
func (s *Sink) Items() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

// HasErrors reports whether any Error-severity Diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Format renders d as "path:line:col: severity: message", or, with no
// location, "severity: message".
func Format(d Diagnostic) string {
	if !d.HasLoc || d.Document == nil {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	line, col, err := ref.LineColumn(d.Document, d.Reference.Position)
	if err != nil {
		return fmt.Sprintf("%s: %s: %s", d.Document.Name(), d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Document.Name(), line, col, d.Severity, d.Message)
}

// FormatAll renders every diagnostic in the sink, one per line order, most
// severe first.
func FormatAll(s *Sink) []string {
	items := s.Items()
	sort.SliceStable(items, func(i, j int) bool {
		return rank(items[i].Severity) < rank(items[j].Severity)
	})
	out := make([]string, len(items))
	for i, d := range items {
		out[i] = Format(d)
	}
	return out
}

func rank(s Severity) int {
	switch s {
	case Error:
		return 0
	case Warning:
		return 1
	default:
		return 2
	}
}
