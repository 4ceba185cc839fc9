// Package diagnostic defines the structured diagnostic values emitted by
// every pass of the ZULON compiler core. Diagnostics carry enough
// structure (severity, spans, notes, suggestions, a stable code) for an
// external renderer to print them with source context; this package does
// not render anything itself.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/RunningShrimp/zulon-language-sub001/internal/position"
)

// Severity is how seriously a diagnostic should be treated.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
	Help
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	case Help:
		return "help"
	default:
		return "unknown"
	}
}

// Label is a secondary span with its own explanatory message.
type Label struct {
	Span    position.Span
	Message string
}

// Suggestion proposes a concrete text replacement for a diagnostic.
type Suggestion struct {
	Message         string
	ReplacementSpan position.Span
	ReplacementText string
}

// Diagnostic is one structured message produced by a pass.
type Diagnostic struct {
	Severity    Severity
	Message     string
	PrimarySpan position.Span
	Labels      []Label
	Notes       []string
	Suggestions []Suggestion
	Code        string // stable code, e.g. "E0308"; empty if none applies
}

func (d Diagnostic) String() string {
	var b strings.Builder

	if d.Code != "" {
		fmt.Fprintf(&b, "%s[%s]: %s", d.Severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s", d.Severity, d.Message)
	}

	fmt.Fprintf(&b, " (%s)", d.PrimarySpan)

	for _, l := range d.Labels {
		fmt.Fprintf(&b, "\n  - %s: %s", l.Span, l.Message)
	}

	for _, n := range d.Notes {
		fmt.Fprintf(&b, "\n  note: %s", n)
	}

	return b.String()
}

// Builder constructs a Diagnostic with a fluent API, matching the shape
// a caller building up a multi-part error message expects.
type Builder struct {
	d Diagnostic
}

func New(severity Severity, message string, span position.Span) *Builder {
	return &Builder{d: Diagnostic{Severity: severity, Message: message, PrimarySpan: span}}
}

func (b *Builder) WithCode(code string) *Builder {
	b.d.Code = code
	return b
}

func (b *Builder) WithLabel(span position.Span, message string) *Builder {
	b.d.Labels = append(b.d.Labels, Label{Span: span, Message: message})
	return b
}

func (b *Builder) WithNote(note string) *Builder {
	b.d.Notes = append(b.d.Notes, note)
	return b
}

func (b *Builder) WithSuggestion(message string, span position.Span, replacement string) *Builder {
	b.d.Suggestions = append(b.d.Suggestions, Suggestion{
		Message:         message,
		ReplacementSpan: span,
		ReplacementText: replacement,
	})

	return b
}

func (b *Builder) Build() Diagnostic { return b.d }

// Bag is the ordered buffer a caller hands a pass to accumulate
// diagnostics into (§5: "Diagnostics are emitted into an ordered buffer
// provided by the caller").
type Bag struct {
	items []Diagnostic
}

// NewBag creates an empty diagnostic bag.
func NewBag() *Bag { return &Bag{} }

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

// Errorf is a convenience for the common case of an unlabeled error.
func (b *Bag) Errorf(span position.Span, code, format string, args ...interface{}) {
	b.Add(Diagnostic{Severity: Error, Message: fmt.Sprintf(format, args...), PrimarySpan: span, Code: code})
}

// Warnf is a convenience for the common case of an unlabeled warning.
func (b *Bag) Warnf(span position.Span, format string, args ...interface{}) {
	b.Add(Diagnostic{Severity: Warning, Message: fmt.Sprintf(format, args...), PrimarySpan: span})
}

// Extend appends every diagnostic from other into b, preserving order.
func (b *Bag) Extend(other *Bag) {
	if other == nil {
		return
	}

	b.items = append(b.items, other.items...)
}

// Items returns the accumulated diagnostics in emission order.
func (b *Bag) Items() []Diagnostic { return b.items }

// HasErrors reports whether any error-severity diagnostic was recorded.
// Per §7: "exits with a non-zero code iff any error-severity diagnostic
// was emitted. Warnings do not fail the build."
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}

	return false
}

// Len returns the number of diagnostics in the bag.
func (b *Bag) Len() int { return len(b.items) }
