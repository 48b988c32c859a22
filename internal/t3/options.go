package t3

import "fmt"

// ReasoningEffort is a caller-selectable hint influencing backend model behavior.
type ReasoningEffort string

const (
	ReasoningLow    ReasoningEffort = "low"
	ReasoningMedium ReasoningEffort = "medium"
	ReasoningHigh   ReasoningEffort = "high"
)

// ParseReasoningEffort parses a reasoning effort string.
func ParseReasoningEffort(s string) (ReasoningEffort, error) {
	switch ReasoningEffort(s) {
	case ReasoningLow, ReasoningMedium, ReasoningHigh:
		return ReasoningEffort(s), nil
	default:
		return "", &ValidationError{Field: "reasoning_effort", Reason: fmt.Sprintf("must be one of low, medium, high (got %q)", s)}
	}
}

// Options holds the per-request configuration. Values are immutable per
// request; use the With* methods to derive a modified copy.
type Options struct {
	ReasoningEffort ReasoningEffort
	IncludeSearch   bool
}

// NewOptions returns Options with default values (low reasoning effort,
// search disabled).
func NewOptions() Options {
	return Options{
		ReasoningEffort: ReasoningLow,
		IncludeSearch:   false,
	}
}

// WithReasoningEffort returns a copy of the options with the given reasoning effort.
func (o Options) WithReasoningEffort(effort ReasoningEffort) Options {
	o.ReasoningEffort = effort
	return o
}

// WithSearch returns a copy of the options with web search enabled or disabled.
func (o Options) WithSearch(enabled bool) Options {
	o.IncludeSearch = enabled
	return o
}
