// Package fault defines the structured failure taxonomy shared by the
// topology and correlation engine packages. A Fault is a value, not a
// string: callers branch on Kind instead of parsing error text.
package fault

// Kind classifies an engine outcome. A correlation run returns
// InputValidation and InternalInvariant as a Go error, and UnknownRelay
// as well when strict unknown-relay handling is on; topology's Lookup
// also returns UnknownRelay as an error. BelowThreshold, Infeasible and
// lenient-mode UnknownRelay are recorded as audit outcomes and never
// propagate.
type Kind string

const (
	InputValidation   Kind = "input_validation"
	UnknownRelay      Kind = "unknown_relay"
	BelowThreshold    Kind = "below_threshold"
	Infeasible        Kind = "infeasible"
	InternalInvariant Kind = "internal_invariant"
)

// Fault is a structured failure record naming the kind and the
// offending identifier. It is never an opaque string.
type Fault struct {
	Kind   Kind
	Ident  string // the offending identifier (observation id, fingerprint, ...)
	Detail string
}

func (f *Fault) Error() string {
	if f.Ident == "" {
		return string(f.Kind) + ": " + f.Detail
	}
	return string(f.Kind) + " (" + f.Ident + "): " + f.Detail
}

func New(kind Kind, ident, detail string) *Fault {
	return &Fault{Kind: kind, Ident: ident, Detail: detail}
}
