package domain

import "fmt"

// ErrorKind classifies calculation failures so adapters can render a message
// for the offending field.
type ErrorKind string

const (
	KindInvalidInput          ErrorKind = "invalid_input"
	KindInvalidMargin         ErrorKind = "invalid_margin"
	KindUnresolvedLocation    ErrorKind = "unresolved_location"
	KindUnresolvedDistributor ErrorKind = "unresolved_distributor"
)

// Sentinel errors for errors.Is matching. Only the kind is compared.
var (
	ErrInvalidInput          = &CalculationError{Kind: KindInvalidInput}
	ErrInvalidMargin         = &CalculationError{Kind: KindInvalidMargin}
	ErrUnresolvedLocation    = &CalculationError{Kind: KindUnresolvedLocation}
	ErrUnresolvedDistributor = &CalculationError{Kind: KindUnresolvedDistributor}
)

// CalculationError represents errors raised by the sizing and financial engine
type CalculationError struct {
	Kind    ErrorKind
	Field   string
	Message string
	Cause   error
}

func (e *CalculationError) Error() string {
	msg := string(e.Kind)
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *CalculationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a CalculationError of the same kind.
func (e *CalculationError) Is(target error) bool {
	t, ok := target.(*CalculationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewInvalidInput builds an InvalidInput error for field.
func NewInvalidInput(field, format string, args ...any) *CalculationError {
	return &CalculationError{Kind: KindInvalidInput, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidMargin builds an InvalidMargin error.
func NewInvalidMargin(format string, args ...any) *CalculationError {
	return &CalculationError{Kind: KindInvalidMargin, Field: "margin", Message: fmt.Sprintf(format, args...)}
}

// Substitution records a documented fallback that replaced a missing value.
type Substitution struct {
	Field  string `json:"field" yaml:"field"`
	Value  string `json:"value" yaml:"value"`
	Reason string `json:"reason" yaml:"reason"`
}
