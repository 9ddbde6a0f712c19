package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure of the poverty classification run
type Kind string

const (
	// KindInvalidKey marks a family size or child count that is not a non-negative integer
	KindInvalidKey Kind = "invalid_key"
	// KindAmbiguousReferenceRow marks two reference rows that collapse onto one key
	KindAmbiguousReferenceRow Kind = "ambiguous_reference_row"
	// KindUnresolvedThreshold marks a key with neither an exact nor an extrapolated threshold
	KindUnresolvedThreshold Kind = "unresolved_threshold"
	// KindInvalidPriceIndex marks a zero, negative or non-finite deflator
	KindInvalidPriceIndex Kind = "invalid_price_index"
	// KindInvalidIncome marks a missing (NaN) income
	KindInvalidIncome Kind = "invalid_income"
	// KindInvalidInput marks an unreadable or malformed input table
	KindInvalidInput Kind = "invalid_input"
)

// RecordKinds lists the per-record kinds in reporting order
var RecordKinds = []Kind{
	KindInvalidKey,
	KindUnresolvedThreshold,
	KindInvalidPriceIndex,
	KindInvalidIncome,
}

// Error is the typed error carried through the classifier and loaders
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "unknown error"
	}
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Op != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Kind, e.Op, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
// This lets callers match against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Fatal reports whether the error must abort the whole run rather than
// exclude a single record.
func (e *Error) Fatal() bool {
	return e.Kind == KindAmbiguousReferenceRow || e.Kind == KindInvalidInput
}

// New creates an error of the given kind
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Newf creates an error of the given kind with a formatted message
func Newf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind around a cause
func Wrap(kind Kind, op string, cause error, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

// Sentinels for errors.Is matching
var (
	ErrInvalidKey            = New(KindInvalidKey, "", "invalid threshold key")
	ErrAmbiguousReferenceRow = New(KindAmbiguousReferenceRow, "", "ambiguous reference row")
	ErrUnresolvedThreshold   = New(KindUnresolvedThreshold, "", "unresolved threshold")
	ErrInvalidPriceIndex     = New(KindInvalidPriceIndex, "", "invalid price index")
	ErrInvalidIncome         = New(KindInvalidIncome, "", "invalid income")
	ErrInvalidInput          = New(KindInvalidInput, "", "invalid input")
)

// KindOf returns the kind of the first *Error in err's chain, or "" if none
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsFatal reports whether err carries a run-aborting kind
func IsFatal(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Fatal()
	}
	return false
}
