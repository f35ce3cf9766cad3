package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Use errors.Is against these to classify a failure.
var (
	ErrTypeMismatch                  = errors.New("type mismatch")
	ErrPortOutOfBounds               = errors.New("port out of bounds")
	ErrVoltageOutOfBounds            = errors.New("voltage out of bounds")
	ErrCorrectionOutOfBounds         = errors.New("correction out of bounds")
	ErrDegenerateCorrection          = errors.New("degenerate correction")
	ErrLengthTooShort                = errors.New("length too short")
	ErrInvalidFrequency              = errors.New("invalid frequency")
	ErrForbiddenPortKeysetChange     = errors.New("forbidden port keyset change")
	ErrDuplicatePortAssignment       = errors.New("duplicate port assignment")
	ErrForbiddenPulseKindChange      = errors.New("forbidden pulse kind change")
	ErrForbiddenWaveformKeysetChange = errors.New("forbidden waveform keyset change")
	ErrInvalidPortKeyset             = errors.New("invalid port keyset")
	ErrWaveformKeysetMismatch        = errors.New("waveform keyset mismatch")
	ErrSampleCountMismatch           = errors.New("sample count mismatch")
	ErrInvalidName                   = errors.New("invalid name")
)

// Error describes a single rejected value.
type Error struct {
	Kind    error  // one of the Err* sentinels
	Subject string // what was validated, e.g. "qubit.ports.I"
	Value   any    // the offending value
	Bound   string // the violated bound or rule, e.g. "[1, 10]"
}

// New creates a validation error of the given kind.
func New(kind error, subject string, value any, bound string) *Error {
	return &Error{Kind: kind, Subject: subject, Value: value, Bound: bound}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	if e.Subject != "" {
		sb.WriteString(e.Subject)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.Error())
	if e.Value != nil {
		fmt.Fprintf(&sb, ": got %v", e.Value)
	}
	if e.Bound != "" {
		fmt.Fprintf(&sb, " (want %s)", e.Bound)
	}
	return sb.String()
}

// Unwrap exposes the kind so errors.Is works with the sentinels.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Annotate fills in the subject of a validation error that does not carry
// one yet. Other errors are returned unchanged.
func Annotate(err error, subject string) error {
	var vErr *Error
	if errors.As(err, &vErr) && vErr.Subject == "" {
		vErr.Subject = subject
	}
	return err
}
