package engine

import (
	"errors"
	"strings"
)

// Error markers. Every failure surfaced by a pipeline carries exactly one of
// them so callers can pick the message shown to the user.
var (
	ErrConfig      = errors.New("configuration error")
	ErrInput       = errors.New("input error")
	ErrService     = errors.New("external service error")
	ErrUnsupported = errors.New("unsupported state")
)

// StageError tags a failure with the stage and operation that produced it.
type StageError struct {
	Marker    error
	Stage     string
	Operation string
	Message   string
	Err       error
}

// Wrap builds a StageError. A nil marker defaults to ErrService.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrService
	}
	return &StageError{
		Marker:    marker,
		Stage:     strings.TrimSpace(stage),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Err:       err,
	}
}

func (e *StageError) Error() string {
	parts := make([]string, 0, 4)
	parts = append(parts, e.Marker.Error())
	for _, p := range []string{e.Stage, e.Operation, e.Message} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	s := strings.Join(parts, ": ")
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both the marker and the cause to errors.Is / errors.As.
func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Marker}
	}
	return []error{e.Marker, e.Err}
}

// Kind returns the marker carried by err, or nil when err is untagged.
func Kind(err error) error {
	for _, m := range []error{ErrConfig, ErrInput, ErrUnsupported, ErrService} {
		if errors.Is(err, m) {
			return m
		}
	}
	return nil
}
