package agent

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a missing or malformed setting detected by Initialize.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

var (
	// ErrInvalidAmount is returned for non-positive, non-finite or sub-lamport amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountNotAllowed is returned when a trade exceeds the configured cap.
	ErrAmountNotAllowed = errors.New("amount exceeds per-trade limit")
	// ErrNoAnalyst is returned by Analyze when no model backend is configured.
	ErrNoAnalyst = errors.New("no analyst configured")
)

// Kind classifies why an operation produced no value.
type Kind int

const (
	KindNone         Kind = iota
	KindInvalidInput      // bad mint or amount, nothing was sent
	KindRejected          // refused locally by a guard-rail
	KindCollaborator      // toolkit, RPC or network failure
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidInput:
		return "invalid_input"
	case KindRejected:
		return "rejected"
	case KindCollaborator:
		return "collaborator"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Result is either a value or an error tagged with its Kind.
type Result[T any] struct {
	Value T
	Err   error
	Kind  Kind
}

// OK reports whether the operation produced a value.
func (r Result[T]) OK() bool { return r.Err == nil }

// Get returns the value and whether it is valid; callers that only care about presence use this.
func (r Result[T]) Get() (T, bool) { return r.Value, r.Err == nil }

func succeed[T any](v T) Result[T] { return Result[T]{Value: v} }

func fail[T any](kind Kind, err error) Result[T] { return Result[T]{Err: err, Kind: kind} }
