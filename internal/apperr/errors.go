package apperr

import "fmt"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func NewNotFound(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// ProviderKind classifies why a model client call failed.
type ProviderKind string

const (
	ProviderUnauthorized      ProviderKind = "unauthorized"
	ProviderRateLimited       ProviderKind = "rate_limited"
	ProviderTimeout           ProviderKind = "timeout"
	ProviderUnreachable       ProviderKind = "unreachable"
	ProviderMalformedResponse ProviderKind = "malformed_response"
)

// ProviderError is a model client failure. It is recorded per evaluation,
// never retried automatically and never aborts a batch.
type ProviderError struct {
	Kind     ProviderKind
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProvider(kind ProviderKind, provider, msg string) *ProviderError {
	return &ProviderError{Kind: kind, Provider: provider, Message: msg}
}

func NewProviderWrap(kind ProviderKind, provider, msg string, err error) *ProviderError {
	return &ProviderError{Kind: kind, Provider: provider, Message: msg, Err: err}
}

// PersistenceError wraps a durability failure that happened after an
// otherwise successful evaluation. The in-memory result is still valid.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence failed: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistence(err error) *PersistenceError {
	return &PersistenceError{Err: err}
}
