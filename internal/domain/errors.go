// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/exit codes
// by adapters.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	// A missing quote slot is fatal: it signals a defective dataset,
	// never a condition to paper over with an invented quote.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a state conflict such as a duplicate
	// history entry for a date.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrStorage indicates the backing document store failed on a read
	// or write that was not a simple "not found".
	ErrStorage = errors.New("storage failure")

	// ErrGeneration indicates the generative-text call failed: transport
	// error, timeout, or an unparseable response.
	ErrGeneration = errors.New("generation failed")

	// ErrDelivery indicates a per-recipient send failure. Delivery errors
	// are recovered locally; the batch continues.
	ErrDelivery = errors.New("delivery failed")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	Key    string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s with key %q not found", e.Entity, e.Key)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// DuplicateDateError reports an attempt to append a second history entry
// for the same calendar date. It converts a same-day race between two
// invocations into a clean failure for the second one.
type DuplicateDateError struct {
	Date time.Time
}

// Error implements the error interface.
func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("history entry for %s already exists", e.Date.Format(DateLayout))
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *DuplicateDateError) Unwrap() error {
	return ErrConflict
}

// NewDuplicateDateError creates a duplicate date error for the given date.
func NewDuplicateDateError(date time.Time) error {
	return &DuplicateDateError{Date: date}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// StorageError wraps a document store failure with the operation and key.
type StorageError struct {
	Op  string // "get" or "put"
	Key string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the sentinel and the cause for errors.Is() support.
func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// NewStorageError creates a storage error with context.
func NewStorageError(op, key string, err error) error {
	return &StorageError{Op: op, Key: key, Err: err}
}

// GenerationError wraps a generative-text call failure.
type GenerationError struct {
	Stage string // "call" or "parse"
	Err   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %v", e.Stage, e.Err)
}

// Unwrap returns the sentinel and the cause for errors.Is() support.
func (e *GenerationError) Unwrap() []error {
	return []error{ErrGeneration, e.Err}
}

// NewGenerationError creates a generation error with context.
func NewGenerationError(stage string, err error) error {
	return &GenerationError{Stage: stage, Err: err}
}

// DeliveryError wraps a single recipient's send failure.
type DeliveryError struct {
	Recipient string
	Err       error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s: %v", e.Recipient, e.Err)
}

// Unwrap returns the sentinel and the cause for errors.Is() support.
func (e *DeliveryError) Unwrap() []error {
	return []error{ErrDelivery, e.Err}
}

// NewDeliveryError creates a delivery error for one recipient.
func NewDeliveryError(recipient string, err error) error {
	return &DeliveryError{Recipient: recipient, Err: err}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsStorage checks if an error is a storage error.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsGeneration checks if an error is a generation error.
func IsGeneration(err error) bool {
	return errors.Is(err, ErrGeneration)
}

// IsDelivery checks if an error is a delivery error.
func IsDelivery(err error) bool {
	return errors.Is(err, ErrDelivery)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
