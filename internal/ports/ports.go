// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrStorage, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
)

// DocumentStore is a minimal key/value blob store. The quote dataset, the
// recipient list, and the history document all live behind this interface,
// letting tests substitute an in-memory fake and deployments pick an
// embedded or remote store.
type DocumentStore interface {
	// Get retrieves the document stored under key.
	// Returns domain.ErrNotFound if no document exists; any other failure
	// is a domain.StorageError.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores the document under key, replacing any existing content
	// as a whole-document overwrite. Visibility to concurrent readers is
	// only as strong as the backing store's own consistency.
	Put(ctx context.Context, key string, value []byte) error
}

// TextGenerator is the generative-text service behind the reflection
// pipeline. Implementations must honor the budget's timeout and token
// ceiling and must not retry internally: the caller treats any failure
// as terminal for the invocation.
type TextGenerator interface {
	// Generate returns the raw response text for the prompt.
	// Returns a domain.GenerationError on transport failure, non-success
	// status, or timeout.
	Generate(ctx context.Context, prompt string, budget domain.Budget) (string, error)
}

// Mailer delivers a single message to a single recipient. The pipeline
// calls it once per recipient inside a simple loop; the interface does
// not preclude a future worker-pool implementation.
type Mailer interface {
	// Send delivers the message or returns a domain.DeliveryError.
	Send(ctx context.Context, email domain.Email) error
}
