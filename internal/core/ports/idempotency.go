package ports

import (
	"context"
	"time"
)

// StoredResponse is the captured outcome of an idempotent request.
type StoredResponse struct {
	InProgress  bool      `json:"in_progress"`
	BodySHA256  string    `json:"body_sha256"`
	StatusCode  int       `json:"status_code"`
	Body        []byte    `json:"body"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// IdempotencyStore records responses keyed by client-supplied idempotency keys.
type IdempotencyStore interface {
	// Reserve marks key as in progress. It returns false when the key already exists.
	Reserve(ctx context.Context, key, bodySHA256 string) (bool, error)
	// Load returns the current entry for key.
	Load(ctx context.Context, key string) (*StoredResponse, error)
	// Save stores the final response for key.
	Save(ctx context.Context, key string, resp StoredResponse) error
	// Release drops a reservation so the request may be retried.
	Release(ctx context.Context, key string) error
}
