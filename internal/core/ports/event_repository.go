package ports

import (
	"context"

	"github.com/peerlend/loan-tracker/internal/core/domain"
)

// LoanEventRepository persists the loan audit trail.
type LoanEventRepository interface {
	// InsertEvent appends an event to the audit collection.
	InsertEvent(ctx context.Context, event *domain.LoanEvent) error
}
