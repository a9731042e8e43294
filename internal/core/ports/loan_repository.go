package ports

import (
	"context"

	"github.com/peerlend/loan-tracker/internal/core/domain"
)

// LoanRepository is the record store for loans. Each call is expected to be
// atomic; the service never interleaves calls on the same record.
type LoanRepository interface {
	Create(ctx context.Context, l *domain.Loan) error
	// FindByID returns domain.ErrLoanNotFound when no loan has the given id.
	FindByID(ctx context.Context, id string) (*domain.Loan, error)
	// List returns every loan. No ordering is guaranteed.
	List(ctx context.Context) ([]*domain.Loan, error)
	// Update replaces the stored record; domain.ErrLoanNotFound if absent.
	Update(ctx context.Context, l *domain.Loan) error
	// Delete removes the record and returns it; domain.ErrLoanNotFound if absent.
	Delete(ctx context.Context, id string) (*domain.Loan, error)
}
