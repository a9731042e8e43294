package ports

import (
	"context"

	"github.com/peerlend/loan-tracker/internal/core/domain"
)

// CreateLoanInput carries the fields accepted when creating a loan.
// Status is optional and defaults to PENDING.
type CreateLoanInput struct {
	Amount     float64
	Interest   float64
	Duration   int
	Collateral string
	BorrowerID string
	LenderID   string
	Status     string
}

// UpdateLoanInput is a partial update; nil fields keep their stored value.
type UpdateLoanInput struct {
	Amount     *float64
	Interest   *float64
	Duration   *int
	Collateral *string
	Status     *string
	BorrowerID *string
	LenderID   *string
}

// HasTerms reports whether any of the validated loan terms were supplied.
func (in UpdateLoanInput) HasTerms() bool {
	return in.Amount != nil || in.Interest != nil || in.Duration != nil || in.Collateral != nil
}

// LoanService defines the loan lifecycle operations.
type LoanService interface {
	CreateLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	UpdateLoan(ctx context.Context, id string, input UpdateLoanInput) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context) ([]*domain.Loan, error)
}
