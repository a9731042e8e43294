package handler

import "github.com/peerlend/loan-tracker/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Message string `json:"message"`
}

// --- Loans ---

type createLoanRequest struct {
	Amount     float64 `json:"amount"`
	Interest   float64 `json:"interest"`
	Duration   int     `json:"duration"`
	Collateral string  `json:"collateral"`
	BorrowerID string  `json:"borrowerId" validate:"required"`
	LenderID   string  `json:"lenderId"   validate:"required"`
	Status     string  `json:"status,omitempty"`
}

// updateLoanRequest is a partial update: absent fields keep their stored value.
type updateLoanRequest struct {
	Amount     *float64 `json:"amount,omitempty"`
	Interest   *float64 `json:"interest,omitempty"`
	Duration   *int     `json:"duration,omitempty"`
	Collateral *string  `json:"collateral,omitempty"`
	Status     *string  `json:"status,omitempty"`
	BorrowerID *string  `json:"borrowerId,omitempty"`
	LenderID   *string  `json:"lenderId,omitempty"`
}

type deleteLoanResponse struct {
	Message     string       `json:"message"`
	DeletedLoan *domain.Loan `json:"deletedLoan"`
}

// --- Users ---

type createUserRequest struct {
	Name       string `json:"name"  validate:"required"`
	Email      string `json:"email" validate:"required"`
	IsBorrower bool   `json:"isBorrower"`
	IsLender   bool   `json:"isLender"`
}
