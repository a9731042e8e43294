package domain

import (
	"strings"
	"time"
)

// LoanStatus represents the lifecycle state of a loan.
type LoanStatus string

const (
	StatusPending   LoanStatus = "PENDING"
	StatusActive    LoanStatus = "ACTIVE"
	StatusPaid      LoanStatus = "PAID"
	StatusDefaulted LoanStatus = "DEFAULTED"
)

// LoanStatuses lists every status in declaration order.
var LoanStatuses = []LoanStatus{StatusPending, StatusActive, StatusPaid, StatusDefaulted}

// ParseLoanStatus accepts one of the four upper-case status names.
//
// There is no transition table: any status may replace any other on update,
// including PAID back to PENDING.
func ParseLoanStatus(s string) (LoanStatus, error) {
	for _, st := range LoanStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	names := make([]string, len(LoanStatuses))
	for i, st := range LoanStatuses {
		names[i] = string(st)
	}
	return "", NewError(ErrValidation, "Status must be one of "+strings.Join(names, ", ")+".")
}

// Loan is a borrowing agreement between two users. Borrower and Lender are
// populated on reads when the referenced users can be resolved.
type Loan struct {
	ID         string     `json:"id" bson:"_id"`
	Amount     float64    `json:"amount" bson:"amount"`
	Interest   float64    `json:"interest" bson:"interest"`
	Duration   int        `json:"duration" bson:"duration"`
	Collateral string     `json:"collateral" bson:"collateral"`
	Status     LoanStatus `json:"status" bson:"status"`
	BorrowerID string     `json:"borrowerId" bson:"borrower_id"`
	LenderID   string     `json:"lenderId" bson:"lender_id"`
	CreatedAt  time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updated_at"`
	DeletedAt  *time.Time `json:"deletedAt" bson:"deleted_at,omitempty"`

	Borrower *User `json:"borrower,omitempty" bson:"-"`
	Lender   *User `json:"lender,omitempty" bson:"-"`
}

// Validate runs ValidateLoanFields over the loan's current terms.
func (l *Loan) Validate() ValidationResult {
	return ValidateLoanFields(l.Amount, l.Interest, l.Duration, l.Collateral)
}
