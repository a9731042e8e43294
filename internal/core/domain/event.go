package domain

import "time"

// LoanAction names the lifecycle operation recorded in the audit trail.
type LoanAction string

const (
	LoanCreated LoanAction = "created"
	LoanUpdated LoanAction = "updated"
	LoanDeleted LoanAction = "deleted"
)

// LoanEvent is an audit record appended after every successful loan mutation.
type LoanEvent struct {
	LoanID     string     `json:"loanId" bson:"loan_id"`
	Action     LoanAction `json:"action" bson:"action"`
	Status     LoanStatus `json:"status" bson:"status"`
	Amount     float64    `json:"amount" bson:"amount"`
	OccurredAt time.Time  `json:"occurredAt" bson:"occurred_at"`
}

// NewLoanEvent snapshots l for the given action.
func NewLoanEvent(l *Loan, action LoanAction, at time.Time) *LoanEvent {
	return &LoanEvent{
		LoanID:     l.ID,
		Action:     action,
		Status:     l.Status,
		Amount:     l.Amount,
		OccurredAt: at.UTC(),
	}
}
