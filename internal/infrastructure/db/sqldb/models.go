package sqldb

import (
	"time"

	"github.com/peerlend/loan-tracker/internal/core/domain"
)

type userRow struct {
	ID         string    `gorm:"primaryKey;size:36;column:id"`
	Name       string    `gorm:"size:255;column:name;index"`
	Email      string    `gorm:"size:255;column:email;uniqueIndex;not null"`
	IsBorrower bool      `gorm:"column:is_borrower"`
	IsLender   bool      `gorm:"column:is_lender"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (userRow) TableName() string { return "users" }

type loanRow struct {
	ID         string     `gorm:"primaryKey;size:36;column:id"`
	Amount     float64    `gorm:"column:amount"`
	Interest   float64    `gorm:"column:interest"`
	Duration   int        `gorm:"column:duration"`
	Collateral string     `gorm:"size:20;column:collateral"`
	Status     string     `gorm:"size:16;column:status;default:PENDING"`
	BorrowerID string     `gorm:"size:36;column:borrower_id;index"`
	LenderID   string     `gorm:"size:36;column:lender_id;index"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
	DeletedAt  *time.Time `gorm:"column:deleted_at"`
}

func (loanRow) TableName() string { return "loans" }

type loanEventRow struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement;column:id"`
	LoanID     string    `gorm:"size:36;column:loan_id;index"`
	Action     string    `gorm:"size:16;column:action"`
	Status     string    `gorm:"size:16;column:status"`
	Amount     float64   `gorm:"column:amount"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

func (loanEventRow) TableName() string { return "loan_events" }

func toUserRow(u *domain.User) *userRow {
	return &userRow{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		IsBorrower: u.IsBorrower,
		IsLender:   u.IsLender,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		IsBorrower: r.IsBorrower,
		IsLender:   r.IsLender,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}

func toLoanRow(l *domain.Loan) *loanRow {
	return &loanRow{
		ID:         l.ID,
		Amount:     l.Amount,
		Interest:   l.Interest,
		Duration:   l.Duration,
		Collateral: l.Collateral,
		Status:     string(l.Status),
		BorrowerID: l.BorrowerID,
		LenderID:   l.LenderID,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
		DeletedAt:  l.DeletedAt,
	}
}

func (r *loanRow) toDomain() *domain.Loan {
	return &domain.Loan{
		ID:         r.ID,
		Amount:     r.Amount,
		Interest:   r.Interest,
		Duration:   r.Duration,
		Collateral: r.Collateral,
		Status:     domain.LoanStatus(r.Status),
		BorrowerID: r.BorrowerID,
		LenderID:   r.LenderID,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
		DeletedAt:  r.DeletedAt,
	}
}
