package sqldb

import (
	"context"

	"gorm.io/gorm"

	"github.com/peerlend/loan-tracker/internal/core/domain"
)

// EventRepository appends loan audit events to the loan_events table.
type EventRepository struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) *EventRepository { return &EventRepository{db: db} }

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.LoanEvent) error {
	return r.db.WithContext(ctx).Create(&loanEventRow{
		LoanID:     e.LoanID,
		Action:     string(e.Action),
		Status:     string(e.Status),
		Amount:     e.Amount,
		OccurredAt: e.OccurredAt,
	}).Error
}

// CountEvents returns the number of audit events recorded for loanID.
func (r *EventRepository) CountEvents(ctx context.Context, loanID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&loanEventRow{}).Where("loan_id = ?", loanID).Count(&n).Error
	return n, err
}
