package sqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/peerlend/loan-tracker/internal/core/domain"
)

// LoanRepository implements ports.LoanRepository on GORM.
type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *domain.Loan) error {
	if err := r.db.WithContext(ctx).Create(toLoanRow(l)).Error; err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

func (r *LoanRepository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	var row loanRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, fmt.Errorf("find loan: %w", err)
	}
	return row.toDomain(), nil
}

func (r *LoanRepository) List(ctx context.Context) ([]*domain.Loan, error) {
	var rows []loanRow
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	out := make([]*domain.Loan, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// Update replaces the stored row inside a transaction so a missing loan is
// reported instead of being inserted by Save.
func (r *LoanRepository) Update(ctx context.Context, l *domain.Loan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing loanRow
		if err := tx.Select("id").Where("id = ?", l.ID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return fmt.Errorf("find loan: %w", err)
		}
		if err := tx.Save(toLoanRow(l)).Error; err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		return nil
	})
}

func (r *LoanRepository) Delete(ctx context.Context, id string) (*domain.Loan, error) {
	var row loanRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return fmt.Errorf("find loan: %w", err)
		}
		if err := tx.Delete(&loanRow{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}
