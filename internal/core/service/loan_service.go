package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/peerlend/loan-tracker/internal/core/domain"
	"github.com/peerlend/loan-tracker/internal/core/ports"
)

const (
	msgPartiesRequired = "borrowerId and lenderId are required"
	msgSameParty       = "Borrower and lender must be different users"
	msgPartyNotFound   = "Borrower or lender not found"
	msgInvalidBorrower = "User is not a valid borrower"
	msgInvalidLender   = "User is not a valid lender"
	msgLoanNotFound    = "Loan not found"
)

// LoanService implements the loan lifecycle on top of the record stores.
type LoanService struct {
	loans   ports.LoanRepository
	users   ports.UserRepository
	events  ports.LoanEventRepository
	metrics ports.LoanMetrics
	logger  zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewLoanService wires a LoanService. events may be nil to disable the audit trail.
func NewLoanService(
	loans ports.LoanRepository,
	users ports.UserRepository,
	events ports.LoanEventRepository,
	logger zerolog.Logger,
) *LoanService {
	return &LoanService{
		loans:   loans,
		users:   users,
		events:  events,
		metrics: nopMetrics{},
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// WithMetrics sets the recorder for lifecycle counters. Nil disables recording.
func (s *LoanService) WithMetrics(m ports.LoanMetrics) *LoanService {
	if m == nil {
		m = nopMetrics{}
	}
	s.metrics = m
	return s
}

// CreateLoan checks both parties, validates the loan terms and stores a new
// loan. Status defaults to PENDING when not supplied.
func (s *LoanService) CreateLoan(ctx context.Context, in ports.CreateLoanInput) (*domain.Loan, error) {
	if in.BorrowerID == "" || in.LenderID == "" {
		return nil, domain.NewError(domain.ErrValidation, msgPartiesRequired)
	}
	if in.BorrowerID == in.LenderID {
		return nil, domain.NewError(domain.ErrValidation, msgSameParty)
	}

	borrower, lender, err := s.resolveParties(ctx, in.BorrowerID, in.LenderID)
	if err != nil {
		return nil, err
	}

	if res := domain.ValidateLoanFields(in.Amount, in.Interest, in.Duration, in.Collateral); !res.Valid {
		s.logger.Warn().
			Str("borrower_id", in.BorrowerID).
			Str("lender_id", in.LenderID).
			Str("reason", res.Message).
			Msg("validation failed for loan creation")
		s.metrics.ValidationFailed("create")
		return nil, res.Err()
	}

	status := domain.StatusPending
	if in.Status != "" {
		if status, err = domain.ParseLoanStatus(in.Status); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	loan := &domain.Loan{
		ID:         s.newID(),
		Amount:     in.Amount,
		Interest:   in.Interest,
		Duration:   in.Duration,
		Collateral: in.Collateral,
		Status:     status,
		BorrowerID: in.BorrowerID,
		LenderID:   in.LenderID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.loans.Create(ctx, loan); err != nil {
		s.logger.Error().Err(err).
			Str("borrower_id", in.BorrowerID).
			Str("lender_id", in.LenderID).
			Msg("error creating loan")
		return nil, fmt.Errorf("create loan: %w", err)
	}
	loan.Borrower, loan.Lender = borrower, lender

	s.audit(ctx, loan, domain.LoanCreated)
	s.metrics.LoanCreated(string(loan.Status))
	s.logger.Info().
		Str("loan_id", loan.ID).
		Float64("amount", loan.Amount).
		Str("borrower_id", loan.BorrowerID).
		Str("lender_id", loan.LenderID).
		Msg("loan created")

	return loan, nil
}

// GetLoan returns the loan with its borrower and lender attached.
func (s *LoanService) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	loan, err := s.findLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachParties(ctx, loan)
	return loan, nil
}

// UpdateLoan merges the supplied fields over the stored loan. When any of the
// terms (amount, interest, duration, collateral) is supplied the merged set is
// validated as a whole. Status may move to any value.
func (s *LoanService) UpdateLoan(ctx context.Context, id string, in ports.UpdateLoanInput) (*domain.Loan, error) {
	current, err := s.findLoan(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	next.Borrower, next.Lender = nil, nil
	applyLoanPatch(&next, in)

	if in.HasTerms() {
		if res := next.Validate(); !res.Valid {
			s.logger.Warn().Str("loan_id", id).Str("reason", res.Message).Msg("invalid loan fields")
			s.metrics.ValidationFailed("update")
			return nil, res.Err()
		}
	}

	if in.Status != nil {
		if next.Status, err = domain.ParseLoanStatus(*in.Status); err != nil {
			return nil, err
		}
	}

	if in.BorrowerID != nil || in.LenderID != nil {
		if next.BorrowerID == "" || next.LenderID == "" {
			return nil, domain.NewError(domain.ErrValidation, msgPartiesRequired)
		}
		if next.BorrowerID == next.LenderID {
			return nil, domain.NewError(domain.ErrValidation, msgSameParty)
		}
		if next.Borrower, next.Lender, err = s.resolveParties(ctx, next.BorrowerID, next.LenderID); err != nil {
			return nil, err
		}
	}

	next.UpdatedAt = s.now().UTC()
	if err := s.loans.Update(ctx, &next); err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return nil, domain.NewError(domain.ErrLoanNotFound, msgLoanNotFound)
		}
		s.logger.Error().Err(err).Str("loan_id", id).Msg("error updating loan")
		return nil, fmt.Errorf("update loan %s: %w", id, err)
	}

	if next.Status != current.Status {
		s.metrics.StatusChanged(string(current.Status), string(next.Status))
	}
	if next.Borrower == nil || next.Lender == nil {
		s.attachParties(ctx, &next)
	}
	s.audit(ctx, &next, domain.LoanUpdated)
	s.logger.Info().Str("loan_id", id).Str("status", string(next.Status)).Msg("loan updated")

	return &next, nil
}

// DeleteLoan removes the loan and returns the deleted record. Referenced
// users are left untouched.
func (s *LoanService) DeleteLoan(ctx context.Context, id string) (*domain.Loan, error) {
	deleted, err := s.loans.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return nil, domain.NewError(domain.ErrLoanNotFound, msgLoanNotFound)
		}
		s.logger.Error().Err(err).Str("loan_id", id).Msg("error deleting loan")
		return nil, fmt.Errorf("delete loan %s: %w", id, err)
	}

	s.audit(ctx, deleted, domain.LoanDeleted)
	s.metrics.LoanDeleted()
	s.logger.Info().Str("loan_id", id).Msg("loan deleted")

	return deleted, nil
}

// ListLoans returns all loans with borrower and lender attached.
func (s *LoanService) ListLoans(ctx context.Context) ([]*domain.Loan, error) {
	loans, err := s.loans.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("error fetching loans")
		return nil, fmt.Errorf("list loans: %w", err)
	}
	if len(loans) == 0 {
		return []*domain.Loan{}, nil
	}

	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("error fetching loan parties")
		return nil, fmt.Errorf("list loans: users: %w", err)
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, l := range loans {
		l.Borrower = byID[l.BorrowerID]
		l.Lender = byID[l.LenderID]
	}
	return loans, nil
}

func (s *LoanService) findLoan(ctx context.Context, id string) (*domain.Loan, error) {
	loan, err := s.loans.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			s.logger.Warn().Str("id", id).Time("timestamp", s.now().UTC()).Msg("loan not found")
			return nil, domain.NewError(domain.ErrLoanNotFound, msgLoanNotFound)
		}
		s.logger.Error().Err(err).Str("loan_id", id).Msg("error fetching loan")
		return nil, fmt.Errorf("find loan %s: %w", id, err)
	}
	return loan, nil
}

// resolveParties loads both users and checks their roles.
func (s *LoanService) resolveParties(ctx context.Context, borrowerID, lenderID string) (*domain.User, *domain.User, error) {
	borrower, err := s.lookupUser(ctx, borrowerID)
	if err != nil {
		return nil, nil, err
	}
	lender, err := s.lookupUser(ctx, lenderID)
	if err != nil {
		return nil, nil, err
	}

	if borrower == nil || lender == nil {
		return nil, nil, domain.NewError(domain.ErrPartyNotFound, msgPartyNotFound)
	}
	if !borrower.Capabilities().CanBorrow {
		return nil, nil, domain.NewError(domain.ErrInvalidRole, msgInvalidBorrower)
	}
	if !lender.Capabilities().CanLend {
		return nil, nil, domain.NewError(domain.ErrInvalidRole, msgInvalidLender)
	}
	return borrower, lender, nil
}

// lookupUser returns (nil, nil) when the user does not exist.
func (s *LoanService) lookupUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("error fetching loan party")
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return u, nil
}

// attachParties fills Borrower and Lender on a best-effort basis.
func (s *LoanService) attachParties(ctx context.Context, l *domain.Loan) {
	if u, err := s.lookupUser(ctx, l.BorrowerID); err == nil {
		l.Borrower = u
	}
	if u, err := s.lookupUser(ctx, l.LenderID); err == nil {
		l.Lender = u
	}
}

// audit appends a lifecycle event. Failures are logged, never returned.
func (s *LoanService) audit(ctx context.Context, l *domain.Loan, action domain.LoanAction) {
	if s.events == nil {
		return
	}
	if err := s.events.InsertEvent(ctx, domain.NewLoanEvent(l, action, s.now())); err != nil {
		s.logger.Warn().Err(err).Str("loan_id", l.ID).Str("action", string(action)).Msg("failed to insert audit event")
	}
}

func applyLoanPatch(l *domain.Loan, in ports.UpdateLoanInput) {
	if in.Amount != nil {
		l.Amount = *in.Amount
	}
	if in.Interest != nil {
		l.Interest = *in.Interest
	}
	if in.Duration != nil {
		l.Duration = *in.Duration
	}
	if in.Collateral != nil {
		l.Collateral = *in.Collateral
	}
	if in.BorrowerID != nil {
		l.BorrowerID = *in.BorrowerID
	}
	if in.LenderID != nil {
		l.LenderID = *in.LenderID
	}
}

type nopMetrics struct{}

func (nopMetrics) LoanCreated(string)        {}
func (nopMetrics) StatusChanged(_, _ string) {}
func (nopMetrics) LoanDeleted()              {}
func (nopMetrics) ValidationFailed(string)   {}
