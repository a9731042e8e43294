package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/peerlend/loan-tracker/internal/core/domain"
	"github.com/peerlend/loan-tracker/internal/core/ports"
	"github.com/peerlend/loan-tracker/internal/testutil/memstore"
)

const (
	borrowerID = "11111111-1111-4111-8111-111111111111"
	lenderID   = "22222222-2222-4222-8222-222222222222"
	bothID     = "33333333-3333-4333-8333-333333333333"
	ghostID    = "44444444-4444-4444-8444-444444444444"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type fixture struct {
	svc    *LoanService
	loans  *memstore.Loans
	users  *memstore.Users
	events *memstore.Events
}

func newFixture() *fixture {
	loans := memstore.NewLoans()
	users := memstore.NewUsers(
		&domain.User{ID: borrowerID, Name: "Bea", Email: "bea@example.com", IsBorrower: true},
		&domain.User{ID: lenderID, Name: "Leo", Email: "leo@example.com", IsLender: true},
		&domain.User{ID: bothID, Name: "Bo", Email: "bo@example.com", IsBorrower: true, IsLender: true},
	)
	events := &memstore.Events{}
	svc := NewLoanService(loans, users, events, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return &fixture{svc: svc, loans: loans, users: users, events: events}
}

func validInput() ports.CreateLoanInput {
	return ports.CreateLoanInput{
		Amount:     50000,
		Interest:   10.25,
		Duration:   24,
		Collateral: "House",
		BorrowerID: borrowerID,
		LenderID:   lenderID,
	}
}

func ptr[T any](v T) *T { return &v }

func assertKind(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", msg)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected kind %v, got %v", kind, err)
	}
	if err.Error() != msg {
		t.Errorf("expected message %q, got %q", msg, err.Error())
	}
}

// ---------------------------------------------------------------------------
// CreateLoan
// ---------------------------------------------------------------------------

func TestCreateLoan_Success(t *testing.T) {
	f := newFixture()

	loan, err := f.svc.CreateLoan(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !domain.IsValidUUID(loan.ID) {
		t.Errorf("expected UUID v4 id, got %q", loan.ID)
	}
	if loan.Status != domain.StatusPending {
		t.Errorf("expected PENDING, got %s", loan.Status)
	}
	if loan.Borrower == nil || loan.Borrower.ID != borrowerID {
		t.Errorf("expected borrower attached, got %+v", loan.Borrower)
	}
	if loan.Lender == nil || loan.Lender.ID != lenderID {
		t.Errorf("expected lender attached, got %+v", loan.Lender)
	}
	if !loan.CreatedAt.Equal(fixedNow) || !loan.UpdatedAt.Equal(fixedNow) {
		t.Errorf("unexpected timestamps: %v / %v", loan.CreatedAt, loan.UpdatedAt)
	}
	if loan.DeletedAt != nil {
		t.Error("deletedAt must stay unset")
	}
	if f.loans.Len() != 1 {
		t.Errorf("expected 1 stored loan, got %d", f.loans.Len())
	}
	if got := f.events.Actions(loan.ID); len(got) != 1 || got[0] != domain.LoanCreated {
		t.Errorf("expected created audit event, got %v", got)
	}
}

func TestCreateLoan_ExplicitStatus(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.Status = "ACTIVE"

	loan, err := f.svc.CreateLoan(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loan.Status != domain.StatusActive {
		t.Errorf("expected ACTIVE, got %s", loan.Status)
	}
}

func TestCreateLoan_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ports.CreateLoanInput)
		kind   error
		msg    string
	}{
		{
			name:   "missing lender",
			mutate: func(in *ports.CreateLoanInput) { in.LenderID = "" },
			kind:   domain.ErrValidation,
			msg:    "borrowerId and lenderId are required",
		},
		{
			name:   "same party",
			mutate: func(in *ports.CreateLoanInput) { in.BorrowerID, in.LenderID = bothID, bothID },
			kind:   domain.ErrValidation,
			msg:    "Borrower and lender must be different users",
		},
		{
			name:   "unknown borrower",
			mutate: func(in *ports.CreateLoanInput) { in.BorrowerID = ghostID },
			kind:   domain.ErrPartyNotFound,
			msg:    "Borrower or lender not found",
		},
		{
			name:   "borrower lacks role",
			mutate: func(in *ports.CreateLoanInput) { in.BorrowerID, in.LenderID = lenderID, bothID },
			kind:   domain.ErrInvalidRole,
			msg:    "User is not a valid borrower",
		},
		{
			name:   "lender lacks role",
			mutate: func(in *ports.CreateLoanInput) { in.BorrowerID, in.LenderID = bothID, borrowerID },
			kind:   domain.ErrInvalidRole,
			msg:    "User is not a valid lender",
		},
		{
			name:   "interest mismatch",
			mutate: func(in *ports.CreateLoanInput) { in.Interest = 10 },
			kind:   domain.ErrValidation,
			msg:    "Interest must match the calculated APR. Expected APR: 10.25%, received: 10.00%.",
		},
		{
			name:   "bad collateral",
			mutate: func(in *ports.CreateLoanInput) { in.Collateral = "Car 42" },
			kind:   domain.ErrValidation,
			msg:    "Collateral must only contain English letters and spaces.",
		},
		{
			name:   "bad status",
			mutate: func(in *ports.CreateLoanInput) { in.Status = "CLOSED" },
			kind:   domain.ErrValidation,
			msg:    "Status must be one of PENDING, ACTIVE, PAID, DEFAULTED.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			in := validInput()
			tc.mutate(&in)

			_, err := f.svc.CreateLoan(context.Background(), in)
			assertKind(t, err, tc.kind, tc.msg)
			if f.loans.Len() != 0 {
				t.Errorf("rejected loan must not be stored")
			}
			if len(f.events.Events) != 0 {
				t.Errorf("rejected loan must not be audited")
			}
		})
	}
}

func TestCreateLoan_StoreFailure(t *testing.T) {
	f := newFixture()
	f.loans.Err = errors.New("connection reset")

	_, err := f.svc.CreateLoan(context.Background(), validInput())
	if err == nil {
		t.Fatal("expected error")
	}
	var de *domain.Error
	if errors.As(err, &de) {
		t.Errorf("store failure must not surface as a domain error: %v", err)
	}
}

func TestCreateLoan_AuditFailureIgnored(t *testing.T) {
	f := newFixture()
	f.events.Err = errors.New("audit down")

	if _, err := f.svc.CreateLoan(context.Background(), validInput()); err != nil {
		t.Fatalf("audit failure must not fail the request: %v", err)
	}
}

// ---------------------------------------------------------------------------
// GetLoan / ListLoans
// ---------------------------------------------------------------------------

func TestGetLoan(t *testing.T) {
	f := newFixture()
	created, _ := f.svc.CreateLoan(context.Background(), validInput())

	got, err := f.svc.GetLoan(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Borrower == nil || got.Lender == nil {
		t.Error("expected parties attached")
	}

	_, err = f.svc.GetLoan(context.Background(), ghostID)
	assertKind(t, err, domain.ErrLoanNotFound, "Loan not found")
}

func TestListLoans(t *testing.T) {
	f := newFixture()

	loans, err := f.svc.ListLoans(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loans == nil || len(loans) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", loans)
	}

	_, _ = f.svc.CreateLoan(context.Background(), validInput())
	in := validInput()
	in.BorrowerID = bothID
	_, _ = f.svc.CreateLoan(context.Background(), in)

	loans, err = f.svc.ListLoans(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loans) != 2 {
		t.Fatalf("expected 2 loans, got %d", len(loans))
	}
	for _, l := range loans {
		if l.Borrower == nil || l.Lender == nil {
			t.Errorf("loan %s missing parties", l.ID)
		}
	}
}

// ---------------------------------------------------------------------------
// UpdateLoan
// ---------------------------------------------------------------------------

func TestUpdateLoan_StatusOnly(t *testing.T) {
	f := newFixture()
	created, _ := f.svc.CreateLoan(context.Background(), validInput())
	later := fixedNow.Add(time.Hour)
	f.svc.now = func() time.Time { return later }

	updated, err := f.svc.UpdateLoan(context.Background(), created.ID, ports.UpdateLoanInput{Status: ptr("ACTIVE")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusActive {
		t.Errorf("expected ACTIVE, got %s", updated.Status)
	}
	if updated.Amount != 50000 || updated.Collateral != "House" {
		t.Errorf("unsupplied fields must keep stored values: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(later) || !updated.CreatedAt.Equal(fixedNow) {
		t.Errorf("unexpected timestamps: created %v updated %v", updated.CreatedAt, updated.UpdatedAt)
	}
	if updated.Borrower == nil || updated.Lender == nil {
		t.Error("expected parties attached")
	}
	want := []domain.LoanAction{domain.LoanCreated, domain.LoanUpdated}
	if got := f.events.Actions(created.ID); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestUpdateLoan_AnyTransitionAllowed(t *testing.T) {
	f := newFixture()
	created, _ := f.svc.CreateLoan(context.Background(), validInput())

	for _, st := range []string{"PAID", "PENDING", "DEFAULTED", "ACTIVE"} {
		got, err := f.svc.UpdateLoan(context.Background(), created.ID, ports.UpdateLoanInput{Status: ptr(st)})
		if err != nil {
			t.Fatalf("transition to %s: %v", st, err)
		}
		if string(got.Status) != st {
			t.Errorf("expected %s, got %s", st, got.Status)
		}
	}
}

func TestUpdateLoan_TermsValidatedAsMergedSet(t *testing.T) {
	f := newFixture()
	created, _ := f.svc.CreateLoan(context.Background(), validInput())

	// Duration alone breaks the interest match.
	_, err := f.svc.UpdateLoan(context.Background(), created.ID, ports.UpdateLoanInput{Duration: ptr(36)})
	assertKind(t, err, domain.ErrValidation, "Interest must match the calculated APR. Expected APR: 13.50%, received: 10.25%.")

	// Duration and interest together are accepted.
	got, err := f.svc.UpdateLoan(context.Background(), created.ID, ports.UpdateLoanInput{
		Duration: ptr(36),
		Interest: ptr(13.5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Duration != 36 || got.Interest != 13.5 {
		t.Errorf("terms not applied: %+v", got)
	}

	stored, _ := f.loans.FindByID(context.Background(), created.ID)
	if stored.Duration != 36 {
		t.Errorf("expected stored duration 36, got %d", stored.Duration)
	}
}

func TestUpdateLoan_Rejections(t *testing.T) {
	tests := []struct {
		name string
		in   ports.UpdateLoanInput
		kind error
		msg  string
	}{
		{"bad status", ports.UpdateLoanInput{Status: ptr("open")}, domain.ErrValidation, "Status must be one of PENDING, ACTIVE, PAID, DEFAULTED."},
		{"amount out of range", ports.UpdateLoanInput{Amount: ptr(500.0)}, domain.ErrValidation, "Amount must be between 10,000 and 200,000."},
		{"same party", ports.UpdateLoanInput{LenderID: ptr(borrowerID)}, domain.ErrValidation, "Borrower and lender must be different users"},
		{"unknown lender", ports.UpdateLoanInput{LenderID: ptr(ghostID)}, domain.ErrPartyNotFound, "Borrower or lender not found"},
		{"borrower without role", ports.UpdateLoanInput{LenderID: ptr(bothID), BorrowerID: ptr(lenderID)}, domain.ErrInvalidRole, "User is not a valid borrower"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			created, _ := f.svc.CreateLoan(context.Background(), validInput())

			_, err := f.svc.UpdateLoan(context.Background(), created.ID, tc.in)
			assertKind(t, err, tc.kind, tc.msg)

			stored, _ := f.loans.FindByID(context.Background(), created.ID)
			if stored.Status != domain.StatusPending || stored.LenderID != lenderID || stored.Amount != 50000 {
				t.Errorf("rejected update must not be persisted: %+v", stored)
			}
		})
	}
}

func TestUpdateLoan_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.UpdateLoan(context.Background(), ghostID, ports.UpdateLoanInput{Status: ptr("PAID")})
	assertKind(t, err, domain.ErrLoanNotFound, "Loan not found")
}

// ---------------------------------------------------------------------------
// DeleteLoan
// ---------------------------------------------------------------------------

func TestDeleteLoan(t *testing.T) {
	f := newFixture()
	created, _ := f.svc.CreateLoan(context.Background(), validInput())

	deleted, err := f.svc.DeleteLoan(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.ID != created.ID {
		t.Errorf("expected deleted record %s, got %s", created.ID, deleted.ID)
	}

	_, err = f.svc.GetLoan(context.Background(), created.ID)
	assertKind(t, err, domain.ErrLoanNotFound, "Loan not found")

	// Users survive loan deletion.
	if _, err := f.users.FindByID(context.Background(), borrowerID); err != nil {
		t.Errorf("borrower must remain: %v", err)
	}

	_, err = f.svc.DeleteLoan(context.Background(), created.ID)
	assertKind(t, err, domain.ErrLoanNotFound, "Loan not found")

	if got := f.events.Actions(created.ID); len(got) != 2 || got[1] != domain.LoanDeleted {
		t.Errorf("expected deleted audit event, got %v", got)
	}
}

// ---------------------------------------------------------------------------
// Metrics
// ---------------------------------------------------------------------------

type recordedMetrics struct {
	created  []string
	changes  []string
	deleted  int
	failures []string
}

func (r *recordedMetrics) LoanCreated(status string)     { r.created = append(r.created, status) }
func (r *recordedMetrics) StatusChanged(from, to string) { r.changes = append(r.changes, from+"->"+to) }
func (r *recordedMetrics) LoanDeleted()                  { r.deleted++ }
func (r *recordedMetrics) ValidationFailed(op string)    { r.failures = append(r.failures, op) }

func TestLoanService_RecordsLifecycleMetrics(t *testing.T) {
	f := newFixture()
	rec := &recordedMetrics{}
	f.svc.WithMetrics(rec)
	ctx := context.Background()

	bad := validInput()
	bad.Amount = -1
	if _, err := f.svc.CreateLoan(ctx, bad); err == nil {
		t.Fatal("expected validation error")
	}

	created, err := f.svc.CreateLoan(ctx, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.UpdateLoan(ctx, created.ID, ports.UpdateLoanInput{Amount: ptr(-5.0)}); err == nil {
		t.Fatal("expected validation error on update")
	}
	if _, err := f.svc.UpdateLoan(ctx, created.ID, ports.UpdateLoanInput{Status: ptr("ACTIVE")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same status again is not a change.
	if _, err := f.svc.UpdateLoan(ctx, created.ID, ports.UpdateLoanInput{Status: ptr("ACTIVE")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.DeleteLoan(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.created) != 1 || rec.created[0] != "PENDING" {
		t.Errorf("expected one PENDING creation, got %v", rec.created)
	}
	if len(rec.changes) != 1 || rec.changes[0] != "PENDING->ACTIVE" {
		t.Errorf("expected one PENDING->ACTIVE change, got %v", rec.changes)
	}
	if rec.deleted != 1 {
		t.Errorf("expected one deletion, got %d", rec.deleted)
	}
	if len(rec.failures) != 2 || rec.failures[0] != "create" || rec.failures[1] != "update" {
		t.Errorf("expected create and update failures, got %v", rec.failures)
	}
}
