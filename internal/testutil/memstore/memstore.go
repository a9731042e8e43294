// Package memstore provides in-memory implementations of the repository
// ports for tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/peerlend/loan-tracker/internal/core/domain"
)

// Loans is an in-memory ports.LoanRepository. Set Err to make every call fail.
type Loans struct {
	mu    sync.Mutex
	items map[string]*domain.Loan
	Err   error
	Calls int
}

func NewLoans() *Loans { return &Loans{items: map[string]*domain.Loan{}} }

func (r *Loans) Create(_ context.Context, l *domain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return r.Err
	}
	r.items[l.ID] = cloneLoan(l)
	return nil
}

func (r *Loans) FindByID(_ context.Context, id string) (*domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	l, ok := r.items[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	return cloneLoan(l), nil
}

func (r *Loans) List(_ context.Context) ([]*domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*domain.Loan, 0, len(r.items))
	for _, l := range r.items {
		out = append(out, cloneLoan(l))
	}
	return out, nil
}

func (r *Loans) Update(_ context.Context, l *domain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.items[l.ID]; !ok {
		return domain.ErrLoanNotFound
	}
	r.items[l.ID] = cloneLoan(l)
	return nil
}

func (r *Loans) Delete(_ context.Context, id string) (*domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	l, ok := r.items[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	delete(r.items, id)
	return l, nil
}

// Len returns the number of stored loans.
func (r *Loans) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Users is an in-memory ports.UserRepository with a unique email constraint.
type Users struct {
	mu    sync.Mutex
	items map[string]*domain.User
	Err   error
}

func NewUsers(seed ...*domain.User) *Users {
	r := &Users{items: map[string]*domain.User{}}
	for _, u := range seed {
		c := *u
		r.items[u.ID] = &c
	}
	return r
}

func (r *Users) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, existing := range r.items {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	c := *u
	r.items[u.ID] = &c
	return nil
}

func (r *Users) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.items[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *Users) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*domain.User, 0, len(r.items))
	for _, u := range r.items {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Events records every audit event it receives.
type Events struct {
	mu     sync.Mutex
	Events []domain.LoanEvent
	Err    error
}

func (r *Events) InsertEvent(_ context.Context, e *domain.LoanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, *e)
	return nil
}

// Actions lists the recorded actions for loanID in order.
func (r *Events) Actions(loanID string) []domain.LoanAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.LoanAction
	for _, e := range r.Events {
		if e.LoanID == loanID {
			out = append(out, e.Action)
		}
	}
	return out
}

func cloneLoan(l *domain.Loan) *domain.Loan {
	c := *l
	c.Borrower, c.Lender = nil, nil
	return &c
}
