// Package memory is a process-local store used by DB_DRIVER=memory and by
// usecase tests. A transaction works on a private copy of the data and
// publishes it on success; one mutex serialises writers.
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/domain/user"
)

type data struct {
	seq         uint64
	loans       map[string]loan.Loan
	users       map[string]user.User
	transitions []loan.Transition
	fundings    []ledger.Funding
	repayments  []ledger.Repayment
}

func (d *data) clone() *data {
	return &data{
		seq:         d.seq,
		loans:       maps.Clone(d.loans),
		users:       maps.Clone(d.users),
		transitions: slices.Clone(d.transitions),
		fundings:    slices.Clone(d.fundings),
		repayments:  slices.Clone(d.repayments),
	}
}

func (d *data) nextID() uint64 {
	d.seq++
	return d.seq
}

type Store struct {
	mu sync.Mutex
	d  *data
}

func NewStore() *Store {
	return &Store{d: &data{
		loans: make(map[string]loan.Loan),
		users: make(map[string]user.User),
	}}
}

func repos(d *data) uow.Repos {
	return uow.Repos{
		Loans:       &loanRepo{d: d},
		Transitions: &transitionRepo{d: d},
		Users:       &userRepo{d: d},
		Ledger:      &ledgerRepo{d: d},
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.d.clone()
	if err := fn(repos(work)); err != nil {
		return err
	}
	s.d = work
	return nil
}

func (s *Store) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return s.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

type loanRepo struct{ d *data }

func (r *loanRepo) Create(_ context.Context, l *loan.Loan) error {
	if _, ok := r.d.loans[l.LoanID]; ok {
		return loan.ErrAlreadyExists
	}
	l.ID = r.d.nextID()
	r.d.loans[l.LoanID] = *l
	return nil
}

func (r *loanRepo) GetByLoanID(_ context.Context, loanID string) (*loan.Loan, error) {
	l, ok := r.d.loans[loanID]
	if !ok {
		return nil, loan.ErrNotFound
	}
	return &l, nil
}

// GetByLoanIDForUpdate needs no lock of its own: the store mutex is held for
// the whole transaction.
func (r *loanRepo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loan.Loan, error) {
	return r.GetByLoanID(ctx, loanID)
}

func (r *loanRepo) ListByBorrowerID(_ context.Context, borrowerID string) ([]loan.Loan, error) {
	return r.filter(func(l loan.Loan) bool { return l.BorrowerID == borrowerID }), nil
}

func (r *loanRepo) ListByLoanIDs(_ context.Context, loanIDs []string) ([]loan.Loan, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}
	return r.filter(func(l loan.Loan) bool { return slices.Contains(loanIDs, l.LoanID) }), nil
}

func (r *loanRepo) ListByStates(_ context.Context, states ...loan.State) ([]loan.Loan, error) {
	if len(states) == 0 {
		return nil, nil
	}
	return r.filter(func(l loan.Loan) bool { return slices.Contains(states, l.State) }), nil
}

func (r *loanRepo) Save(_ context.Context, l *loan.Loan) error {
	cur, ok := r.d.loans[l.LoanID]
	if !ok {
		return loan.ErrNotFound
	}
	if cur.Version != l.Version {
		return loan.ErrVersionConflict
	}
	l.Version++
	r.d.loans[l.LoanID] = *l
	return nil
}

func (r *loanRepo) filter(keep func(loan.Loan) bool) []loan.Loan {
	var out []loan.Loan
	for _, l := range r.d.loans {
		if keep(l) {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b loan.Loan) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

type transitionRepo struct{ d *data }

func (r *transitionRepo) Append(_ context.Context, t *loan.Transition) error {
	t.ID = r.d.nextID()
	r.d.transitions = append(r.d.transitions, *t)
	return nil
}

func (r *transitionRepo) ListByLoanID(_ context.Context, loanID string) ([]loan.Transition, error) {
	var out []loan.Transition
	for _, t := range r.d.transitions {
		if t.LoanID == loanID {
			out = append(out, t)
		}
	}
	return out, nil
}

type userRepo struct{ d *data }

func (r *userRepo) Create(_ context.Context, u *user.User) error {
	if _, ok := r.d.users[u.UserID]; ok {
		return user.ErrAlreadyExists
	}
	u.ID = r.d.nextID()
	r.d.users[u.UserID] = *u
	return nil
}

func (r *userRepo) GetByUserID(_ context.Context, userID string) (*user.User, error) {
	u, ok := r.d.users[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByUserIDForUpdate(ctx context.Context, userID string) (*user.User, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *userRepo) ListByUserIDs(_ context.Context, userIDs []string) ([]user.User, error) {
	var out []user.User
	for _, id := range userIDs {
		if u, ok := r.d.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *userRepo) Save(_ context.Context, u *user.User) error {
	if _, ok := r.d.users[u.UserID]; !ok {
		return user.ErrNotFound
	}
	r.d.users[u.UserID] = *u
	return nil
}

type ledgerRepo struct{ d *data }

func (r *ledgerRepo) CreateFunding(_ context.Context, f *ledger.Funding) error {
	for _, x := range r.d.fundings {
		if x.LoanID == f.LoanID {
			return ledger.ErrDuplicateFunding
		}
	}
	f.ID = r.d.nextID()
	r.d.fundings = append(r.d.fundings, *f)
	return nil
}

func (r *ledgerRepo) CreateRepayment(_ context.Context, rep *ledger.Repayment) error {
	for _, x := range r.d.repayments {
		if x.LoanID == rep.LoanID && x.InstallmentIndex == rep.InstallmentIndex {
			return ledger.ErrDuplicateRepayment
		}
	}
	rep.ID = r.d.nextID()
	r.d.repayments = append(r.d.repayments, *rep)
	return nil
}

func (r *ledgerRepo) FundingByLoanID(_ context.Context, loanID string) (*ledger.Funding, error) {
	for _, f := range r.d.fundings {
		if f.LoanID == loanID {
			return &f, nil
		}
	}
	return nil, ledger.ErrFundingNotFound
}

func (r *ledgerRepo) FundingsByLender(_ context.Context, lenderID string) ([]ledger.Funding, error) {
	var out []ledger.Funding
	for _, f := range r.d.fundings {
		if f.LenderID == lenderID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *ledgerRepo) FundingsByLoanIDs(_ context.Context, loanIDs []string) ([]ledger.Funding, error) {
	var out []ledger.Funding
	for _, f := range r.d.fundings {
		if slices.Contains(loanIDs, f.LoanID) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *ledgerRepo) RepaymentsByLoanID(ctx context.Context, loanID string) ([]ledger.Repayment, error) {
	return r.RepaymentsByLoanIDs(ctx, []string{loanID})
}

func (r *ledgerRepo) RepaymentsByLoanIDs(_ context.Context, loanIDs []string) ([]ledger.Repayment, error) {
	var out []ledger.Repayment
	for _, rep := range r.d.repayments {
		if slices.Contains(loanIDs, rep.LoanID) {
			out = append(out, rep)
		}
	}
	slices.SortFunc(out, func(a, b ledger.Repayment) int {
		if c := cmp.Compare(a.LoanID, b.LoanID); c != 0 {
			return c
		}
		return cmp.Compare(a.InstallmentIndex, b.InstallmentIndex)
	})
	return out, nil
}
