package uowmock

import (
	"context"
	"errors"

	"github.com/emiledger/backend/internal/domain/account"
	"github.com/emiledger/backend/internal/domain/uow"
	"github.com/emiledger/backend/internal/testutil/accountmock"
	"github.com/emiledger/backend/internal/testutil/auditmock"
	"github.com/emiledger/backend/internal/testutil/paymentmock"
	"github.com/emiledger/backend/internal/testutil/schedulemock"
	"github.com/emiledger/backend/internal/testutil/settlementmock"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinAccountTxFn func(ctx context.Context, accountID string, fn func(r uow.Repos, a *account.Account) error) error
	DirectFn          func() uow.Repos
}

func New() *UoW { return &UoW{} }

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinAccountTx(ctx context.Context, accountID string, fn func(r uow.Repos, a *account.Account) error) error {
	if m.WithinAccountTxFn != nil {
		return m.WithinAccountTxFn(ctx, accountID, fn)
	}
	return errUnimplemented
}

func (m *UoW) Direct() uow.Repos {
	if m.DirectFn != nil {
		return m.DirectFn()
	}
	return uow.Repos{}
}

// Passthrough wires a fixed Repos bundle through every UnitOfWork entry point.
// WithinAccountTx resolves the account with the bundle's account repo, so tests
// only have to seed GetByAccountIDForUpdateFn.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinAccountTxFn: func(ctx context.Context, accountID string, fn func(r uow.Repos, a *account.Account) error) error {
			a, err := repos.Accounts.GetByAccountIDForUpdate(ctx, accountID)
			if err != nil {
				return err
			}
			return fn(repos, a)
		},
		DirectFn: func() uow.Repos { return repos },
	}
}

// Bundle returns a Repos backed entirely by the function mocks in this
// package, plus the mocks themselves for assertions.
type Mocks struct {
	Accounts    *accountmock.Repo
	Entries     *schedulemock.Repo
	Requests    *paymentmock.Repo
	Settlements *settlementmock.Repo
	Audits      *auditmock.Repo
}

func Bundle() (uow.Repos, *Mocks) {
	m := &Mocks{
		Accounts:    &accountmock.Repo{},
		Entries:     &schedulemock.Repo{},
		Requests:    &paymentmock.Repo{},
		Settlements: &settlementmock.Repo{},
		Audits:      &auditmock.Repo{},
	}
	return uow.Repos{
		Accounts:    m.Accounts,
		Entries:     m.Entries,
		Requests:    m.Requests,
		Settlements: m.Settlements,
		Audits:      m.Audits,
	}, m
}
