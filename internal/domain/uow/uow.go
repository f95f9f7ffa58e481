package uow

import (
	"context"

	"github.com/emiledger/backend/internal/domain/account"
	"github.com/emiledger/backend/internal/domain/audit"
	"github.com/emiledger/backend/internal/domain/payment"
	"github.com/emiledger/backend/internal/domain/schedule"
	"github.com/emiledger/backend/internal/domain/settlement"
)

// Repos is the per-transaction view handed to unit-of-work callbacks.
type Repos struct {
	Accounts    account.Repository
	Entries     schedule.Repository
	Requests    payment.Repository
	Settlements settlement.Repository
	Audits      audit.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn atomically; all repos in r are bound to one transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinAccountTx locks the account row up-front, then runs fn.
	WithinAccountTx(ctx context.Context, accountID string, fn func(r Repos, a *account.Account) error) error
	// Direct returns repos bound to the raw connection: each call commits on its
	// own. This is the degraded executor's view for stores without multi-row
	// transaction support.
	Direct() Repos
}
