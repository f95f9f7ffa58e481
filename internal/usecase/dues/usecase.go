package dues

import (
	"context"
	"time"

	"github.com/emiledger/backend/internal/domain/account"
	"github.com/emiledger/backend/internal/domain/schedule"
)

type Usecase struct {
	accounts account.Repository
	entries  schedule.Repository
}

func NewUsecase(accounts account.Repository, entries schedule.Repository) *Usecase {
	return &Usecase{accounts: accounts, entries: entries}
}

// GetBreakdown loads the ledger and computes the due summary. asOf zero means now.
func (u *Usecase) GetBreakdown(ctx context.Context, accountID string, asOf time.Time) (*Breakdown, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	acc, err := u.accounts.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	entries, err := u.entries.ListByAccountID(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	bd := Compute(entries, acc, asOf)
	return &bd, nil
}
