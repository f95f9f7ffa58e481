package mysql

import (
	"context"

	"github.com/emiledger/backend/internal/domain/account"
	"github.com/emiledger/backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Accounts:    &AccountRepository{db: db},
		Entries:     &ScheduleRepository{db: db},
		Requests:    &PaymentRepository{db: db},
		Settlements: &SettlementRepository{db: db},
		Audits:      &AuditRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinAccountTx(ctx context.Context, accountID string, fn func(r uow.Repos, a *account.Account) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the account row up-front to serialize mutations per account
		a, err := r.Accounts.GetByAccountIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		return fn(r, a)
	})
}

// Direct hands out repos on the raw connection; every call commits on its own.
func (u *GormUoW) Direct() uow.Repos { return reposFor(u.db) }
