package mysql

import (
	"context"
	"errors"
	"time"

	accountDomain "github.com/emiledger/backend/internal/domain/account"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository { return &AccountRepository{db: db} }

func (r *AccountRepository) Create(ctx context.Context, a *accountDomain.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AccountRepository) Save(ctx context.Context, a *accountDomain.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AccountRepository) GetByAccountID(ctx context.Context, accountID string) (*accountDomain.Account, error) {
	var out accountDomain.Account
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, accountDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *AccountRepository) GetByAccountIDForUpdate(ctx context.Context, accountID string) (*accountDomain.Account, error) {
	var out accountDomain.Account
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ?", accountID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, accountDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *AccountRepository) GetByID(ctx context.Context, id uint64) (*accountDomain.Account, error) {
	var out accountDomain.Account
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, accountDomain.ErrNotFound
	}
	return &out, res.Error
}

// Complete flips RUNNING -> COMPLETE; the status condition makes replays no-ops.
func (r *AccountRepository) Complete(ctx context.Context, id uint64, completedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&accountDomain.Account{}).
		Where("id = ? AND status = ?", id, accountDomain.StatusRunning).
		Updates(map[string]any{
			"status":          accountDomain.StatusComplete,
			"completion_date": completedAt,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *AccountRepository) MarkSurchargePaid(ctx context.Context, id uint64, at time.Time) error {
	// Paying via approval settles the surcharge in full, so the paid amount
	// must catch up with the charged amount or the due breakdown keeps
	// reporting it outstanding.
	return r.db.WithContext(ctx).Model(&accountDomain.Account{}).
		Where("id = ? AND surcharge_paid_at IS NULL", id).
		Updates(map[string]any{
			"surcharge_paid_at":     at,
			"surcharge_paid_amount": gorm.Expr("surcharge_amount"),
		}).Error
}

func (r *AccountRepository) ListRunning(ctx context.Context) ([]*accountDomain.Account, error) {
	var out []*accountDomain.Account
	res := r.db.WithContext(ctx).
		Where("status = ?", accountDomain.StatusRunning).
		Order("id").
		Find(&out)
	return out, res.Error
}
