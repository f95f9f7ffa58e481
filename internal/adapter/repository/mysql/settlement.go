package mysql

import (
	"context"
	"errors"

	settlementDomain "github.com/emiledger/backend/internal/domain/settlement"

	"gorm.io/gorm"
)

type SettlementRepository struct{ db *gorm.DB }

func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

func (r *SettlementRepository) Create(ctx context.Context, rec *settlementDomain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *SettlementRepository) GetByAccountID(ctx context.Context, accountID uint64) (*settlementDomain.Record, error) {
	var out settlementDomain.Record
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, settlementDomain.ErrNotFound
	}
	return &out, res.Error
}
