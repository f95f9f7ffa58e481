package mysql

import (
	"context"
	"errors"

	scheduleDomain "github.com/emiledger/backend/internal/domain/schedule"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScheduleRepository struct{ db *gorm.DB }

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository { return &ScheduleRepository{db: db} }

func (r *ScheduleRepository) BulkCreate(ctx context.Context, entries []*scheduleDomain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *ScheduleRepository) ListByAccountID(ctx context.Context, accountID uint64) ([]*scheduleDomain.Entry, error) {
	var out []*scheduleDomain.Entry
	res := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("seq_no").
		Find(&out)
	return out, res.Error
}

func (r *ScheduleRepository) GetByEntryIDs(ctx context.Context, accountID uint64, entryIDs []string) ([]*scheduleDomain.Entry, error) {
	var out []*scheduleDomain.Entry
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND entry_id IN ?", accountID, entryIDs).
		Order("seq_no").
		Find(&out)
	return out, res.Error
}

func (r *ScheduleRepository) GetByEntryIDsForUpdate(ctx context.Context, accountID uint64, entryIDs []string) ([]*scheduleDomain.Entry, error) {
	var out []*scheduleDomain.Entry
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ? AND entry_id IN ?", accountID, entryIDs).
		Order("seq_no").
		Find(&out)
	return out, res.Error
}

func (r *ScheduleRepository) GetBySeqNos(ctx context.Context, accountID uint64, seqNos []int) ([]*scheduleDomain.Entry, error) {
	var out []*scheduleDomain.Entry
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND seq_no IN ?", accountID, seqNos).
		Order("seq_no").
		Find(&out)
	return out, res.Error
}

func (r *ScheduleRepository) GetByIDs(ctx context.Context, ids []uint64) ([]*scheduleDomain.Entry, error) {
	var out []*scheduleDomain.Entry
	res := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("seq_no").
		Find(&out)
	return out, res.Error
}

func (r *ScheduleRepository) Save(ctx context.Context, e *scheduleDomain.Entry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *ScheduleRepository) UpdateStatus(ctx context.Context, ids []uint64, status scheduleDomain.Status) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&scheduleDomain.Entry{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}

func (r *ScheduleRepository) Approve(ctx context.Context, ids []uint64, meta scheduleDomain.CollectionMeta) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&scheduleDomain.Entry{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":             scheduleDomain.StatusApproved,
			"paid_amount":        gorm.Expr("amount"),
			"paid_at":            meta.PaidAt,
			"mode":               meta.Mode,
			"approved_by_actor":  meta.ApprovedByActor,
			"collected_by_role":  meta.CollectedByRole,
			"collected_by_actor": meta.CollectedByActor,
		}).Error
}

func (r *ScheduleRepository) ClearFine(ctx context.Context, accountID uint64, seqNo int) error {
	return r.db.WithContext(ctx).Model(&scheduleDomain.Entry{}).
		Where("account_id = ? AND seq_no = ?", accountID, seqNo).
		Updates(map[string]any{
			"fine_amount": decimal.Zero,
			"fine_waived": true,
		}).Error
}

func (r *ScheduleRepository) CountOutstanding(ctx context.Context, accountID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&scheduleDomain.Entry{}).
		Where("account_id = ? AND status IN ?", accountID,
			[]scheduleDomain.Status{scheduleDomain.StatusUnpaid, scheduleDomain.StatusPendingApproval}).
		Count(&n)
	return n, res.Error
}

func (r *ScheduleRepository) FirstOutstanding(ctx context.Context, accountID uint64) (*scheduleDomain.Entry, error) {
	var out scheduleDomain.Entry
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND status <> ?", accountID, scheduleDomain.StatusApproved).
		Order("seq_no").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, scheduleDomain.ErrNotFound
	}
	return &out, res.Error
}
