package mysql

import (
	"context"
	"errors"

	paymentDomain "github.com/emiledger/backend/internal/domain/payment"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, req *paymentDomain.Request) error {
	// Items are created separately so the compensating-delete path stays explicit.
	return r.db.WithContext(ctx).Omit("Items").Create(req).Error
}

func (r *PaymentRepository) CreateItems(ctx context.Context, items []*paymentDomain.Item) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *PaymentRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&paymentDomain.Request{}, id).Error
}

func (r *PaymentRepository) GetByRequestID(ctx context.Context, requestID string) (*paymentDomain.Request, error) {
	var out paymentDomain.Request
	res := r.db.WithContext(ctx).
		Preload("Items").
		Where("request_id = ?", requestID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, paymentDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *PaymentRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*paymentDomain.Request, error) {
	var out paymentDomain.Request
	// Lock only the request row; Preload runs as a separate unlocked query.
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", requestID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, paymentDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	if err := r.db.WithContext(ctx).
		Where("payment_request_id = ?", out.ID).
		Order("seq_no").
		Find(&out.Items).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *PaymentRepository) Save(ctx context.Context, req *paymentDomain.Request) error {
	return r.db.WithContext(ctx).Omit("Items").Save(req).Error
}
