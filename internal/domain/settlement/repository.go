package settlement

import "context"

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByAccountID(ctx context.Context, accountID uint64) (*Record, error)
}
