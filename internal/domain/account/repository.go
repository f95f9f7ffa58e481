package account

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByAccountID(ctx context.Context, accountID string) (*Account, error)
	GetByAccountIDForUpdate(ctx context.Context, accountID string) (*Account, error)
	GetByID(ctx context.Context, id uint64) (*Account, error)
	Save(ctx context.Context, a *Account) error
	// Complete flips RUNNING -> COMPLETE. The condition is part of the UPDATE so
	// replaying it is harmless; returns false when no row changed.
	Complete(ctx context.Context, id uint64, completedAt time.Time) (bool, error)
	// MarkSurchargePaid stamps surcharge_paid_at only when it is still unset.
	MarkSurchargePaid(ctx context.Context, id uint64, at time.Time) error
	ListRunning(ctx context.Context) ([]*Account, error)
}
