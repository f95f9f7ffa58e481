package accountmock

import (
	"context"
	"time"

	domain "github.com/emiledger/backend/internal/domain/account"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only fill in the funcs a test needs; nil getters return context.Canceled.
type Repo struct {
	CreateFn                  func(ctx context.Context, a *domain.Account) error
	GetByAccountIDFn          func(ctx context.Context, accountID string) (*domain.Account, error)
	GetByAccountIDForUpdateFn func(ctx context.Context, accountID string) (*domain.Account, error)
	GetByIDFn                 func(ctx context.Context, id uint64) (*domain.Account, error)
	SaveFn                    func(ctx context.Context, a *domain.Account) error
	CompleteFn                func(ctx context.Context, id uint64, completedAt time.Time) (bool, error)
	MarkSurchargePaidFn       func(ctx context.Context, id uint64, at time.Time) error
	ListRunningFn             func(ctx context.Context) ([]*domain.Account, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByAccountID(ctx context.Context, accountID string) (*domain.Account, error) {
	if m.GetByAccountIDFn != nil {
		return m.GetByAccountIDFn(ctx, accountID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByAccountIDForUpdate(ctx context.Context, accountID string) (*domain.Account, error) {
	if m.GetByAccountIDForUpdateFn != nil {
		return m.GetByAccountIDForUpdateFn(ctx, accountID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, a *domain.Account) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) Complete(ctx context.Context, id uint64, completedAt time.Time) (bool, error) {
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, id, completedAt)
	}
	return false, nil
}

func (m *Repo) MarkSurchargePaid(ctx context.Context, id uint64, at time.Time) error {
	if m.MarkSurchargePaidFn != nil {
		return m.MarkSurchargePaidFn(ctx, id, at)
	}
	return nil
}

func (m *Repo) ListRunning(ctx context.Context) ([]*domain.Account, error) {
	if m.ListRunningFn != nil {
		return m.ListRunningFn(ctx)
	}
	return nil, nil
}
