package agentmock

import (
	"context"

	domain "github.com/emiledger/backend/internal/domain/agent"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, a *domain.Agent) error
	GetByActorIDFn func(ctx context.Context, actorID string) (*domain.Agent, error)
	GetByIDFn      func(ctx context.Context, id uint64) (*domain.Agent, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Agent) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByActorID(ctx context.Context, actorID string) (*domain.Agent, error) {
	if m.GetByActorIDFn != nil {
		return m.GetByActorIDFn(ctx, actorID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Agent, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
