package agent

import "context"

type Repository interface {
	Create(ctx context.Context, a *Agent) error
	GetByActorID(ctx context.Context, actorID string) (*Agent, error)
	GetByID(ctx context.Context, id uint64) (*Agent, error)
}
