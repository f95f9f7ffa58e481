package actormock

import (
	"context"

	"github.com/emiledger/backend/internal/domain/actor"
)

var _ actor.Lookup = (*Lookup)(nil)

// Lookup is a function-backed mock for actor.Lookup. The zero value reports
// every actor as admin, which is what most approval-path tests want.
type Lookup struct {
	RoleOfFn func(ctx context.Context, actorID string) (actor.Role, error)
}

func (m *Lookup) RoleOf(ctx context.Context, actorID string) (actor.Role, error) {
	if m.RoleOfFn != nil {
		return m.RoleOfFn(ctx, actorID)
	}
	return actor.RoleAdmin, nil
}

// Admin returns a lookup that grants admin to everyone.
func Admin() *Lookup { return &Lookup{} }

// AgentOnly returns a lookup that reports every actor as a field agent.
func AgentOnly() *Lookup {
	return &Lookup{RoleOfFn: func(context.Context, string) (actor.Role, error) {
		return actor.RoleAgent, nil
	}}
}
