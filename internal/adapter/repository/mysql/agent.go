package mysql

import (
	"context"
	"errors"

	actorDomain "github.com/emiledger/backend/internal/domain/actor"
	agentDomain "github.com/emiledger/backend/internal/domain/agent"

	"gorm.io/gorm"
)

type AgentRepository struct{ db *gorm.DB }

func NewAgentRepository(db *gorm.DB) *AgentRepository { return &AgentRepository{db: db} }

func (r *AgentRepository) Create(ctx context.Context, a *agentDomain.Agent) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AgentRepository) GetByActorID(ctx context.Context, actorID string) (*agentDomain.Agent, error) {
	var out agentDomain.Agent
	res := r.db.WithContext(ctx).Where("actor_id = ?", actorID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, agentDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *AgentRepository) GetByID(ctx context.Context, id uint64) (*agentDomain.Agent, error) {
	var out agentDomain.Agent
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, agentDomain.ErrNotFound
	}
	return &out, res.Error
}

// ProfileRepository backs the actor-role lookup consumed at usecase boundaries.
type ProfileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) *ProfileRepository { return &ProfileRepository{db: db} }

func (r *ProfileRepository) RoleOf(ctx context.Context, actorID string) (actorDomain.Role, error) {
	var out actorDomain.Profile
	res := r.db.WithContext(ctx).Where("actor_id = ?", actorID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return "", actorDomain.ErrNotFound
	}
	return out.Role, res.Error
}
