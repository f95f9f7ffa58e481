package actor

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("actor profile not found")
	ErrForbidden = errors.New("actor lacks required role")
)

type Role string

const (
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Profile maps an authenticated actor id to its role. Authentication itself is
// external; the core only consumes this lookup to gate privileged operations.
type Profile struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ActorID   string    `gorm:"column:actor_id;type:char(32);not null;uniqueIndex:ux_profiles_actor_id" json:"actor_id"`
	Role      Role      `gorm:"column:role;size:20;not null" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Profile) TableName() string { return "profiles" }

// Lookup resolves an actor to its role. Checked once at the usecase boundary;
// repositories never see roles.
type Lookup interface {
	RoleOf(ctx context.Context, actorID string) (Role, error)
}

// RequireAdmin is the shared gate for approve/reject/settle/direct-record.
func RequireAdmin(ctx context.Context, l Lookup, actorID string) error {
	role, err := l.RoleOf(ctx, actorID)
	if err != nil {
		return err
	}
	if role != RoleAdmin {
		return ErrForbidden
	}
	return nil
}
