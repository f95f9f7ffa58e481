package agent

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("agent not found")
	ErrInactive = errors.New("agent account is inactive")
	ErrBadPIN   = errors.New("incorrect agent PIN")
)

// Agent is a field collector. PINHash is a bcrypt hash of the collection PIN
// the agent must present with every submission.
type Agent struct {
	ID      uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	AgentID string `gorm:"column:agent_id;type:char(32);not null;uniqueIndex:ux_agents_agent_id" json:"agent_id"`
	// Actor id the agent authenticates as at the boundary.
	ActorID string `gorm:"column:actor_id;type:char(32);not null;uniqueIndex:ux_agents_actor_id" json:"-"`
	Name    string `gorm:"column:name;size:120;not null" json:"name"`
	Mobile  string `gorm:"column:mobile;size:20" json:"mobile"`
	PINHash string `gorm:"column:pin_hash;size:60;not null" json:"-"`
	Active  bool   `gorm:"column:active;default:true" json:"active"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Agent) TableName() string { return "agents" }

func (a *Agent) VerifyPIN(pin string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(a.PINHash), []byte(pin)); err != nil {
		return ErrBadPIN
	}
	return nil
}

// HashPIN is used when provisioning agents.
func HashPIN(pin string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
