package settlement

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("settlement record not found")

// Record is one negotiated early-closure event. At most one exists per account;
// its presence implies the account is COMPLETE and settled.
type Record struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	SettlementID    string          `gorm:"column:settlement_id;type:char(32);not null;uniqueIndex:ux_settlements_settlement_id" json:"settlement_id"`
	AccountID       uint64          `gorm:"column:account_id;not null;uniqueIndex:ux_settlements_account" json:"-"`
	AmountCollected decimal.Decimal `gorm:"column:amount_collected;type:decimal(18,2);not null" json:"amount_collected"`
	SettlementDate  time.Time       `gorm:"column:settlement_date;type:date;not null" json:"settlement_date"`
	Note            string          `gorm:"column:note;type:text" json:"note,omitempty"`
	SettledBy       string          `gorm:"column:settled_by;type:char(32);not null" json:"-"`
	SettledAt       time.Time       `gorm:"column:settled_at;not null" json:"settled_at"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Record) TableName() string { return "account_settlements" }
