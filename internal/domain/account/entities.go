package account

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrNotRunning = errors.New("account is not in RUNNING status")
)

type Status string

const (
	StatusRunning  Status = "RUNNING"
	StatusComplete Status = "COMPLETE"
)

// Account is one financed device. Status moves RUNNING -> COMPLETE exactly once,
// either by approving the last installment or by an early settlement.
type Account struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	AccountID string `gorm:"column:account_id;type:char(32);not null;uniqueIndex:ux_accounts_account_id" json:"account_id"`
	// Numeric FK to agents.id — the agent who owns collections for this account.
	AgentID      uint64 `gorm:"column:agent_id;not null;index" json:"-"`
	CustomerName string `gorm:"column:customer_name;size:120;not null" json:"customer_name"`
	Mobile       string `gorm:"column:mobile;size:20" json:"mobile"`
	IMEI         string `gorm:"column:imei;size:20;index" json:"imei"`

	// Schedule parameters; the ledger rows are generated from these at creation.
	InstallmentAmount decimal.Decimal `gorm:"column:installment_amount;type:decimal(18,2);not null" json:"installment_amount"`
	InstallmentCount  int             `gorm:"column:installment_count;not null" json:"installment_count"`
	DueDay            int             `gorm:"column:due_day;not null" json:"due_day"`
	StartDate         time.Time       `gorm:"column:start_date;type:date;not null" json:"start_date"`

	Status         Status     `gorm:"column:status;type:enum('RUNNING','COMPLETE');default:'RUNNING'" json:"status"`
	IsSettled      bool       `gorm:"column:is_settled;default:false" json:"is_settled"`
	CompletionDate *time.Time `gorm:"column:completion_date;type:date" json:"completion_date,omitempty"`

	// First-installment surcharge: a one-time extra charge collected alongside
	// (usually) the first due. Paid amount accumulates on direct recordings.
	SurchargeAmount     decimal.Decimal `gorm:"column:surcharge_amount;type:decimal(18,2);default:0" json:"surcharge_amount"`
	SurchargePaidAmount decimal.Decimal `gorm:"column:surcharge_paid_amount;type:decimal(18,2);default:0" json:"surcharge_paid_amount"`
	SurchargePaidAt     *time.Time      `gorm:"column:surcharge_paid_at" json:"surcharge_paid_at,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Account) TableName() string { return "customer_accounts" }

// SurchargeOutstanding is the portion of the first-installment surcharge not yet paid.
func (a *Account) SurchargeOutstanding() decimal.Decimal {
	out := a.SurchargeAmount.Sub(a.SurchargePaidAmount)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
