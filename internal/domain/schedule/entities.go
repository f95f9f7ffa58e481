package schedule

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("installment entry not found")
	// ErrConflict: one or more referenced entries are not in the status the
	// operation requires (e.g. already pending or approved at submission time).
	ErrConflict = errors.New("installment entries not collectible")
)

type Status string

const (
	StatusUnpaid          Status = "UNPAID"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
)

// Entry is one scheduled due on the installment ledger. Rows are bulk-created
// when the account is created and never deleted; seq_no runs contiguously from 1.
// Allowed transitions: UNPAID -> PENDING_APPROVAL -> {APPROVED, UNPAID}.
type Entry struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	EntryID   string `gorm:"column:entry_id;type:char(32);not null;uniqueIndex:ux_emi_entry_id" json:"entry_id"`
	AccountID uint64 `gorm:"column:account_id;not null;index;uniqueIndex:ux_emi_account_seq,priority:1" json:"-"`
	SeqNo     int    `gorm:"column:seq_no;not null;uniqueIndex:ux_emi_account_seq,priority:2" json:"seq_no"`

	DueDate    time.Time       `gorm:"column:due_date;type:date;not null" json:"due_date"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	PaidAmount decimal.Decimal `gorm:"column:paid_amount;type:decimal(18,2);default:0" json:"paid_amount"`
	Status     Status          `gorm:"column:status;type:enum('UNPAID','PENDING_APPROVAL','APPROVED');default:'UNPAID'" json:"status"`

	FineAmount decimal.Decimal `gorm:"column:fine_amount;type:decimal(18,2);default:0" json:"fine_amount"`
	FineWaived bool            `gorm:"column:fine_waived;default:false" json:"fine_waived"`

	// Collection metadata, written when the entry reaches APPROVED.
	Mode             string     `gorm:"column:mode;size:20" json:"mode,omitempty"`
	CollectedByRole  string     `gorm:"column:collected_by_role;size:20" json:"collected_by_role,omitempty"`
	CollectedByActor string     `gorm:"column:collected_by_actor;type:char(32)" json:"-"`
	ApprovedByActor  string     `gorm:"column:approved_by_actor;type:char(32)" json:"-"`
	PaidAt           *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Entry) TableName() string { return "emi_schedule" }

// Outstanding is the uncollected remainder of the scheduled amount.
func (e *Entry) Outstanding() decimal.Decimal {
	out := e.Amount.Sub(e.PaidAmount)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
