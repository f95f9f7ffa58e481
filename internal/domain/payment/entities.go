package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var (
	ErrNotFound = errors.New("payment request not found")
	// ErrNotPending: the request already reached a terminal status, so the
	// requested transition loses the race.
	ErrNotPending     = errors.New("payment request is not pending")
	ErrNoEntries      = errors.New("no installment entries linked to request")
	ErrTotalsMismatch = errors.New("item amounts do not sum to declared installment total")
	ErrReasonRequired = errors.New("rejection reason is required")
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

const (
	ModeCash       = "cash"
	ModeElectronic = "electronic"
)

// Request is one collection submission: the declared totals, the linked ledger
// entries (Items) and the resolution metadata. selected_seq_nos duplicates the
// item seq numbers so entry ids can be re-derived if items go missing.
type Request struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RequestID string `gorm:"column:request_id;type:char(32);not null;uniqueIndex:ux_payreq_request_id" json:"request_id"`
	AccountID uint64 `gorm:"column:account_id;not null;index" json:"-"`
	AgentID   uint64 `gorm:"column:agent_id;not null;index" json:"-"`
	// Actor id of the submitter (agent for submissions, admin for direct records).
	SubmittedBy string `gorm:"column:submitted_by;type:char(32);not null" json:"-"`

	Status Status `gorm:"column:status;type:enum('PENDING','APPROVED','REJECTED');default:'PENDING'" json:"status"`
	Mode   string `gorm:"column:mode;size:20;not null" json:"mode"`

	InstallmentTotal decimal.Decimal `gorm:"column:installment_total;type:decimal(18,2);default:0" json:"installment_total"`
	FineTotal        decimal.Decimal `gorm:"column:fine_total;type:decimal(18,2);default:0" json:"fine_total"`
	SurchargeTotal   decimal.Decimal `gorm:"column:surcharge_total;type:decimal(18,2);default:0" json:"surcharge_total"`
	GrandTotal       decimal.Decimal `gorm:"column:grand_total;type:decimal(18,2);default:0" json:"grand_total"`

	Notes          string                  `gorm:"column:notes;type:text" json:"notes,omitempty"`
	SelectedSeqNos datatypes.JSONSlice[int] `gorm:"column:selected_seq_nos" json:"selected_seq_nos"`

	ApprovedBy string     `gorm:"column:approved_by;type:char(32)" json:"-"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`

	RejectedBy      string     `gorm:"column:rejected_by;type:char(32)" json:"-"`
	RejectedAt      *time.Time `gorm:"column:rejected_at" json:"rejected_at,omitempty"`
	RejectionReason string     `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`

	Items []Item `gorm:"foreignKey:PaymentRequestID;references:ID" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Request) TableName() string { return "payment_requests" }

// Item attributes a slice of the request's installment total to exactly one
// ledger entry.
type Item struct {
	ID               uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PaymentRequestID uint64          `gorm:"column:payment_request_id;not null;index" json:"-"`
	EntryID          uint64          `gorm:"column:entry_id;not null;index" json:"-"`
	SeqNo            int             `gorm:"column:seq_no;not null" json:"seq_no"`
	Amount           decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Item) TableName() string { return "payment_request_items" }
