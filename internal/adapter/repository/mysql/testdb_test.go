package mysql

import (
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schemas only for tests (no ENUM columns) ---

type accountSQLite struct {
	ID                  uint64         `gorm:"primaryKey;column:id"`
	AccountID           string         `gorm:"size:32;column:account_id"`
	AgentID             uint64         `gorm:"column:agent_id"`
	CustomerName        string         `gorm:"column:customer_name"`
	Mobile              string         `gorm:"column:mobile"`
	IMEI                string         `gorm:"column:imei"`
	InstallmentAmount   string         `gorm:"column:installment_amount"`
	InstallmentCount    int            `gorm:"column:installment_count"`
	DueDay              int            `gorm:"column:due_day"`
	StartDate           time.Time      `gorm:"column:start_date"`
	Status              string         `gorm:"type:text;column:status"` // ← no enum
	IsSettled           bool           `gorm:"column:is_settled"`
	CompletionDate      *time.Time     `gorm:"column:completion_date"`
	SurchargeAmount     string         `gorm:"column:surcharge_amount"`
	SurchargePaidAmount string         `gorm:"column:surcharge_paid_amount"`
	SurchargePaidAt     *time.Time     `gorm:"column:surcharge_paid_at"`
	CreatedAt           time.Time      `gorm:"column:created_at"`
	UpdatedAt           time.Time      `gorm:"column:updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (accountSQLite) TableName() string { return "customer_accounts" }

type entrySQLite struct {
	ID               uint64     `gorm:"primaryKey;column:id"`
	EntryID          string     `gorm:"size:32;column:entry_id"`
	AccountID        uint64     `gorm:"column:account_id"`
	SeqNo            int        `gorm:"column:seq_no"`
	DueDate          time.Time  `gorm:"column:due_date"`
	Amount           string     `gorm:"column:amount"`
	PaidAmount       string     `gorm:"column:paid_amount"`
	Status           string     `gorm:"type:text;column:status"` // ← no enum
	FineAmount       string     `gorm:"column:fine_amount"`
	FineWaived       bool       `gorm:"column:fine_waived"`
	Mode             string     `gorm:"column:mode"`
	CollectedByRole  string     `gorm:"column:collected_by_role"`
	CollectedByActor string     `gorm:"column:collected_by_actor"`
	ApprovedByActor  string     `gorm:"column:approved_by_actor"`
	PaidAt           *time.Time `gorm:"column:paid_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (entrySQLite) TableName() string { return "emi_schedule" }

type requestSQLite struct {
	ID               uint64                   `gorm:"primaryKey;column:id"`
	RequestID        string                   `gorm:"size:32;column:request_id"`
	AccountID        uint64                   `gorm:"column:account_id"`
	AgentID          uint64                   `gorm:"column:agent_id"`
	SubmittedBy      string                   `gorm:"column:submitted_by"`
	Status           string                   `gorm:"type:text;column:status"` // ← no enum
	Mode             string                   `gorm:"column:mode"`
	InstallmentTotal string                   `gorm:"column:installment_total"`
	FineTotal        string                   `gorm:"column:fine_total"`
	SurchargeTotal   string                   `gorm:"column:surcharge_total"`
	GrandTotal       string                   `gorm:"column:grand_total"`
	Notes            string                   `gorm:"column:notes"`
	SelectedSeqNos   datatypes.JSONSlice[int] `gorm:"column:selected_seq_nos"`
	ApprovedBy       string                   `gorm:"column:approved_by"`
	ApprovedAt       *time.Time               `gorm:"column:approved_at"`
	RejectedBy       string                   `gorm:"column:rejected_by"`
	RejectedAt       *time.Time               `gorm:"column:rejected_at"`
	RejectionReason  string                   `gorm:"column:rejection_reason"`
	CreatedAt        time.Time                `gorm:"column:created_at"`
	UpdatedAt        time.Time                `gorm:"column:updated_at"`
}

func (requestSQLite) TableName() string { return "payment_requests" }

type itemSQLite struct {
	ID               uint64    `gorm:"primaryKey;column:id"`
	PaymentRequestID uint64    `gorm:"column:payment_request_id"`
	EntryID          uint64    `gorm:"column:entry_id"`
	SeqNo            int       `gorm:"column:seq_no"`
	Amount           string    `gorm:"column:amount"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (itemSQLite) TableName() string { return "payment_request_items" }

type settlementSQLite struct {
	ID              uint64    `gorm:"primaryKey;column:id"`
	SettlementID    string    `gorm:"size:32;column:settlement_id"`
	AccountID       uint64    `gorm:"column:account_id"`
	AmountCollected string    `gorm:"column:amount_collected"`
	SettlementDate  time.Time `gorm:"column:settlement_date"`
	Note            string    `gorm:"column:note"`
	SettledBy       string    `gorm:"column:settled_by"`
	SettledAt       time.Time `gorm:"column:settled_at"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (settlementSQLite) TableName() string { return "account_settlements" }

type auditSQLite struct {
	ID         uint64         `gorm:"primaryKey;column:id"`
	ActorID    string         `gorm:"column:actor_id"`
	ActorRole  string         `gorm:"column:actor_role"`
	Action     string         `gorm:"column:action"`
	Table      string         `gorm:"column:table_name"`
	RecordID   string         `gorm:"column:record_id"`
	BeforeData datatypes.JSON `gorm:"column:before_data"`
	AfterData  datatypes.JSON `gorm:"column:after_data"`
	Remark     string         `gorm:"column:remark"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
}

func (auditSQLite) TableName() string { return "audit_log" }

type agentSQLite struct {
	ID        uint64         `gorm:"primaryKey;column:id"`
	AgentID   string         `gorm:"size:32;column:agent_id"`
	ActorID   string         `gorm:"size:32;column:actor_id"`
	Name      string         `gorm:"column:name"`
	Mobile    string         `gorm:"column:mobile"`
	PINHash   string         `gorm:"column:pin_hash"`
	Active    bool           `gorm:"column:active"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (agentSQLite) TableName() string { return "agents" }

type profileSQLite struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	ActorID   string    `gorm:"size:32;column:actor_id"`
	Role      string    `gorm:"column:role"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (profileSQLite) TableName() string { return "profiles" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe
// schemas. The locking repo methods (FOR UPDATE) are never exercised here,
// sqlite has no row locks.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&accountSQLite{}, &entrySQLite{}, &requestSQLite{}, &itemSQLite{},
		&settlementSQLite{}, &auditSQLite{}, &agentSQLite{}, &profileSQLite{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
