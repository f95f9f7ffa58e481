package audit

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	ActionCreateAccount  = "CREATE_ACCOUNT"
	ActionSubmitPayment  = "SUBMIT_PAYMENT"
	ActionApprovePayment = "APPROVE_PAYMENT"
	ActionRejectPayment  = "REJECT_PAYMENT"
	ActionDirectPayment  = "DIRECT_PAYMENT"
	ActionSettleAccount  = "SETTLE_ACCOUNT"
	ActionAccrueFine     = "ACCRUE_FINE"
)

// Entry is one row of the append-only audit trail. Rows are never updated or
// deleted; before/after carry JSON snapshots of the mutated record.
type Entry struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ActorID    string         `gorm:"column:actor_id;type:char(32);not null;index" json:"actor_id"`
	ActorRole  string         `gorm:"column:actor_role;size:20;not null" json:"actor_role"`
	Action     string         `gorm:"column:action;size:40;not null;index" json:"action"`
	Table      string         `gorm:"column:table_name;size:64;not null" json:"table_name"`
	RecordID   string         `gorm:"column:record_id;type:char(32);not null;index" json:"record_id"`
	BeforeData datatypes.JSON `gorm:"column:before_data" json:"before_data,omitempty"`
	AfterData  datatypes.JSON `gorm:"column:after_data" json:"after_data,omitempty"`
	Remark     string         `gorm:"column:remark;type:text" json:"remark,omitempty"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "audit_log" }

// Snapshot marshals v for a before/after column. Marshal failures degrade to
// null rather than failing the audited operation.
func Snapshot(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
