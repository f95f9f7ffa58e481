package approval

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInput = errors.New("request id is required")

type ApproveInput struct {
	RequestID string
	ActorID   string
	Remark    string
}

type ApproveResult struct {
	RequestID       string     `json:"request_id"`
	EntryIDs        []string   `json:"entry_ids,omitempty"`
	AlreadyApproved bool       `json:"already_approved,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
}

type RejectInput struct {
	RequestID string
	ActorID   string
	Reason    string
}

// PartialError reports the degraded executor stopping after the ledger step
// committed: the entries are APPROVED but the request is not yet finalized.
// EntryIDs lets the caller re-drive the remaining steps; a full retry is also
// safe because every step is idempotent.
type PartialError struct {
	RequestID string
	EntryIDs  []string
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("request %s partially approved (%d entries committed): %v",
		e.RequestID, len(e.EntryIDs), e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }
