package schedule

import (
	"context"
	"time"
)

// CollectionMeta is stamped onto every entry an approval marks APPROVED.
type CollectionMeta struct {
	Mode             string
	ApprovedByActor  string
	CollectedByRole  string
	CollectedByActor string
	PaidAt           time.Time
}

type Repository interface {
	BulkCreate(ctx context.Context, entries []*Entry) error
	ListByAccountID(ctx context.Context, accountID uint64) ([]*Entry, error)
	// GetByEntryIDs resolves public entry ids scoped to one account; a missing
	// id is the caller's not-found condition (len mismatch).
	GetByEntryIDs(ctx context.Context, accountID uint64, entryIDs []string) ([]*Entry, error)
	GetByEntryIDsForUpdate(ctx context.Context, accountID uint64, entryIDs []string) ([]*Entry, error)
	GetBySeqNos(ctx context.Context, accountID uint64, seqNos []int) ([]*Entry, error)
	GetByIDs(ctx context.Context, ids []uint64) ([]*Entry, error)
	Save(ctx context.Context, e *Entry) error
	UpdateStatus(ctx context.Context, ids []uint64, status Status) error
	// Approve sets APPROVED plus collection metadata on all ids in one statement.
	Approve(ctx context.Context, ids []uint64, meta CollectionMeta) error
	// ClearFine zeroes and waives the fine on one (account, seq_no) row.
	ClearFine(ctx context.Context, accountID uint64, seqNo int) error
	// CountOutstanding counts entries still UNPAID or PENDING_APPROVAL.
	CountOutstanding(ctx context.Context, accountID uint64) (int64, error)
	// FirstOutstanding returns the lowest-seq non-APPROVED entry, or ErrNotFound.
	FirstOutstanding(ctx context.Context, accountID uint64) (*Entry, error)
}
