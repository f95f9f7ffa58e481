package schedulemock

import (
	"context"

	domain "github.com/emiledger/backend/internal/domain/schedule"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only fill in the funcs a test needs; nil getters return context.Canceled.
type Repo struct {
	BulkCreateFn             func(ctx context.Context, entries []*domain.Entry) error
	ListByAccountIDFn        func(ctx context.Context, accountID uint64) ([]*domain.Entry, error)
	GetByEntryIDsFn          func(ctx context.Context, accountID uint64, entryIDs []string) ([]*domain.Entry, error)
	GetByEntryIDsForUpdateFn func(ctx context.Context, accountID uint64, entryIDs []string) ([]*domain.Entry, error)
	GetBySeqNosFn            func(ctx context.Context, accountID uint64, seqNos []int) ([]*domain.Entry, error)
	GetByIDsFn               func(ctx context.Context, ids []uint64) ([]*domain.Entry, error)
	SaveFn                   func(ctx context.Context, e *domain.Entry) error
	UpdateStatusFn           func(ctx context.Context, ids []uint64, status domain.Status) error
	ApproveFn                func(ctx context.Context, ids []uint64, meta domain.CollectionMeta) error
	ClearFineFn              func(ctx context.Context, accountID uint64, seqNo int) error
	CountOutstandingFn       func(ctx context.Context, accountID uint64) (int64, error)
	FirstOutstandingFn       func(ctx context.Context, accountID uint64) (*domain.Entry, error)
}

func (m *Repo) BulkCreate(ctx context.Context, entries []*domain.Entry) error {
	if m.BulkCreateFn != nil {
		return m.BulkCreateFn(ctx, entries)
	}
	return nil
}

func (m *Repo) ListByAccountID(ctx context.Context, accountID uint64) ([]*domain.Entry, error) {
	if m.ListByAccountIDFn != nil {
		return m.ListByAccountIDFn(ctx, accountID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByEntryIDs(ctx context.Context, accountID uint64, entryIDs []string) ([]*domain.Entry, error) {
	if m.GetByEntryIDsFn != nil {
		return m.GetByEntryIDsFn(ctx, accountID, entryIDs)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByEntryIDsForUpdate(ctx context.Context, accountID uint64, entryIDs []string) ([]*domain.Entry, error) {
	if m.GetByEntryIDsForUpdateFn != nil {
		return m.GetByEntryIDsForUpdateFn(ctx, accountID, entryIDs)
	}
	return nil, context.Canceled
}

func (m *Repo) GetBySeqNos(ctx context.Context, accountID uint64, seqNos []int) ([]*domain.Entry, error) {
	if m.GetBySeqNosFn != nil {
		return m.GetBySeqNosFn(ctx, accountID, seqNos)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDs(ctx context.Context, ids []uint64) ([]*domain.Entry, error) {
	if m.GetByIDsFn != nil {
		return m.GetByIDsFn(ctx, ids)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, e *domain.Entry) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, e)
	}
	return nil
}

func (m *Repo) UpdateStatus(ctx context.Context, ids []uint64, status domain.Status) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, ids, status)
	}
	return nil
}

func (m *Repo) Approve(ctx context.Context, ids []uint64, meta domain.CollectionMeta) error {
	if m.ApproveFn != nil {
		return m.ApproveFn(ctx, ids, meta)
	}
	return nil
}

func (m *Repo) ClearFine(ctx context.Context, accountID uint64, seqNo int) error {
	if m.ClearFineFn != nil {
		return m.ClearFineFn(ctx, accountID, seqNo)
	}
	return nil
}

func (m *Repo) CountOutstanding(ctx context.Context, accountID uint64) (int64, error) {
	if m.CountOutstandingFn != nil {
		return m.CountOutstandingFn(ctx, accountID)
	}
	return 0, nil
}

func (m *Repo) FirstOutstanding(ctx context.Context, accountID uint64) (*domain.Entry, error) {
	if m.FirstOutstandingFn != nil {
		return m.FirstOutstandingFn(ctx, accountID)
	}
	return nil, context.Canceled
}
