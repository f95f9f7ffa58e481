package approval

import (
	"context"
	"fmt"
	"strings"

	"github.com/emiledger/backend/internal/domain/audit"
	"github.com/emiledger/backend/internal/domain/payment"
	"github.com/emiledger/backend/internal/domain/schedule"
	"github.com/emiledger/backend/internal/domain/uow"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// run is the single approval algorithm, shared by both executors. atomic
// toggles failure semantics only: under a transaction any error aborts
// everything; sequentially, errors past the ledger step become PartialError
// (fine/surcharge clears stay non-fatal, matching each step's idempotency).
func (u *Usecase) run(ctx context.Context, r uow.Repos, req *payment.Request, in ApproveInput, atomic bool) (*ApproveResult, error) {
	// Idempotency: a replayed approval is a success, not a conflict.
	if req.Status == payment.StatusApproved {
		return &ApproveResult{RequestID: req.RequestID, AlreadyApproved: true}, nil
	}
	if req.Status != payment.StatusPending {
		return nil, payment.ErrNotPending
	}

	entries, err := u.resolveEntries(ctx, r, req)
	if err != nil {
		return nil, err
	}

	now := u.nowFn()
	ids := make([]uint64, 0, len(entries))
	entryIDs := make([]string, 0, len(entries))
	lowestSeq := entries[0].SeqNo
	for _, e := range entries {
		ids = append(ids, e.ID)
		entryIDs = append(entryIDs, e.EntryID)
		if e.SeqNo < lowestSeq {
			lowestSeq = e.SeqNo
		}
	}

	// Ledger first: if this fails nothing has been committed yet.
	meta := schedule.CollectionMeta{
		Mode:             req.Mode,
		ApprovedByActor:  in.ActorID,
		CollectedByRole:  "agent",
		CollectedByActor: req.SubmittedBy,
		PaidAt:           now,
	}
	if err := r.Entries.Approve(ctx, ids, meta); err != nil {
		return nil, fmt.Errorf("ledger update failed: %w", err)
	}

	partial := func(err error) error {
		if atomic {
			return err
		}
		return &PartialError{RequestID: req.RequestID, EntryIDs: entryIDs, Err: err}
	}

	// Fines always land on the lowest-sequence entry of the request, never split.
	if req.FineTotal.IsPositive() {
		if err := r.Entries.ClearFine(ctx, req.AccountID, lowestSeq); err != nil {
			if atomic {
				return nil, err
			}
			logrus.WithError(err).WithField("request_id", req.RequestID).Warn("approval: clear fine failed")
		}
	}

	// Conditioned on surcharge_paid_at being unset, so replays are no-ops.
	if req.SurchargeTotal.IsPositive() {
		if err := r.Accounts.MarkSurchargePaid(ctx, req.AccountID, now); err != nil {
			if atomic {
				return nil, err
			}
			logrus.WithError(err).WithField("request_id", req.RequestID).Warn("approval: mark surcharge failed")
		}
	}

	req.Status = payment.StatusApproved
	req.ApprovedBy = in.ActorID
	req.ApprovedAt = &now
	req.Notes = appendRemark(req.Notes, in.Remark)
	if err := r.Requests.Save(ctx, req); err != nil {
		return nil, partial(fmt.Errorf("request finalize failed: %w", err))
	}

	remaining, err := r.Entries.CountOutstanding(ctx, req.AccountID)
	if err != nil {
		return nil, partial(err)
	}
	if remaining == 0 {
		// Conditioned on RUNNING, so a settlement racing this is harmless.
		if _, err := r.Accounts.Complete(ctx, req.AccountID, now); err != nil {
			return nil, partial(err)
		}
	}

	if err := r.Audits.Append(ctx, &audit.Entry{
		ActorID:    in.ActorID,
		ActorRole:  "admin",
		Action:     audit.ActionApprovePayment,
		Table:      payment.Request{}.TableName(),
		RecordID:   req.RequestID,
		BeforeData: audit.Snapshot(map[string]any{"status": payment.StatusPending}),
		AfterData: audit.Snapshot(map[string]any{
			"status":      payment.StatusApproved,
			"entry_ids":   entryIDs,
			"approved_at": now,
		}),
		Remark: in.Remark,
	}); err != nil {
		return nil, partial(err)
	}

	return &ApproveResult{RequestID: req.RequestID, EntryIDs: entryIDs, ApprovedAt: &now}, nil
}

// resolveEntries returns the ledger entries an approval must touch. When the
// item rows are missing (historic data inconsistency) the ids are re-derived
// from the request's recorded sequence numbers and the items are backfilled.
// Approval never proceeds without an explicit entry list.
func (u *Usecase) resolveEntries(ctx context.Context, r uow.Repos, req *payment.Request) ([]*schedule.Entry, error) {
	if len(req.Items) > 0 {
		ids := make([]uint64, 0, len(req.Items))
		for _, it := range req.Items {
			ids = append(ids, it.EntryID)
		}
		entries, err := r.Entries.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			return entries, nil
		}
	}

	if len(req.SelectedSeqNos) > 0 {
		logrus.WithField("request_id", req.RequestID).Warn("approval: items missing, resolving from recorded seq nos")
		entries, err := r.Entries.GetBySeqNos(ctx, req.AccountID, []int(req.SelectedSeqNos))
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			items := make([]*payment.Item, 0, len(entries))
			// Equal shares, rounding remainder on the last item so the items
			// still sum to the declared installment total.
			share := req.InstallmentTotal.DivRound(decimal.NewFromInt(int64(len(entries))), 2)
			for i, e := range entries {
				amt := share
				if i == len(entries)-1 {
					amt = req.InstallmentTotal.Sub(share.Mul(decimal.NewFromInt(int64(len(entries) - 1))))
				}
				items = append(items, &payment.Item{
					PaymentRequestID: req.ID,
					EntryID:          e.ID,
					SeqNo:            e.SeqNo,
					Amount:           amt,
				})
			}
			if err := r.Requests.CreateItems(ctx, items); err != nil {
				return nil, err
			}
			return entries, nil
		}
	}

	return nil, payment.ErrNoEntries
}

func (u *Usecase) reject(ctx context.Context, r uow.Repos, req *payment.Request, in RejectInput) error {
	if req.Status != payment.StatusPending {
		return payment.ErrNotPending
	}

	ids := make([]uint64, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.EntryID)
	}
	// Revert exactly the entries this request moved to PENDING_APPROVAL.
	if err := r.Entries.UpdateStatus(ctx, ids, schedule.StatusUnpaid); err != nil {
		return err
	}

	now := u.nowFn()
	req.Status = payment.StatusRejected
	req.RejectedBy = in.ActorID
	req.RejectedAt = &now
	req.RejectionReason = in.Reason
	if err := r.Requests.Save(ctx, req); err != nil {
		return err
	}

	return r.Audits.Append(ctx, &audit.Entry{
		ActorID:    in.ActorID,
		ActorRole:  "admin",
		Action:     audit.ActionRejectPayment,
		Table:      payment.Request{}.TableName(),
		RecordID:   req.RequestID,
		BeforeData: audit.Snapshot(map[string]any{"status": payment.StatusPending}),
		AfterData:  audit.Snapshot(map[string]any{"status": payment.StatusRejected, "reason": in.Reason}),
		Remark:     in.Reason,
	})
}

func appendRemark(notes, remark string) string {
	if remark == "" {
		return notes
	}
	if notes == "" {
		return "Admin remark: " + remark
	}
	return notes + "\nAdmin remark: " + remark
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
