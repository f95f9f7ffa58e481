package direct

import (
	"context"
	"errors"
	"time"

	accountDomain "github.com/emiledger/backend/internal/domain/account"
	"github.com/emiledger/backend/internal/domain/actor"
	"github.com/emiledger/backend/internal/domain/audit"
	"github.com/emiledger/backend/internal/domain/payment"
	"github.com/emiledger/backend/internal/domain/schedule"
	"github.com/emiledger/backend/internal/domain/uow"
	"github.com/emiledger/backend/internal/integrations/mirror"
	"github.com/emiledger/backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var ErrInvalidInput = errors.New("missing required direct-recording fields")

// Usecase is the administrator bypass: record partial or full payments
// directly, without a prior agent submission.
type Usecase struct {
	uow      uow.UnitOfWork
	roles    actor.Lookup
	notifier mirror.Notifier
	nowFn    func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, roles actor.Lookup, notifier mirror.Notifier) *Usecase {
	if notifier == nil {
		notifier = mirror.Nop{}
	}
	return &Usecase{uow: tx, roles: roles, notifier: notifier, nowFn: func() time.Time { return time.Now().UTC() }}
}

type RecordItem struct {
	EntryID string
	// Zero means "the entry's full scheduled amount".
	Amount decimal.Decimal
}

type RecordInput struct {
	AccountID      string
	Items          []RecordItem
	Mode           string
	Notes          string
	ActorID        string
	FineTotal      decimal.Decimal
	SurchargeTotal decimal.Decimal
	GrandTotal     decimal.Decimal
}

type RecordResult struct {
	RequestID string `json:"request_id"`
}

// Record creates a request pre-marked APPROVED and applies each amount to its
// entry's running collected total. An entry flips to APPROVED only once the
// cumulative total reaches the scheduled amount; otherwise it stays UNPAID
// with the partial amount recorded.
func (u *Usecase) Record(ctx context.Context, in RecordInput) (*RecordResult, error) {
	if in.AccountID == "" || len(in.Items) == 0 || in.Mode == "" {
		return nil, ErrInvalidInput
	}
	if err := actor.RequireAdmin(ctx, u.roles, in.ActorID); err != nil {
		return nil, err
	}

	entryIDs := make([]string, 0, len(in.Items))
	amountByEntry := make(map[string]decimal.Decimal, len(in.Items))
	for _, it := range in.Items {
		entryIDs = append(entryIDs, it.EntryID)
		amountByEntry[it.EntryID] = it.Amount
	}

	var requestID string
	err := u.uow.WithinAccountTx(ctx, in.AccountID, func(r uow.Repos, acc *accountDomain.Account) error {
		entries, err := r.Entries.GetByEntryIDsForUpdate(ctx, acc.ID, entryIDs)
		if err != nil {
			return err
		}
		if len(entries) != len(entryIDs) {
			return schedule.ErrNotFound
		}

		now := u.nowFn()
		installmentTotal := decimal.Zero
		seqNos := make([]int, 0, len(entries))
		for _, e := range entries {
			amt := amountByEntry[e.EntryID]
			if amt.IsZero() {
				amt = e.Amount
				amountByEntry[e.EntryID] = amt
			}
			installmentTotal = installmentTotal.Add(amt)
			seqNos = append(seqNos, e.SeqNo)
		}

		req := &payment.Request{
			RequestID:        id.NewID32(),
			AccountID:        acc.ID,
			AgentID:          acc.AgentID,
			SubmittedBy:      in.ActorID,
			Status:           payment.StatusApproved,
			Mode:             in.Mode,
			InstallmentTotal: installmentTotal,
			FineTotal:        in.FineTotal,
			SurchargeTotal:   in.SurchargeTotal,
			GrandTotal:       in.GrandTotal,
			Notes:            in.Notes,
			SelectedSeqNos:   datatypes.JSONSlice[int](seqNos),
			ApprovedBy:       in.ActorID,
			ApprovedAt:       &now,
		}
		if err := r.Requests.Create(ctx, req); err != nil {
			return err
		}

		items := make([]*payment.Item, 0, len(entries))
		for _, e := range entries {
			items = append(items, &payment.Item{
				PaymentRequestID: req.ID,
				EntryID:          e.ID,
				SeqNo:            e.SeqNo,
				Amount:           amountByEntry[e.EntryID],
			})
		}
		if err := r.Requests.CreateItems(ctx, items); err != nil {
			_ = r.Requests.Delete(ctx, req.ID)
			return err
		}

		for _, e := range entries {
			e.PaidAmount = e.PaidAmount.Add(amountByEntry[e.EntryID])
			e.Mode = in.Mode
			e.ApprovedByActor = in.ActorID
			e.CollectedByRole = "admin"
			e.CollectedByActor = in.ActorID
			if e.PaidAmount.GreaterThanOrEqual(e.Amount) {
				e.Status = schedule.StatusApproved
				paidAt := now
				e.PaidAt = &paidAt
			}
			if err := r.Entries.Save(ctx, e); err != nil {
				return err
			}
		}

		// Surcharge accumulates across partial recordings the same way.
		if in.SurchargeTotal.IsPositive() {
			acc.SurchargePaidAmount = acc.SurchargePaidAmount.Add(in.SurchargeTotal)
			if acc.SurchargePaidAmount.GreaterThanOrEqual(acc.SurchargeAmount) && acc.SurchargePaidAt == nil {
				paidAt := now
				acc.SurchargePaidAt = &paidAt
			}
			if err := r.Accounts.Save(ctx, acc); err != nil {
				return err
			}
		}

		remaining, err := r.Entries.CountOutstanding(ctx, acc.ID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if _, err := r.Accounts.Complete(ctx, acc.ID, now); err != nil {
				return err
			}
		}

		requestID = req.RequestID
		return r.Audits.Append(ctx, &audit.Entry{
			ActorID:   in.ActorID,
			ActorRole: "admin",
			Action:    audit.ActionDirectPayment,
			Table:     payment.Request{}.TableName(),
			RecordID:  req.RequestID,
			AfterData: audit.Snapshot(map[string]any{
				"account_id":  in.AccountID,
				"grand_total": in.GrandTotal,
				"mode":        in.Mode,
			}),
		})
	})
	if err != nil {
		return nil, err
	}

	u.notifier.Notify(ctx, mirror.Event{
		Action:    audit.ActionDirectPayment,
		AccountID: in.AccountID,
		RecordID:  requestID,
		At:        u.nowFn(),
	})
	return &RecordResult{RequestID: requestID}, nil
}
