package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	accountDomain "github.com/emiledger/backend/internal/domain/account"
	agentDomain "github.com/emiledger/backend/internal/domain/agent"
	"github.com/emiledger/backend/internal/domain/audit"
	"github.com/emiledger/backend/internal/domain/payment"
	"github.com/emiledger/backend/internal/domain/schedule"
	"github.com/emiledger/backend/internal/domain/uow"
	"github.com/emiledger/backend/internal/integrations/mirror"
	"github.com/emiledger/backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var ErrInvalidInput = errors.New("missing required submission fields")

type Usecase struct {
	uow      uow.UnitOfWork
	agents   agentDomain.Repository
	notifier mirror.Notifier
}

func NewUsecase(tx uow.UnitOfWork, agents agentDomain.Repository, notifier mirror.Notifier) *Usecase {
	if notifier == nil {
		notifier = mirror.Nop{}
	}
	return &Usecase{uow: tx, agents: agents, notifier: notifier}
}

type SubmitItem struct {
	EntryID string
	Amount  decimal.Decimal
}

type SubmitInput struct {
	AccountID        string
	Items            []SubmitItem
	Mode             string
	Notes            string
	ActorID          string // submitting agent's actor id
	PIN              string
	InstallmentTotal decimal.Decimal
	FineTotal        decimal.Decimal
	SurchargeTotal   decimal.Decimal
	GrandTotal       decimal.Decimal
}

type SubmitResult struct {
	RequestID string `json:"request_id"`
}

// Submit creates a PENDING payment request and moves the referenced ledger
// entries to PENDING_APPROVAL. Entries not currently UNPAID fail the whole
// submission with a conflict naming the offending sequence numbers.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if in.AccountID == "" || len(in.Items) == 0 || in.Mode == "" {
		return nil, ErrInvalidInput
	}
	if in.PIN == "" {
		return nil, agentDomain.ErrBadPIN
	}

	ag, err := u.agents.GetByActorID(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}
	if !ag.Active {
		return nil, agentDomain.ErrInactive
	}
	if err := ag.VerifyPIN(in.PIN); err != nil {
		return nil, err
	}

	declared := decimal.Zero
	entryIDs := make([]string, 0, len(in.Items))
	amountByEntry := make(map[string]decimal.Decimal, len(in.Items))
	for _, it := range in.Items {
		declared = declared.Add(it.Amount)
		entryIDs = append(entryIDs, it.EntryID)
		amountByEntry[it.EntryID] = it.Amount
	}
	if !declared.Equal(in.InstallmentTotal) {
		return nil, payment.ErrTotalsMismatch
	}

	var requestID string
	err = u.uow.WithinAccountTx(ctx, in.AccountID, func(r uow.Repos, acc *accountDomain.Account) error {
		if acc.Status != accountDomain.StatusRunning {
			return accountDomain.ErrNotRunning
		}

		entries, err := r.Entries.GetByEntryIDsForUpdate(ctx, acc.ID, entryIDs)
		if err != nil {
			return err
		}
		if len(entries) != len(entryIDs) {
			return schedule.ErrNotFound
		}

		var conflicting []int
		for _, e := range entries {
			if e.Status != schedule.StatusUnpaid {
				conflicting = append(conflicting, e.SeqNo)
			}
		}
		if len(conflicting) > 0 {
			return fmt.Errorf("%w: seq %v", schedule.ErrConflict, conflicting)
		}

		seqNos := make([]int, 0, len(entries))
		for _, e := range entries {
			seqNos = append(seqNos, e.SeqNo)
		}

		req := &payment.Request{
			RequestID:        id.NewID32(),
			AccountID:        acc.ID,
			AgentID:          ag.ID,
			SubmittedBy:      in.ActorID,
			Status:           payment.StatusPending,
			Mode:             in.Mode,
			InstallmentTotal: in.InstallmentTotal,
			FineTotal:        in.FineTotal,
			SurchargeTotal:   in.SurchargeTotal,
			GrandTotal:       in.GrandTotal,
			Notes:            in.Notes,
			SelectedSeqNos:   datatypes.JSONSlice[int](seqNos),
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
			// Compensating delete: no request row may persist without its items.
			_ = r.Requests.Delete(ctx, req.ID)
			return err
		}

		ids := make([]uint64, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		if err := r.Entries.UpdateStatus(ctx, ids, schedule.StatusPendingApproval); err != nil {
			return err
		}

		requestID = req.RequestID
		return r.Audits.Append(ctx, &audit.Entry{
			ActorID:   in.ActorID,
			ActorRole: "agent",
			Action:    audit.ActionSubmitPayment,
			Table:     payment.Request{}.TableName(),
			RecordID:  req.RequestID,
			AfterData: audit.Snapshot(map[string]any{
				"status":      payment.StatusPending,
				"seq_nos":     seqNos,
				"grand_total": in.GrandTotal,
			}),
		})
	})
	if err != nil {
		return nil, err
	}

	u.notifier.Notify(ctx, mirror.Event{
		Action:    audit.ActionSubmitPayment,
		AccountID: in.AccountID,
		RecordID:  requestID,
		At:        time.Now().UTC(),
	})
	return &SubmitResult{RequestID: requestID}, nil
}
