package settlement

import (
	"context"
	"errors"
	"time"

	accountDomain "github.com/emiledger/backend/internal/domain/account"
	"github.com/emiledger/backend/internal/domain/actor"
	"github.com/emiledger/backend/internal/domain/audit"
	settlementDomain "github.com/emiledger/backend/internal/domain/settlement"
	"github.com/emiledger/backend/internal/domain/uow"
	"github.com/emiledger/backend/internal/integrations/mirror"
	"github.com/emiledger/backend/pkg/id"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("missing required settlement fields")

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

type SettleInput struct {
	AccountID       string
	AmountCollected decimal.Decimal
	SettlementDate  time.Time
	Note            string
	ActorID         string
}

type SettlementDTO struct {
	SettlementID    string          `json:"settlement_id"`
	AccountID       string          `json:"account_id"`
	AmountCollected decimal.Decimal `json:"amount_collected"`
	SettlementDate  time.Time       `json:"settlement_date"`
	Note            string          `json:"note,omitempty"`
	SettledAt       time.Time       `json:"settled_at"`
}

// Settle is the negotiated early exit: one settlement record, account straight
// to COMPLETE + settled, independent of the ledger's own completion state.
func (u *Usecase) Settle(ctx context.Context, in SettleInput) (*SettlementDTO, error) {
	if in.AccountID == "" || !in.AmountCollected.IsPositive() || in.SettlementDate.IsZero() {
		return nil, ErrInvalidInput
	}
	if err := actor.RequireAdmin(ctx, u.roles, in.ActorID); err != nil {
		return nil, err
	}

	var dto *SettlementDTO
	err := u.uow.WithinAccountTx(ctx, in.AccountID, func(r uow.Repos, acc *accountDomain.Account) error {
		if acc.Status != accountDomain.StatusRunning {
			return accountDomain.ErrNotRunning
		}

		now := u.nowFn()
		rec := &settlementDomain.Record{
			SettlementID:    id.NewID32(),
			AccountID:       acc.ID,
			AmountCollected: in.AmountCollected,
			SettlementDate:  in.SettlementDate.UTC(),
			Note:            in.Note,
			SettledBy:       in.ActorID,
			SettledAt:       now,
		}
		if err := r.Settlements.Create(ctx, rec); err != nil {
			return err
		}

		acc.Status = accountDomain.StatusComplete
		acc.IsSettled = true
		completion := in.SettlementDate.UTC()
		acc.CompletionDate = &completion
		if err := r.Accounts.Save(ctx, acc); err != nil {
			return err
		}

		dto = &SettlementDTO{
			SettlementID:    rec.SettlementID,
			AccountID:       acc.AccountID,
			AmountCollected: rec.AmountCollected,
			SettlementDate:  rec.SettlementDate,
			Note:            rec.Note,
			SettledAt:       rec.SettledAt,
		}
		return r.Audits.Append(ctx, &audit.Entry{
			ActorID:    in.ActorID,
			ActorRole:  "admin",
			Action:     audit.ActionSettleAccount,
			Table:      accountDomain.Account{}.TableName(),
			RecordID:   acc.AccountID,
			BeforeData: audit.Snapshot(map[string]any{"status": accountDomain.StatusRunning}),
			AfterData: audit.Snapshot(map[string]any{
				"status":           accountDomain.StatusComplete,
				"is_settled":       true,
				"amount_collected": in.AmountCollected,
				"settlement_date":  in.SettlementDate,
			}),
			Remark: in.Note,
		})
	})
	if err != nil {
		return nil, err
	}

	u.notifier.Notify(ctx, mirror.Event{
		Action:    audit.ActionSettleAccount,
		AccountID: in.AccountID,
		RecordID:  dto.SettlementID,
		At:        u.nowFn(),
	})
	return dto, nil
}

// Get returns the settlement recorded for an account, if any.
func (u *Usecase) Get(ctx context.Context, accountID string) (*SettlementDTO, error) {
	r := u.uow.Direct()
	acc, err := r.Accounts.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	rec, err := r.Settlements.GetByAccountID(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	return &SettlementDTO{
		SettlementID:    rec.SettlementID,
		AccountID:       acc.AccountID,
		AmountCollected: rec.AmountCollected,
		SettlementDate:  rec.SettlementDate,
		Note:            rec.Note,
		SettledAt:       rec.SettledAt,
	}, nil
}
