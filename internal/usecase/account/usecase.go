package account

import (
	"context"
	"errors"
	"time"

	accountDomain "github.com/emiledger/backend/internal/domain/account"
	"github.com/emiledger/backend/internal/domain/agent"
	"github.com/emiledger/backend/internal/domain/audit"
	"github.com/emiledger/backend/internal/domain/schedule"
	"github.com/emiledger/backend/internal/domain/uow"
	"github.com/emiledger/backend/pkg/id"

	"github.com/shopspring/decimal"
)

var ErrInvalidSchedule = errors.New("invalid schedule parameters")

type Usecase struct {
	uow    uow.UnitOfWork
	agents agent.Repository
}

func NewUsecase(tx uow.UnitOfWork, agents agent.Repository) *Usecase {
	return &Usecase{uow: tx, agents: agents}
}

type CreateInput struct {
	AgentActorID      string
	CustomerName      string
	Mobile            string
	IMEI              string
	InstallmentAmount decimal.Decimal
	InstallmentCount  int
	DueDay            int
	StartDate         time.Time
	SurchargeAmount   decimal.Decimal
	ActorID           string
}

type AccountDTO struct {
	AccountID         string          `json:"account_id"`
	CustomerName      string          `json:"customer_name"`
	Status            string          `json:"status"`
	IsSettled         bool            `json:"is_settled"`
	InstallmentCount  int             `json:"installment_count"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Create opens a RUNNING account and bulk-generates its full installment
// ledger, one entry per period, in a single transaction.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*AccountDTO, error) {
	if in.CustomerName == "" || in.InstallmentCount <= 0 || in.DueDay < 1 || in.DueDay > 31 ||
		!in.InstallmentAmount.IsPositive() || in.StartDate.IsZero() {
		return nil, ErrInvalidSchedule
	}

	ag, err := u.agents.GetByActorID(ctx, in.AgentActorID)
	if err != nil {
		return nil, err
	}

	acc := &accountDomain.Account{
		AccountID:         id.NewID32(),
		AgentID:           ag.ID,
		CustomerName:      in.CustomerName,
		Mobile:            in.Mobile,
		IMEI:              in.IMEI,
		InstallmentAmount: in.InstallmentAmount,
		InstallmentCount:  in.InstallmentCount,
		DueDay:            in.DueDay,
		StartDate:         in.StartDate.UTC(),
		Status:            accountDomain.StatusRunning,
		SurchargeAmount:   in.SurchargeAmount,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Accounts.Create(ctx, acc); err != nil {
			return err
		}
		entries := make([]*schedule.Entry, 0, in.InstallmentCount)
		for i := 0; i < in.InstallmentCount; i++ {
			entries = append(entries, &schedule.Entry{
				EntryID:   id.NewID32(),
				AccountID: acc.ID,
				SeqNo:     i + 1,
				DueDate:   dueDateFor(in.StartDate, in.DueDay, i),
				Amount:    in.InstallmentAmount,
				Status:    schedule.StatusUnpaid,
			})
		}
		if err := r.Entries.BulkCreate(ctx, entries); err != nil {
			return err
		}
		return r.Audits.Append(ctx, &audit.Entry{
			ActorID:   in.ActorID,
			ActorRole: "agent",
			Action:    audit.ActionCreateAccount,
			Table:     accountDomain.Account{}.TableName(),
			RecordID:  acc.AccountID,
			AfterData: audit.Snapshot(map[string]any{
				"status":            accountDomain.StatusRunning,
				"installment_count": in.InstallmentCount,
			}),
		})
	})
	if err != nil {
		return nil, err
	}
	return toDTO(acc), nil
}

func (u *Usecase) Get(ctx context.Context, accountID string) (*AccountDTO, error) {
	acc, err := u.uow.Direct().Accounts.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return toDTO(acc), nil
}

func toDTO(a *accountDomain.Account) *AccountDTO {
	return &AccountDTO{
		AccountID:         a.AccountID,
		CustomerName:      a.CustomerName,
		Status:            string(a.Status),
		IsSettled:         a.IsSettled,
		InstallmentCount:  a.InstallmentCount,
		InstallmentAmount: a.InstallmentAmount,
		CreatedAt:         a.CreatedAt,
	}
}

// dueDateFor places installment i one month apart starting the month after the
// start date, clamped to the last day of short months (due day 31 in February
// lands on the 28th/29th).
func dueDateFor(start time.Time, dueDay, i int) time.Time {
	y, m, _ := start.UTC().Date()
	target := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i+1, 0)
	day := dueDay
	if last := lastDayOfMonth(target); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}
