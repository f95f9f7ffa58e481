// Package fines materializes overdue fines onto the installment ledger. It is
// the only writer of fine accrual; readers (the due-breakdown calculator) just
// surface the stored amount.
package fines

import (
	"context"
	"errors"
	"time"

	accountDomain "github.com/emiledger/backend/internal/domain/account"
	"github.com/emiledger/backend/internal/domain/audit"
	"github.com/emiledger/backend/internal/domain/schedule"
	"github.com/emiledger/backend/internal/domain/uow"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Worker struct {
	uow        uow.UnitOfWork
	finePerDay decimal.Decimal
	nowFn      func() time.Time
}

func NewWorker(tx uow.UnitOfWork, finePerDay decimal.Decimal) *Worker {
	return &Worker{uow: tx, finePerDay: finePerDay, nowFn: func() time.Time { return time.Now().UTC() }}
}

// Schedule registers the worker on c with the given cron spec.
func (w *Worker) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		if err := w.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("fine worker: run failed")
		}
	})
}

// Run accrues the fine on the earliest non-APPROVED entry of every RUNNING
// account: days late times the per-day rate. Waived fines are left alone.
// Recomputes the absolute amount each run, so replays converge.
func (w *Worker) Run(ctx context.Context) error {
	accounts, err := w.uow.Direct().Accounts.ListRunning(ctx)
	if err != nil {
		return err
	}
	now := w.nowFn()
	for _, acc := range accounts {
		accID := acc.AccountID
		err := w.uow.WithinAccountTx(ctx, accID, func(r uow.Repos, a *accountDomain.Account) error {
			return w.accrue(ctx, r, a.ID, now)
		})
		if err != nil {
			logrus.WithError(err).WithField("account_id", accID).Warn("fine worker: account skipped")
		}
	}
	return nil
}

func (w *Worker) accrue(ctx context.Context, r uow.Repos, accountNumericID uint64, now time.Time) error {
	e, err := r.Entries.FirstOutstanding(ctx, accountNumericID)
	if errors.Is(err, schedule.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if e.FineWaived {
		return nil
	}
	daysLate := daysBetween(e.DueDate, now)
	if daysLate <= 0 {
		return nil
	}
	fine := w.finePerDay.Mul(decimal.NewFromInt(int64(daysLate)))
	if fine.Equal(e.FineAmount) {
		return nil
	}
	before := e.FineAmount
	e.FineAmount = fine
	if err := r.Entries.Save(ctx, e); err != nil {
		return err
	}
	return r.Audits.Append(ctx, &audit.Entry{
		ActorID:    "system",
		ActorRole:  "system",
		Action:     audit.ActionAccrueFine,
		Table:      schedule.Entry{}.TableName(),
		RecordID:   e.EntryID,
		BeforeData: audit.Snapshot(map[string]any{"fine_amount": before}),
		AfterData:  audit.Snapshot(map[string]any{"fine_amount": fine, "days_late": daysLate}),
	})
}

func daysBetween(due, now time.Time) int {
	d := truncateToDay(now).Sub(truncateToDay(due))
	return int(d.Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
