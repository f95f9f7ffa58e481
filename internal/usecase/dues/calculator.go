package dues

import (
	"time"

	"github.com/emiledger/backend/internal/domain/account"
	"github.com/emiledger/backend/internal/domain/schedule"

	"github.com/shopspring/decimal"
)

// Breakdown is the read-only due summary for one account as of a date.
type Breakdown struct {
	NextSeqNo            *int            `json:"next_seq_no"`
	NextStatus           schedule.Status `json:"next_status,omitempty"`
	FineDue              decimal.Decimal `json:"fine_due"`
	TotalOverdue         decimal.Decimal `json:"total_overdue"`
	SurchargeOutstanding decimal.Decimal `json:"surcharge_outstanding"`
}

// Compute derives the breakdown from the ledger alone; no side effects, safe to
// call arbitrarily often. Fines are read from the materialized fine_amount on
// the earliest non-APPROVED entry, never recomputed here (accrual is the fine
// worker's job). Entries are expected in seq order, as the repository returns
// them.
func Compute(entries []*schedule.Entry, acc *account.Account, asOf time.Time) Breakdown {
	bd := Breakdown{
		FineDue:              decimal.Zero,
		TotalOverdue:         decimal.Zero,
		SurchargeOutstanding: acc.SurchargeOutstanding(),
	}
	asOfDay := truncateToDay(asOf)

	for _, e := range entries {
		if e.Status == schedule.StatusApproved {
			continue
		}
		if bd.NextSeqNo == nil {
			seq := e.SeqNo
			bd.NextSeqNo = &seq
			bd.NextStatus = e.Status
			if !e.FineWaived {
				bd.FineDue = e.FineAmount
			}
		}
		if truncateToDay(e.DueDate).Before(asOfDay) {
			bd.TotalOverdue = bd.TotalOverdue.Add(e.Outstanding())
		}
	}
	return bd
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
