package dues

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/emiledger/backend/internal/domain/account"
	"github.com/emiledger/backend/internal/domain/schedule"
	"github.com/emiledger/backend/internal/testutil/accountmock"
	"github.com/emiledger/backend/internal/testutil/schedulemock"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(seq int, due time.Time, amount int64, status schedule.Status) *schedule.Entry {
	return &schedule.Entry{
		SeqNo:      seq,
		DueDate:    due,
		Amount:     decimal.NewFromInt(amount),
		PaidAmount: decimal.Zero,
		Status:     status,
		FineAmount: decimal.Zero,
	}
}

func TestCompute_AllApproved(t *testing.T) {
	acc := &account.Account{}
	entries := []*schedule.Entry{
		entry(1, day(2024, 1, 5), 500, schedule.StatusApproved),
		entry(2, day(2024, 2, 5), 500, schedule.StatusApproved),
	}

	bd := Compute(entries, acc, day(2024, 3, 1))
	if bd.NextSeqNo != nil {
		t.Fatalf("NextSeqNo = %v, want nil", *bd.NextSeqNo)
	}
	if !bd.TotalOverdue.IsZero() {
		t.Fatalf("TotalOverdue = %s, want 0", bd.TotalOverdue)
	}
	if !bd.FineDue.IsZero() {
		t.Fatalf("FineDue = %s, want 0", bd.FineDue)
	}
}

func TestCompute_NextEntryAndOverdue(t *testing.T) {
	acc := &account.Account{}
	e2 := entry(2, day(2024, 2, 5), 500, schedule.StatusUnpaid)
	e2.FineAmount = decimal.NewFromInt(150)
	entries := []*schedule.Entry{
		entry(1, day(2024, 1, 5), 500, schedule.StatusApproved),
		e2,
		entry(3, day(2024, 3, 5), 500, schedule.StatusUnpaid),
		entry(4, day(2024, 4, 5), 500, schedule.StatusUnpaid),
	}

	// As of March 10: seq 2 and 3 are past due, seq 4 is not.
	bd := Compute(entries, acc, day(2024, 3, 10))
	if bd.NextSeqNo == nil || *bd.NextSeqNo != 2 {
		t.Fatalf("NextSeqNo = %v, want 2", bd.NextSeqNo)
	}
	if bd.NextStatus != schedule.StatusUnpaid {
		t.Fatalf("NextStatus = %s, want UNPAID", bd.NextStatus)
	}
	if want := decimal.NewFromInt(150); !bd.FineDue.Equal(want) {
		t.Fatalf("FineDue = %s, want %s", bd.FineDue, want)
	}
	if want := decimal.NewFromInt(1000); !bd.TotalOverdue.Equal(want) {
		t.Fatalf("TotalOverdue = %s, want %s", bd.TotalOverdue, want)
	}
}

func TestCompute_WaivedFineNotDue(t *testing.T) {
	acc := &account.Account{}
	e := entry(1, day(2024, 1, 5), 500, schedule.StatusUnpaid)
	e.FineAmount = decimal.NewFromInt(200)
	e.FineWaived = true

	bd := Compute([]*schedule.Entry{e}, acc, day(2024, 2, 1))
	if !bd.FineDue.IsZero() {
		t.Fatalf("FineDue = %s, want 0 for waived fine", bd.FineDue)
	}
}

func TestCompute_DueTodayIsNotOverdue(t *testing.T) {
	acc := &account.Account{}
	e := entry(1, day(2024, 1, 5), 500, schedule.StatusUnpaid)

	// Same calendar day: not overdue yet.
	bd := Compute([]*schedule.Entry{e}, acc, day(2024, 1, 5).Add(14*time.Hour))
	if !bd.TotalOverdue.IsZero() {
		t.Fatalf("TotalOverdue = %s, want 0 on the due day itself", bd.TotalOverdue)
	}

	bd = Compute([]*schedule.Entry{e}, acc, day(2024, 1, 6))
	if want := decimal.NewFromInt(500); !bd.TotalOverdue.Equal(want) {
		t.Fatalf("TotalOverdue = %s, want %s the day after", bd.TotalOverdue, want)
	}
}

func TestCompute_PartialPaymentReducesOverdue(t *testing.T) {
	acc := &account.Account{}
	e := entry(1, day(2024, 1, 5), 500, schedule.StatusUnpaid)
	e.PaidAmount = decimal.NewFromInt(300)

	bd := Compute([]*schedule.Entry{e}, acc, day(2024, 2, 1))
	if want := decimal.NewFromInt(200); !bd.TotalOverdue.Equal(want) {
		t.Fatalf("TotalOverdue = %s, want %s", bd.TotalOverdue, want)
	}
}

func TestCompute_SurchargeOutstanding(t *testing.T) {
	acc := &account.Account{
		SurchargeAmount:     decimal.NewFromInt(250),
		SurchargePaidAmount: decimal.NewFromInt(100),
	}
	bd := Compute(nil, acc, day(2024, 1, 1))
	if want := decimal.NewFromInt(150); !bd.SurchargeOutstanding.Equal(want) {
		t.Fatalf("SurchargeOutstanding = %s, want %s", bd.SurchargeOutstanding, want)
	}
}

func TestCompute_PendingApprovalStillCountsAsNext(t *testing.T) {
	acc := &account.Account{}
	e := entry(1, day(2024, 1, 5), 500, schedule.StatusPendingApproval)

	bd := Compute([]*schedule.Entry{e}, acc, day(2024, 2, 1))
	if bd.NextSeqNo == nil || *bd.NextSeqNo != 1 {
		t.Fatalf("NextSeqNo = %v, want 1", bd.NextSeqNo)
	}
	if bd.NextStatus != schedule.StatusPendingApproval {
		t.Fatalf("NextStatus = %s, want PENDING_APPROVAL", bd.NextStatus)
	}
}

func TestGetBreakdown_LoadsLedger(t *testing.T) {
	accounts := &accountmock.Repo{
		GetByAccountIDFn: func(ctx context.Context, accountID string) (*account.Account, error) {
			if accountID != "acc-1" {
				t.Fatalf("accountID = %q", accountID)
			}
			return &account.Account{ID: 9}, nil
		},
	}
	entries := &schedulemock.Repo{
		ListByAccountIDFn: func(ctx context.Context, accountID uint64) ([]*schedule.Entry, error) {
			if accountID != 9 {
				t.Fatalf("numeric account id = %d, want 9", accountID)
			}
			return []*schedule.Entry{entry(1, day(2024, 1, 5), 500, schedule.StatusUnpaid)}, nil
		},
	}

	u := NewUsecase(accounts, entries)
	bd, err := u.GetBreakdown(context.Background(), "acc-1", day(2024, 2, 1))
	if err != nil {
		t.Fatalf("GetBreakdown: %v", err)
	}
	if bd.NextSeqNo == nil || *bd.NextSeqNo != 1 {
		t.Fatalf("NextSeqNo = %v, want 1", bd.NextSeqNo)
	}
}

func TestGetBreakdown_AccountNotFound(t *testing.T) {
	accounts := &accountmock.Repo{
		GetByAccountIDFn: func(context.Context, string) (*account.Account, error) {
			return nil, account.ErrNotFound
		},
	}
	u := NewUsecase(accounts, &schedulemock.Repo{})
	if _, err := u.GetBreakdown(context.Background(), "missing", time.Time{}); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
