package approval

import (
	"context"
	"time"

	"github.com/emiledger/backend/internal/domain/actor"
	"github.com/emiledger/backend/internal/domain/audit"
	"github.com/emiledger/backend/internal/domain/payment"
	"github.com/emiledger/backend/internal/domain/uow"
	"github.com/emiledger/backend/internal/integrations/mirror"
)

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

// Approve runs the full transition in one transaction with the request row
// locked: either every step commits or none does.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*ApproveResult, error) {
	if in.RequestID == "" {
		return nil, ErrInvalidInput
	}
	if err := actor.RequireAdmin(ctx, u.roles, in.ActorID); err != nil {
		return nil, err
	}

	var res *ApproveResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		req, err := r.Requests.GetByRequestIDForUpdate(ctx, in.RequestID)
		if err != nil {
			return err
		}
		res, err = u.run(ctx, r, req, in, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !res.AlreadyApproved {
		u.notifier.Notify(ctx, mirror.Event{
			Action:   audit.ActionApprovePayment,
			RecordID: in.RequestID,
			At:       u.nowFn(),
		})
	}
	return res, nil
}

// ApproveSequential is the degraded executor for stores without multi-row
// transactions: the same steps run in order, each committing on its own.
// Every step is idempotent, so a failure after the ledger step surfaces a
// PartialError and the whole call can simply be retried.
func (u *Usecase) ApproveSequential(ctx context.Context, in ApproveInput) (*ApproveResult, error) {
	if in.RequestID == "" {
		return nil, ErrInvalidInput
	}
	if err := actor.RequireAdmin(ctx, u.roles, in.ActorID); err != nil {
		return nil, err
	}

	r := u.uow.Direct()
	req, err := r.Requests.GetByRequestID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	res, err := u.run(ctx, r, req, in, false)
	if err != nil {
		return nil, err
	}
	if !res.AlreadyApproved {
		u.notifier.Notify(ctx, mirror.Event{
			Action:   audit.ActionApprovePayment,
			RecordID: in.RequestID,
			At:       u.nowFn(),
		})
	}
	return res, nil
}

// Reject reverts every referenced entry to UNPAID and marks the request
// REJECTED. Mutually exclusive with approval through the same row lock.
func (u *Usecase) Reject(ctx context.Context, in RejectInput) error {
	if in.RequestID == "" {
		return ErrInvalidInput
	}
	if isBlank(in.Reason) {
		return payment.ErrReasonRequired
	}
	if err := actor.RequireAdmin(ctx, u.roles, in.ActorID); err != nil {
		return err
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		req, err := r.Requests.GetByRequestIDForUpdate(ctx, in.RequestID)
		if err != nil {
			return err
		}
		return u.reject(ctx, r, req, in)
	})
	if err != nil {
		return err
	}
	u.notifier.Notify(ctx, mirror.Event{
		Action:   audit.ActionRejectPayment,
		RecordID: in.RequestID,
		At:       u.nowFn(),
	})
	return nil
}
