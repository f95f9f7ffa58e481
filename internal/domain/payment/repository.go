package payment

import "context"

type Repository interface {
	Create(ctx context.Context, r *Request) error
	CreateItems(ctx context.Context, items []*Item) error
	// Delete removes a request row; only used as the compensating step when
	// item creation fails right after the request was created.
	Delete(ctx context.Context, id uint64) error
	// GetByRequestID loads the request with its items preloaded.
	GetByRequestID(ctx context.Context, requestID string) (*Request, error)
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*Request, error)
	Save(ctx context.Context, r *Request) error
}
