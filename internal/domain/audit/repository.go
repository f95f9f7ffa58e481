package audit

import "context"

// Repository is append-only on purpose: no update or delete surface exists.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
}
