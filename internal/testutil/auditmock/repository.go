package auditmock

import (
	"context"
	"sync"

	domain "github.com/emiledger/backend/internal/domain/audit"
)

var _ domain.Repository = (*Repo)(nil)

// Repo records every appended entry so tests can assert on the trail.
// Set AppendFn to override; entries are captured either way.
type Repo struct {
	mu       sync.Mutex
	Appended []*domain.Entry

	AppendFn func(ctx context.Context, e *domain.Entry) error
}

func (m *Repo) Append(ctx context.Context, e *domain.Entry) error {
	m.mu.Lock()
	m.Appended = append(m.Appended, e)
	m.mu.Unlock()
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	return nil
}

// Actions returns the recorded action names in order.
func (m *Repo) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Appended))
	for _, e := range m.Appended {
		out = append(out, e.Action)
	}
	return out
}
