// Package mirror notifies the external record-mirroring service after
// successful mutations. Strictly best-effort: a failed notification is logged
// and never surfaces as the operation's own failure.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type Event struct {
	Action    string    `json:"action"`
	AccountID string    `json:"account_id"`
	RecordID  string    `json:"record_id"`
	At        time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Webhook POSTs events to a configured endpoint.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{url: url, client: &http.Client{Timeout: 5 * time.Second}}
}

func (w *Webhook) Notify(ctx context.Context, ev Event) {
	if w.url == "" {
		return
	}
	payload, _ := json.Marshal(ev)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		logrus.WithError(err).Warn("mirror: build request failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("action", ev.Action).Warn("mirror: notify failed")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"action": ev.Action,
			"status": resp.StatusCode,
		}).Warn("mirror: notify rejected")
	}
}

// Nop is the wiring default when no mirror endpoint is configured.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}
