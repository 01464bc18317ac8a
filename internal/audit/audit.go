// Package audit records login attempts. Every attempt produces exactly one
// entry regardless of outcome; recording is best-effort and never surfaces
// an error to the login path.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/skyreport-dev/skyreport/internal/domain"
	"github.com/skyreport-dev/skyreport/internal/logger"
)

// Store persists entries locally. Persistence failures are logged, not
// propagated.
type Store interface {
	SaveAuditEntry(ctx context.Context, entry domain.AuditEntry) error
}

type Recorder struct {
	store      Store
	webhookURL string
	client     *http.Client
}

func NewRecorder(store Store, webhookURL string) *Recorder {
	return &Recorder{
		store:      store,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Record writes one audit entry for a login attempt. It fills in id,
// event and timestamp, persists the entry, and pushes it to the webhook
// sink when one is configured. It never panics and never returns an error.
func (r *Recorder) Record(ctx context.Context, entry domain.AuditEntry) {
	entry.Id = uuid.NewString()
	entry.Event = "login"
	entry.CreatedAt = time.Now().UTC()

	logger.Log.Info("login attempt",
		"outcome", entry.Outcome,
		"email", entry.Email,
		"ip", entry.IP,
		"user_agent", entry.UserAgent,
		"fields", entry.Fields,
	)

	if r.store != nil {
		if err := r.store.SaveAuditEntry(ctx, entry); err != nil {
			logger.Log.Error("failed to persist audit entry", "outcome", entry.Outcome, "error", err)
		}
	}

	if r.webhookURL != "" {
		// Detached from the request context so a client disconnect does not
		// cancel delivery.
		go r.push(entry)
	}
}

type webhookPayload struct {
	Id        string            `json:"id"`
	Event     string            `json:"event"`
	Timestamp string            `json:"timestamp"`
	Outcome   string            `json:"outcome"`
	Email     string            `json:"email,omitempty"`
	IP        string            `json:"ip,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func (r *Recorder) push(entry domain.AuditEntry) {
	payload := webhookPayload{
		Id:        entry.Id,
		Event:     entry.Event,
		Timestamp: entry.CreatedAt.Format(time.RFC3339),
		Outcome:   entry.Outcome,
		Email:     entry.Email,
		IP:        entry.IP,
		UserAgent: entry.UserAgent,
		Fields:    entry.Fields,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Error("failed to marshal audit payload", "error", err)
		return
	}

	resp, err := r.client.Post(r.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.Log.Warn("audit webhook delivery failed", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logger.Log.Warn("audit webhook rejected entry", "status", resp.StatusCode)
	}
}
