package ports

import (
	"context"

	"broadcaster/internal/domain"
)

// Backend is the dashboard REST API that owns templates, delivery and
// history.
type Backend interface {
	// ListTemplates returns the user's WhatsApp templates.
	ListTemplates(ctx context.Context) ([]domain.MessageTemplate, error)

	// SubmitBroadcast sends one broadcast to the resolved recipients.
	SubmitBroadcast(ctx context.Context, req BroadcastRequest) (*domain.BroadcastStats, error)

	// ListHistory returns past broadcasts, newest first.
	ListHistory(ctx context.Context) ([]domain.BroadcastHistoryEntry, error)
}

// BroadcastRequest is a validated draft with recipients already resolved.
type BroadcastRequest struct {
	Name       string
	Recipients []domain.Recipient
	CSV        *domain.CSVUpload
	Payload    domain.Payload
}
