package ports

import (
	"context"

	"broadcaster/internal/domain"
)

// TemplateCache holds the read-only template copy for a compose session.
type TemplateCache interface {
	// GetTemplates returns cached templates or domain.ErrNotFound.
	GetTemplates(ctx context.Context, userID string) ([]domain.MessageTemplate, error)

	// SaveTemplates replaces the cached templates for a user.
	SaveTemplates(ctx context.Context, userID string, templates []domain.MessageTemplate) error

	// InvalidateTemplates drops the cached templates for a user.
	InvalidateTemplates(ctx context.Context, userID string) error

	// InvalidateAll drops every user's cached templates and reports how
	// many entries were removed.
	InvalidateAll(ctx context.Context) (int, error)
}
