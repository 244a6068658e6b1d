package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"broadcaster/internal/domain"
	"broadcaster/internal/ports"
	"broadcaster/internal/templates"
)

// Catalog serves the session's read-only copy of the backend templates.
type Catalog struct {
	backend  ports.Backend
	cache    ports.TemplateCache
	sessions ports.SessionProvider
	logger   *slog.Logger
}

// NewCatalog creates a template catalog.
func NewCatalog(backend ports.Backend, cache ports.TemplateCache, sessions ports.SessionProvider, logger *slog.Logger) *Catalog {
	return &Catalog{
		backend:  backend,
		cache:    cache,
		sessions: sessions,
		logger:   logger,
	}
}

// List returns cached templates, loading them from the backend on a miss.
// Cache failures are logged and bypassed.
func (c *Catalog) List(ctx context.Context) ([]domain.MessageTemplate, error) {
	key, err := c.cacheKey(ctx)
	if err != nil {
		return nil, err
	}

	cached, err := c.cache.GetTemplates(ctx, key)
	if err == nil {
		c.logger.Debug("templates served from cache", "count", len(cached))
		return cached, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		c.logger.Warn("template cache read failed", "error", err)
	}

	list, err := c.backend.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	if err := c.cache.SaveTemplates(ctx, key, list); err != nil {
		c.logger.Warn("template cache write failed", "error", err)
	}

	c.logger.Debug("templates loaded from backend", "count", len(list))
	return list, nil
}

// Approved returns only templates Meta has approved.
func (c *Catalog) Approved(ctx context.Context) ([]domain.MessageTemplate, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	approved := make([]domain.MessageTemplate, 0, len(all))
	for _, t := range all {
		if t.IsApproved() {
			approved = append(approved, t)
		}
	}
	return approved, nil
}

// Find looks a template up by name or ID.
func (c *Catalog) Find(ctx context.Context, ref string) (*domain.MessageTemplate, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	tpl := domain.FindTemplate(all, ref)
	if tpl == nil {
		return nil, fmt.Errorf("template %q: %w", ref, domain.ErrNotFound)
	}
	return tpl, nil
}

// Select returns the named template and one empty slot per placeholder.
func (c *Catalog) Select(ctx context.Context, ref string) (*domain.MessageTemplate, []string, error) {
	tpl, err := c.Find(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	return tpl, templates.NewSlots(tpl.BodyText), nil
}

// Refresh drops the cached copy and reloads from the backend.
func (c *Catalog) Refresh(ctx context.Context) ([]domain.MessageTemplate, error) {
	key, err := c.cacheKey(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.cache.InvalidateTemplates(ctx, key); err != nil {
		c.logger.Warn("template cache invalidation failed", "error", err)
	}
	return c.List(ctx)
}

// Purge drops the cached templates of every user.
func (c *Catalog) Purge(ctx context.Context) (int, error) {
	n, err := c.cache.InvalidateAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge template cache: %w", err)
	}
	c.logger.Info("template cache purged", "entries", n)
	return n, nil
}

// Prepare fills a template payload's variable slots from the template's
// body. Unknown templates pass through for the backend to reject.
func (c *Catalog) Prepare(ctx context.Context, p domain.TemplatePayload) (domain.TemplatePayload, error) {
	if p.TemplateName == "" {
		return p, nil
	}

	tpl, err := c.Find(ctx, p.TemplateName)
	if errors.Is(err, domain.ErrNotFound) {
		c.logger.Warn("template not in catalog", "template", p.TemplateName)
		return p, nil
	}
	if err != nil {
		return p, err
	}

	slots, err := templates.FillSlots(tpl.BodyText, p.Variables)
	if err != nil {
		return p, &domain.ValidationError{Field: "variables", Message: domain.MsgTooManyVariables}
	}

	return domain.TemplatePayload{
		TemplateID:   tpl.ID,
		TemplateName: tpl.Name,
		Variables:    slots,
	}, nil
}

// cacheKey scopes the cache to the signed-in user. Token-only sessions
// are keyed by a token digest.
func (c *Catalog) cacheKey(ctx context.Context) (string, error) {
	sess, err := c.sessions.Session(ctx)
	if err != nil {
		return "", err
	}
	if sess.UserID != "" {
		return sess.UserID, nil
	}
	sum := sha256.Sum256([]byte(sess.AccessToken))
	return "token-" + hex.EncodeToString(sum[:8]), nil
}
