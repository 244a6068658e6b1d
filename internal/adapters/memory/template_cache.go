// Package memory holds in-process adapters used when no Redis is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"broadcaster/internal/domain"
)

type cacheEntry struct {
	templates []domain.MessageTemplate
	expiresAt time.Time
}

// TemplateCache is an in-process ports.TemplateCache with per-entry TTL.
type TemplateCache struct {
	ttl     time.Duration
	entries map[string]cacheEntry
	mu      sync.RWMutex
	now     func() time.Time
}

// NewTemplateCache creates a cache whose entries expire after ttl.
func NewTemplateCache(ttl time.Duration) *TemplateCache {
	return &TemplateCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// GetTemplates returns a copy of the cached templates or domain.ErrNotFound.
func (c *TemplateCache) GetTemplates(ctx context.Context, userID string) ([]domain.MessageTemplate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userID]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, domain.ErrNotFound
	}

	return append([]domain.MessageTemplate(nil), entry.templates...), nil
}

// SaveTemplates replaces the cached templates for a user.
func (c *TemplateCache) SaveTemplates(ctx context.Context, userID string, templates []domain.MessageTemplate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = cacheEntry{
		templates: append([]domain.MessageTemplate(nil), templates...),
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// InvalidateTemplates drops the cached templates for a user.
func (c *TemplateCache) InvalidateTemplates(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
	return nil
}

// InvalidateAll drops every cached entry.
func (c *TemplateCache) InvalidateAll(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]cacheEntry)
	return n, nil
}
