package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"broadcaster/internal/domain"
)

// TemplateCache holds each user's read-only template list for the length
// of a compose session.
type TemplateCache struct {
	client *Client
	ttl    time.Duration
}

// NewTemplateCache creates a cache whose entries expire after ttl.
func NewTemplateCache(client *Client, ttl time.Duration) *TemplateCache {
	return &TemplateCache{
		client: client,
		ttl:    ttl,
	}
}

// GetTemplates returns the cached templates for a user, or
// domain.ErrNotFound when nothing is cached.
func (c *TemplateCache) GetTemplates(ctx context.Context, userID string) ([]domain.MessageTemplate, error) {
	key := fmt.Sprintf(KeyPatternTemplates, userID)

	data, err := c.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get templates: %w", err)
	}

	var templates []domain.MessageTemplate
	if err := json.Unmarshal([]byte(data), &templates); err != nil {
		return nil, fmt.Errorf("unmarshal templates: %w", err)
	}

	return templates, nil
}

// SaveTemplates caches a user's templates with the session TTL.
func (c *TemplateCache) SaveTemplates(ctx context.Context, userID string, templates []domain.MessageTemplate) error {
	key := fmt.Sprintf(KeyPatternTemplates, userID)

	data, err := json.Marshal(templates)
	if err != nil {
		return fmt.Errorf("marshal templates: %w", err)
	}

	if err := c.client.Set(ctx, key, string(data), c.ttl); err != nil {
		return fmt.Errorf("save templates: %w", err)
	}

	return nil
}

// InvalidateTemplates drops a user's cached templates.
func (c *TemplateCache) InvalidateTemplates(ctx context.Context, userID string) error {
	key := fmt.Sprintf(KeyPatternTemplates, userID)
	if err := c.client.Del(ctx, key); err != nil {
		return fmt.Errorf("invalidate templates: %w", err)
	}
	return nil
}

// InvalidateAll drops every user's cached templates.
func (c *TemplateCache) InvalidateAll(ctx context.Context) (int, error) {
	return c.client.DeleteMatching(ctx, KeyPatternAllTemplates, 100)
}
