package service

import (
	"context"
	"sync"

	"broadcaster/internal/domain"
	"broadcaster/internal/ports"
)

type fakeBackend struct {
	mu           sync.Mutex
	templates    []domain.MessageTemplate
	history      [][]domain.BroadcastHistoryEntry
	stats        domain.BroadcastStats
	err          error
	historyErrAt int

	requests      []ports.BroadcastRequest
	templateCalls int
	historyCalls  int
}

func (f *fakeBackend) ListTemplates(ctx context.Context) ([]domain.MessageTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.templates, nil
}

func (f *fakeBackend) SubmitBroadcast(ctx context.Context, req ports.BroadcastRequest) (*domain.BroadcastStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	stats := f.stats
	return &stats, nil
}

func (f *fakeBackend) ListHistory(ctx context.Context) ([]domain.BroadcastHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	if f.historyErrAt > 0 && f.historyCalls >= f.historyErrAt {
		return nil, &domain.APIError{Op: "ListHistory", StatusCode: 500, Message: "boom"}
	}
	if len(f.history) == 0 {
		return nil, nil
	}
	i := min(f.historyCalls-1, len(f.history)-1)
	return f.history[i], nil
}

func (f *fakeBackend) submitted() []ports.BroadcastRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.BroadcastRequest(nil), f.requests...)
}

type fakeCache struct {
	data    map[string][]domain.MessageTemplate
	failGet error
	failSet error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]domain.MessageTemplate)}
}

func (c *fakeCache) GetTemplates(ctx context.Context, userID string) ([]domain.MessageTemplate, error) {
	if c.failGet != nil {
		return nil, c.failGet
	}
	t, ok := c.data[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (c *fakeCache) SaveTemplates(ctx context.Context, userID string, templates []domain.MessageTemplate) error {
	if c.failSet != nil {
		return c.failSet
	}
	c.data[userID] = templates
	return nil
}

func (c *fakeCache) InvalidateTemplates(ctx context.Context, userID string) error {
	delete(c.data, userID)
	return nil
}

func (c *fakeCache) InvalidateAll(ctx context.Context) (int, error) {
	n := len(c.data)
	c.data = make(map[string][]domain.MessageTemplate)
	return n, nil
}

func sampleTemplates() []domain.MessageTemplate {
	return []domain.MessageTemplate{
		{ID: "t1", Name: "order_update", Status: domain.TemplateApproved, BodyText: "Hello {{1}}, order {{2}} confirmed"},
		{ID: "t2", Name: "welcome", Status: domain.TemplateApproved, BodyText: "Hi {{1}}! Welcome, {{1}}."},
		{ID: "t3", Name: "flash_sale", Status: domain.TemplatePending, BodyText: "Sale ends {{1}}"},
	}
}
