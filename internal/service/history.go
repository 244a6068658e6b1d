package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"broadcaster/internal/domain"
	"broadcaster/internal/metrics"
	"broadcaster/internal/ports"
)

// History reads past broadcasts from the backend.
type History struct {
	backend ports.Backend
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewHistory creates a history reader. m may be nil.
func NewHistory(backend ports.Backend, m *metrics.Metrics, logger *slog.Logger) *History {
	return &History{
		backend: backend,
		metrics: m,
		logger:  logger,
	}
}

// List returns past broadcasts.
func (h *History) List(ctx context.Context) ([]domain.BroadcastHistoryEntry, error) {
	entries, err := h.backend.ListHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// Watch polls immediately and then every interval, passing each snapshot
// to fn. There is no backoff: the first failed poll stops the watch and
// its error is returned. Cancelling ctx returns nil.
func (h *History) Watch(ctx context.Context, interval time.Duration, fn func([]domain.BroadcastHistoryEntry)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		entries, err := h.List(ctx)
		h.metrics.ObserveHistoryPoll(err)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			h.logger.Error("history poll failed, auto-refresh disabled", "error", err)
			return err
		}
		fn(entries)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			h.logger.Debug("history watch stopped", "reason", ctx.Err())
			return nil
		}
	}
}
