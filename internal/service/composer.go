package service

import (
	"context"
	"fmt"
	"log/slog"

	"broadcaster/internal/domain"
	"broadcaster/internal/metrics"
	"broadcaster/internal/ports"
	"broadcaster/internal/recipients"
)

// Result is the outcome of an accepted broadcast.
type Result struct {
	Stats      domain.BroadcastStats
	Recipients int
	Message    string
}

// Composer validates drafts and submits them to the backend.
type Composer struct {
	backend ports.Backend
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewComposer creates a composer. m may be nil.
func NewComposer(backend ports.Backend, m *metrics.Metrics, logger *slog.Logger) *Composer {
	return &Composer{
		backend: backend,
		metrics: m,
		logger:  logger,
	}
}

// Submit resolves recipients, validates the draft and sends it as one
// request. Local validation failures return *domain.ValidationError and
// never reach the network. A backend that rejects some recipients still
// yields a Result; only the counts tell the difference.
func (c *Composer) Submit(ctx context.Context, draft *domain.BroadcastDraft) (*Result, error) {
	numbers := recipients.Resolve(draft.ManualNumbers, draft.CSV)
	mode := modeOf(draft.Payload)

	if err := validate(draft, numbers); err != nil {
		c.metrics.ObserveSubmission(mode, "invalid", 0)
		c.logger.Debug("draft rejected locally", "name", draft.Name, "reason", err)
		return nil, err
	}

	logger := c.logger.With("name", draft.Name, "mode", mode, "recipients", len(numbers))

	stats, err := c.backend.SubmitBroadcast(ctx, ports.BroadcastRequest{
		Name:       draft.Name,
		Recipients: numbers,
		CSV:        draft.CSV,
		Payload:    draft.Payload,
	})
	if err != nil {
		c.metrics.ObserveSubmission(mode, "error", len(numbers))
		logger.Error("broadcast failed", "error", err)
		return nil, &domain.BroadcastError{
			Name: draft.Name,
			Mode: draft.Payload.Mode(),
			Err:  err,
		}
	}

	c.metrics.ObserveSubmission(mode, "success", len(numbers))
	logger.Info("broadcast sent",
		"total", stats.Total,
		"valid", stats.Valid,
		"invalid", stats.Invalid,
	)

	return &Result{
		Stats:      *stats,
		Recipients: len(numbers),
		Message:    successMessage(*stats),
	}, nil
}

// Validate runs the local checks Submit performs, without any network
// access. Callers that consult the template catalog call it first so an
// empty recipient list is reported before any request is made.
func (c *Composer) Validate(draft *domain.BroadcastDraft) error {
	return validate(draft, recipients.Resolve(draft.ManualNumbers, draft.CSV))
}

// SubmitForm submits the form's draft. On success direct-mode message and
// media are cleared; template mode keeps its fields for a quick re-send.
func (c *Composer) SubmitForm(ctx context.Context, form *Form) (*Result, error) {
	res, err := c.Submit(ctx, form.Draft())
	if err != nil {
		return nil, err
	}

	if form.Mode == domain.ModeDirect {
		form.ClearDirect()
	}
	return res, nil
}

func validate(draft *domain.BroadcastDraft, numbers []domain.Recipient) error {
	if len(numbers) == 0 {
		return &domain.ValidationError{Field: "recipients", Message: domain.MsgNoRecipients}
	}

	switch p := draft.Payload.(type) {
	case domain.DirectPayload:
		return nil
	case domain.TemplatePayload:
		if p.TemplateName == "" {
			return &domain.ValidationError{Field: "template", Message: domain.MsgNoTemplate}
		}
		return nil
	case nil:
		return &domain.ValidationError{Field: "sendMode", Message: domain.MsgUnknownSendMode}
	default:
		return fmt.Errorf("unsupported payload %T", p)
	}
}

func modeOf(p domain.Payload) string {
	if p == nil {
		return "unknown"
	}
	return string(p.Mode())
}

func successMessage(s domain.BroadcastStats) string {
	return fmt.Sprintf("Broadcast sent! %d valid, %d invalid out of %d recipients.", s.Valid, s.Invalid, s.Total)
}
