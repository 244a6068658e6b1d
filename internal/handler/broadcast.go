package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"broadcaster/internal/app"
	"broadcaster/internal/domain"
)

// handleBroadcast handles POST /broadcast requests.
func (h *APIHandler) handleBroadcast(ctx context.Context, svc *app.Services, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var broadcastReq BroadcastRequest

	if err := json.Unmarshal([]byte(req.Body), &broadcastReq); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		return NewErrorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	draft, err := broadcastReq.Draft()
	if err != nil {
		return errorFor(err), nil
	}

	if err := svc.Composer.Validate(draft); err != nil {
		h.logger.Warn("draft rejected", "error", err)
		return errorFor(err), nil
	}

	if tpl, ok := draft.Payload.(domain.TemplatePayload); ok {
		prepared, err := svc.Catalog.Prepare(ctx, tpl)
		if err != nil {
			h.logger.Warn("template variables rejected", "template", tpl.TemplateName, "error", err)
			return errorFor(err), nil
		}
		draft.Payload = prepared
	}

	res, err := svc.Composer.Submit(ctx, draft)
	if err != nil {
		return errorFor(err), nil
	}

	return NewSuccessResponse(http.StatusOK, BroadcastResponse{
		Stats:      res.Stats,
		Recipients: res.Recipients,
		Message:    res.Message,
	}), nil
}
