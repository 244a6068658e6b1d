package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"broadcaster/internal/app"
)

// handleHistory handles GET /history requests.
func (h *APIHandler) handleHistory(ctx context.Context, svc *app.Services) (events.APIGatewayProxyResponse, error) {
	entries, err := svc.History.List(ctx)
	if err != nil {
		h.logger.Error("failed to list history", "error", err)
		return errorFor(err), nil
	}

	return NewSuccessResponse(http.StatusOK, entries), nil
}
