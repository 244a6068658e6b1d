package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"broadcaster/internal/app"
	"broadcaster/internal/domain"
)

// handleTemplates handles GET /templates. ?approved=true filters to
// templates that can be sent.
func (h *APIHandler) handleTemplates(ctx context.Context, svc *app.Services, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var (
		list []domain.MessageTemplate
		err  error
	)
	if req.QueryStringParameters["approved"] == "true" {
		list, err = svc.Catalog.Approved(ctx)
	} else {
		list, err = svc.Catalog.List(ctx)
	}
	if err != nil {
		h.logger.Error("failed to list templates", "error", err)
		return errorFor(err), nil
	}

	return NewSuccessResponse(http.StatusOK, list), nil
}
