package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"broadcaster/internal/app"
	"broadcaster/internal/domain"
	"broadcaster/internal/templates"
)

// handlePreview handles POST /broadcast/preview requests.
func (h *APIHandler) handlePreview(ctx context.Context, svc *app.Services, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var previewReq PreviewRequest

	if err := json.Unmarshal([]byte(req.Body), &previewReq); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		return NewErrorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	if err := previewReq.Validate(); err != nil {
		h.logger.Warn("validation failed", "error", err)
		return NewErrorResponse(http.StatusBadRequest, err.Error()), nil
	}

	tpl, err := svc.Catalog.Find(ctx, previewReq.Template)
	if err != nil {
		h.logger.Warn("template lookup failed", "template", previewReq.Template, "error", err)
		return errorFor(err), nil
	}

	slots, err := templates.FillSlots(tpl.BodyText, previewReq.Variables)
	if err != nil {
		h.logger.Warn("template variables rejected", "template", tpl.Name, "error", err)
		return errorFor(&domain.ValidationError{Field: "variables", Message: domain.MsgTooManyVariables}), nil
	}

	return NewSuccessResponse(http.StatusOK, PreviewResponse{
		Template:  tpl.Name,
		Body:      tpl.BodyText,
		Variables: slots,
		Preview:   templates.Preview(tpl.BodyText, slots),
	}), nil
}
