// Package handler serves the broadcast operations behind API Gateway.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"broadcaster/internal/app"
	"broadcaster/internal/ports"
	"broadcaster/internal/session"
)

// ServiceFactory builds the services for the caller's session.
type ServiceFactory func(sessions ports.SessionProvider) *app.Services

// APIHandler handles HTTP requests from API Gateway.
type APIHandler struct {
	services ServiceFactory
	logger   *slog.Logger
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(services ServiceFactory, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		services: services,
		logger:   logger,
	}
}

// Handle routes API Gateway requests to the appropriate handler. The
// caller's bearer token becomes the session for the request.
func (h *APIHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.logger.Info("request received",
		"path", req.Path,
		"method", req.HTTPMethod)

	svc := h.services(session.NewStatic(bearerToken(req.Headers), ""))

	switch {
	case req.Path == "/templates" && req.HTTPMethod == http.MethodGet:
		return h.handleTemplates(ctx, svc, req)
	case req.Path == "/broadcast/preview" && req.HTTPMethod == http.MethodPost:
		return h.handlePreview(ctx, svc, req)
	case req.Path == "/broadcast" && req.HTTPMethod == http.MethodPost:
		return h.handleBroadcast(ctx, svc, req)
	case req.Path == "/history" && req.HTTPMethod == http.MethodGet:
		return h.handleHistory(ctx, svc)
	case req.Path == "/recipients/resolve" && req.HTTPMethod == http.MethodPost:
		return h.handleResolve(req)
	default:
		h.logger.Warn("route not found",
			"path", req.Path,
			"method", req.HTTPMethod)
		return NewErrorResponse(http.StatusNotFound, "route not found"), nil
	}
}

// bearerToken reads the Authorization header regardless of case.
func bearerToken(headers map[string]string) string {
	for k, v := range headers {
		if !strings.EqualFold(k, "Authorization") {
			continue
		}
		token, ok := strings.CutPrefix(v, "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return ""
}
