package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"broadcaster/internal/recipients"
)

// handleResolve handles POST /recipients/resolve. It needs no session.
func (h *APIHandler) handleResolve(req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var resolveReq ResolveRequest

	if err := json.Unmarshal([]byte(req.Body), &resolveReq); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		return NewErrorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	list := recipients.Resolve(resolveReq.Numbers, resolveReq.CSV.upload())
	if list == nil {
		list = []string{}
	}

	return NewSuccessResponse(http.StatusOK, ResolveResponse{
		Recipients: list,
		Count:      len(list),
	}), nil
}
