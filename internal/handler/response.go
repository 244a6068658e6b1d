package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"broadcaster/internal/domain"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse represents a success response.
type SuccessResponse struct {
	Data any `json:"data"`
}

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

// NewErrorResponse creates an API Gateway error response.
func NewErrorResponse(statusCode int, message string) events.APIGatewayProxyResponse {
	bodyJSON, err := json.Marshal(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
	if err != nil {
		slog.Error("failed to marshal error response",
			"error", err,
			"status_code", statusCode)
		return internalError("failed to build error response")
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders(),
		Body:       string(bodyJSON),
	}
}

// NewSuccessResponse creates an API Gateway success response.
func NewSuccessResponse(statusCode int, data any) events.APIGatewayProxyResponse {
	bodyJSON, err := json.Marshal(SuccessResponse{Data: data})
	if err != nil {
		slog.Error("failed to marshal success response",
			"error", err,
			"status_code", statusCode)
		return internalError("failed to build response")
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders(),
		Body:       string(bodyJSON),
	}
}

// errorFor maps a service error to a response. The message is always the
// user-facing status string.
func errorFor(err error) events.APIGatewayProxyResponse {
	return NewErrorResponse(statusFor(err), domain.StatusMessage(err))
}

func statusFor(err error) int {
	var validationErr *domain.ValidationError
	var apiErr *domain.APIError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return apiErr.StatusCode
	default:
		return http.StatusBadGateway
	}
}

func internalError(message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(ErrorResponse{
		Error:   http.StatusText(http.StatusInternalServerError),
		Message: message,
	})
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}
}
