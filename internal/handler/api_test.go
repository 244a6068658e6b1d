package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broadcaster/internal/adapters/memory"
	"broadcaster/internal/app"
	"broadcaster/internal/config"
	"broadcaster/internal/domain"
	"broadcaster/internal/logging"
	"broadcaster/internal/mockbackend"
)

const testToken = "secret-token"

func newTestHandler(t *testing.T) (*APIHandler, *mockbackend.Server) {
	h, mock, _ := newCountingHandler(t)
	return h, mock
}

// newCountingHandler also counts every request that reaches the backend.
func newCountingHandler(t *testing.T) (*APIHandler, *mockbackend.Server, *atomic.Int64) {
	mock := mockbackend.NewServer(testToken, mockbackend.DefaultTemplates(), logging.Discard())
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		mock.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.AppConfig{
		Backend: config.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second},
	}
	a, err := app.New(context.Background(), app.Options{
		Config: cfg,
		Logger: logging.Discard(),
		Cache:  memory.NewTemplateCache(time.Minute),
	})
	require.NoError(t, err)

	return NewAPIHandler(a.Services, logging.Discard()), mock, &calls
}

func request(method, path, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: method,
		Path:       path,
		Body:       body,
		Headers:    map[string]string{"authorization": "Bearer " + testToken},
	}
}

func decodeData(t *testing.T, resp events.APIGatewayProxyResponse, v any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func decodeError(t *testing.T, resp events.APIGatewayProxyResponse) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &e))
	return e
}

func TestHandle_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	resp, err := h.Handle(context.Background(), request(http.MethodGet, "/nope", ""))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "route not found", decodeError(t, resp).Message)
}

func TestHandle_Templates(t *testing.T) {
	h, _ := newTestHandler(t)

	resp, err := h.Handle(context.Background(), request(http.MethodGet, "/templates", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var all []domain.MessageTemplate
	decodeData(t, resp, &all)
	assert.Len(t, all, 3)

	req := request(http.MethodGet, "/templates", "")
	req.QueryStringParameters = map[string]string{"approved": "true"}
	resp, err = h.Handle(context.Background(), req)
	require.NoError(t, err)

	var approved []domain.MessageTemplate
	decodeData(t, resp, &approved)
	assert.Len(t, approved, 2)
}

func TestHandle_MissingTokenIsUnauthorized(t *testing.T) {
	h, _ := newTestHandler(t)

	req := request(http.MethodGet, "/history", "")
	req.Headers = nil
	resp, err := h.Handle(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Please sign in again.", decodeError(t, resp).Message)
}

func TestHandle_Preview(t *testing.T) {
	h, _ := newTestHandler(t)

	resp, err := h.Handle(context.Background(), request(http.MethodPost, "/broadcast/preview",
		`{"template":"order_update","variables":["Sam"]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var preview PreviewResponse
	decodeData(t, resp, &preview)
	assert.Equal(t, "Hello Sam, order [Variable 2] confirmed", preview.Preview)
	assert.Equal(t, []string{"Sam", ""}, preview.Variables)
}

func TestHandle_PreviewErrors(t *testing.T) {
	h, _ := newTestHandler(t)

	resp, _ := h.Handle(context.Background(), request(http.MethodPost, "/broadcast/preview", `{`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = h.Handle(context.Background(), request(http.MethodPost, "/broadcast/preview", `{}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "template is required", decodeError(t, resp).Message)

	resp, _ = h.Handle(context.Background(), request(http.MethodPost, "/broadcast/preview", `{"template":"ghost"}`))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = h.Handle(context.Background(), request(http.MethodPost, "/broadcast/preview",
		`{"template":"order_update","variables":["a","b","c"]}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MsgTooManyVariables, decodeError(t, resp).Message)
}

func TestHandle_BroadcastDirect(t *testing.T) {
	h, mock := newTestHandler(t)

	body := `{
		"name": "Promo",
		"numbers": "5511999999999, 5511888888888",
		"csv": {"content": "phone\n5511888888888\n5511777777777\n"},
		"message": "50% off"
	}`
	resp, err := h.Handle(context.Background(), request(http.MethodPost, "/broadcast", body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	var out BroadcastResponse
	decodeData(t, resp, &out)
	assert.Equal(t, 3, out.Recipients)
	assert.Equal(t, domain.BroadcastStats{Total: 3, Valid: 3}, out.Stats)
	assert.Equal(t, "Broadcast sent! 3 valid, 0 invalid out of 3 recipients.", out.Message)
	assert.Len(t, mock.Submissions(), 1)
}

func TestHandle_BroadcastValidation(t *testing.T) {
	h, mock := newTestHandler(t)

	resp, _ := h.Handle(context.Background(), request(http.MethodPost, "/broadcast", `{"message":"hi"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MsgNoRecipients, decodeError(t, resp).Message)

	resp, _ = h.Handle(context.Background(), request(http.MethodPost, "/broadcast",
		`{"mode":"template","numbers":"5511999999999"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MsgNoTemplate, decodeError(t, resp).Message)

	resp, _ = h.Handle(context.Background(), request(http.MethodPost, "/broadcast",
		`{"mode":"sms","numbers":"5511999999999"}`))
	assert.Equal(t, domain.MsgUnknownSendMode, decodeError(t, resp).Message)

	resp, _ = h.Handle(context.Background(), request(http.MethodPost, "/broadcast",
		`{"mode":"template","numbers":"5511999999999","template":"welcome","variables":["a","b","c"]}`))
	assert.Equal(t, domain.MsgTooManyVariables, decodeError(t, resp).Message)

	assert.Empty(t, mock.Submissions())
}

func TestHandle_BroadcastTemplateWithoutRecipients(t *testing.T) {
	h, mock, calls := newCountingHandler(t)

	resp, err := h.Handle(context.Background(), request(http.MethodPost, "/broadcast",
		`{"mode":"template","template":"flash_sale","variables":["a","b","c"]}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MsgNoRecipients, decodeError(t, resp).Message)
	assert.Zero(t, calls.Load())
	assert.Empty(t, mock.Submissions())
}

func TestHandle_BroadcastBackendRejection(t *testing.T) {
	h, _ := newTestHandler(t)

	resp, err := h.Handle(context.Background(), request(http.MethodPost, "/broadcast",
		`{"mode":"template","numbers":"5511999999999","template":"flash_sale"}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, `Template "flash_sale" is not approved (status PENDING)`, decodeError(t, resp).Message)
}

func TestHandle_History(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.Handle(context.Background(), request(http.MethodPost, "/broadcast",
		`{"name":"Orders","mode":"template","numbers":"5511999999999","template":"order_update","variables":["Sam","A-1"]}`))
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), request(http.MethodGet, "/history", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []domain.BroadcastHistoryEntry
	decodeData(t, resp, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "Orders", entries[0].Name)
}

func TestHandle_ResolveNeedsNoSession(t *testing.T) {
	h, _ := newTestHandler(t)

	req := request(http.MethodPost, "/recipients/resolve",
		`{"numbers":"5511999999999,5511999999999","csv":{"content":"phone\n123\n5511888888888"}}`)
	req.Headers = nil
	resp, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ResolveResponse
	decodeData(t, resp, &out)
	assert.Equal(t, []string{"5511999999999", "5511888888888"}, out.Recipients)
	assert.Equal(t, 2, out.Count)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken(map[string]string{"Authorization": "Bearer abc"}))
	assert.Equal(t, "abc", bearerToken(map[string]string{"authorization": "Bearer abc "}))
	assert.Empty(t, bearerToken(map[string]string{"Authorization": "Basic abc"}))
	assert.Empty(t, bearerToken(nil))
}
