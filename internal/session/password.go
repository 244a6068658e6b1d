package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"broadcaster/internal/domain"
)

// refreshBuffer is how long before expiry a cached session is renewed.
const refreshBuffer = 60 * time.Second

// PasswordConfig holds hosted auth provider settings.
type PasswordConfig struct {
	URL      string // e.g. https://<project>.supabase.co/auth/v1
	APIKey   string
	Email    string
	Password string
	Timeout  time.Duration
}

// tokenResponse is the auth provider's token grant response.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// authError is the auth provider's error body.
type authError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

func (e *authError) message() string {
	switch {
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Msg != "":
		return e.Msg
	default:
		return e.Error
	}
}

// PasswordProvider signs in with email and password and keeps the
// session cached until shortly before it expires. Renewal uses the
// refresh token when one was issued.
type PasswordProvider struct {
	config       PasswordConfig
	httpClient   *http.Client
	logger       *slog.Logger
	session      *domain.Session
	refreshToken string
	mu           sync.RWMutex
}

// NewPasswordProvider creates a provider. No request is made until the
// first call to Session.
func NewPasswordProvider(config PasswordConfig, logger *slog.Logger) *PasswordProvider {
	return &PasswordProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// Session returns a valid session, signing in again when needed.
func (p *PasswordProvider) Session(ctx context.Context) (*domain.Session, error) {
	p.mu.RLock()
	if p.fresh() {
		sess := *p.session
		p.mu.RUnlock()
		return &sess, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another goroutine may have renewed while we waited.
	if p.fresh() {
		sess := *p.session
		return &sess, nil
	}

	if p.config.Email == "" || p.config.Password == "" {
		return nil, domain.ErrNoSession
	}

	var (
		resp *tokenResponse
		err  error
	)
	if p.refreshToken != "" {
		resp, err = p.grant(ctx, "refresh_token", map[string]string{"refresh_token": p.refreshToken})
		if err != nil {
			p.logger.Warn("session refresh failed, signing in again", "error", err)
		}
	}
	if resp == nil {
		resp, err = p.grant(ctx, "password", map[string]string{
			"email":    p.config.Email,
			"password": p.config.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("sign in: %w", err)
		}
	}

	p.session = &domain.Session{
		AccessToken: resp.AccessToken,
		UserID:      resp.User.ID,
		Email:       resp.User.Email,
		ExpiresAt:   time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	p.refreshToken = resp.RefreshToken

	p.logger.Debug("session established", "user_id", p.session.UserID, "expires_at", p.session.ExpiresAt)

	sess := *p.session
	return &sess, nil
}

// SignOut drops the cached session.
func (p *PasswordProvider) SignOut() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = nil
	p.refreshToken = ""
}

// fresh must be called with mu held.
func (p *PasswordProvider) fresh() bool {
	return p.session != nil && time.Now().Before(p.session.ExpiresAt.Add(-refreshBuffer))
}

func (p *PasswordProvider) grant(ctx context.Context, grantType string, body map[string]string) (*tokenResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/token?grant_type=%s", p.config.URL, grantType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.config.APIKey != "" {
		req.Header.Set("apikey", p.config.APIKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var authErr authError
		if err := json.Unmarshal(respBody, &authErr); err == nil && authErr.message() != "" {
			return nil, &domain.APIError{Op: "auth " + grantType, StatusCode: resp.StatusCode, Message: authErr.message()}
		}
		return nil, &domain.APIError{Op: "auth " + grantType, StatusCode: resp.StatusCode}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in response")
	}

	return &tokenResp, nil
}
