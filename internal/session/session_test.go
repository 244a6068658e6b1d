package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broadcaster/internal/domain"
	"broadcaster/internal/logging"
)

func TestStatic(t *testing.T) {
	sess, err := NewStatic("tok", "user-1").Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.AccessToken)
	assert.Equal(t, "user-1", sess.UserID)

	_, err = NewStatic("", "").Session(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

type authServer struct {
	*httptest.Server
	passwordGrants atomic.Int32
	refreshGrants  atomic.Int32
	expiresIn      int
}

func newAuthServer(t *testing.T, expiresIn int) *authServer {
	s := &authServer{expiresIn: expiresIn}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch r.URL.Query().Get("grant_type") {
		case "password":
			if body["password"] != "s3cret" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
				return
			}
			s.passwordGrants.Add(1)
		case "refresh_token":
			assert.Equal(t, "refresh-1", body["refresh_token"])
			s.refreshGrants.Add(1)
		default:
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-token",
			"token_type":    "bearer",
			"expires_in":    s.expiresIn,
			"refresh_token": "refresh-1",
			"user":          map[string]string{"id": "user-1", "email": "ops@example.com"},
		})
	}))
	t.Cleanup(s.Close)
	return s
}

func newProvider(url, password string) *PasswordProvider {
	return NewPasswordProvider(PasswordConfig{
		URL:      url,
		APIKey:   "anon-key",
		Email:    "ops@example.com",
		Password: password,
		Timeout:  5 * time.Second,
	}, logging.Discard())
}

func TestPasswordProvider_CachesSession(t *testing.T) {
	srv := newAuthServer(t, 3600)
	p := newProvider(srv.URL, "s3cret")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := p.Session(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "access-token", sess.AccessToken)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), srv.passwordGrants.Load())
}

func TestPasswordProvider_RefreshesNearExpiry(t *testing.T) {
	// Shorter than the refresh buffer, so every call renews.
	srv := newAuthServer(t, 30)
	p := newProvider(srv.URL, "s3cret")

	sess, err := p.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "ops@example.com", sess.Email)

	_, err = p.Session(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), srv.passwordGrants.Load())
	assert.Equal(t, int32(1), srv.refreshGrants.Load())
}

func TestPasswordProvider_BadCredentials(t *testing.T) {
	srv := newAuthServer(t, 3600)
	p := newProvider(srv.URL, "wrong")

	_, err := p.Session(context.Background())

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
}

func TestPasswordProvider_NoCredentials(t *testing.T) {
	p := newProvider("http://127.0.0.1:0", "")

	_, err := p.Session(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestPasswordProvider_SignOut(t *testing.T) {
	srv := newAuthServer(t, 3600)
	p := newProvider(srv.URL, "s3cret")

	_, err := p.Session(context.Background())
	require.NoError(t, err)

	p.SignOut()

	_, err = p.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.passwordGrants.Load())
}
