// Package session provides the signed-in user to the rest of the module.
package session

import (
	"context"

	"broadcaster/internal/domain"
)

// Static serves a fixed access token, e.g. one passed on the command line
// or taken from an incoming request.
type Static struct {
	session domain.Session
}

// NewStatic creates a provider for token. An empty token yields
// domain.ErrNoSession on every call.
func NewStatic(token, userID string) *Static {
	return &Static{
		session: domain.Session{
			AccessToken: token,
			UserID:      userID,
		},
	}
}

// Session returns the fixed session.
func (s *Static) Session(ctx context.Context) (*domain.Session, error) {
	if s.session.AccessToken == "" {
		return nil, domain.ErrNoSession
	}
	sess := s.session
	return &sess, nil
}
