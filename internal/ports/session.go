package ports

import (
	"context"

	"broadcaster/internal/domain"
)

// SessionProvider supplies the signed-in user. It is built once at start
// and injected wherever a token is needed.
type SessionProvider interface {
	// Session returns the current session, or domain.ErrNoSession.
	Session(ctx context.Context) (*domain.Session, error)
}
