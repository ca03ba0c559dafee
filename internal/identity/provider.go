// Package identity is the boundary to the external identity provider. The
// rest of the API receives a verified (organization, user, role) triple and
// never touches tokens or provider APIs directly.
package identity

import (
	"context"
	"errors"

	"otica/internal/config"
)

// Identity is the verified caller extracted from an access token.
type Identity struct {
	OrganizationID string
	UserID         string
	Email          string
	Role           string
}

// Provider is the single capability surface over identity backends. New
// backends plug in here; nothing below the middleware knows which one runs.
type Provider interface {
	VerifyToken(token string) (*Identity, error)
	GetUserEmail(ctx context.Context, externalID string) (string, error)
	InviteUser(ctx context.Context, email, role, organizationID string) error
}

// ErrInvalidToken is returned for any token that fails verification; the
// middleware translates it to 401 without detail.
var ErrInvalidToken = errors.New("identity: invalid or expired token")

// New selects the provider implementation from config.
func New(cfg *config.Config) (Provider, error) {
	switch cfg.AuthProvider {
	case "supabase", "":
		return NewSupabaseProvider(cfg.AuthJWTSecret, cfg.AuthAdminURL, cfg.AuthServiceKey), nil
	default:
		return nil, errors.New("identity: unknown auth provider " + cfg.AuthProvider)
	}
}
