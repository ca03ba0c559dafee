package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// supabaseClaims mirrors the custom claims Supabase embeds in access tokens.
// org_id and role come from the app_metadata we set at invitation time.
type supabaseClaims struct {
	Email string `json:"email"`
	AppMetadata struct {
		OrgID string `json:"org_id"`
		Role  string `json:"role"`
	} `json:"app_metadata"`
	jwt.RegisteredClaims
}

// SupabaseProvider verifies HS256 tokens with the project JWT secret and
// talks to the GoTrue admin REST API for directory operations.
type SupabaseProvider struct {
	jwtSecret  string
	adminURL   string
	serviceKey string
	client     *http.Client
}

func NewSupabaseProvider(jwtSecret, adminURL, serviceKey string) *SupabaseProvider {
	return &SupabaseProvider{
		jwtSecret:  jwtSecret,
		adminURL:   adminURL,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *SupabaseProvider) VerifyToken(tokenStr string) (*Identity, error) {
	claims := &supabaseClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(p.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.AppMetadata.OrgID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{
		OrganizationID: claims.AppMetadata.OrgID,
		UserID:         claims.Subject,
		Email:          claims.Email,
		Role:           claims.AppMetadata.Role,
	}, nil
}

func (p *SupabaseProvider) GetUserEmail(ctx context.Context, externalID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.adminURL+"/admin/users/"+externalID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.serviceKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity: admin user lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity: admin user lookup: status %d", resp.StatusCode)
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Email, nil
}

func (p *SupabaseProvider) InviteUser(ctx context.Context, email, role, organizationID string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"email": email,
		"data": map[string]string{
			"org_id": organizationID,
			"role":   role,
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.adminURL+"/invite", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity: invite: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("identity: invite: status %d", resp.StatusCode)
	}
	return nil
}
