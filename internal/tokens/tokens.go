// Package tokens issues and verifies the admin's HS256 bearer tokens.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/folio/folio/backend/api/internal/config"
	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/pkg/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// ErrRevoked is returned for a token that was logged out.
var ErrRevoked = errors.New("token has been revoked")

// GenerateAccessToken creates a signed JWT access token for the admin.
func GenerateAccessToken(cfg *config.Config, u *models.AdminUser, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   "admin",
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// Verifier checks signature, expiry and revocation; it satisfies
// middleware.Verifier.
type Verifier struct {
	secret  []byte
	revoked *Revocations
}

func NewVerifier(secret string, revoked *Revocations) *Verifier {
	return &Verifier{secret: []byte(secret), revoked: revoked}
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	revoked, err := v.revoked.IsRevoked(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claimsToken(claims), nil
}

type claimsToken jwt.MapClaims

func (t claimsToken) Claims(v interface{}) error {
	out, ok := v.(*map[string]interface{})
	if !ok {
		return fmt.Errorf("unsupported claims target %T", v)
	}
	*out = map[string]interface{}(t)
	return nil
}

// Remaining is how long a verified token's claims stay valid.
func Remaining(claims map[string]interface{}) time.Duration {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return 0
	}
	if d := time.Until(time.Unix(int64(exp), 0)); d > 0 {
		return d
	}
	return 0
}
