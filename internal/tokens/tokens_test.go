package tokens

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/folio/folio/backend/api/internal/config"
	"github.com/folio/folio/backend/api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	return cfg
}

var admin = &models.AdminUser{Email: "admin@example.com", Name: "Admin", Role: "admin"}

func TestGenerateAccessToken_ValidAndClaims(t *testing.T) {
	cfg := testConfig("test-secret-32-bytes-should-be-long-enough")
	tokenStr, err := GenerateAccessToken(cfg, admin, 2*time.Minute)
	require.NoError(t, err)

	tok, err := NewVerifier(cfg.JWT.Secret, nil).Verify(context.Background(), tokenStr)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "admin", claims["sub"])
	require.Equal(t, "admin@example.com", claims["email"])
	require.Equal(t, "admin", claims["role"])
	require.InDelta(t, (2 * time.Minute).Seconds(), Remaining(claims).Seconds(), 5)
}

func TestVerify_Expired(t *testing.T) {
	cfg := testConfig("another-secret-32-bytes-longgggg")
	tokenStr, err := GenerateAccessToken(cfg, admin, -time.Minute)
	require.NoError(t, err)
	_, err = NewVerifier(cfg.JWT.Secret, nil).Verify(context.Background(), tokenStr)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_WrongSecretFails(t *testing.T) {
	tokenStr, err := GenerateAccessToken(testConfig("secret-one-32-bytes-xxxxxxxxxxxxxxxx"), admin, 2*time.Minute)
	require.NoError(t, err)
	_, err = NewVerifier("different-secret-xxxxxxxxxxxxxxxx", nil).Verify(context.Background(), tokenStr)
	require.Error(t, err)
}

func TestVerify_Malformed(t *testing.T) {
	_, err := NewVerifier("x", nil).Verify(context.Background(), "not.a.jwt")
	require.Error(t, err)
}

func seg(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

func TestVerify_AlgNoneRejected(t *testing.T) {
	headerEnc := seg([]byte(`{"alg":"none"}`))
	payloadEnc := seg([]byte(`{"sub":"admin","exp":9999999999}`))
	_, err := NewVerifier("x", nil).Verify(context.Background(), headerEnc+"."+payloadEnc+".")
	require.Error(t, err)
}

func TestVerify_TamperedPayload(t *testing.T) {
	cfg := testConfig("tamper-test-secret-32-bytes-xxxxxxx")
	tokenStr, err := GenerateAccessToken(cfg, admin, 5*time.Minute)
	require.NoError(t, err)
	parts := strings.Split(tokenStr, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = seg([]byte(strings.Replace(string(payload), "admin@example.com", "attacker@example.com", 1)))
	_, err = NewVerifier(cfg.JWT.Secret, nil).Verify(context.Background(), strings.Join(parts, "."))
	require.Error(t, err)
}

func TestRevocations(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	cfg := testConfig("revocation-secret-32-bytes-xxxxxxxx")
	rev := NewRevocations(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	ver := NewVerifier(cfg.JWT.Secret, rev)
	ctx := context.Background()

	tokenStr, err := GenerateAccessToken(cfg, admin, time.Hour)
	require.NoError(t, err)
	_, err = ver.Verify(ctx, tokenStr)
	require.NoError(t, err)

	require.NoError(t, rev.Revoke(ctx, tokenStr, 2*time.Second))
	_, err = ver.Verify(ctx, tokenStr)
	require.ErrorIs(t, err, ErrRevoked)

	m.FastForward(3 * time.Second)
	ok, err := rev.IsRevoked(ctx, tokenStr)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRevocations_NoClientIsNoop(t *testing.T) {
	var rev *Revocations
	ctx := context.Background()
	require.NoError(t, rev.Revoke(ctx, "t", time.Second))
	ok, err := rev.IsRevoked(ctx, "t")
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, NewRevocations(nil).Enabled())
}
