package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// fakeToken implements Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier implements Verifier
type fakeVerifier struct{}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	if raw == "goodtoken" {
		return &fakeToken{data: map[string]interface{}{"sub": "admin", "email": "admin@example.com"}}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func serveAuth(header string) *httptest.ResponseRecorder {
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) {
		claims, _ := c.Get(ClaimsKey)
		token, _ := c.Get(TokenKey)
		c.JSON(http.StatusOK, gin.H{"claims": claims, "token": token})
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serveAuth("").Code)
}

func TestAuthMiddleware_InvalidHeader(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serveAuth("BadHeader").Code)
	require.Equal(t, http.StatusUnauthorized, serveAuth("Bearer ").Code)
}

func TestAuthMiddleware_RejectedToken(t *testing.T) {
	rw := serveAuth("Bearer revoked-or-forged")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "invalid token")
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rw := serveAuth("Bearer goodtoken")
	require.Equal(t, http.StatusOK, rw.Code)
	var got struct {
		Claims map[string]interface{} `json:"claims"`
		Token  string                 `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Equal(t, "admin", got.Claims["sub"])
	require.Equal(t, "goodtoken", got.Token)
}
