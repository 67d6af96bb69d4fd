package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSwaggerEndpoints(t *testing.T) {
	g := gin.New()
	RegisterSwagger(g, "/api")

	req := httptest.NewRequest("GET", "/swagger/index.html", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "swagger-ui")

	req2 := httptest.NewRequest("GET", "/swagger/doc.json", nil)
	w2 := httptest.NewRecorder()
	g.ServeHTTP(w2, req2)
	require.Equal(t, 200, w2.Code)

	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Servers []struct{ URL string }    `json:"servers"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &doc))
	require.Equal(t, "3.0.0", doc.OpenAPI)
	require.Equal(t, "/api", doc.Servers[0].URL)
	require.Contains(t, doc.Paths, "/auth/login")
	require.Contains(t, doc.Paths["/blogs/{id}"], "delete")
	require.Contains(t, doc.Paths["/import-export/import"], "post")
	require.NotContains(t, doc.Paths["/blogs"], "delete")
}
