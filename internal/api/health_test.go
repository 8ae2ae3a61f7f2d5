package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealthRoot(t *testing.T) {
	h := NewHealthHandler(true, false)
	h.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	router := gin.New()
	router.GET("/", h.Root)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, "Serveur NutriScan API en fonctionnement", response["message"])
	assert.Equal(t, "2024-05-01T12:00:00Z", response["timestamp"])
	assert.Contains(t, response["endpoints"], "/api/generate-recipes")
	assert.Contains(t, response["features"], "Stockage permanent des images")
	assert.NotContains(t, response["features"], "Vérification par SMS")
}
