package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers the liveness route
type HealthHandler struct {
	storageEnabled bool
	smsEnabled     bool
	now            func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storageEnabled, smsEnabled bool) *HealthHandler {
	return &HealthHandler{storageEnabled: storageEnabled, smsEnabled: smsEnabled, now: time.Now}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	features := []string{
		"Préparation de recettes personnalisées",
		"Préparation d'images de recettes",
	}
	if h.storageEnabled {
		features = append(features, "Stockage permanent des images")
	}
	if h.smsEnabled {
		features = append(features, "Vérification par SMS")
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Serveur NutriScan API en fonctionnement",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"endpoints": []string{"/api/generate-recipes", "/api/generate-image", "/api/send-verification-sms"},
		"features":  features,
	})
}
