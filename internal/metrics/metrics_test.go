package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.ObserveStage(StageImage, true)
	c.ObserveStage(StageImage, false)
	c.ObserveStage(StageImage, false)
	c.ObserveImageSource("stored")
	c.ObserveGeneration(3 * time.Second)
	c.ObserveRequest(http.MethodPost, "/api/generate-recipes", http.StatusOK, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.stageTotal.WithLabelValues(StageImage, OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.stageTotal.WithLabelValues(StageImage, OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.imageSourceTotal.WithLabelValues("stored")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "nutriscan_recipe_generation_duration_seconds"))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveStage(StageParse, true)
		c.ObserveGeneration(time.Second)
		c.ObserveImageSource("failed")
		c.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
	assert.Nil(t, c.Registry())
}
