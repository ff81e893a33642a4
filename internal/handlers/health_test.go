package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlethecat2/projectrift/internal/config"
)

type fakeHealthChecker struct {
	err error
}

func (f *fakeHealthChecker) HealthCheck() error {
	return f.err
}

func newHealthRouter(db HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	handler := NewHealthHandler(cfg, db)
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.Readiness)
	router.GET("/status", handler.Status)
	return router
}

func TestHealthCheckHealthy(t *testing.T) {
	router := newHealthRouter(&fakeHealthChecker{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "rift", body["service"])
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	router := newHealthRouter(&fakeHealthChecker{err: errors.New("connection refused")})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	// Le composant dégradé est nommé dans la réponse
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	checks, ok := body["checks"].(map[string]interface{})
	require.True(t, ok)
	database, ok := checks["database"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "unhealthy", database["status"])
	assert.Contains(t, database["error"], "connection refused")
}

func TestReadinessNotReady(t *testing.T) {
	router := newHealthRouter(&fakeHealthChecker{err: errors.New("dial tcp: refused")})

	req := httptest.NewRequest("GET", "/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStatusAlwaysOK(t *testing.T) {
	router := newHealthRouter(&fakeHealthChecker{err: errors.New("down")})

	req := httptest.NewRequest("GET", "/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
