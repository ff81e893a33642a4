package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtlethecat2/projectrift/internal/config"
)

var startTime = time.Now()

// ServiceVersion version de l'API
const ServiceVersion = "1.0.0"

// HealthChecker interface pour vérifier la santé des composants
type HealthChecker interface {
	HealthCheck() error
}

// HealthHandler gère les endpoints de santé et monitoring
type HealthHandler struct {
	config *config.Config
	db     HealthChecker
}

// NewHealthHandler crée un nouveau handler de santé
func NewHealthHandler(config *config.Config, db HealthChecker) *HealthHandler {
	return &HealthHandler{
		config: config,
		db:     db,
	}
}

// HealthCheck endpoint de santé du service.
// 503 avec le composant dégradé nommé quand la base est injoignable.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	checks := make(map[string]interface{})
	status := "healthy"

	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			status = "unhealthy"
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "unknown",
			"error":  "database connection not available",
		}
		status = "degraded"
	}

	health := map[string]interface{}{
		"status":      status,
		"service":     "rift",
		"version":     ServiceVersion,
		"timestamp":   time.Now().Unix(),
		"uptime":      time.Since(startTime).Seconds(),
		"environment": h.config.Server.Environment,
		"checks":      checks,
	}

	httpStatus := http.StatusOK
	if status != "healthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, health)
}

// Readiness endpoint de préparation (Kubernetes)
func (h *HealthHandler) Readiness(c *gin.Context) {
	ready := true
	checks := make(map[string]interface{})

	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			ready = false
			checks["database"] = "not ready"
		} else {
			checks["database"] = "ready"
		}
	}

	status := "ready"
	httpStatus := http.StatusOK
	if !ready {
		status = "not ready"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"service":   "rift",
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

// Status endpoint simple pour load balancer
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "rift",
		"time":    time.Now().Unix(),
	})
}

// Metrics endpoint pour Prometheus
func (h *HealthHandler) Metrics(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}

// Version endpoint
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "rift",
		"version":     ServiceVersion,
		"go_version":  runtime.Version(),
		"environment": h.config.Server.Environment,
	})
}
