package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/turtlethecat2/projectrift/internal/models"
	"github.com/turtlethecat2/projectrift/internal/repository"
	"github.com/turtlethecat2/projectrift/internal/service"
)

// AdminHandler opérations de maintenance (surface protégée par JWT)
type AdminHandler struct {
	retentionService service.RetentionService
	ruleRepo         repository.RuleRepository
}

// NewAdminHandler crée un nouveau handler admin
func NewAdminHandler(retentionService service.RetentionService, ruleRepo repository.RuleRepository) *AdminHandler {
	return &AdminHandler{
		retentionService: retentionService,
		ruleRepo:         ruleRepo,
	}
}

// CleanupEvents purge les événements au-delà de la période demandée
func (h *AdminHandler) CleanupEvents(c *gin.Context) {
	var req models.CleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	affected, err := h.retentionService.Cleanup(c.Request.Context(), req.OlderThanDays, req.DryRun)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"error":      err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		}).Error("Error during retention cleanup")

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to cleanup old events",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"older_than_days": req.OlderThanDays,
		"dry_run":         req.DryRun,
		"affected":        affected,
	})
}

// ListRules affiche la table des règles de gamification
func (h *AdminHandler) ListRules(c *gin.Context) {
	rules, err := h.ruleRepo.List(c.Request.Context())
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"error":      err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		}).Error("Error listing gamification rules")

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to list gamification rules",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rules": rules,
		"total": len(rules),
	})
}
