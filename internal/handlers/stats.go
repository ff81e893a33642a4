package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/turtlethecat2/projectrift/internal/service"
)

// MaxDailyStatsDays borne supérieure du rollup journalier
const MaxDailyStatsDays = 90

// StatsHandler sert les statistiques dérivées de la session
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler crée un nouveau handler de statistiques
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// CurrentStats retourne les statistiques courantes, recalculées à la demande
func (h *StatsHandler) CurrentStats(c *gin.Context) {
	stats, err := h.statsService.CurrentStats(c.Request.Context())
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"error":      err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		}).Error("Error retrieving stats")

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to retrieve statistics",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DailyStats retourne le cumul journalier des N derniers jours
func (h *StatsHandler) DailyStats(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > MaxDailyStatsDays {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "days must be an integer between 1 and 90",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	stats, err := h.statsService.DailyStats(c.Request.Context(), days)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"error":      err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		}).Error("Error retrieving daily stats")

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to retrieve daily statistics",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":  days,
		"stats": stats,
	})
}
