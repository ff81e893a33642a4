package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/turtlethecat2/projectrift/internal/models"
	"github.com/turtlethecat2/projectrift/internal/service"
)

// WebhookHandler gère l'ingestion des événements de vente
type WebhookHandler struct {
	ingestService service.IngestService
}

// NewWebhookHandler crée un nouveau handler webhook
func NewWebhookHandler(ingestService service.IngestService) *WebhookHandler {
	return &WebhookHandler{ingestService: ingestService}
}

// IngestEvent endpoint universel d'ingestion webhook.
// 201 pour un événement nouveau comme pour un doublon (issue désignée),
// 422 pour un payload invalide ou une règle absente, 500 pour un échec store.
func (h *WebhookHandler) IngestEvent(c *gin.Context) {
	var req models.IngestEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), &req)
	if err != nil {
		status := statusForIngestError(err)
		if status == http.StatusInternalServerError {
			logrus.WithFields(logrus.Fields{
				"error":      err.Error(),
				"source":     req.Source,
				"event_type": req.EventType,
				"request_id": c.GetHeader("X-Request-ID"),
			}).Error("Error processing event")
		}

		c.JSON(status, gin.H{
			"error":      err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusCreated, models.IngestEventResponse{
		Status:     "success",
		EventID:    result.EventID,
		GoldEarned: result.GoldEarned,
		XPEarned:   result.XPEarned,
		Message:    result.Message,
		Duplicate:  result.Duplicate,
	})
}

// statusForIngestError mappe la taxonomie d'erreurs sur les codes HTTP
func statusForIngestError(err error) int {
	var validationErr *models.ValidationError
	var ruleNotFound *models.RuleNotFoundError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &ruleNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
