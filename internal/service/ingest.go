package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/turtlethecat2/projectrift/internal/models"
	"github.com/turtlethecat2/projectrift/internal/repository"
)

type ingestService struct {
	eventRepo repository.EventRepository
	ruleRepo  repository.RuleRepository
	window    time.Duration
}

// NewIngestService crée une nouvelle instance du service d'ingestion
func NewIngestService(
	eventRepo repository.EventRepository,
	ruleRepo repository.RuleRepository,
	window time.Duration,
) IngestService {
	return &ingestService{
		eventRepo: eventRepo,
		ruleRepo:  ruleRepo,
		window:    window,
	}
}

// duplicateResult réponse désignée pour une soumission répétée: succès,
// aucune récompense, aucune ligne insérée.
func duplicateResult() *IngestResult {
	return &IngestResult{
		EventID:    "duplicate",
		GoldEarned: 0,
		XPEarned:   0,
		Duplicate:  true,
		Message:    "Duplicate event ignored (idempotency check)",
	}
}

// Ingest admet un événement de vente: validation, détection de doublons,
// résolution de la règle, persistance atomique événement + audit.
// Les erreurs de validation court-circuitent avant tout accès au store.
func (s *ingestService) Ingest(ctx context.Context, req *models.IngestEventRequest) (*IngestResult, error) {
	canonical, err := req.Validate()
	if err != nil {
		return nil, err
	}

	// Chemin rapide, hors verrou
	isDuplicate, err := s.eventRepo.IsDuplicate(ctx, req.Source, req.EventType, canonical, s.window)
	if err != nil {
		return nil, err
	}
	if isDuplicate {
		logrus.WithFields(logrus.Fields{
			"source":     req.Source,
			"event_type": req.EventType,
			"service":    "rift",
		}).Info("Duplicate event detected")

		return duplicateResult(), nil
	}

	// La récompense est copiée depuis la règle au moment de l'admission;
	// les lignes historiques la conservent même si la règle change ensuite.
	rule, err := s.ruleRepo.GetByEventType(ctx, req.EventType)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Source:    req.Source,
		EventType: req.EventType,
		GoldValue: rule.GoldValue,
		XPValue:   rule.XPValue,
		Metadata:  canonical,
	}

	eventID, duplicate, err := s.eventRepo.InsertWithLog(ctx, event, s.window)
	if err != nil {
		return nil, err
	}
	if duplicate {
		// Une soumission identique concurrente a gagné la course sous verrou
		logrus.WithFields(logrus.Fields{
			"source":     req.Source,
			"event_type": req.EventType,
			"service":    "rift",
		}).Info("Duplicate event detected under admission lock")

		return duplicateResult(), nil
	}

	logrus.WithFields(logrus.Fields{
		"event_id":   eventID,
		"source":     req.Source,
		"event_type": req.EventType,
		"gold":       rule.GoldValue,
		"xp":         rule.XPValue,
		"service":    "rift",
	}).Info("Event processed")

	return &IngestResult{
		EventID:    eventID.String(),
		GoldEarned: rule.GoldValue,
		XPEarned:   rule.XPValue,
		Duplicate:  false,
		Message:    "Event processed successfully",
	}, nil
}
