package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/turtlethecat2/projectrift/internal/repository"
)

type retentionService struct {
	eventRepo repository.EventRepository
}

// NewRetentionService crée une nouvelle instance du service de rétention
func NewRetentionService(eventRepo repository.EventRepository) RetentionService {
	return &retentionService{eventRepo: eventRepo}
}

// Cleanup supprime les événements plus anciens que olderThanDays.
// En dry-run, compte les lignes concernées sans rien supprimer.
func (s *retentionService) Cleanup(ctx context.Context, olderThanDays int, dryRun bool) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)

	if dryRun {
		count, err := s.eventRepo.CountOlderThan(ctx, cutoff)
		if err != nil {
			return 0, err
		}

		logrus.WithFields(logrus.Fields{
			"cutoff":  cutoff.Format(time.RFC3339),
			"matched": count,
			"service": "rift",
		}).Info("Retention dry-run completed")

		return count, nil
	}

	deleted, err := s.eventRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"cutoff":  cutoff.Format(time.RFC3339),
		"deleted": deleted,
		"service": "rift",
	}).Info("Retention cleanup completed")

	return deleted, nil
}
