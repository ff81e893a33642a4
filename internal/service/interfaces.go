package service

import (
	"context"

	"github.com/turtlethecat2/projectrift/internal/models"
)

// IngestResult représente l'issue de l'admission d'un événement
type IngestResult struct {
	EventID    string
	GoldEarned int
	XPEarned   int
	Duplicate  bool
	Message    string
}

// IngestService pipeline d'admission: validation, détection de doublons,
// résolution de règle, persistance atomique
type IngestService interface {
	Ingest(ctx context.Context, req *models.IngestEventRequest) (*IngestResult, error)
}

// StatsService agrégation et dérivation des statistiques de session
type StatsService interface {
	CurrentStats(ctx context.Context) (*models.CurrentStats, error)
	DailyStats(ctx context.Context, days int) ([]*models.DailyStats, error)
}

// RetentionService purge des événements au-delà de la période de rétention
type RetentionService interface {
	Cleanup(ctx context.Context, olderThanDays int, dryRun bool) (int64, error)
}
