package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtlethecat2/projectrift/internal/models"
)

// EventRepository journal append-only des événements admis
type EventRepository interface {
	// InsertWithLog admet un événement et son entrée d'audit dans une seule
	// transaction, sérialisée par clé d'idempotence. Retourne duplicate=true
	// sans insérer si un événement équivalent existe dans la fenêtre.
	InsertWithLog(ctx context.Context, event *models.Event, window time.Duration) (uuid.UUID, bool, error)

	// IsDuplicate vérifie, en lecture seule, l'existence d'un événement
	// équivalent dans la fenêtre glissante.
	IsDuplicate(ctx context.Context, source, eventType, canonicalMetadata string, window time.Duration) (bool, error)

	// AggregateStats agrège le journal complet en une seule requête.
	AggregateStats(ctx context.Context) (*models.EventAggregate, error)

	// DailyStats retourne le cumul journalier des N derniers jours.
	DailyStats(ctx context.Context, days int) ([]*models.DailyStats, error)

	// DeleteOlderThan supprime les événements antérieurs au seuil et
	// retourne le nombre de lignes supprimées.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// CountOlderThan compte les événements antérieurs au seuil (dry-run).
	CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RuleRepository table des règles de gamification, lecture seule à runtime
type RuleRepository interface {
	GetByEventType(ctx context.Context, eventType string) (*models.Rule, error)
	List(ctx context.Context) ([]*models.Rule, error)

	// ValidateCoverage vérifie que chaque type d'événement énuméré possède
	// exactement une règle configurée. Erreur de configuration sinon.
	ValidateCoverage(ctx context.Context, eventTypes []string) error
}
