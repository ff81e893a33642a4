package repository

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/turtlethecat2/projectrift/internal/database"
	"github.com/turtlethecat2/projectrift/internal/models"
)

type eventRepository struct {
	db *database.DB
}

// NewEventRepository crée une nouvelle instance du repository des événements
func NewEventRepository(db *database.DB) EventRepository {
	return &eventRepository{db: db}
}

// admissionLockKey dérive une clé 64 bits stable à partir du triplet
// (source, event_type, metadata canonique). Sert de clé de verrou consultatif
// pour sérialiser l'admission d'événements identiques.
func admissionLockKey(source, eventType, canonicalMetadata string) int64 {
	sum := sha256.Sum256([]byte(source + "|" + eventType + "|" + canonicalMetadata))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// InsertWithLog admet un événement dans une seule transaction:
// verrou consultatif sur la clé d'idempotence, re-vérification de doublon,
// insertion de l'événement puis de son entrée d'audit. Tout échec annule
// l'unité complète; aucun identifiant n'est retourné dans ce cas.
func (r *eventRepository) InsertWithLog(ctx context.Context, event *models.Event, window time.Duration) (uuid.UUID, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, false, wrapAcquireError("begin transaction", err)
	}
	defer tx.Rollback()

	// Sérialiser l'admission des soumissions identiques: deux requêtes
	// concurrentes portant la même clé ne peuvent pas observer toutes les
	// deux "pas de doublon" avant insertion.
	lockKey := admissionLockKey(event.Source, event.EventType, event.Metadata)
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		return uuid.Nil, false, models.NewStoreError("advisory lock", err)
	}

	// Re-vérification sous verrou
	var exists bool
	err = tx.QueryRowContext(ctx, duplicateQuery,
		event.Source, event.EventType, event.Metadata, int64(window.Seconds()),
	).Scan(&exists)
	if err != nil {
		return uuid.Nil, false, models.NewStoreError("duplicate check", err)
	}
	if exists {
		return uuid.Nil, true, nil
	}

	// Insertion de l'événement; created_at est assigné par le serveur pour
	// garantir un ordre cohérent avec l'ordre de commit.
	insertEvent := `
		INSERT INTO raw_events (source, event_type, gold_value, xp_value, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, insertEvent,
		event.Source, event.EventType, event.GoldValue, event.XPValue, event.Metadata,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return uuid.Nil, false, models.NewStoreError("event insert", err)
	}

	// Entrée d'audit, dans la même unité de travail
	details, err := json.Marshal(map[string]string{
		"source":     event.Source,
		"event_type": event.EventType,
	})
	if err != nil {
		return uuid.Nil, false, models.NewStoreError("audit details marshal", err)
	}

	insertLog := `
		INSERT INTO event_log (event_id, action, details)
		VALUES ($1, $2, $3)`

	if _, err := tx.ExecContext(ctx, insertLog, event.ID, models.LogActionCreated, string(details)); err != nil {
		return uuid.Nil, false, models.NewStoreError("audit log insert", err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, false, models.NewStoreError("commit", err)
	}

	return event.ID, false, nil
}

const duplicateQuery = `
	SELECT EXISTS (
		SELECT 1 FROM raw_events
		WHERE source = $1
		AND event_type = $2
		AND metadata = $3::jsonb
		AND created_at >= NOW() - make_interval(secs => $4)
	)`

// IsDuplicate vérifie l'existence d'un événement équivalent dans la fenêtre.
// Lecture pure, aucun effet de bord; l'égalité porte sur la forme canonique
// du metadata, pas sur une équivalence sémantique.
func (r *eventRepository) IsDuplicate(ctx context.Context, source, eventType, canonicalMetadata string, window time.Duration) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, duplicateQuery,
		source, eventType, canonicalMetadata, int64(window.Seconds()),
	).Scan(&exists)
	if err != nil {
		return false, wrapAcquireError("duplicate check", err)
	}

	return exists, nil
}

// AggregateStats agrège le journal complet en une seule requête.
// Scan intégral: le coût croît avec le volume, limitation connue.
func (r *eventRepository) AggregateStats(ctx context.Context) (*models.EventAggregate, error) {
	query := `
		SELECT
			COALESCE(SUM(gold_value), 0) AS total_gold,
			COALESCE(SUM(xp_value), 0) AS total_xp,
			COUNT(*) AS total_events,
			COUNT(CASE WHEN DATE(created_at) = CURRENT_DATE THEN 1 END) AS events_today,
			COALESCE(SUM(CASE WHEN event_type = 'call_dial' THEN 1 ELSE 0 END), 0) AS calls_made,
			COALESCE(SUM(CASE WHEN event_type = 'call_connect' THEN 1 ELSE 0 END), 0) AS calls_connected,
			COALESCE(SUM(CASE WHEN event_type = 'meeting_booked' THEN 1 ELSE 0 END), 0) AS meetings_booked
		FROM raw_events`

	var agg models.EventAggregate
	if err := r.db.GetContext(ctx, &agg, query); err != nil {
		return nil, wrapAcquireError("stats aggregation", err)
	}

	return &agg, nil
}

// DailyStats retourne le cumul journalier des N derniers jours
func (r *eventRepository) DailyStats(ctx context.Context, days int) ([]*models.DailyStats, error) {
	query := `
		SELECT
			DATE(created_at) AS event_date,
			COUNT(*) AS total_events,
			COALESCE(SUM(gold_value), 0) AS total_gold,
			COALESCE(SUM(xp_value), 0) AS total_xp,
			COALESCE(SUM(CASE WHEN event_type = 'call_dial' THEN 1 ELSE 0 END), 0) AS calls_made,
			COALESCE(SUM(CASE WHEN event_type = 'call_connect' THEN 1 ELSE 0 END), 0) AS calls_connected,
			COALESCE(SUM(CASE WHEN event_type = 'meeting_booked' THEN 1 ELSE 0 END), 0) AS meetings_booked
		FROM raw_events
		WHERE created_at >= CURRENT_DATE - make_interval(days => $1)
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at) DESC`

	var stats []*models.DailyStats
	if err := r.db.SelectContext(ctx, &stats, query, days); err != nil {
		return nil, wrapAcquireError("daily stats", err)
	}

	return stats, nil
}

// DeleteOlderThan supprime les événements antérieurs au seuil.
// Les entrées event_log associées suivent par ON DELETE CASCADE.
func (r *eventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM raw_events WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, wrapAcquireError("retention delete", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, models.NewStoreError("retention delete", err)
	}

	return deleted, nil
}

// CountOlderThan compte les événements antérieurs au seuil
func (r *eventRepository) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM raw_events WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, wrapAcquireError("retention count", err)
	}

	return count, nil
}

// wrapAcquireError distingue l'épuisement du pool (attente de connection
// expirée) d'un échec de persistance ordinaire.
func wrapAcquireError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewPoolExhaustedError(fmt.Errorf("%s: %w", op, err))
	}
	return models.NewStoreError(op, err)
}
