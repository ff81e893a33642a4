package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// MaxMetadataChars taille maximale du document metadata une fois sérialisé
const MaxMetadataChars = 5000

// IngestEventRequest représente le payload du webhook d'ingestion
type IngestEventRequest struct {
	Source    string                 `json:"source" binding:"required"`
	EventType string                 `json:"event_type" binding:"required"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp *time.Time             `json:"timestamp,omitempty"`
}

// Validate vérifie les énumérations et la taille du metadata.
// Retourne le metadata sous forme canonique (clés triées) utilisé à la fois
// pour le stockage et la détection de doublons.
func (r *IngestEventRequest) Validate() (string, error) {
	if !IsAllowedSource(r.Source) {
		return "", NewValidationError(fmt.Sprintf("unknown source: %s (allowed: outreach, nooks, manual, zapier)", r.Source))
	}

	if !IsAllowedEventType(r.EventType) {
		return "", NewValidationError(fmt.Sprintf("unknown event type: %s", r.EventType))
	}

	canonical, err := CanonicalMetadata(r.Metadata)
	if err != nil {
		return "", NewValidationError(fmt.Sprintf("invalid metadata: %v", err))
	}

	if len(canonical) > MaxMetadataChars {
		return "", NewValidationError(fmt.Sprintf("metadata too large: %d characters (max %d)", len(canonical), MaxMetadataChars))
	}

	return canonical, nil
}

// CanonicalMetadata sérialise le metadata sous forme canonique.
// encoding/json trie les clés des maps, deux documents équivalents
// produisent donc exactement la même chaîne.
func CanonicalMetadata(metadata map[string]interface{}) (string, error) {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

// IngestEventResponse représente la réponse du webhook d'ingestion
type IngestEventResponse struct {
	Status     string `json:"status"`
	EventID    string `json:"event_id"`
	GoldEarned int    `json:"gold_earned"`
	XPEarned   int    `json:"xp_earned"`
	Message    string `json:"message"`
	Duplicate  bool   `json:"duplicate"`
}

// CleanupRequest représente une demande de purge des anciens événements
type CleanupRequest struct {
	OlderThanDays int  `json:"older_than_days" binding:"required,min=1"`
	DryRun        bool `json:"dry_run,omitempty"`
}
