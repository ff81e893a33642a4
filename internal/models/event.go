package models

import (
	"time"

	"github.com/google/uuid"
)

// Sources autorisées pour les événements entrants
const (
	SourceOutreach = "outreach"
	SourceNooks    = "nooks"
	SourceManual   = "manual"
	SourceZapier   = "zapier"
)

// Types d'événements de vente reconnus
const (
	EventTypeCallDial        = "call_dial"
	EventTypeCallConnect     = "call_connect"
	EventTypeMeetingBooked   = "meeting_booked"
	EventTypeMeetingAttended = "meeting_attended"
	EventTypeEmailSent       = "email_sent"
)

// AllowedSources liste les sources acceptées par le webhook
var AllowedSources = []string{SourceOutreach, SourceNooks, SourceManual, SourceZapier}

// AllowedEventTypes liste les types d'événements acceptés par le webhook
var AllowedEventTypes = []string{
	EventTypeCallDial,
	EventTypeCallConnect,
	EventTypeMeetingBooked,
	EventTypeMeetingAttended,
	EventTypeEmailSent,
}

// Event représente un événement de vente admis (append-only, jamais modifié)
type Event struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Source    string    `json:"source" db:"source"`
	EventType string    `json:"event_type" db:"event_type"`
	GoldValue int       `json:"gold_value" db:"gold_value"`
	XPValue   int       `json:"xp_value" db:"xp_value"`
	Metadata  string    `json:"metadata" db:"metadata"` // JSON canonique, ≤ 5000 caractères
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Rule représente une règle de gamification (lecture seule pour le pipeline)
type Rule struct {
	EventType   string `json:"event_type" db:"event_type"`
	GoldValue   int    `json:"gold_value" db:"gold_value"`
	XPValue     int    `json:"xp_value" db:"xp_value"`
	DisplayName string `json:"display_name" db:"display_name"`
	Description string `json:"description" db:"description"`
}

// EventLogEntry représente une entrée d'audit liée à un événement
type EventLogEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EventID   uuid.UUID `json:"event_id" db:"event_id"`
	Action    string    `json:"action" db:"action"`
	Details   string    `json:"details" db:"details"` // JSON
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// Actions consignées dans event_log
const (
	LogActionCreated = "created"
)

// IsAllowedSource vérifie que la source fait partie de l'énumération
func IsAllowedSource(source string) bool {
	for _, s := range AllowedSources {
		if s == source {
			return true
		}
	}
	return false
}

// IsAllowedEventType vérifie que le type d'événement fait partie de l'énumération
func IsAllowedEventType(eventType string) bool {
	for _, t := range AllowedEventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}
