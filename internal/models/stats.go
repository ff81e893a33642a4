package models

import "time"

// LevelWidth nombre de XP par niveau (largeur fixe)
const LevelWidth = 1000

// RankLadder échelle ordonnée des rangs, indexée par meetings_booked.
// Tout compteur ≥ len(RankLadder) correspond au rang Challenger.
var RankLadder = []string{
	"Iron",
	"Bronze",
	"Silver",
	"Gold",
	"Platinum",
	"Emerald",
	"Diamond",
	"Master",
	"Grandmaster",
}

// RankChallenger rang ouvert au sommet de l'échelle
const RankChallenger = "Challenger"

// EventAggregate représente le résultat brut de l'agrégation SQL sur raw_events
type EventAggregate struct {
	TotalGold      int `db:"total_gold"`
	TotalXP        int `db:"total_xp"`
	TotalEvents    int `db:"total_events"`
	EventsToday    int `db:"events_today"`
	CallsMade      int `db:"calls_made"`
	CallsConnected int `db:"calls_connected"`
	MeetingsBooked int `db:"meetings_booked"`
}

// CurrentStats représente les statistiques dérivées de la session,
// recalculées à chaque requête à partir du journal complet
type CurrentStats struct {
	TotalGold        int    `json:"total_gold"`
	TotalXP          int    `json:"total_xp"`
	TotalEvents      int    `json:"total_events"`
	EventsToday      int    `json:"events_today"`
	CallsMade        int    `json:"calls_made"`
	CallsConnected   int    `json:"calls_connected"`
	MeetingsBooked   int    `json:"meetings_booked"`
	CurrentLevel     int    `json:"current_level"`
	XPInCurrentLevel int    `json:"xp_in_current_level"`
	XPToNextLevel    int    `json:"xp_to_next_level"`
	Rank             string `json:"rank"`
}

// DailyStats représente le cumul journalier des N derniers jours
type DailyStats struct {
	EventDate      time.Time `json:"event_date" db:"event_date"`
	TotalEvents    int       `json:"total_events" db:"total_events"`
	TotalGold      int       `json:"total_gold" db:"total_gold"`
	TotalXP        int       `json:"total_xp" db:"total_xp"`
	CallsMade      int       `json:"calls_made" db:"calls_made"`
	CallsConnected int       `json:"calls_connected" db:"calls_connected"`
	MeetingsBooked int       `json:"meetings_booked" db:"meetings_booked"`
}
