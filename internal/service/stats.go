package service

import (
	"context"

	"github.com/turtlethecat2/projectrift/internal/models"
	"github.com/turtlethecat2/projectrift/internal/repository"
)

type statsService struct {
	eventRepo repository.EventRepository
}

// NewStatsService crée une nouvelle instance du service de statistiques
func NewStatsService(eventRepo repository.EventRepository) StatsService {
	return &statsService{eventRepo: eventRepo}
}

// CurrentStats recalcule les statistiques dérivées depuis le journal complet.
// Fonction de lecture pure: deux appels sans écriture intermédiaire
// retournent des résultats identiques.
func (s *statsService) CurrentStats(ctx context.Context) (*models.CurrentStats, error) {
	agg, err := s.eventRepo.AggregateStats(ctx)
	if err != nil {
		return nil, err
	}

	level, inLevel, toNext := DeriveLevel(agg.TotalXP)

	return &models.CurrentStats{
		TotalGold:        agg.TotalGold,
		TotalXP:          agg.TotalXP,
		TotalEvents:      agg.TotalEvents,
		EventsToday:      agg.EventsToday,
		CallsMade:        agg.CallsMade,
		CallsConnected:   agg.CallsConnected,
		MeetingsBooked:   agg.MeetingsBooked,
		CurrentLevel:     level,
		XPInCurrentLevel: inLevel,
		XPToNextLevel:    toNext,
		Rank:             RankForMeetings(agg.MeetingsBooked),
	}, nil
}

// DailyStats retourne le cumul journalier des N derniers jours
func (s *statsService) DailyStats(ctx context.Context, days int) ([]*models.DailyStats, error) {
	return s.eventRepo.DailyStats(ctx, days)
}

// DeriveLevel dérive la progression de niveau depuis le cumul de XP,
// avec une largeur fixe de 1000 XP par niveau.
func DeriveLevel(totalXP int) (level, xpInLevel, xpToNext int) {
	level = totalXP/models.LevelWidth + 1
	xpInLevel = totalXP % models.LevelWidth
	xpToNext = models.LevelWidth - xpInLevel
	return level, xpInLevel, xpToNext
}

// RankForMeetings mappe le compteur de meetings sur l'échelle de rangs.
// Chaque entier de 0 à 8 possède une entrée; au-delà, Challenger.
func RankForMeetings(meetingsBooked int) string {
	if meetingsBooked >= len(models.RankLadder) {
		return models.RankChallenger
	}
	if meetingsBooked < 0 {
		return models.RankLadder[0]
	}
	return models.RankLadder[meetingsBooked]
}
