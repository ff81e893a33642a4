package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlethecat2/projectrift/internal/models"
)

func TestDeriveLevel(t *testing.T) {
	tests := []struct {
		totalXP       int
		wantLevel     int
		wantInLevel   int
		wantToNext    int
	}{
		{0, 1, 0, 1000},
		{999, 1, 999, 1},
		{1000, 2, 0, 1000},
		{1999, 2, 999, 1},
		{5500, 6, 500, 500},
	}

	for _, tt := range tests {
		level, inLevel, toNext := DeriveLevel(tt.totalXP)
		assert.Equal(t, tt.wantLevel, level, "total_xp=%d", tt.totalXP)
		assert.Equal(t, tt.wantInLevel, inLevel, "total_xp=%d", tt.totalXP)
		assert.Equal(t, tt.wantToNext, toNext, "total_xp=%d", tt.totalXP)
	}
}

func TestRankForMeetings(t *testing.T) {
	expected := []string{
		"Iron", "Bronze", "Silver", "Gold", "Platinum",
		"Emerald", "Diamond", "Master", "Grandmaster",
	}

	for count, want := range expected {
		assert.Equal(t, want, RankForMeetings(count), "meetings_booked=%d", count)
	}

	// Au-delà de la table: Challenger, sans plafond
	assert.Equal(t, "Challenger", RankForMeetings(9))
	assert.Equal(t, "Challenger", RankForMeetings(50))
}

func TestCurrentStatsDerivation(t *testing.T) {
	repo := &memEventRepo{}
	svc := NewStatsService(repo)

	now := time.Now()
	repo.events = []*models.Event{
		{Source: models.SourceNooks, EventType: models.EventTypeCallDial, GoldValue: 15, XPValue: 5, CreatedAt: now},
		{Source: models.SourceNooks, EventType: models.EventTypeCallConnect, GoldValue: 50, XPValue: 20, CreatedAt: now},
		{Source: models.SourceOutreach, EventType: models.EventTypeMeetingBooked, GoldValue: 1000, XPValue: 500, CreatedAt: now},
		{Source: models.SourceManual, EventType: models.EventTypeMeetingBooked, GoldValue: 1000, XPValue: 500, CreatedAt: now.AddDate(0, 0, -2)},
	}

	stats, err := svc.CurrentStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2065, stats.TotalGold)
	assert.Equal(t, 1025, stats.TotalXP)
	assert.Equal(t, 4, stats.TotalEvents)
	assert.Equal(t, 3, stats.EventsToday)
	assert.Equal(t, 1, stats.CallsMade)
	assert.Equal(t, 1, stats.CallsConnected)
	assert.Equal(t, 2, stats.MeetingsBooked)
	assert.Equal(t, 2, stats.CurrentLevel)
	assert.Equal(t, 25, stats.XPInCurrentLevel)
	assert.Equal(t, 975, stats.XPToNextLevel)
	assert.Equal(t, "Silver", stats.Rank)
}

func TestCurrentStatsEmptyLog(t *testing.T) {
	svc := NewStatsService(&memEventRepo{})

	stats, err := svc.CurrentStats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalGold)
	assert.Zero(t, stats.TotalXP)
	assert.Equal(t, 1, stats.CurrentLevel)
	assert.Equal(t, 1000, stats.XPToNextLevel)
	assert.Equal(t, "Iron", stats.Rank)
}

func TestCurrentStatsPurity(t *testing.T) {
	repo := &memEventRepo{}
	svc := NewStatsService(repo)

	repo.events = []*models.Event{
		{Source: models.SourceNooks, EventType: models.EventTypeCallDial, GoldValue: 15, XPValue: 5, CreatedAt: time.Now()},
	}

	// Deux appels consécutifs sans écriture intermédiaire: résultats identiques
	first, err := svc.CurrentStats(context.Background())
	require.NoError(t, err)
	second, err := svc.CurrentStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCurrentStatsAggregationError(t *testing.T) {
	repo := &memEventRepo{aggErr: models.NewStoreError("stats aggregation", errors.New("connection refused"))}
	svc := NewStatsService(repo)

	_, err := svc.CurrentStats(context.Background())

	var storeErr *models.StoreError
	require.ErrorAs(t, err, &storeErr)
}

// Scénario complet: un call_dial puis un meeting_booked, les stats suivent.
func TestIngestThenStatsScenario(t *testing.T) {
	repo := &memEventRepo{}
	ingest := NewIngestService(repo, defaultRules(), 5*time.Minute)
	stats := NewStatsService(repo)

	_, err := ingest.Ingest(context.Background(), &models.IngestEventRequest{
		Source:    models.SourceNooks,
		EventType: models.EventTypeCallDial,
		Metadata:  map[string]interface{}{"phone_number": "+15550002222"},
	})
	require.NoError(t, err)

	current, err := stats.CurrentStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15, current.TotalGold)
	assert.Equal(t, 5, current.TotalXP)
	assert.Equal(t, 1, current.CallsMade)
	assert.Equal(t, "Iron", current.Rank)

	_, err = ingest.Ingest(context.Background(), &models.IngestEventRequest{
		Source:    models.SourceOutreach,
		EventType: models.EventTypeMeetingBooked,
		Metadata:  map[string]interface{}{"meeting_type": "discovery"},
	})
	require.NoError(t, err)

	current, err = stats.CurrentStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1015, current.TotalGold)
	assert.Equal(t, 505, current.TotalXP)
	assert.Equal(t, 1, current.MeetingsBooked)
	assert.Equal(t, "Bronze", current.Rank)
}

func TestRetentionCleanup(t *testing.T) {
	repo := &memEventRepo{}
	svc := NewRetentionService(repo)

	now := time.Now()
	repo.events = []*models.Event{
		{EventType: models.EventTypeCallDial, CreatedAt: now.AddDate(0, 0, -100)},
		{EventType: models.EventTypeCallDial, CreatedAt: now.AddDate(0, 0, -95)},
		{EventType: models.EventTypeCallDial, CreatedAt: now},
	}

	// Dry-run: compte sans supprimer
	count, err := svc.Cleanup(context.Background(), 90, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Len(t, repo.events, 3)

	// Suppression effective
	deleted, err := svc.Cleanup(context.Background(), 90, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Len(t, repo.events, 1)
}
