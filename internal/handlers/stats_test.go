package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlethecat2/projectrift/internal/models"
	"github.com/turtlethecat2/projectrift/internal/service"
)

type fakeStatsService struct {
	current      *models.CurrentStats
	daily        []*models.DailyStats
	currentErr   error
	dailyErr     error
	requestedDay int
}

func (f *fakeStatsService) CurrentStats(_ context.Context) (*models.CurrentStats, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return f.current, nil
}

func (f *fakeStatsService) DailyStats(_ context.Context, days int) ([]*models.DailyStats, error) {
	f.requestedDay = days
	if f.dailyErr != nil {
		return nil, f.dailyErr
	}
	return f.daily, nil
}

func newStatsRouter(svc service.StatsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewStatsHandler(svc)
	router.GET("/api/v1/stats/current", handler.CurrentStats)
	router.GET("/api/v1/stats/daily", handler.DailyStats)
	return router
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCurrentStatsEndpoint(t *testing.T) {
	svc := &fakeStatsService{current: &models.CurrentStats{
		TotalGold:        2065,
		TotalXP:          1025,
		TotalEvents:      4,
		CurrentLevel:     2,
		XPInCurrentLevel: 25,
		XPToNextLevel:    975,
		MeetingsBooked:   2,
		Rank:             "Silver",
	}}
	router := newStatsRouter(svc)

	w := getPath(router, "/api/v1/stats/current")
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.CurrentStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2065, stats.TotalGold)
	assert.Equal(t, 2, stats.CurrentLevel)
	assert.Equal(t, "Silver", stats.Rank)
}

func TestCurrentStatsEndpointStoreFailure(t *testing.T) {
	svc := &fakeStatsService{currentErr: models.NewStoreError("stats aggregation", assert.AnError)}
	router := newStatsRouter(svc)

	w := getPath(router, "/api/v1/stats/current")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to retrieve statistics")
}

func TestDailyStatsDefaultWindow(t *testing.T) {
	svc := &fakeStatsService{daily: []*models.DailyStats{}}
	router := newStatsRouter(svc)

	w := getPath(router, "/api/v1/stats/daily")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, svc.requestedDay)
}

func TestDailyStatsCustomWindow(t *testing.T) {
	svc := &fakeStatsService{daily: []*models.DailyStats{}}
	router := newStatsRouter(svc)

	w := getPath(router, "/api/v1/stats/daily?days=30")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30, svc.requestedDay)
}

func TestDailyStatsRejectsOutOfRange(t *testing.T) {
	router := newStatsRouter(&fakeStatsService{})

	for _, query := range []string{"days=0", "days=91", "days=-3", "days=abc"} {
		w := getPath(router, "/api/v1/stats/daily?"+query)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "query=%s", query)
	}
}
