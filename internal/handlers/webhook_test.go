package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlethecat2/projectrift/internal/models"
	"github.com/turtlethecat2/projectrift/internal/service"
)

// fakeIngestService retourne un résultat ou une erreur préconfigurés
type fakeIngestService struct {
	result  *service.IngestResult
	err     error
	lastReq *models.IngestEventRequest
}

func (f *fakeIngestService) Ingest(_ context.Context, req *models.IngestEventRequest) (*service.IngestResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newWebhookRouter(svc service.IngestService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/webhook/ingest", NewWebhookHandler(svc).IngestEvent)
	return router
}

func postIngest(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/webhook/ingest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIngestEventCreated(t *testing.T) {
	svc := &fakeIngestService{result: &service.IngestResult{
		EventID:    "5e0fbbde-1d52-4a2f-9c3e-1c1f3e2f0a11",
		GoldEarned: 50,
		XPEarned:   20,
		Message:    "Event processed successfully",
	}}
	router := newWebhookRouter(svc)

	w := postIngest(router, `{"source":"nooks","event_type":"call_connect","metadata":{"prospect_name":"Jordan Lee"}}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.IngestEventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 50, resp.GoldEarned)
	assert.Equal(t, 20, resp.XPEarned)
	assert.False(t, resp.Duplicate)

	require.NotNil(t, svc.lastReq)
	assert.Equal(t, "nooks", svc.lastReq.Source)
	assert.Equal(t, "call_connect", svc.lastReq.EventType)
}

func TestIngestEventDuplicateStillCreated(t *testing.T) {
	svc := &fakeIngestService{result: &service.IngestResult{
		EventID:   "duplicate",
		Duplicate: true,
		Message:   "Duplicate event ignored (idempotency check)",
	}}
	router := newWebhookRouter(svc)

	w := postIngest(router, `{"source":"outreach","event_type":"call_dial"}`)

	// Un doublon reste un 201: le webhook a été traité
	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.IngestEventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Duplicate)
	assert.Zero(t, resp.GoldEarned)
	assert.Zero(t, resp.XPEarned)
}

func TestIngestEventMalformedJSON(t *testing.T) {
	svc := &fakeIngestService{}
	router := newWebhookRouter(svc)

	w := postIngest(router, `{"source":`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Nil(t, svc.lastReq)
}

func TestIngestEventMissingRequiredFields(t *testing.T) {
	router := newWebhookRouter(&fakeIngestService{})

	w := postIngest(router, `{"metadata":{"a":1}}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestIngestEventValidationError(t *testing.T) {
	svc := &fakeIngestService{err: models.NewValidationError("unknown source: carrier_pigeon")}
	router := newWebhookRouter(svc)

	w := postIngest(router, `{"source":"carrier_pigeon","event_type":"call_dial"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "carrier_pigeon")
}

func TestIngestEventRuleNotFound(t *testing.T) {
	svc := &fakeIngestService{err: models.NewRuleNotFoundError("meeting_attended")}
	router := newWebhookRouter(svc)

	w := postIngest(router, `{"source":"manual","event_type":"meeting_attended"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestIngestEventStoreError(t *testing.T) {
	svc := &fakeIngestService{err: models.NewStoreError("event insert", assert.AnError)}
	router := newWebhookRouter(svc)

	w := postIngest(router, `{"source":"nooks","event_type":"call_dial"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
