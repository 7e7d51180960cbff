package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumvida/lumvida-backend/internal/dto"
	"github.com/lumvida/lumvida-backend/internal/filter"
	"github.com/lumvida/lumvida-backend/internal/models"
	"github.com/lumvida/lumvida-backend/internal/service"
	"github.com/lumvida/lumvida-backend/internal/store"
)

func newListRouter(t *testing.T, snapshot []models.Report) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewReportService(nil, filter.New(), nil)
	svc.OnSnapshot(store.Snapshot(snapshot))
	handler := NewReportHandler(svc, nil, 5)

	r := gin.New()
	r.GET("/api/reports", handler.List)
	return r
}

func TestReportHandler_List_FiltersByDay(t *testing.T) {
	ref := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	inWindow := ref.Add(-time.Hour)
	outOfWindow := ref.AddDate(0, 0, -3)
	r := newListRouter(t, []models.Report{
		{Folio: "1001", Categoria: models.CategoryPotholes, Fecha: &inWindow, Estado: models.StatusPending},
		{Folio: "1002", Categoria: models.CategoryPotholes, Fecha: &outOfWindow, Estado: models.StatusCompleted},
	})

	req, _ := http.NewRequest("GET", "/api/reports?period=day&reference_date=2026-03-10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ReportListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Reports, 1)
	assert.Equal(t, "1001", resp.Reports[0].Folio)
	assert.Equal(t, 1, resp.Stats.Total)
	assert.Equal(t, 1, resp.Stats.Pending)
}

func TestReportHandler_List_InvalidReferenceDate(t *testing.T) {
	r := newListRouter(t, nil)

	req, _ := http.NewRequest("GET", "/api/reports?reference_date=not-a-date", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_List_CustomRangeNeedsBothBounds(t *testing.T) {
	r := newListRouter(t, nil)

	req, _ := http.NewRequest("GET", "/api/reports?start=2026-03-01", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_Get_InvalidUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewReportService(nil, filter.New(), nil)
	handler := NewReportHandler(svc, nil, 5)

	r := gin.New()
	r.GET("/api/reports/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/api/reports/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_SetStatus_MissingBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewReportService(nil, filter.New(), nil)
	handler := NewReportHandler(svc, nil, 5)

	r := gin.New()
	r.PUT("/api/reports/:id/status", handler.SetStatus)

	req, _ := http.NewRequest("PUT", "/api/reports/2a3c66e5-41f8-4b0c-9351-dc78ef1a7b39/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
