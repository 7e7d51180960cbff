package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lumvida/lumvida-backend/internal/filter"
	"github.com/lumvida/lumvida-backend/internal/models"
	"github.com/lumvida/lumvida-backend/internal/pkg/apperror"
	"github.com/lumvida/lumvida-backend/internal/store"
)

type mockReportStore struct {
	mock.Mock
}

func (m *mockReportStore) Create(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *mockReportStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *mockReportStore) ListLatest(ctx context.Context, limit int) ([]models.Report, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *mockReportStore) UpdateStatus(ctx context.Context, id uuid.UUID, estado string) error {
	args := m.Called(ctx, id, estado)
	return args.Error(0)
}

func (m *mockReportStore) UpdateFoto(ctx context.Context, id uuid.UUID, foto string) error {
	args := m.Called(ctx, id, foto)
	return args.Error(0)
}

type stubGeocoder struct {
	result models.GeocodeResult
	calls  int
}

func (g *stubGeocoder) Resolve(ctx context.Context, lat, lng float64, direccion string) models.GeocodeResult {
	g.calls++
	return g.result
}

func newTestService(repo ReportStore, geo Geocoder) *ReportService {
	return NewReportService(repo, filter.New(), geo)
}

func datedReport(folio string, fecha time.Time, estado string) models.Report {
	return models.Report{
		Folio:     folio,
		Categoria: models.CategoryPotholes,
		Fecha:     &fecha,
		Estado:    estado,
	}
}

func TestFilterUsesSnapshot(t *testing.T) {
	svc := newTestService(&mockReportStore{}, &stubGeocoder{})
	ref := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.OnSnapshot(store.Snapshot{
		datedReport("1001", ref.Add(-time.Hour), models.StatusPending),
		datedReport("1002", ref.AddDate(0, 0, -3), models.StatusCompleted),
	})

	reports, stats := svc.Filter(models.FilterCriteria{
		Period:        models.PeriodDay,
		ReferenceDate: ref,
	})

	require.Len(t, reports, 1)
	assert.Equal(t, "1001", reports[0].Folio)
	assert.Equal(t, 1, stats.Total)
	assert.NotEmpty(t, reports[0].FechaFormateada)
}

func TestFilterEmptyBeforeFirstSnapshot(t *testing.T) {
	svc := newTestService(&mockReportStore{}, &stubGeocoder{})
	reports, stats := svc.Filter(models.FilterCriteria{Period: models.PeriodMonth})
	assert.Empty(t, reports)
	assert.Equal(t, 0, stats.Total)
}

func TestEnrichAttachesNeighborhood(t *testing.T) {
	geo := &stubGeocoder{result: models.GeocodeResult{Colonia: "Centro", CodigoPostal: "77000"}}
	svc := newTestService(&mockReportStore{}, geo)

	now := time.Now().UTC()
	reports := []models.Report{
		{Folio: "1001", Fecha: &now, Ubicacion: &models.Location{Latitud: 18.5, Longitud: -88.3}},
		{Folio: "1002", Fecha: &now},
	}

	enriched := svc.Enrich(context.Background(), reports)
	assert.Equal(t, "Centro", enriched[0].Colonia)
	assert.Equal(t, "77000", enriched[0].CodigoPostal)
	assert.Equal(t, models.Unspecified, enriched[1].Colonia)
	assert.Equal(t, 1, geo.calls)
}

func TestSetStatusNormalizesAndPersists(t *testing.T) {
	repo := &mockReportStore{}
	svc := newTestService(repo, &stubGeocoder{})
	id := uuid.New()

	repo.On("UpdateStatus", mock.Anything, id, models.StatusCompleted).Return(nil)

	require.NoError(t, svc.SetStatus(context.Background(), id, "completed"))
	repo.AssertExpectations(t)
}

func TestSetStatusRejectsUnknownState(t *testing.T) {
	repo := &mockReportStore{}
	svc := newTestService(repo, &stubGeocoder{})

	err := svc.SetStatus(context.Background(), uuid.New(), "archivado")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDefaultsTimestamp(t *testing.T) {
	repo := &mockReportStore{}
	svc := newTestService(repo, &stubGeocoder{})

	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Report) bool {
		return r.Fecha != nil && r.Estado == models.StatusPending
	})).Return(nil)

	report := &models.Report{Categoria: models.CategoryTrash, Direccion: "Av. Insurgentes 12"}
	require.NoError(t, svc.Create(context.Background(), report))
	repo.AssertExpectations(t)
}

func TestCreateRejectsInvalidCoordinates(t *testing.T) {
	repo := &mockReportStore{}
	svc := newTestService(repo, &stubGeocoder{})

	report := &models.Report{
		Categoria: models.CategoryTrash,
		Ubicacion: &models.Location{Latitud: 120, Longitud: 0},
	}
	err := svc.Create(context.Background(), report)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestNeighborhoodStatsGroupsEnrichedMatches(t *testing.T) {
	geo := &stubGeocoder{result: models.GeocodeResult{Colonia: "Centro", CodigoPostal: "77000"}}
	svc := newTestService(&mockReportStore{}, geo)

	ref := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	first := datedReport("1001", ref.Add(-time.Hour), models.StatusPending)
	first.Ubicacion = &models.Location{Latitud: 18.5, Longitud: -88.3}
	second := datedReport("1002", ref.Add(-2*time.Hour), models.StatusCompleted)
	second.Ubicacion = &models.Location{Latitud: 18.5, Longitud: -88.3}
	svc.OnSnapshot(store.Snapshot{first, second})

	stats := svc.NeighborhoodStats(context.Background(), models.FilterCriteria{
		Period:        models.PeriodDay,
		ReferenceDate: ref,
	})

	require.Len(t, stats, 1)
	assert.Equal(t, "Centro", stats[0].Colonia)
	assert.Equal(t, 2, stats[0].Total)
}
