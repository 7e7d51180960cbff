package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumvida/lumvida-backend/internal/filter"
	"github.com/lumvida/lumvida-backend/internal/geocoding"
	"github.com/lumvida/lumvida-backend/internal/logger"
	"github.com/lumvida/lumvida-backend/internal/models"
	"github.com/lumvida/lumvida-backend/internal/pkg/apperror"
	"github.com/lumvida/lumvida-backend/internal/store"
)

// ReportStore is the persistence surface ReportService needs.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ListLatest(ctx context.Context, limit int) ([]models.Report, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, estado string) error
	UpdateFoto(ctx context.Context, id uuid.UUID, foto string) error
}

// Geocoder resolves coordinates into neighborhood detail.
type Geocoder interface {
	Resolve(ctx context.Context, lat, lng float64, direccion string) models.GeocodeResult
}

// ReportService holds the live report snapshot and answers every
// dashboard query from memory; writes go through the repository and
// come back via the change feed.
type ReportService struct {
	repo     ReportStore
	engine   *filter.Engine
	geocoder Geocoder

	mu       sync.RWMutex
	snapshot []models.Report
}

func NewReportService(repo ReportStore, engine *filter.Engine, geocoder Geocoder) *ReportService {
	return &ReportService{
		repo:     repo,
		engine:   engine,
		geocoder: geocoder,
	}
}

// OnSnapshot replaces the in-memory collection; wired as a watcher
// subscriber.
func (s *ReportService) OnSnapshot(snap store.Snapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	if logger.Log != nil {
		logger.Log.WithField("reports", len(snap)).Debug("report snapshot updated")
	}
}

// Filter runs the criteria against the current snapshot.
func (s *ReportService) Filter(criteria models.FilterCriteria) ([]models.Report, models.Stats) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	reports, stats := s.engine.Apply(snap, criteria)
	for i := range reports {
		reports[i].FechaFormateada = models.FormatFecha(reports[i].Fecha)
	}
	return reports, stats
}

// Enrich attaches neighborhood and postal code detail to each located
// report. Records without coordinates fall back to the unspecified
// sentinel.
func (s *ReportService) Enrich(ctx context.Context, reports []models.Report) []models.Report {
	for i := range reports {
		if !reports[i].HasLocation() {
			reports[i].Colonia = models.Unspecified
			reports[i].CodigoPostal = models.Unspecified
			continue
		}
		res := s.geocoder.Resolve(ctx, reports[i].Ubicacion.Latitud, reports[i].Ubicacion.Longitud, reports[i].Direccion)
		reports[i].Colonia = res.Colonia
		reports[i].CodigoPostal = res.CodigoPostal
	}
	return reports
}

// Get returns one report by id.
func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	report.FechaFormateada = models.FormatFecha(report.Fecha)
	return report, nil
}

// Latest returns the newest reports for the notification feed.
func (s *ReportService) Latest(ctx context.Context, limit int) ([]models.Report, error) {
	reports, err := s.repo.ListLatest(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		reports[i].FechaFormateada = models.FormatFecha(reports[i].Fecha)
	}
	return reports, nil
}

// Create validates and persists a citizen submission.
func (s *ReportService) Create(ctx context.Context, report *models.Report) error {
	report.Normalize()

	if report.Categoria == "" {
		return apperror.New(apperror.ErrCodeValidation, "category is required")
	}
	if report.Ubicacion != nil && !report.Ubicacion.Valid() {
		return apperror.New(apperror.ErrCodeValidation, "coordinates out of range")
	}
	if report.Fecha == nil {
		now := time.Now().UTC()
		report.Fecha = &now
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to create report")
	}
	return nil
}

// SetStatus updates a report's estado. Only the two recognized states
// are accepted; the change is surfaced to callers so a failed
// persistence attempt never pretends to succeed.
func (s *ReportService) SetStatus(ctx context.Context, id uuid.UUID, estado string) error {
	normalized := models.Report{Estado: estado}
	normalized.Normalize()
	switch normalized.Estado {
	case models.StatusPending, models.StatusCompleted:
	default:
		return apperror.ErrInvalidStatus
	}

	err := s.repo.UpdateStatus(ctx, id, normalized.Estado)
	if err != nil {
		return err
	}
	return nil
}

// AttachPhoto records the stored photo reference on a report.
func (s *ReportService) AttachPhoto(ctx context.Context, id uuid.UUID, foto string) error {
	return s.repo.UpdateFoto(ctx, id, foto)
}

// NeighborhoodStats aggregates the filtered, enriched records by
// neighborhood for the hot-spot view.
func (s *ReportService) NeighborhoodStats(ctx context.Context, criteria models.FilterCriteria) []filter.NeighborhoodStat {
	reports, _ := s.Filter(criteria)
	reports = s.Enrich(ctx, reports)
	return filter.NeighborhoodStats(reports)
}

var _ Geocoder = (*geocoding.Cache)(nil)
