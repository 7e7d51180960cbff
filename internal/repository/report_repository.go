package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lumvida/lumvida-backend/internal/models"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// reportRow mirrors the reportes table; nullable columns stay nullable
// here and collapse into the model's optional fields.
type reportRow struct {
	ID         uuid.UUID       `db:"id"`
	Folio      string          `db:"folio"`
	Categoria  string          `db:"categoria"`
	Fecha      sql.NullTime    `db:"fecha"`
	Direccion  string          `db:"direccion"`
	Estado     string          `db:"estado"`
	Comentario string          `db:"comentario"`
	Foto       string          `db:"foto"`
	Latitud    sql.NullFloat64 `db:"latitud"`
	Longitud   sql.NullFloat64 `db:"longitud"`
	CreatedAt  time.Time       `db:"created_at"`
}

func (row reportRow) toModel() models.Report {
	r := models.Report{
		ID:         row.ID,
		Folio:      row.Folio,
		Categoria:  row.Categoria,
		Direccion:  row.Direccion,
		Estado:     row.Estado,
		Comentario: row.Comentario,
		Foto:       row.Foto,
		CreatedAt:  row.CreatedAt,
	}
	if row.Fecha.Valid {
		fecha := row.Fecha.Time
		r.Fecha = &fecha
	}
	if row.Latitud.Valid && row.Longitud.Valid {
		r.Ubicacion = &models.Location{
			Latitud:  row.Latitud.Float64,
			Longitud: row.Longitud.Float64,
		}
	}
	r.Normalize()
	return r
}

const reportColumns = `id, folio, categoria, fecha, direccion, estado, comentario, foto, latitud, longitud, created_at`

// Create inserts a report. Folio and id come back from the database.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	var lat, lng sql.NullFloat64
	if report.Ubicacion != nil {
		lat = sql.NullFloat64{Float64: report.Ubicacion.Latitud, Valid: true}
		lng = sql.NullFloat64{Float64: report.Ubicacion.Longitud, Valid: true}
	}
	var fecha sql.NullTime
	if report.Fecha != nil {
		fecha = sql.NullTime{Time: *report.Fecha, Valid: true}
	}

	return r.db.QueryRowContext(ctx, `
		INSERT INTO reportes (categoria, fecha, direccion, estado, comentario, foto, latitud, longitud)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, folio, created_at
	`, report.Categoria, fecha, report.Direccion, report.Estado, report.Comentario,
		report.Foto, lat, lng).
		Scan(&report.ID, &report.Folio, &report.CreatedAt)
}

// GetByID returns one report.
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var row reportRow
	err := r.db.GetContext(ctx, &row, `SELECT `+reportColumns+` FROM reportes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	report := row.toModel()
	return &report, nil
}

// ListAll returns the full collection in insertion order; this is the
// snapshot the live watcher hands to subscribers.
func (r *ReportRepository) ListAll(ctx context.Context) ([]models.Report, error) {
	var rows []reportRow
	err := r.db.SelectContext(ctx, &rows, `SELECT `+reportColumns+` FROM reportes ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	reports := make([]models.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, row.toModel())
	}
	return reports, nil
}

// ListLatest returns the newest reports for the notification feed.
func (r *ReportRepository) ListLatest(ctx context.Context, limit int) ([]models.Report, error) {
	var rows []reportRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+reportColumns+` FROM reportes ORDER BY fecha DESC NULLS LAST LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	reports := make([]models.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, row.toModel())
	}
	return reports, nil
}

// UpdateStatus sets the estado of one report.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, estado string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reportes SET estado = $1 WHERE id = $2`, estado, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// UpdateFoto attaches a stored photo reference to a report.
func (r *ReportRepository) UpdateFoto(ctx context.Context, id uuid.UUID, foto string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reportes SET foto = $1 WHERE id = $2`, foto, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReportNotFound
	}
	return nil
}
