package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumvida/lumvida-backend/internal/dto"
	"github.com/lumvida/lumvida-backend/internal/http/handlers/common"
	"github.com/lumvida/lumvida-backend/internal/models"
	"github.com/lumvida/lumvida-backend/internal/pdf"
	"github.com/lumvida/lumvida-backend/internal/pkg/apperror"
	"github.com/lumvida/lumvida-backend/internal/repository"
	"github.com/lumvida/lumvida-backend/internal/service"
	"github.com/lumvida/lumvida-backend/internal/storage"
)

// ReportHandler serves the report endpoints backing the dashboard.
type ReportHandler struct {
	reports    *service.ReportService
	photos     *storage.PhotoStorage
	latestSize int
}

func NewReportHandler(reports *service.ReportService, photos *storage.PhotoStorage, latestSize int) *ReportHandler {
	return &ReportHandler{
		reports:    reports,
		photos:     photos,
		latestSize: latestSize,
	}
}

// parseCriteria reads the filter query parameters. Dates accept either
// a full RFC 3339 timestamp or a bare YYYY-MM-DD day.
func parseCriteria(c *gin.Context) (models.FilterCriteria, error) {
	criteria := models.FilterCriteria{
		Period:     models.Period(c.Query("period")),
		Category:   c.Query("category"),
		SearchTerm: c.Query("search"),
	}

	if raw := c.Query("reference_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return criteria, fmt.Errorf("invalid reference_date: %w", err)
		}
		criteria.ReferenceDate = t
	}

	start, end := c.Query("start"), c.Query("end")
	if start != "" || end != "" {
		if start == "" || end == "" {
			return criteria, errors.New("start and end must be provided together")
		}
		from, err := parseDate(start)
		if err != nil {
			return criteria, fmt.Errorf("invalid start: %w", err)
		}
		to, err := parseDate(end)
		if err != nil {
			return criteria, fmt.Errorf("invalid end: %w", err)
		}
		criteria.CustomRange = &models.DateRange{Start: from, End: to}
	}

	return criteria, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// List handles GET /api/reports. Passing geocode=true attaches
// neighborhood detail to every located match.
func (h *ReportHandler) List(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	reports, stats := h.reports.Filter(criteria)
	if c.Query("geocode") == "true" {
		reports = h.reports.Enrich(c.Request.Context(), reports)
	}

	common.RespondJSON(c, http.StatusOK, dto.ReportListResponse{
		Reports: reports,
		Stats:   stats,
	})
}

// Latest handles GET /api/reports/latest.
func (h *ReportHandler) Latest(c *gin.Context) {
	reports, err := h.reports.Latest(c.Request.Context(), h.latestSize)
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, gin.H{"reports": reports})
}

// Get handles GET /api/reports/:id.
func (h *ReportHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, report)
}

// Create handles POST /api/reports.
func (h *ReportHandler) Create(c *gin.Context) {
	var req dto.CreateReportRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "categoria and direccion are required")
		return
	}

	report := models.Report{
		Categoria:  req.Categoria,
		Direccion:  req.Direccion,
		Comentario: req.Comentario,
	}
	if req.Fecha != "" {
		fecha, err := parseDate(req.Fecha)
		if err != nil {
			common.RespondError(c, http.StatusBadRequest, "invalid fecha")
			return
		}
		report.Fecha = &fecha
	}
	if req.Latitud != nil && req.Longitud != nil {
		report.Ubicacion = &models.Location{Latitud: *req.Latitud, Longitud: *req.Longitud}
	}

	if err := h.reports.Create(c.Request.Context(), &report); err != nil {
		if apperror.IsValidation(err) {
			var appErr *apperror.AppError
			errors.As(err, &appErr)
			common.RespondError(c, http.StatusBadRequest, appErr.Message)
			return
		}
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, report)
}

// SetStatus handles PUT /api/reports/:id/status.
func (h *ReportHandler) SetStatus(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.StatusUpdateRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "estado is required")
		return
	}

	if err := h.reports.SetStatus(c.Request.Context(), id, req.Estado); err != nil {
		switch {
		case apperror.IsValidation(err):
			common.RespondError(c, http.StatusBadRequest, "unknown report status")
		case errors.Is(err, repository.ErrReportNotFound):
			common.RespondError(c, http.StatusNotFound, "report not found")
		default:
			_ = c.Error(err)
		}
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.SuccessResponse{Message: "status updated"})
}

// PDF handles GET /api/reports/:id/pdf.
func (h *ReportHandler) PDF(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	enriched := h.reports.Enrich(c.Request.Context(), []models.Report{*report})
	raw, err := pdf.Generate(enriched[0])
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="reporte_%s.pdf"`, report.Folio))
	c.Data(http.StatusOK, "application/pdf", raw)
}

// UploadPhoto handles POST /api/reports/:id/photo.
func (h *ReportHandler) UploadPhoto(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.reports.Get(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	rel, _, err := h.photos.Save(c.Request.Context(), id, header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotAnImage):
			common.RespondError(c, http.StatusBadRequest, "file is not a recognized image")
		case errors.Is(err, storage.ErrTooLarge):
			common.RespondError(c, http.StatusRequestEntityTooLarge, "file exceeds the upload size limit")
		default:
			_ = c.Error(err)
		}
		return
	}

	if err := h.reports.AttachPhoto(c.Request.Context(), id, rel); err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"foto": rel})
}
