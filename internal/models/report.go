package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pendiente"
	StatusCompleted = "completado"

	CategoryAll           = "all"
	CategoryStreetLights  = "Alumbrado Público"
	CategoryPotholes      = "Bacheo"
	CategoryTrash         = "Basura acumulada"
	CategoryBlockedDrains = "Drenajes Obstruidos"

	// Unspecified is the sentinel used wherever a field could not be
	// resolved (missing neighborhood, postal code, etc.).
	Unspecified = "Sin especificar"
)

// Categories lists the canonical report categories in menu order.
// Records with categories outside this list are tolerated, not rejected.
var Categories = []string{
	CategoryStreetLights,
	CategoryPotholes,
	CategoryTrash,
	CategoryBlockedDrains,
}

// Location is the coordinate pair attached to a report. Reports without
// one cannot be placed on the map or geocoded.
type Location struct {
	Latitud  float64 `json:"latitud"`
	Longitud float64 `json:"longitud"`
}

// Valid reports whether the pair is inside the WGS84 coordinate domain.
func (l Location) Valid() bool {
	return l.Latitud >= -90 && l.Latitud <= 90 && l.Longitud >= -180 && l.Longitud <= 180
}

// Report is a single citizen-submitted incident record. The store owns
// the persisted fields; the derived block is transient view-model data
// attached for presentation and never written back.
type Report struct {
	ID         uuid.UUID  `json:"id"`
	Folio      string     `json:"folio"`
	Categoria  string     `json:"categoria"`
	Fecha      *time.Time `json:"fecha,omitempty"`
	Direccion  string     `json:"direccion"`
	Estado     string     `json:"estado"`
	Comentario string     `json:"comentario,omitempty"`
	Foto       string     `json:"foto,omitempty"`
	Ubicacion  *Location  `json:"ubicacion,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	// Derived fields, populated on the way out.
	FechaFormateada string `json:"fecha_formateada,omitempty"`
	Colonia         string `json:"colonia,omitempty"`
	CodigoPostal    string `json:"codigo_postal,omitempty"`
}

// Normalize applies boundary defaults once, when a record enters the
// system: whitespace is trimmed, a missing estado becomes pendiente and
// recognized estado spellings collapse to the canonical values. An
// unrecognized non-empty estado is kept verbatim so stats can count it
// toward neither pending nor completed.
func (r *Report) Normalize() {
	r.Folio = strings.TrimSpace(r.Folio)
	r.Categoria = strings.TrimSpace(r.Categoria)
	r.Direccion = strings.TrimSpace(r.Direccion)
	r.Comentario = strings.TrimSpace(r.Comentario)

	estado := strings.TrimSpace(r.Estado)
	switch strings.ToLower(estado) {
	case "", StatusPending, "pending":
		r.Estado = StatusPending
	case StatusCompleted, "completed":
		r.Estado = StatusCompleted
	default:
		r.Estado = estado
	}
}

// IsPending reports whether the record counts as pending. Comparison is
// case-insensitive.
func (r *Report) IsPending() bool {
	return strings.EqualFold(r.Estado, StatusPending)
}

// IsCompleted reports whether the record counts as completed.
func (r *Report) IsCompleted() bool {
	return strings.EqualFold(r.Estado, StatusCompleted)
}

// HasLocation reports whether the record can be geocoded.
func (r *Report) HasLocation() bool {
	return r.Ubicacion != nil
}

// FormatFecha renders a timestamp the way the dashboard displays it
// (dd/mm/yyyy 12-hour clock). Empty when the timestamp is missing.
func FormatFecha(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("02/01/2006 03:04 PM")
}
