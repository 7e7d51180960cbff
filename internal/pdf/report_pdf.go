package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/lumvida/lumvida-backend/internal/models"
)

// Generate renders a single report as a printable PDF document.
func Generate(report models.Report) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(tr(fmt.Sprintf("Reporte %s", report.Folio)), true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, tr("Reporte de Incidente"), "", 1, "C", false, 0, "")
	doc.Ln(4)

	field := func(label, value string) {
		if value == "" {
			value = models.Unspecified
		}
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(45, 8, tr(label), "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(0, 8, tr(value), "", "L", false)
	}

	field("Folio:", report.Folio)
	field("Tipo:", report.Categoria)
	field("Fecha y Hora:", models.FormatFecha(report.Fecha))
	field("Dirección:", report.Direccion)
	field("Estado:", report.Estado)
	if report.Colonia != "" {
		field("Colonia:", report.Colonia)
	}
	if report.CodigoPostal != "" {
		field("Código Postal:", report.CodigoPostal)
	}
	if report.HasLocation() {
		field("Ubicación:", fmt.Sprintf("%.6f, %.6f", report.Ubicacion.Latitud, report.Ubicacion.Longitud))
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 8, tr("Comentario"), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	comentario := report.Comentario
	if comentario == "" {
		comentario = models.Unspecified
	}
	doc.MultiCell(0, 7, tr(comentario), "", "L", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: failed to render report %s: %w", report.Folio, err)
	}
	return buf.Bytes(), nil
}
