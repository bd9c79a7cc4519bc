package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/hmorales/fleet-visits/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a one-page visit summary. Core fonts cover Spanish
// through the cp1252 translator.
func (g *Generator) Generate(report model.TripReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr("Reporte de visitas"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Vehículo: %s (%s)", report.Vehicle.Plate, report.Vehicle.VehicleType)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Fecha: %s", report.Vehicle.Date)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Jornada: %s — %s", report.WorkStartTime, report.WorkEndTime)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Distancia: %.2f km", report.TotalKm)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Paradas: %d (clientes visitados: %d)", report.TotalStops, report.VisitedStops)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	widths := []float64{10, 22, 24, 22, 74, 28}
	headers := []string{"No.", "Hora", "Duración", "Clave", "Cliente", "Sucursal"}
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, stop := range report.Stops {
		name := stop.ClientName
		if !stop.Matched {
			name = "Sin coincidencia"
		}
		cells := []string{
			fmt.Sprintf("%d", stop.Number),
			stop.Time,
			stop.Duration,
			stop.ClientKey,
			name,
			stop.Branch,
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
