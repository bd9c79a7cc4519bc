package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hmorales/fleet-visits/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.TripReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Resumen"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	stopsSheet := "Paradas"
	file.NewSheet(stopsSheet)
	if err := g.writeStops(file, stopsSheet, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.TripReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Vehículo")
	set("B1", report.Vehicle.Description)
	set("A2", "Placas")
	set("B2", report.Vehicle.Plate)
	set("A3", "Tipo")
	set("B3", report.Vehicle.VehicleType)
	set("A4", "Fecha")
	set("B4", report.Vehicle.Date)
	set("A5", "Método de procesamiento")
	set("B5", methodLabel(report.Method))
	set("A6", "Inicio de jornada")
	set("B6", report.WorkStartTime)
	set("A7", "Fin de jornada")
	set("B7", report.WorkEndTime)
	set("A8", "Distancia recorrida, km")
	set("B8", fmt.Sprintf("%.2f", report.TotalKm))
	set("A9", "Paradas")
	set("B9", report.TotalStops)
	set("A10", "Clientes visitados")
	set("B10", report.VisitedStops)

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 30)
	return nil
}

func (g *Generator) writeStops(file *excelize.File, sheet string, report model.TripReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"No.",
		"Hora",
		"Duración",
		"Clave",
		"Cliente",
		"Sucursal",
		"Latitud",
		"Longitud",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, stop := range report.Stops {
		row := i + 2
		name := stop.ClientName
		if !stop.Matched {
			name = "Sin coincidencia"
		}
		set(fmt.Sprintf("A%d", row), stop.Number)
		set(fmt.Sprintf("B%d", row), stop.Time)
		set(fmt.Sprintf("C%d", row), stop.Duration)
		set(fmt.Sprintf("D%d", row), stop.ClientKey)
		set(fmt.Sprintf("E%d", row), name)
		set(fmt.Sprintf("F%d", row), stop.Branch)
		set(fmt.Sprintf("G%d", row), fmt.Sprintf("%.6f", stop.Lat))
		set(fmt.Sprintf("H%d", row), fmt.Sprintf("%.6f", stop.Lng))
	}

	_ = file.SetColWidth(sheet, "A", "A", 6)
	_ = file.SetColWidth(sheet, "B", "C", 12)
	_ = file.SetColWidth(sheet, "D", "D", 12)
	_ = file.SetColWidth(sheet, "E", "E", 40)
	_ = file.SetColWidth(sheet, "F", "F", 16)
	_ = file.SetColWidth(sheet, "G", "H", 14)
	return nil
}

func methodLabel(method model.SegmentationMethod) string {
	switch method {
	case model.MethodMarkers:
		return "Marcadores de viaje"
	case model.MethodSpeed:
		return "Velocidad"
	default:
		return string(method)
	}
}
