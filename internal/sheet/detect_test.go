package sheet

import (
	"errors"
	"testing"
)

func tripRows() [][]string {
	return [][]string{
		{"Reporte de eventos"},
		{"Descripción", "Camioneta reparto norte"},
		{"Tipo", "Camioneta", "", "Placas", "ABC-123-D"},
		{"Fecha", "2024-03-15"},
		{"Hora", "Descripción", "Velocidad", "Latitud", "Longitud"},
		{"08:00:00", "inicio de viaje", "12", "32.51", "-117.03"},
	}
}

func TestDetectTripHeader(t *testing.T) {
	idx, err := DetectTripHeader(tripRows())
	if err != nil {
		t.Fatalf("DetectTripHeader: %v", err)
	}
	if idx != 4 {
		t.Errorf("header row = %d, want 4", idx)
	}
}

func TestDetectTripHeaderWrongFileType(t *testing.T) {
	rows := [][]string{
		{"VEND", "#CLIENTE", "RAZON SOCIAL", "GPS"},
		{"V01", "C001", "ABARROTES LUPITA", "32.51,-117.03"},
	}
	_, err := DetectTripHeader(rows)
	if !errors.Is(err, ErrWrongFileType) {
		t.Errorf("err = %v, want ErrWrongFileType", err)
	}
}

func TestDetectTripHeaderMissing(t *testing.T) {
	rows := [][]string{
		{"cualquier", "cosa"},
		{"1", "2", "3"},
	}
	_, err := DetectTripHeader(rows)
	if !errors.Is(err, ErrMissingHeader) {
		t.Errorf("err = %v, want ErrMissingHeader", err)
	}
}

func TestDetectClientHeader(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		wantIdx int
		schema  string
	}{
		{
			"new format",
			[][]string{{"VEND", "#CLIENTE", "RAZON SOCIAL", "GPS"}},
			0, "new",
		},
		{
			"old format",
			[][]string{
				{"Lista de clientes"},
				{"VND", "CLAVE", "RAZON", "GPS"},
			},
			1, "old",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, schema, err := DetectClientHeader(tt.rows)
			if err != nil {
				t.Fatalf("DetectClientHeader: %v", err)
			}
			if idx != tt.wantIdx || schema != tt.schema {
				t.Errorf("got (%d, %q), want (%d, %q)", idx, schema, tt.wantIdx, tt.schema)
			}
		})
	}
}

func TestResolveTripColumns(t *testing.T) {
	header := []string{"Hora", "Descripción", "Velocidad (km/h)", "Latitud", "Longitud"}
	cols, err := ResolveTripColumns(header)
	if err != nil {
		t.Fatalf("ResolveTripColumns: %v", err)
	}
	want := TripColumns{Time: 0, Description: 1, Speed: 2, Lat: 3, Lng: 4}
	if cols != want {
		t.Errorf("cols = %+v, want %+v", cols, want)
	}
}

func TestResolveTripColumnsEnglishVariants(t *testing.T) {
	header := []string{"Time", "Description", "Speed", "Lat", "Long"}
	cols, err := ResolveTripColumns(header)
	if err != nil {
		t.Fatalf("ResolveTripColumns: %v", err)
	}
	if cols.Lat != 3 || cols.Lng != 4 {
		t.Errorf("lat/lng = %d/%d, want 3/4", cols.Lat, cols.Lng)
	}
}

func TestResolveTripColumnsMissing(t *testing.T) {
	header := []string{"Descripción", "Velocidad", "Latitud", "Longitud"}
	_, err := ResolveTripColumns(header)
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", err)
	}
}

func TestExtractVehicleInfo(t *testing.T) {
	info := ExtractVehicleInfo(tripRows(), "exports/ABC123.xlsx")
	if info.Description != "Camioneta reparto norte" {
		t.Errorf("description = %q", info.Description)
	}
	if info.VehicleType != "Camioneta" {
		t.Errorf("vehicle type = %q", info.VehicleType)
	}
	if info.Plate != "ABC-123-D" {
		t.Errorf("plate = %q", info.Plate)
	}
	if info.Date != "2024-03-15" {
		t.Errorf("date = %q", info.Date)
	}
}

func TestExtractVehicleInfoFallbacks(t *testing.T) {
	rows := [][]string{
		{"Hora", "Descripción", "Velocidad", "Latitud", "Longitud"},
		{"08:00:00", "evento 15/03/2024", "0", "32.51", "-117.03"},
	}
	info := ExtractVehicleInfo(rows, "exports/XYZ-987.xlsx")
	if info.Plate != "XYZ-987" {
		t.Errorf("plate fallback = %q, want XYZ-987", info.Plate)
	}
	if info.Date != "2024-03-15" {
		t.Errorf("date from data scan = %q, want 2024-03-15", info.Date)
	}
}
