package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/hmorales/fleet-visits/internal/config"
	"github.com/hmorales/fleet-visits/internal/model"
	"github.com/hmorales/fleet-visits/internal/trip"
)

type fakeStore struct {
	clients        []model.Client
	replaced       []model.Client
	replaceErr     error
	vendorFiltered string
	listCalls      int
}

func (f *fakeStore) ReplaceAll(ctx context.Context, list []model.Client) error {
	f.replaced = list
	return f.replaceErr
}

func (f *fakeStore) List(ctx context.Context) ([]model.Client, error) {
	f.listCalls++
	return f.clients, nil
}

func (f *fakeStore) ListByVendor(ctx context.Context, vendor string) ([]model.Client, error) {
	f.vendorFiltered = vendor
	var out []model.Client
	for _, c := range f.clients {
		if c.Vendor == vendor {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) Vendors(ctx context.Context) ([]string, error) {
	return []string{"V1", "V2"}, nil
}

type fakeGenerator struct {
	content []byte
	err     error
	got     model.TripReport
	calls   int
}

func (f *fakeGenerator) Generate(report model.TripReport) ([]byte, error) {
	f.calls++
	f.got = report
	return f.content, f.err
}

func newTestService(store *fakeStore, excel, pdf *fakeGenerator) *VisitService {
	processor := trip.NewProcessor(trip.Options{}, zerolog.Nop())
	return NewVisitService(store, processor, excel, pdf, &config.Config{})
}

// buildXLSX renders rows into an in-memory workbook, the same shape the
// handlers receive as uploads.
func buildXLSX(t *testing.T, rows [][]string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func tripFixtureRows() [][]string {
	return [][]string{
		{"Descripción", "Camioneta reparto"},
		{"Tipo", "Camioneta"},
		{"Placa", "ABC123"},
		{"Fecha", "2026-03-15"},
		{},
		{"Tiempo", "Descripción", "Velocidad", "Latitud", "Longitud"},
		{"08:00:00", "inicio de viaje", "0", "32.500000", "-117.000000"},
		{"08:10:00", "fin de viaje", "0", "32.500100", "-117.000100"},
		{"08:25:00", "inicio de viaje", "0", "32.500100", "-117.000100"},
		{"08:40:00", "fin de viaje", "0", "32.510000", "-117.010000"},
	}
}

func testCatalog() []model.Client {
	return []model.Client{
		{Key: "C1", Name: "Abarrotes López", DisplayName: "Abarrotes López", Vendor: "V1", Lat: 32.5001, Lng: -117.0001},
		{Key: "C9", Name: "Otro Cliente", DisplayName: "Otro Cliente", Vendor: "V2", Lat: 32.9, Lng: -117.9},
	}
}

func TestProcessTrip(t *testing.T) {
	store := &fakeStore{clients: testCatalog()}
	svc := newTestService(store, &fakeGenerator{}, &fakeGenerator{})

	result, err := svc.ProcessTrip(context.Background(), ProcessTripInput{
		File:      buildXLSX(t, tripFixtureRows()),
		FileName:  "recorrido.xlsx",
		Principal: model.Principal{Role: "ADMIN"},
	})
	if err != nil {
		t.Fatalf("ProcessTrip: %v", err)
	}

	if result.Vehicle.Plate != "ABC123" {
		t.Errorf("plate = %q, want ABC123", result.Vehicle.Plate)
	}
	if result.Vehicle.Date != "2026-03-15" {
		t.Errorf("date = %q, want 2026-03-15", result.Vehicle.Date)
	}
	if result.Trip.Method != model.MethodMarkers {
		t.Errorf("method = %q, want %q", result.Trip.Method, model.MethodMarkers)
	}

	var stops []model.Flag
	for _, f := range result.Trip.Flags {
		if f.IsStop() {
			stops = append(stops, f)
		}
	}
	if len(stops) != 1 {
		t.Fatalf("stops = %d, want 1", len(stops))
	}
	if stops[0].Client == nil || stops[0].Client.Key != "C1" {
		t.Errorf("stop not matched to C1: %+v", stops[0].Client)
	}
	if stops[0].DurationMin != 15 {
		t.Errorf("stop duration = %v, want 15", stops[0].DurationMin)
	}
	if result.Trip.WorkStartTime != "08:10:00" || result.Trip.WorkEndTime != "08:25:00" {
		t.Errorf("workday = %q..%q, want 08:10:00..08:25:00", result.Trip.WorkStartTime, result.Trip.WorkEndTime)
	}
}

func TestProcessTripVendorScoping(t *testing.T) {
	store := &fakeStore{clients: testCatalog()}
	svc := newTestService(store, &fakeGenerator{}, &fakeGenerator{})

	_, err := svc.ProcessTrip(context.Background(), ProcessTripInput{
		File:      buildXLSX(t, tripFixtureRows()),
		FileName:  "recorrido.xlsx",
		Vendor:    "V2",
		Principal: model.Principal{Role: "VENDOR", Vendor: "V1"},
	})
	if err != nil {
		t.Fatalf("ProcessTrip: %v", err)
	}
	if store.vendorFiltered != "V1" {
		t.Errorf("catalog scoped to %q, want caller's own vendor V1", store.vendorFiltered)
	}
}

func TestProcessTripEmptyCatalog(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeGenerator{}, &fakeGenerator{})

	_, err := svc.ProcessTrip(context.Background(), ProcessTripInput{
		File:      buildXLSX(t, tripFixtureRows()),
		FileName:  "recorrido.xlsx",
		Principal: model.Principal{Role: "ADMIN"},
	})
	if !errors.Is(err, ErrNoClients) {
		t.Fatalf("err = %v, want ErrNoClients", err)
	}
}

func TestProcessTripNoFile(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeGenerator{}, &fakeGenerator{})

	_, err := svc.ProcessTrip(context.Background(), ProcessTripInput{Principal: model.Principal{Role: "ADMIN"}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestGenerateReport(t *testing.T) {
	store := &fakeStore{clients: testCatalog()}
	excel := &fakeGenerator{content: []byte("xlsx-bytes")}
	svc := newTestService(store, excel, &fakeGenerator{})

	result, err := svc.GenerateReport(context.Background(), ProcessTripInput{
		File:      buildXLSX(t, tripFixtureRows()),
		FileName:  "recorrido.xlsx",
		Principal: model.Principal{Role: "ADMIN"},
	})
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	if result.FileName != "visitas-ABC123-2026-03-15.xlsx" {
		t.Errorf("file name = %q", result.FileName)
	}
	if !bytes.Equal(result.Content, []byte("xlsx-bytes")) {
		t.Errorf("content not passed through")
	}
	if excel.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", excel.calls)
	}
	if excel.got.TotalStops != 1 || excel.got.VisitedStops != 1 {
		t.Errorf("report stops = %d/%d, want 1/1", excel.got.VisitedStops, excel.got.TotalStops)
	}
	if len(excel.got.Stops) != 1 || excel.got.Stops[0].Duration != "15 min" {
		t.Errorf("stop rows = %+v", excel.got.Stops)
	}
}

func TestGenerateReportPDFError(t *testing.T) {
	store := &fakeStore{clients: testCatalog()}
	pdfErr := errors.New("render failed")
	svc := newTestService(store, &fakeGenerator{}, &fakeGenerator{err: pdfErr})

	_, err := svc.GenerateReportPDF(context.Background(), ProcessTripInput{
		File:      buildXLSX(t, tripFixtureRows()),
		FileName:  "recorrido.xlsx",
		Principal: model.Principal{Role: "ADMIN"},
	})
	if !errors.Is(err, pdfErr) {
		t.Fatalf("err = %v, want render error", err)
	}
}

func TestImportMaster(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeGenerator{}, &fakeGenerator{})

	rows := [][]string{
		{"Vend", "#Cliente", "Razon Social", "GPS", "# Suc", "Nombre Suc", "Nombre Comercial"},
		{"V1", "C1", "Abarrotes López", "32.5001,-117.0001", "2", "Centro", "Abarrotes López"},
		{"V2", "C2", "Rosa Méndez", "", "", "", "EMPLEADO TME"},
	}

	result, err := svc.ImportMaster(context.Background(), buildXLSX(t, rows), model.Principal{Role: "SUPERVISOR"})
	if err != nil {
		t.Fatalf("ImportMaster: %v", err)
	}

	if result.Clients != 2 {
		t.Errorf("clients = %d, want 2", result.Clients)
	}
	if len(result.Vendors) != 2 || result.Vendors[0] != "V1" || result.Vendors[1] != "V2" {
		t.Errorf("vendors = %v", result.Vendors)
	}
	if len(store.replaced) != 2 {
		t.Fatalf("stored clients = %d, want 2", len(store.replaced))
	}
	if !store.replaced[1].IsHomeBase || store.replaced[1].HomeBaseInitial != "R" {
		t.Errorf("home base row = %+v", store.replaced[1])
	}
}

func TestImportMasterVendorDenied(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeGenerator{}, &fakeGenerator{})

	_, err := svc.ImportMaster(context.Background(), bytes.NewReader(nil), model.Principal{Role: "VENDOR", Vendor: "V1"})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
	if store.replaced != nil {
		t.Errorf("store touched by denied import")
	}
}

func TestListClients(t *testing.T) {
	store := &fakeStore{clients: testCatalog()}
	svc := newTestService(store, &fakeGenerator{}, &fakeGenerator{})

	all, err := svc.ListClients(context.Background(), "")
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all clients = %d, want 2", len(all))
	}

	scoped, err := svc.ListClients(context.Background(), "V2")
	if err != nil {
		t.Fatalf("ListClients by vendor: %v", err)
	}
	if len(scoped) != 1 || scoped[0].Key != "C9" {
		t.Errorf("scoped clients = %+v", scoped)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ABC-123", "ABC-123"},
		{"AB 12/3", "AB-12-3"},
		{"--x--", "x"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := sanitizeFileName(tc.in); got != tc.want {
			t.Errorf("sanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
