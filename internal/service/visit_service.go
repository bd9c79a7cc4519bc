package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hmorales/fleet-visits/internal/clients"
	"github.com/hmorales/fleet-visits/internal/config"
	"github.com/hmorales/fleet-visits/internal/model"
	"github.com/hmorales/fleet-visits/internal/sheet"
	"github.com/hmorales/fleet-visits/internal/timeutil"
	"github.com/hmorales/fleet-visits/internal/trip"
)

type ClientStore interface {
	ReplaceAll(ctx context.Context, clientList []model.Client) error
	List(ctx context.Context) ([]model.Client, error)
	ListByVendor(ctx context.Context, vendor string) ([]model.Client, error)
	Vendors(ctx context.Context) ([]string, error)
}

type ExcelGenerator interface {
	Generate(report model.TripReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report model.TripReport) ([]byte, error)
}

type VisitService struct {
	store     ClientStore
	processor *trip.Processor
	excel     ExcelGenerator
	pdf       PDFGenerator
	cfg       *config.Config
}

func NewVisitService(store ClientStore, processor *trip.Processor, excel ExcelGenerator, pdf PDFGenerator, cfg *config.Config) *VisitService {
	return &VisitService{
		store:     store,
		processor: processor,
		excel:     excel,
		pdf:       pdf,
		cfg:       cfg,
	}
}

type ProcessTripInput struct {
	File      io.Reader
	FileName  string
	Mode      model.ProcessMode
	Date      string
	RadiusM   float64
	Vendor    string
	Principal model.Principal
}

type ProcessTripResult struct {
	Vehicle model.VehicleInfo
	Trip    *model.ProcessedTrip
}

// ProcessTrip reads an uploaded tracker export and runs the full
// reconstruction pipeline against the stored client catalog.
func (s *VisitService) ProcessTrip(ctx context.Context, in ProcessTripInput) (*ProcessTripResult, error) {
	if in.File == nil {
		return nil, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}

	rows, err := sheet.Read(in.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	vehicle := sheet.ExtractVehicleInfo(rows, in.FileName)
	date := in.Date
	if date == "" {
		date = vehicle.Date
	}

	catalog, err := s.loadCatalog(ctx, in.Vendor, in.Principal)
	if err != nil {
		return nil, err
	}

	processed, err := s.processor.Process(trip.Input{
		Rows:    rows,
		Mode:    in.Mode,
		Date:    date,
		Clients: catalog,
		RadiusM: in.RadiusM,
	})
	if err != nil {
		return nil, err
	}

	if vehicle.Date == "" {
		vehicle.Date = date
	}
	return &ProcessTripResult{Vehicle: vehicle, Trip: processed}, nil
}

type ReportResult struct {
	FileName string
	Content  []byte
}

// GenerateReport processes the uploaded trip file and renders the visit
// report workbook.
func (s *VisitService) GenerateReport(ctx context.Context, in ProcessTripInput) (*ReportResult, error) {
	result, err := s.ProcessTrip(ctx, in)
	if err != nil {
		return nil, err
	}

	report := s.buildReport(result, in.Mode)
	content, err := s.excel.Generate(report)
	if err != nil {
		return nil, err
	}
	return &ReportResult{
		FileName: s.buildFileName(report, "xlsx"),
		Content:  content,
	}, nil
}

// GenerateReportPDF renders the same report as a one-page PDF summary.
func (s *VisitService) GenerateReportPDF(ctx context.Context, in ProcessTripInput) (*ReportResult, error) {
	result, err := s.ProcessTrip(ctx, in)
	if err != nil {
		return nil, err
	}

	report := s.buildReport(result, in.Mode)
	content, err := s.pdf.Generate(report)
	if err != nil {
		return nil, err
	}
	return &ReportResult{
		FileName: s.buildFileName(report, "pdf"),
		Content:  content,
	}, nil
}

type ImportMasterResult struct {
	Clients int
	Vendors []string
}

// ImportMaster parses a master client file and replaces the stored
// catalog with it.
func (s *VisitService) ImportMaster(ctx context.Context, file io.Reader, principal model.Principal) (*ImportMasterResult, error) {
	if !principal.IsAdmin() && !principal.IsSupervisor() {
		return nil, ErrPermissionDenied
	}
	if file == nil {
		return nil, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}

	rows, err := sheet.Read(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	data, err := clients.ParseMasterFile(rows, s.cfg.Trip.HomeBaseSentinel)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceAll(ctx, data.Clients); err != nil {
		return nil, err
	}
	return &ImportMasterResult{Clients: len(data.Clients), Vendors: data.Vendors}, nil
}

func (s *VisitService) ListClients(ctx context.Context, vendor string) ([]model.Client, error) {
	if vendor != "" {
		return s.store.ListByVendor(ctx, vendor)
	}
	return s.store.List(ctx)
}

func (s *VisitService) Vendors(ctx context.Context) ([]string, error) {
	return s.store.Vendors(ctx)
}

// loadCatalog scopes the client catalog to the caller: vendor users
// only ever match against their own clients. An empty catalog is an
// error; visit matching is meaningless without one.
func (s *VisitService) loadCatalog(ctx context.Context, vendor string, principal model.Principal) ([]model.Client, error) {
	if principal.IsVendor() {
		vendor = principal.Vendor
	}

	var (
		catalog []model.Client
		err     error
	)
	if vendor != "" {
		catalog, err = s.store.ListByVendor(ctx, vendor)
	} else {
		catalog, err = s.store.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, ErrNoClients
	}
	return catalog, nil
}

func (s *VisitService) buildReport(result *ProcessTripResult, mode model.ProcessMode) model.TripReport {
	t := result.Trip
	specialKeys := s.processor.SpecialKeys()

	if mode == "" {
		mode = model.ModeCurrent
	}
	report := model.TripReport{
		Vehicle:       result.Vehicle,
		Mode:          mode,
		Method:        t.Method,
		WorkStartTime: t.WorkStartTime,
		WorkEndTime:   t.WorkEndTime,
		TotalKm:       t.TotalDistanceM / 1000,
	}

	for _, f := range t.Flags {
		if f.Type != model.FlagStop {
			continue
		}
		row := model.StopRow{
			Number:   f.StopNumber,
			Time:     f.Time,
			Duration: timeutil.FormatMinutes(f.DurationMin),
			Lat:      f.Lat,
			Lng:      f.Lng,
		}
		if f.Client != nil {
			row.Matched = true
			row.ClientKey = f.Client.Key
			row.ClientName = f.Client.DisplayName
			row.Branch = branchLabel(f.Client)
		}
		report.Stops = append(report.Stops, row)
		report.TotalStops++
		if f.IsClientVisit(specialKeys) {
			report.VisitedStops++
		}
	}
	return report
}

func branchLabel(match *model.ClientMatch) string {
	c := model.Client{BranchNumber: match.BranchNumber, BranchName: match.BranchName}
	return c.FormatBranchInfo()
}

func (s *VisitService) buildFileName(report model.TripReport, ext string) string {
	plate := sanitizeFileName(report.Vehicle.Plate)
	if plate == "" {
		plate = "vehiculo"
	}
	date := report.Vehicle.Date
	if date == "" {
		date = "sin-fecha"
	}
	return fmt.Sprintf("visitas-%s-%s.%s", plate, date, ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
