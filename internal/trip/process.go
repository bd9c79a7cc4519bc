package trip

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hmorales/fleet-visits/internal/model"
	"github.com/hmorales/fleet-visits/internal/sheet"
	"github.com/hmorales/fleet-visits/internal/timeutil"
)

// Options are the engine tunables, wired from configuration.
type Options struct {
	SourceZone     *time.Location
	TargetZone     *time.Location
	Markers        Markers
	MatchRadiusM   float64
	MinStopMinutes float64
	// SpecialClientKeys are HQ-like locations excluded from visit
	// statistics and workday-contact boundaries.
	SpecialClientKeys []string
}

const (
	DefaultMatchRadiusM   = 50.0
	DefaultMinStopMinutes = 2.0
)

type Processor struct {
	opts        Options
	specialKeys map[string]bool
	log         zerolog.Logger
}

func NewProcessor(opts Options, log zerolog.Logger) *Processor {
	if opts.MatchRadiusM <= 0 {
		opts.MatchRadiusM = DefaultMatchRadiusM
	}
	if opts.MinStopMinutes <= 0 {
		opts.MinStopMinutes = DefaultMinStopMinutes
	}
	if len(opts.Markers.Start) == 0 && len(opts.Markers.End) == 0 {
		opts.Markers = DefaultMarkers()
	}

	specialKeys := make(map[string]bool, len(opts.SpecialClientKeys))
	for _, key := range opts.SpecialClientKeys {
		specialKeys[key] = true
	}
	return &Processor{opts: opts, specialKeys: specialKeys, log: log}
}

func (p *Processor) SpecialKeys() map[string]bool {
	return p.specialKeys
}

// Input is one trip file to process.
type Input struct {
	Rows    [][]string
	Mode    model.ProcessMode
	Date    string
	Clients []model.Client
	// RadiusM overrides the configured matching radius when > 0.
	RadiusM float64
}

// Process runs the full pipeline over raw spreadsheet rows: column
// detection, event normalization, segmentation with fallback, client
// matching, and workday-boundary derivation.
func (p *Processor) Process(in Input) (*model.ProcessedTrip, error) {
	headerIdx, err := sheet.DetectTripHeader(in.Rows)
	if err != nil {
		return nil, err
	}
	cols, err := sheet.ResolveTripColumns(in.Rows[headerIdx])
	if err != nil {
		return nil, err
	}

	events := p.mapEvents(in.Rows[headerIdx+1:], cols, in.Date)
	if len(events) == 0 {
		return nil, ErrNoValidEvents
	}

	seg, err := p.segment(events)
	if err != nil {
		return nil, err
	}

	radius := in.RadiusM
	if radius <= 0 {
		radius = p.opts.MatchRadiusM
	}
	flags := MatchStops(seg.Flags, in.Clients, radius)

	mode := in.Mode
	if mode == "" {
		mode = model.ModeCurrent
	}
	var workStart, workEnd string
	switch mode {
	case model.ModeNew:
		workStart, workEnd = workdayByMotion(events, p.opts.Markers)
	default:
		workStart, workEnd = workdayByContact(flags, p.specialKeys)
	}

	return &model.ProcessedTrip{
		Events:         events,
		Route:          seg.Route,
		Flags:          flags,
		TotalDistanceM: seg.TotalDistanceM,
		Method:         seg.Method,
		InitialMoving:  events[0].Speed > 0,
		OngoingAtEnd:   events[len(events)-1].Speed > 0,
		WorkStartTime:  workStart,
		WorkEndTime:    workEnd,
	}, nil
}

// Rematch re-derives the flag list against a new client set. The trip
// is left untouched; callers swap in the returned slice.
func (p *Processor) Rematch(t *model.ProcessedTrip, clientList []model.Client, radiusM float64) []model.Flag {
	if radiusM <= 0 {
		radiusM = p.opts.MatchRadiusM
	}
	return MatchStops(t.Flags, clientList, radiusM)
}

// segment picks the strategy: marker-based whenever the file carries a
// start marker at all, with a speed-based retry if that strategy fails.
// Both failures are reported together so neither is silently lost.
func (p *Processor) segment(events []model.TripEvent) (*Segmentation, error) {
	hasMarkers := false
	for _, ev := range events {
		if p.opts.Markers.IsStart(ev.Description) {
			hasMarkers = true
			break
		}
	}

	if !hasMarkers {
		seg, err := segmentBySpeed(events, p.opts.MinStopMinutes)
		if err != nil {
			return nil, err
		}
		return seg, nil
	}

	seg, markerErr := segmentByMarkers(events, p.opts.Markers)
	if markerErr == nil {
		return seg, nil
	}

	p.log.Warn().Err(markerErr).Msg("segmentación por marcadores falló, reintentando por velocidad")
	seg, speedErr := segmentBySpeed(events, p.opts.MinStopMinutes)
	if speedErr != nil {
		return nil, fmt.Errorf("ninguna estrategia de segmentación produjo un viaje: %w", errors.Join(markerErr, speedErr))
	}
	return seg, nil
}

// mapEvents converts raw rows to normalized events. Bad rows are
// dropped one at a time, best effort over the batch: a malformed time,
// an unparsable speed, or missing coordinates never abort the file.
// Zero lat/lng counts as missing; the fleet operates nowhere near the
// equator or the prime meridian.
func (p *Processor) mapEvents(rows [][]string, cols sheet.TripColumns, date string) []model.TripEvent {
	var events []model.TripEvent
	for _, row := range rows {
		clock, ok := timeutil.ParseClockCell(cellAt(row, cols.Time))
		if !ok {
			continue
		}
		lat, errLat := parseCoord(cellAt(row, cols.Lat))
		lng, errLng := parseCoord(cellAt(row, cols.Lng))
		if errLat != nil || errLng != nil || lat == 0 || lng == 0 {
			continue
		}

		events = append(events, model.TripEvent{
			Seq:         len(events),
			Time:        timeutil.ConvertZoneOrKeep(clock, date, p.opts.SourceZone, p.opts.TargetZone),
			Description: cellAt(row, cols.Description),
			Speed:       parseSpeed(cellAt(row, cols.Speed)),
			Lat:         lat,
			Lng:         lng,
		})
	}
	return events
}

// parseSpeed is forgiving: comma decimal separators appear in some
// exports, and anything unparsable is simply "not moving".
func parseSpeed(raw string) float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return 0
	}
	speed, err := strconv.ParseFloat(raw, 64)
	if err != nil || speed < 0 {
		return 0
	}
	return speed
}

func parseCoord(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
