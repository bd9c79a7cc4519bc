// Package trip reconstructs a vehicle's trip from a noisy time series
// of GPS samples: an ordered route, classified start/stop/end flags,
// client matching for stops, and derived workday boundaries.
package trip

import (
	"strings"

	"github.com/hmorales/fleet-visits/internal/geo"
	"github.com/hmorales/fleet-visits/internal/model"
	"github.com/hmorales/fleet-visits/internal/timeutil"
)

const minutesPerDay = 24 * 60

// Markers is the set of free-text phrases the tracker embeds in event
// descriptions to announce trip boundaries. Configurable so the engine
// is not tied to one vendor's export wording.
type Markers struct {
	Start []string
	End   []string
}

func DefaultMarkers() Markers {
	return Markers{
		Start: []string{"inicio de viaje"},
		End:   []string{"fin de viaje"},
	}
}

func (m Markers) IsStart(description string) bool {
	return containsAny(description, m.Start)
}

func (m Markers) IsEnd(description string) bool {
	return containsAny(description, m.End)
}

func containsAny(description string, phrases []string) bool {
	lower := strings.ToLower(description)
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// Segmentation is the result of one strategy run: bracketing flags, the
// traveled route, and its great-circle length.
type Segmentation struct {
	Flags          []model.Flag
	Route          []model.LatLng
	TotalDistanceM float64
	Method         model.SegmentationMethod
}

// segmentByMarkers derives flags from explicit start/end trip markers.
// Every intermediate end marker is a stop whose duration runs until the
// next start marker, wrapping over midnight when needed.
func segmentByMarkers(events []model.TripEvent, markers Markers) (*Segmentation, error) {
	firstStart := -1
	lastEnd := -1
	for i, ev := range events {
		if firstStart < 0 && markers.IsStart(ev.Description) {
			firstStart = i
		}
		if markers.IsEnd(ev.Description) {
			lastEnd = i
		}
	}
	if firstStart < 0 || lastEnd < 0 || lastEnd <= firstStart {
		return nil, ErrNoMarkers
	}

	flags := []model.Flag{flagFromEvent(events[firstStart], model.FlagStart)}

	stopNumber := 0
	for i := firstStart + 1; i < lastEnd; i++ {
		if !markers.IsEnd(events[i].Description) {
			continue
		}
		stopNumber++
		stop := flagFromEvent(events[i], model.FlagStop)
		stop.StopNumber = stopNumber
		stop.DurationMin = minutesUntilNextStart(events, i, lastEnd, markers)
		flags = append(flags, stop)
	}

	flags = append(flags, flagFromEvent(events[lastEnd], model.FlagEnd))

	route := routeOf(events[firstStart : lastEnd+1])
	return &Segmentation{
		Flags:          flags,
		Route:          route,
		TotalDistanceM: geo.PathLength(route),
		Method:         model.MethodMarkers,
	}, nil
}

// minutesUntilNextStart measures the halt that begins at an end marker:
// the gap until the next start marker. Negative gaps cross midnight and
// gain a day.
func minutesUntilNextStart(events []model.TripEvent, stopIdx, lastEnd int, markers Markers) float64 {
	stopMin := timeutil.MinutesOf(events[stopIdx].Time)
	for j := stopIdx + 1; j <= lastEnd; j++ {
		if !markers.IsStart(events[j].Description) {
			continue
		}
		delta := timeutil.MinutesOf(events[j].Time) - stopMin
		if delta < 0 {
			delta += minutesPerDay
		}
		return float64(delta)
	}
	return 0
}

// segmentBySpeed is the fallback for exports without marker events. A
// stop opens when speed drops to zero and closes when it rises again;
// halts shorter than minStopMinutes are noise and are discarded.
func segmentBySpeed(events []model.TripEvent, minStopMinutes float64) (*Segmentation, error) {
	firstMove := -1
	lastMove := -1
	for i, ev := range events {
		if ev.Speed > 0 {
			if firstMove < 0 {
				firstMove = i
			}
			lastMove = i
		}
	}
	if firstMove < 0 {
		return nil, ErrNoMovement
	}

	sub := events[firstMove : lastMove+1]
	flags := []model.Flag{flagFromEvent(sub[0], model.FlagStart)}

	stopNumber := 0
	stopIdx := -1
	for i := 1; i < len(sub); i++ {
		prev, cur := sub[i-1], sub[i]
		switch {
		case prev.Speed > 0 && cur.Speed == 0:
			stopIdx = i
		case stopIdx >= 0 && cur.Speed > 0:
			duration := timeutil.MinutesOf(cur.Time) - timeutil.MinutesOf(sub[stopIdx].Time)
			if duration < 0 {
				duration += minutesPerDay
			}
			if float64(duration) >= minStopMinutes {
				stopNumber++
				stop := flagFromEvent(sub[stopIdx], model.FlagStop)
				stop.StopNumber = stopNumber
				stop.DurationMin = float64(duration)
				flags = append(flags, stop)
			}
			stopIdx = -1
		}
	}

	flags = append(flags, flagFromEvent(sub[len(sub)-1], model.FlagEnd))

	route := routeOf(sub)
	return &Segmentation{
		Flags:          flags,
		Route:          route,
		TotalDistanceM: geo.PathLength(route),
		Method:         model.MethodSpeed,
	}, nil
}

func flagFromEvent(ev model.TripEvent, kind model.FlagType) model.Flag {
	return model.Flag{
		Type:        kind,
		Lat:         ev.Lat,
		Lng:         ev.Lng,
		Time:        ev.Time,
		Description: ev.Description,
	}
}

func routeOf(events []model.TripEvent) []model.LatLng {
	route := make([]model.LatLng, len(events))
	for i, ev := range events {
		route[i] = model.LatLng{Lat: ev.Lat, Lng: ev.Lng}
	}
	return route
}
