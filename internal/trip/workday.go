package trip

import (
	"math"

	"github.com/hmorales/fleet-visits/internal/model"
	"github.com/hmorales/fleet-visits/internal/timeutil"
)

// The two workday-boundary policies encode different business
// semantics: motion-time accounting versus customer-contact accounting.
// They are separate functions selected by the caller's mode, never
// inline branches.

// workdayByMotion (mode NEW) runs the clock from first motion intent to
// last motion intent: the earlier of the first start marker and the
// first speed>0 sample, through the later of the last end marker and
// the last speed>0 sample.
func workdayByMotion(events []model.TripEvent, markers Markers) (string, string) {
	var firstMarker, firstMoving, lastMarker, lastMoving string
	for _, ev := range events {
		if firstMarker == "" && markers.IsStart(ev.Description) {
			firstMarker = ev.Time
		}
		if markers.IsEnd(ev.Description) {
			lastMarker = ev.Time
		}
		if ev.Speed > 0 {
			if firstMoving == "" {
				firstMoving = ev.Time
			}
			lastMoving = ev.Time
		}
	}
	return earlierClock(firstMarker, firstMoving), laterClock(lastMarker, lastMoving)
}

// workdayByContact (mode CURRENT, legacy) bounds the day by actual
// customer contact: first client-visit stop through the end of the last
// one, ignoring home-base and special-key stops. Falls back to the
// start/end flags when no client was visited.
func workdayByContact(flags []model.Flag, specialKeys map[string]bool) (string, string) {
	start := ""
	end := ""
	for _, f := range flags {
		switch f.Type {
		case model.FlagStart:
			if start == "" {
				start = f.Time
			}
		case model.FlagEnd:
			if end == "" {
				end = f.Time
			}
		}
	}

	var firstVisit, lastVisit *model.Flag
	for i := range flags {
		if !flags[i].IsClientVisit(specialKeys) {
			continue
		}
		if firstVisit == nil {
			firstVisit = &flags[i]
		}
		lastVisit = &flags[i]
	}

	if firstVisit != nil {
		start = firstVisit.Time
	}
	if lastVisit != nil {
		end = timeutil.AddMinutes(lastVisit.Time, int(math.Round(lastVisit.DurationMin)))
	}
	return start, end
}

func earlierClock(a, b string) string {
	return pickClock(a, b, func(x, y int) bool { return x < y })
}

func laterClock(a, b string) string {
	return pickClock(a, b, func(x, y int) bool { return x > y })
}

func pickClock(a, b string, better func(int, int) bool) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if better(timeutil.MinutesOf(a), timeutil.MinutesOf(b)) {
		return a
	}
	return b
}
