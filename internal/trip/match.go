package trip

import (
	"github.com/hmorales/fleet-visits/internal/geo"
	"github.com/hmorales/fleet-visits/internal/model"
)

// MatchStops correlates stop flags against the client catalog: each
// stop takes the nearest client within radiusM meters. The result is
// derived from the given catalog alone, so any match carried by the
// input flags is discarded first; a stop with no client in range comes
// back unmatched. The input slice is never mutated; re-matching against
// a fresh client set is just calling this again.
//
// Ties at equal distance resolve to the first client encountered.
func MatchStops(flags []model.Flag, clientList []model.Client, radiusM float64) []model.Flag {
	matched := make([]model.Flag, len(flags))
	copy(matched, flags)

	for i := range matched {
		if matched[i].Type != model.FlagStop {
			continue
		}
		matched[i].Client = nil

		bestIdx := -1
		bestDist := 0.0
		for j, client := range clientList {
			if !client.HasGPS() {
				continue
			}
			d := geo.Distance(matched[i].Lat, matched[i].Lng, client.Lat, client.Lng)
			if bestIdx < 0 || d < bestDist {
				bestIdx = j
				bestDist = d
			}
		}

		if bestIdx < 0 || bestDist > radiusM {
			continue
		}

		client := clientList[bestIdx]
		matched[i].Client = &model.ClientMatch{
			Key:          client.Key,
			Name:         client.Name,
			DisplayName:  client.DisplayName,
			BranchNumber: client.BranchNumber,
			BranchName:   client.BranchName,
			IsHomeBase:   client.IsHomeBase,
		}
	}
	return matched
}
