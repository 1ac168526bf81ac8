package recommend

import (
	"strings"

	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

// Outcome of reconciling one unit (the overall list, or one route day).
type Outcome string

const (
	OutcomeIntersected Outcome = "intersected"
	OutcomeFallback    Outcome = "fallback"
	OutcomePassthrough Outcome = "passthrough"
)

// IntersectPlaces keeps the places of primary whose name is "common" with
// corroborating: lowercased and trimmed, one name contains the other.
// This is a heuristic. "Park" is common with both "Han River Park" and
// "Olympic Park". With no common name the full primary list is returned.
func IntersectPlaces(primary, corroborating []types.RecommendedPlace) ([]types.RecommendedPlace, Outcome) {
	names := make([]string, 0, len(corroborating))
	for _, p := range corroborating {
		if n := normalizeName(p.Name); n != "" {
			names = append(names, n)
		}
	}

	common := make([]types.RecommendedPlace, 0, len(primary))
	for _, p := range primary {
		if isCommon(normalizeName(p.Name), names) {
			common = append(common, p)
		}
	}
	if len(common) == 0 {
		return primary, OutcomeFallback
	}
	return common, OutcomeIntersected
}

// ReconcileRoute filters each day of primary against the same day of
// corroborating. Metadata always comes from primary. Days beyond the shorter
// itinerary are dropped. An itinerary with no days at all (a failed provider)
// corroborates nothing and leaves primary as is.
func ReconcileRoute(primary, corroborating types.RouteRecommendation) (types.RouteRecommendation, []Outcome) {
	if len(corroborating.Days) == 0 {
		outcomes := make([]Outcome, len(primary.Days))
		for i := range outcomes {
			outcomes[i] = OutcomePassthrough
		}
		return primary, outcomes
	}

	n := min(len(primary.Days), len(corroborating.Days))
	out := primary
	out.Days = make([]types.RouteDay, n)
	outcomes := make([]Outcome, n)
	for i := 0; i < n; i++ {
		day := primary.Days[i]
		other := corroborating.Days[i]
		if day.Places == nil || other.Places == nil {
			out.Days[i] = day
			outcomes[i] = OutcomePassthrough
			continue
		}
		day.Places, outcomes[i] = IntersectPlaces(day.Places, other.Places)
		out.Days[i] = day
	}
	return out, outcomes
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func isCommon(name string, others []string) bool {
	if name == "" {
		return false
	}
	for _, o := range others {
		if strings.Contains(name, o) || strings.Contains(o, name) {
			return true
		}
	}
	return false
}
