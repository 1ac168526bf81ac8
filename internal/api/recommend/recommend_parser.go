package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

// jsonObjectPattern is greedy: it spans from the first '{' to the last '}'.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

var errNoJSONObject = errors.New("no JSON object in response")

// extractJSON returns the brace-delimited part of free text output.
func extractJSON(raw string) (string, error) {
	match := jsonObjectPattern.FindString(raw)
	if match == "" {
		return "", errNoJSONObject
	}
	return match, nil
}

func payload(raw string, strict bool) ([]byte, error) {
	if strict {
		return []byte(strings.TrimSpace(raw)), nil
	}
	body, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

type nearbyPayload struct {
	Places          []types.RecommendedPlace `json:"places"`
	Recommendations []types.RecommendedPlace `json:"recommendations"`
}

// parseNearby decodes a single-location payload. Some models name the list
// "recommendations" instead of "places"; both are accepted.
func parseNearby(raw string, strict bool) (*types.RecommendationSet, error) {
	body, err := payload(raw, strict)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrUpstream, err)
	}
	var p nearbyPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: unparsable recommendation payload: %v", types.ErrUpstream, err)
	}
	switch {
	case p.Places != nil:
		return &types.RecommendationSet{Places: p.Places}, nil
	case p.Recommendations != nil:
		return &types.RecommendationSet{Places: p.Recommendations}, nil
	default:
		return nil, fmt.Errorf("%w: recommendation payload has no places list", types.ErrUpstream)
	}
}

func parseRoute(raw string, strict bool) (*types.RouteRecommendation, error) {
	body, err := payload(raw, strict)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrUpstream, err)
	}
	var route types.RouteRecommendation
	if err := json.Unmarshal(body, &route); err != nil {
		return nil, fmt.Errorf("%w: unparsable route payload: %v", types.ErrUpstream, err)
	}
	return &route, nil
}
