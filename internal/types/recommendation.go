package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexibleText accepts a JSON string, number, array of strings or null.
// Generated payloads are loose about the shape of free-text fields.
type FlexibleText string

func (f *FlexibleText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleText(s)
	case '[':
		var parts []FlexibleText
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				items = append(items, string(p))
			}
		}
		*f = FlexibleText(strings.Join(items, ", "))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = FlexibleText(n.String())
	}
	return nil
}

// FlexibleInt accepts 2 or "2".
type FlexibleInt int

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*f = FlexibleInt(n)
	return nil
}

type RecommendedPlace struct {
	Name        string       `json:"name" example:"N Seoul Tower"`
	Description FlexibleText `json:"description,omitempty"`
	Features    FlexibleText `json:"features,omitempty"`
	Activity    FlexibleText `json:"activity,omitempty"`
	Time        FlexibleText `json:"time,omitempty"`
}

// RecommendationSet lives only for the duration of one response.
type RecommendationSet struct {
	Places []RecommendedPlace `json:"places"`
}

// RouteDay keeps Places nil when the payload had no "places" key,
// which is distinct from an empty list.
type RouteDay struct {
	Day    FlexibleInt        `json:"day"`
	Theme  string             `json:"theme,omitempty"`
	Places []RecommendedPlace `json:"places"`
}

type RouteRecommendation struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Days        []RouteDay `json:"days"`
}

type NearbyLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	Name      string  `json:"name"`
}

type RoutePreferences struct {
	LeisureType    string `json:"leisureType"`
	ExperienceType string `json:"experienceType"`
}

// RouteQuery is the normalized input of a multi-day route request.
type RouteQuery struct {
	StartLocation string
	EndLocation   string
	Leisure       string
	Experience    string
	TravelDays    int
}

type NearbyRecommendation struct {
	Location        NearbyLocation    `json:"location"`
	Recommendations RecommendationSet `json:"recommendations"`
}
