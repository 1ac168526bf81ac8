package recommend

import (
	"fmt"
	"strings"

	generativeAI "github.com/FACorreiaa/go-travel-recommendations/internal/api/generative_ai"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

const (
	nearbyPlaceCount   = 5
	defaultTemperature = 0.7
	guideInstruction   = "You are a local travel expert. Recommend real, existing places and use the official local name of each place."
)

const nearbySchema = `{"places":[{"name":"place name","description":"one or two sentences","features":"what makes it worth visiting"}]}`

const routeSchema = `{"title":"itinerary title","description":"one sentence summary","days":[{"day":1,"places":[{"name":"place name","description":"short description","activity":"what to do there","time":"morning | afternoon | evening"}]}]}`

var leisureLabels = map[string]string{
	"leisure":    "rest and relaxation focused",
	"tourism":    "sightseeing focused",
	"food":       "culinary trip",
	"experience": "experience seeking trip",
}

// PreferenceLabel maps a preference code to the phrase used in prompts.
// Unknown codes are used verbatim.
func PreferenceLabel(code string) string {
	if label, ok := leisureLabels[strings.ToLower(strings.TrimSpace(code))]; ok {
		return label
	}
	return code
}

// prompt is one provider-specific rendering of a request.
type prompt struct {
	text   string
	config generativeAI.GenerationConfig
}

// Chat providers in JSON mode get the persona as a system message and a
// short user turn. Free-text providers get one self-contained instruction
// that spells out the output format.
func nearbyPrompt(gen generativeAI.Generator, loc types.NearbyLocation) prompt {
	task := fmt.Sprintf("Recommend %d places worth visiting near %s (%s, coordinates %.5f, %.5f).",
		nearbyPlaceCount, loc.Name, loc.Address, loc.Latitude, loc.Longitude)

	if gen.StrictJSON() {
		return prompt{
			text: task + "\nRespond with a JSON object shaped like: " + nearbySchema,
			config: generativeAI.GenerationConfig{
				SystemInstruction: guideInstruction,
				Temperature:       defaultTemperature,
				JSON:              true,
			},
		}
	}

	var b strings.Builder
	b.WriteString(guideInstruction)
	b.WriteString("\n\n")
	b.WriteString(task)
	b.WriteString("\nReturn ONLY a JSON object, without markdown fences or commentary, exactly in this format:\n")
	b.WriteString(nearbySchema)
	return prompt{
		text:   b.String(),
		config: generativeAI.GenerationConfig{Temperature: defaultTemperature, JSON: true},
	}
}

func routePrompt(gen generativeAI.Generator, q types.RouteQuery) prompt {
	task := fmt.Sprintf(
		"Plan a %d-day trip from %s to %s. Travel style: %s, %s. Suggest 3 to 4 places per day in visiting order.",
		q.TravelDays, q.StartLocation, q.EndLocation, PreferenceLabel(q.Leisure), PreferenceLabel(q.Experience))

	if gen.StrictJSON() {
		return prompt{
			text: task + "\nRespond with a JSON object shaped like: " + routeSchema,
			config: generativeAI.GenerationConfig{
				SystemInstruction: guideInstruction,
				Temperature:       defaultTemperature,
				JSON:              true,
			},
		}
	}

	var b strings.Builder
	b.WriteString(guideInstruction)
	b.WriteString("\n\n")
	b.WriteString(task)
	fmt.Fprintf(&b, "\nThe \"days\" array must contain exactly %d entries.", q.TravelDays)
	b.WriteString("\nReturn ONLY a JSON object, without markdown fences or commentary, exactly in this format:\n")
	b.WriteString(routeSchema)
	return prompt{
		text:   b.String(),
		config: generativeAI.GenerationConfig{Temperature: defaultTemperature, JSON: true},
	}
}
