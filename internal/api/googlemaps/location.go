package googlemaps

import "strings"

// locationGranularity is ordered finest first.
var locationGranularity = []string{
	"sublocality_level_1",
	"locality",
	"administrative_area_level_2",
	"administrative_area_level_1",
}

// ExtractLocationName returns the long name of the finest populated
// administrative component, or the first comma segment of the address.
func ExtractLocationName(components []addressComponent, formattedAddress string) string {
	for _, kind := range locationGranularity {
		for _, c := range components {
			if c.LongName != "" && hasType(c.Types, kind) {
				return c.LongName
			}
		}
	}
	first, _, _ := strings.Cut(formattedAddress, ",")
	return strings.TrimSpace(first)
}

func hasType(kinds []string, want string) bool {
	for _, t := range kinds {
		if t == want {
			return true
		}
	}
	return false
}
