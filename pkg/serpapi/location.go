package serpapi

import "strings"

// auStates maps Australian state abbreviations to full names.
var auStates = map[string]string{
	"NSW": "New South Wales",
	"VIC": "Victoria",
	"QLD": "Queensland",
	"WA":  "Western Australia",
	"SA":  "South Australia",
	"TAS": "Tasmania",
	"ACT": "Australian Capital Territory",
	"NT":  "Northern Territory",
}

// NormalizeLocation rewrites an Australian location into the
// "City, State, Australia" form SerpAPI resolves reliably.
//
//	"Brisbane, QLD" -> "Brisbane, Queensland, Australia"
//	"Sydney NSW"    -> "Sydney, New South Wales, Australia"
//	"Melbourne"     -> "Melbourne, Australia"
func NormalizeLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(location), "australia") {
		return location
	}

	parts := strings.Fields(strings.ReplaceAll(location, ",", " "))
	if len(parts) >= 2 {
		last := parts[len(parts)-1]
		city := strings.Join(parts[:len(parts)-1], " ")
		if state, ok := auStates[strings.ToUpper(last)]; ok {
			return city + ", " + state + ", Australia"
		}
		for _, state := range auStates {
			if strings.EqualFold(last, state) {
				return city + ", " + state + ", Australia"
			}
		}
	}

	return location + ", Australia"
}
