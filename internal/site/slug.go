package site

import "strings"

const fallbackLocation = "india"

// CitySlug derives the URL slug of the city a free-text location belongs to,
// e.g. "Malleshwaram, Bengaluru" -> "bengaluru". The last comma segment is
// matched against cities; anything else is slugified as-is.
func CitySlug(location string, cities []string) string {
	if strings.TrimSpace(location) == "" {
		location = fallbackLocation
	}
	parts := strings.Split(location, ",")
	city := strings.TrimSpace(parts[len(parts)-1])

	for _, known := range cities {
		if strings.EqualFold(known, city) {
			return slugify(known)
		}
	}
	return strings.ReplaceAll(slugify(city), ",", "")
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}
