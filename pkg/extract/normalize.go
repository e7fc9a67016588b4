package extract

import (
	"regexp"
	"strings"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

var ukPostcodePattern = regexp.MustCompile(`(?i)^[A-Z]{1,2}[0-9][A-Z0-9]?\s*[0-9][A-Z]{2}$`)

var phoneDigitsPattern = regexp.MustCompile(`[^0-9+]`)

// normalize applies field-level cleanup shared by every extractor: invalid
// values are nulled out rather than guessed at, per spec §4.6.
func normalize(p *model.Primitives) {
	p.EntityName = strings.TrimSpace(p.EntityName)
	p.StreetAddress = strings.TrimSpace(p.StreetAddress)
	p.City = strings.TrimSpace(p.City)
	p.GivenName = strings.TrimSpace(p.GivenName)
	p.FamilyName = strings.TrimSpace(p.FamilyName)
	p.OrganizationName = strings.TrimSpace(p.OrganizationName)

	p.Postcode = normalizePostcode(p.Postcode)
	p.Phone = normalizePhone(p.Phone)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))

	if !validLatitude(p.Latitude) {
		p.Latitude = nil
	}
	if !validLongitude(p.Longitude) {
		p.Longitude = nil
	}
}

func normalizePostcode(raw string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if !ukPostcodePattern.MatchString(trimmed) {
		return ""
	}
	collapsed := strings.Join(strings.Fields(trimmed), "")
	return collapsed[:len(collapsed)-3] + " " + collapsed[len(collapsed)-3:]
}

func normalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	digits := phoneDigitsPattern.ReplaceAllString(trimmed, "")
	switch {
	case strings.HasPrefix(digits, "+"):
		return digits
	case strings.HasPrefix(digits, "0"):
		return "+44" + digits[1:]
	default:
		return digits
	}
}

func validLatitude(lat *float64) bool {
	if lat == nil {
		return false
	}
	return *lat >= -90 && *lat <= 90
}

func validLongitude(lon *float64) bool {
	if lon == nil {
		return false
	}
	return *lon >= -180 && *lon <= 180
}
