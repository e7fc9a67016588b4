// Package classify assigns a structural entity_class from the presence,
// not the value, of universal primitive fields (spec §4.8). It never
// inspects lens vocabulary or canonical dimensions — that separation is
// what keeps classification portable across lenses.
package classify

import "github.com/larjgit/edinburgh-finds/pkg/model"

const (
	ClassPlace        = "place"
	ClassPerson       = "person"
	ClassOrganization = "organization"
	ClassEvent        = "event"
	ClassThing        = "thing"
)

// Classify applies spec §4.8's rule template in its documented precedence:
// geography plus a name wins first, then person-name structure absent any
// geography, then organization-name structure absent person-name and
// coordinates, then a time-range primitive, else "thing".
func Classify(p model.Primitives) string {
	switch {
	case hasPlaceSignal(p):
		return ClassPlace
	case hasPersonSignal(p):
		return ClassPerson
	case hasOrganizationSignal(p):
		return ClassOrganization
	case hasEventSignal(p):
		return ClassEvent
	default:
		return ClassThing
	}
}

func hasGeoSignal(p model.Primitives) bool {
	hasAddress := p.StreetAddress != "" || p.Postcode != ""
	hasCoords := p.Latitude != nil && p.Longitude != nil
	return hasAddress || hasCoords
}

func hasPlaceSignal(p model.Primitives) bool {
	return hasGeoSignal(p) && p.EntityName != ""
}

func hasPersonSignal(p model.Primitives) bool {
	hasPersonName := p.GivenName != "" || p.FamilyName != ""
	return hasPersonName && !hasGeoSignal(p)
}

func hasOrganizationSignal(p model.Primitives) bool {
	hasPersonName := p.GivenName != "" || p.FamilyName != ""
	hasCoords := p.Latitude != nil && p.Longitude != nil
	return p.OrganizationName != "" && !hasPersonName && !hasCoords
}

func hasEventSignal(p model.Primitives) bool {
	return p.EventStartTime != nil || p.EventEndTime != nil
}
