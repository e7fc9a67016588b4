package mapping

import (
	"fmt"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// defaultSourceFields is consulted when a mapping_rule or field_rule omits
// source_fields entirely.
var defaultSourceFields = []string{"entity_name", "description", "raw_categories", "summary", "street_address"}

// fieldText resolves one named field to its text form for regex matching.
// Known universal primitive fields are read directly off the struct; any
// other name is looked up in raw_observations, the extractor's schema-free
// bag, and stringified.
func fieldText(p *model.Primitives, name string) (string, bool) {
	switch name {
	case "entity_name":
		return p.EntityName, p.EntityName != ""
	case "street_address":
		return p.StreetAddress, p.StreetAddress != ""
	case "city":
		return p.City, p.City != ""
	case "postcode":
		return p.Postcode, p.Postcode != ""
	case "phone":
		return p.Phone, p.Phone != ""
	case "email":
		return p.Email, p.Email != ""
	case "website_url":
		return p.WebsiteURL, p.WebsiteURL != ""
	default:
		if p.RawObservations == nil {
			return "", false
		}
		v, ok := p.RawObservations[name]
		if !ok || v == nil {
			return "", false
		}
		return fmt.Sprint(v), true
	}
}

func sourceFieldsOrDefault(fields []string) []string {
	if len(fields) == 0 {
		return defaultSourceFields
	}
	return fields
}

func rawFieldValue(p *model.Primitives, name string) (any, bool) {
	switch name {
	case "entity_name":
		return p.EntityName, p.EntityName != ""
	case "street_address":
		return p.StreetAddress, p.StreetAddress != ""
	case "city":
		return p.City, p.City != ""
	case "postcode":
		return p.Postcode, p.Postcode != ""
	default:
		if p.RawObservations == nil {
			return nil, false
		}
		v, ok := p.RawObservations[name]
		return v, ok
	}
}
