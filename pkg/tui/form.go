package tui

import (
	"strconv"
	"strings"

	"github.com/rmax-ai/partnermap/pkg/model"
)

// formField is one input of the partner form, keyed by its JSON name so
// validation messages line up with the field they belong to.
type formField struct {
	name  string
	label string
}

var partnerFormFields = []formField{
	{"organization_name", "Organization name"},
	{"organization_type", "Type (" + orgTypeHint() + ")"},
	{"physical_address", "Address"},
	{"latitude", "Latitude"},
	{"longitude", "Longitude"},
	{"year_founded", "Year founded"},
	{"primary_contact_email", "Contact email"},
}

func orgTypeHint() string {
	names := make([]string, len(model.OrganizationTypes))
	for i, t := range model.OrganizationTypes {
		names[i] = string(t)
	}
	return strings.Join(names, "/")
}

// parsePartnerForm turns raw field text into a create payload. Blank fields
// are left unset. Numbers that do not parse are reported against their field
// alongside the payload's own validation errors; when any are returned the
// form must not be submitted.
func parsePartnerForm(values map[string]string) (model.PartnerInput, model.ValidationErrors) {
	var in model.PartnerInput
	errs := model.ValidationErrors{}

	text := func(name string) *string {
		v := strings.TrimSpace(values[name])
		if v == "" {
			return nil
		}
		return &v
	}
	number := func(name, msg string) *float64 {
		v := text(name)
		if v == nil {
			return nil
		}
		f, err := strconv.ParseFloat(*v, 64)
		if err != nil {
			errs[name] = msg
			return nil
		}
		return &f
	}

	in.OrganizationName = text("organization_name")
	if t := text("organization_type"); t != nil {
		in.OrganizationType = model.Ptr(model.OrganizationType(strings.ToLower(*t)))
	}
	in.PhysicalAddress = text("physical_address")
	in.Latitude = number("latitude", "Latitude must be a number")
	in.Longitude = number("longitude", "Longitude must be a number")
	if y := text("year_founded"); y != nil {
		n, err := strconv.Atoi(*y)
		if err != nil {
			errs["year_founded"] = "Year founded must be a whole number"
		} else {
			in.YearFounded = &n
		}
	}
	in.PrimaryContactEmail = text("primary_contact_email")

	if err := in.ValidateCreate(); err != nil {
		if verrs, ok := err.(model.ValidationErrors); ok {
			for field, msg := range verrs {
				if _, seen := errs[field]; !seen {
					errs[field] = msg
				}
			}
		}
	}
	if len(errs) == 0 {
		return in, nil
	}
	return in, errs
}
