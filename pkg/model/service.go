package model

import "strings"

// ServiceCategory is the need-domain a service belongs to.
type ServiceCategory string

const (
	CategoryFoodBasicNeeds      ServiceCategory = "food_basic_needs"
	CategoryHealthWellness      ServiceCategory = "health_wellness"
	CategoryHousingStability    ServiceCategory = "housing_stability"
	CategoryEconomicSocial      ServiceCategory = "economic_social"
	CategoryCommunityResilience ServiceCategory = "community_resilience"
)

// ServiceCategoryOrder is the display order used by filters and charts.
var ServiceCategoryOrder = []ServiceCategory{
	CategoryFoodBasicNeeds,
	CategoryHealthWellness,
	CategoryHousingStability,
	CategoryEconomicSocial,
	CategoryCommunityResilience,
}

// CategoryLabels are the human readable names of each category.
var CategoryLabels = map[ServiceCategory]string{
	CategoryFoodBasicNeeds:      "Food & Basic Needs",
	CategoryHealthWellness:      "Health & Wellness",
	CategoryHousingStability:    "Housing & Stability",
	CategoryEconomicSocial:      "Economic & Social",
	CategoryCommunityResilience: "Community Resilience",
}

// ServiceCategories maps each category to the service types allowed in it.
type ServiceCategories map[ServiceCategory][]string

// DefaultServiceCategories is the static category -> service type table.
func DefaultServiceCategories() ServiceCategories {
	return ServiceCategories{
		CategoryFoodBasicNeeds:      {"food_pantry", "hot_meals", "grocery_vouchers", "produce_distribution", "clothing", "hygiene_kits"},
		CategoryHealthWellness:      {"mental_health_support", "case_management", "health_screenings", "first_aid", "peer_support_groups"},
		CategoryHousingStability:    {"rental_assistance", "utility_assistance", "navigation_services", "homeless_outreach", "shelter_referral"},
		CategoryEconomicSocial:      {"computer_access", "job_readiness", "benefits_enrollment", "financial_coaching", "language_support"},
		CategoryCommunityResilience: {"cooling_warming_space", "charging_station", "information_hub", "volunteer_coordination"},
	}
}

// Valid reports whether c is one of the fixed categories.
func (c ServiceCategory) Valid() bool {
	_, ok := CategoryLabels[c]
	return ok
}

// Label returns the display name, falling back to the raw value.
func (c ServiceCategory) Label() string {
	if l, ok := CategoryLabels[c]; ok {
		return l
	}
	return strings.ReplaceAll(string(c), "_", " ")
}

// Allows reports whether serviceType is listed under category.
func (sc ServiceCategories) Allows(category ServiceCategory, serviceType string) bool {
	for _, t := range sc[category] {
		if t == serviceType {
			return true
		}
	}
	return false
}

// Service is an offering provided by exactly one partner.
type Service struct {
	ID               string          `json:"id"`
	PartnerID        string          `json:"partner_id"`
	Category         ServiceCategory `json:"category"`
	ServiceType      string          `json:"service_type"`
	ServiceName      string          `json:"service_name,omitempty"`
	Description      string          `json:"description,omitempty"`
	AccessType       string          `json:"access_type"`
	LanguagesOffered []string        `json:"languages_offered,omitempty"`
	IsActive         bool            `json:"is_active"`
}

// ServiceInput is the create payload for a service.
type ServiceInput struct {
	PartnerID   *string          `json:"partner_id,omitempty"`
	Category    *ServiceCategory `json:"category,omitempty"`
	ServiceType *string          `json:"service_type,omitempty"`
	ServiceName *string          `json:"service_name,omitempty"`
	Description *string          `json:"description,omitempty"`
	AccessType  *string          `json:"access_type,omitempty"`
}

var accessTypes = map[string]bool{"walk_in": true, "appointment": true, "referral": true, "mobile": true}

// Validate checks required fields and the category -> service type table.
func (in ServiceInput) Validate(categories ServiceCategories) error {
	errs := ValidationErrors{}
	if in.PartnerID == nil || *in.PartnerID == "" {
		errs.add("partner_id", "Partner is required")
	}
	switch {
	case in.Category == nil || *in.Category == "":
		errs.add("category", "Category is required")
	case !in.Category.Valid():
		errs.add("category", "Unknown service category")
	}
	switch {
	case in.ServiceType == nil || *in.ServiceType == "":
		errs.add("service_type", "Service type is required")
	case in.Category != nil && in.Category.Valid() && !categories.Allows(*in.Category, *in.ServiceType):
		errs.add("service_type", "Service type does not belong to category")
	}
	if in.AccessType != nil && *in.AccessType != "" && !accessTypes[*in.AccessType] {
		errs.add("access_type", "Unknown access type")
	}
	return errs.orNil()
}

// Build turns a validated input into a service with the given id.
func (in ServiceInput) Build(id string) Service {
	s := Service{
		ID:         id,
		PartnerID:  *in.PartnerID,
		Category:   *in.Category,
		AccessType: "walk_in",
		IsActive:   true,
	}
	if in.ServiceType != nil {
		s.ServiceType = *in.ServiceType
	}
	if in.ServiceName != nil {
		s.ServiceName = *in.ServiceName
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.AccessType != nil && *in.AccessType != "" {
		s.AccessType = *in.AccessType
	}
	return s
}
