package model

import (
	"net/mail"
	"strings"
	"time"
)

// OrganizationType is the closed set of partner organization kinds.
type OrganizationType string

const (
	OrgNonprofit  OrganizationType = "nonprofit"
	OrgFaithBased OrganizationType = "faith_based"
	OrgGovernment OrganizationType = "government"
	OrgInformal   OrganizationType = "informal"
	OrgCoalition  OrganizationType = "coalition"
	OrgPrivate    OrganizationType = "private"
)

// OrganizationTypes lists every valid OrganizationType in display order.
var OrganizationTypes = []OrganizationType{
	OrgNonprofit, OrgFaithBased, OrgGovernment, OrgInformal, OrgCoalition, OrgPrivate,
}

// Valid reports whether t belongs to the closed set.
func (t OrganizationType) Valid() bool {
	for _, v := range OrganizationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ApprovalStatus tracks the review state of a partner submission.
type ApprovalStatus string

const (
	ApprovalPending     ApprovalStatus = "pending"
	ApprovalApproved    ApprovalStatus = "approved"
	ApprovalRejected    ApprovalStatus = "rejected"
	ApprovalNeedsUpdate ApprovalStatus = "needs_update"
)

// AccessibilityLevel describes ADA accessibility of a partner site.
type AccessibilityLevel string

const (
	AccessYes     AccessibilityLevel = "yes"
	AccessPartial AccessibilityLevel = "partial"
	AccessNo      AccessibilityLevel = "no"
)

func (a AccessibilityLevel) Valid() bool {
	return a == AccessYes || a == AccessPartial || a == AccessNo
}

// Partner is a community organization participating in the network.
// Values handed out by the API client are snapshots; callers change a partner
// only by submitting a PartnerInput.
type Partner struct {
	ID                  string             `json:"id"`
	PartnerID           string             `json:"partner_id"`
	OrganizationName    string             `json:"organization_name"`
	OrganizationType    OrganizationType   `json:"organization_type"`
	MissionStatement    string             `json:"mission_statement,omitempty"`
	YearFounded         *int               `json:"year_founded,omitempty"`
	PhysicalAddress     string             `json:"physical_address,omitempty"`
	Latitude            *float64           `json:"latitude,omitempty"`
	Longitude           *float64           `json:"longitude,omitempty"`
	PrimaryContactName  string             `json:"primary_contact_name,omitempty"`
	PrimaryContactEmail string             `json:"primary_contact_email,omitempty"`
	PrimaryContactPhone string             `json:"primary_contact_phone,omitempty"`
	LanguagesOffered    []string           `json:"languages_offered,omitempty"`
	ADAAccessible       AccessibilityLevel `json:"ada_accessible,omitempty"`
	IsActive            bool               `json:"is_active"`
	ApprovalStatus      ApprovalStatus     `json:"approval_status"`
	CreatedAt           time.Time          `json:"created_at,omitzero"`
	UpdatedAt           time.Time          `json:"updated_at,omitzero"`
}

// Coordinate returns the partner location when both components are present.
func (p Partner) Coordinate() (lat, lng float64, ok bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return 0, 0, false
	}
	return *p.Latitude, *p.Longitude, true
}

// Matches reports whether ref names this partner by either identifier.
func (p Partner) Matches(ref string) bool {
	return ref != "" && (p.ID == ref || p.PartnerID == ref)
}

// Ref projects the identity fields the UI keeps as its selected partner.
func (p Partner) Ref() PartnerRef {
	ref := PartnerRef{
		ID:        p.ID,
		PartnerID: p.PartnerID,
		Name:      p.OrganizationName,
		Type:      string(p.OrganizationType),
		Address:   p.PhysicalAddress,
	}
	if lat, lng, ok := p.Coordinate(); ok {
		ref.Latitude, ref.Longitude = lat, lng
	}
	return ref
}

// Clone returns a deep copy so fixture snapshots never alias.
func (p Partner) Clone() Partner {
	c := p
	if p.YearFounded != nil {
		c.YearFounded = Ptr(*p.YearFounded)
	}
	if p.Latitude != nil {
		c.Latitude = Ptr(*p.Latitude)
	}
	if p.Longitude != nil {
		c.Longitude = Ptr(*p.Longitude)
	}
	if p.LanguagesOffered != nil {
		c.LanguagesOffered = append([]string(nil), p.LanguagesOffered...)
	}
	return c
}

// PartnerRef is the identity slice of a partner held by the UI state store.
type PartnerRef struct {
	ID        string  `json:"id"`
	PartnerID string  `json:"partner_id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ApprovalResult is returned by the approve operation.
type ApprovalResult struct {
	Status    ApprovalStatus `json:"status"`
	PartnerID string         `json:"partner_id"`
}

// PartnerInput is the create/update payload. Every field is optional; nil
// means "not supplied". Create additionally requires name and type.
type PartnerInput struct {
	OrganizationName    *string             `json:"organization_name,omitempty"`
	OrganizationType    *OrganizationType   `json:"organization_type,omitempty"`
	MissionStatement    *string             `json:"mission_statement,omitempty"`
	YearFounded         *int                `json:"year_founded,omitempty"`
	PhysicalAddress     *string             `json:"physical_address,omitempty"`
	Latitude            *float64            `json:"latitude,omitempty"`
	Longitude           *float64            `json:"longitude,omitempty"`
	PrimaryContactName  *string             `json:"primary_contact_name,omitempty"`
	PrimaryContactEmail *string             `json:"primary_contact_email,omitempty"`
	PrimaryContactPhone *string             `json:"primary_contact_phone,omitempty"`
	LanguagesOffered    []string            `json:"languages_offered,omitempty"`
	ADAAccessible       *AccessibilityLevel `json:"ada_accessible,omitempty"`
	IsActive            *bool               `json:"is_active,omitempty"`
}

// ValidateCreate checks a payload destined for partner creation.
func (in PartnerInput) ValidateCreate() error {
	errs := ValidationErrors{}
	if in.OrganizationName == nil || strings.TrimSpace(*in.OrganizationName) == "" {
		errs.add("organization_name", "Organization name is required")
	}
	if in.OrganizationType == nil || *in.OrganizationType == "" {
		errs.add("organization_type", "Organization type is required")
	}
	in.validateFields(errs)
	return errs.orNil()
}

// ValidateUpdate checks only the fields that are present.
func (in PartnerInput) ValidateUpdate() error {
	errs := ValidationErrors{}
	if in.OrganizationName != nil && strings.TrimSpace(*in.OrganizationName) == "" {
		errs.add("organization_name", "Organization name cannot be empty")
	}
	in.validateFields(errs)
	return errs.orNil()
}

func (in PartnerInput) validateFields(errs ValidationErrors) {
	if in.OrganizationName != nil && len(*in.OrganizationName) > 255 {
		errs.add("organization_name", "Organization name must be at most 255 characters")
	}
	if in.OrganizationType != nil && *in.OrganizationType != "" && !in.OrganizationType.Valid() {
		errs.add("organization_type", "Unknown organization type")
	}
	if in.YearFounded != nil && (*in.YearFounded < 1800 || *in.YearFounded > 2100) {
		errs.add("year_founded", "Year founded must be between 1800 and 2100")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		errs.add("latitude", "Latitude must be between -90 and 90")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		errs.add("longitude", "Longitude must be between -180 and 180")
	}
	if in.PrimaryContactEmail != nil && *in.PrimaryContactEmail != "" {
		if _, err := mail.ParseAddress(*in.PrimaryContactEmail); err != nil {
			errs.add("primary_contact_email", "Enter a valid email address")
		}
	}
	if in.ADAAccessible != nil && !in.ADAAccessible.Valid() {
		errs.add("ada_accessible", "Accessibility must be yes, partial or no")
	}
}

// ApplyTo copies every supplied field onto p.
func (in PartnerInput) ApplyTo(p *Partner) {
	if in.OrganizationName != nil {
		p.OrganizationName = strings.TrimSpace(*in.OrganizationName)
	}
	if in.OrganizationType != nil {
		p.OrganizationType = *in.OrganizationType
	}
	if in.MissionStatement != nil {
		p.MissionStatement = *in.MissionStatement
	}
	if in.YearFounded != nil {
		p.YearFounded = Ptr(*in.YearFounded)
	}
	if in.PhysicalAddress != nil {
		p.PhysicalAddress = *in.PhysicalAddress
	}
	if in.Latitude != nil {
		p.Latitude = Ptr(*in.Latitude)
	}
	if in.Longitude != nil {
		p.Longitude = Ptr(*in.Longitude)
	}
	if in.PrimaryContactName != nil {
		p.PrimaryContactName = *in.PrimaryContactName
	}
	if in.PrimaryContactEmail != nil {
		p.PrimaryContactEmail = *in.PrimaryContactEmail
	}
	if in.PrimaryContactPhone != nil {
		p.PrimaryContactPhone = *in.PrimaryContactPhone
	}
	if in.LanguagesOffered != nil {
		p.LanguagesOffered = append([]string(nil), in.LanguagesOffered...)
	}
	if in.ADAAccessible != nil {
		p.ADAAccessible = *in.ADAAccessible
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}
