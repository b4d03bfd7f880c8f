package model

import "time"

// OperationalStatus is a partner's ability to operate during an event.
type OperationalStatus string

const (
	StatusOperational    OperationalStatus = "operational"
	StatusLimited        OperationalStatus = "limited"
	StatusNotOperational OperationalStatus = "not_operational"
	StatusUnknown        OperationalStatus = "unknown"
)

func (s OperationalStatus) Valid() bool {
	switch s {
	case StatusOperational, StatusLimited, StatusNotOperational, StatusUnknown:
		return true
	}
	return false
}

// CapabilityPhase says whether a capability serves response, recovery or both.
type CapabilityPhase string

const (
	PhaseResponse CapabilityPhase = "response"
	PhaseRecovery CapabilityPhase = "recovery"
	PhaseBoth     CapabilityPhase = "both"
)

// DisasterCapability describes a partner's disaster-response capacity.
type DisasterCapability struct {
	ID                string          `json:"id"`
	PartnerID         string          `json:"partner_id"`
	CapabilityType    string          `json:"capability_type"`
	CapabilityPhase   CapabilityPhase `json:"capability_phase"`
	StaffCapacity     *int            `json:"staff_capacity,omitempty"`
	VolunteerCapacity *int            `json:"volunteer_capacity,omitempty"`
	IsCurrent         bool            `json:"is_current"`
}

// DisasterStatus is a point-in-time operational report tied to an event.
type DisasterStatus struct {
	ID                string            `json:"id"`
	PartnerID         string            `json:"partner_id"`
	DisasterEventName string            `json:"disaster_event_name"`
	OperationalStatus OperationalStatus `json:"operational_status"`
	ActiveServices    []string          `json:"active_services,omitempty"`
	LastUpdated       time.Time         `json:"last_updated"`
}

// StatusInput is the create payload for a disaster status report.
type StatusInput struct {
	PartnerID         *string            `json:"partner_id,omitempty"`
	DisasterEventName *string            `json:"disaster_event_name,omitempty"`
	OperationalStatus *OperationalStatus `json:"operational_status,omitempty"`
	ActiveServices    []string           `json:"active_services,omitempty"`
}

func (in StatusInput) Validate() error {
	errs := ValidationErrors{}
	if in.PartnerID == nil || *in.PartnerID == "" {
		errs.add("partner_id", "Partner is required")
	}
	if in.DisasterEventName == nil || *in.DisasterEventName == "" {
		errs.add("disaster_event_name", "Event name is required")
	}
	if in.OperationalStatus == nil || !in.OperationalStatus.Valid() {
		errs.add("operational_status", "Unknown operational status")
	}
	return errs.orNil()
}

// Build turns a validated input into a status report stamped at now.
func (in StatusInput) Build(id string, now time.Time) DisasterStatus {
	return DisasterStatus{
		ID:                id,
		PartnerID:         *in.PartnerID,
		DisasterEventName: *in.DisasterEventName,
		OperationalStatus: *in.OperationalStatus,
		ActiveServices:    append([]string(nil), in.ActiveServices...),
		LastUpdated:       now,
	}
}

// StatusBreakdown counts status reports per operational status.
type StatusBreakdown struct {
	Operational    int `json:"operational"`
	Limited        int `json:"limited"`
	NotOperational int `json:"not_operational"`
	Unknown        int `json:"unknown"`
}

// CapabilitiesSummary counts capabilities per capability type.
type CapabilitiesSummary map[string]int

// DisasterDashboard is the precomputed disaster overview.
type DisasterDashboard struct {
	TotalDisasterCapablePartners int                 `json:"total_disaster_capable_partners"`
	TotalCapabilities            int                 `json:"total_capabilities"`
	ActiveStatusReports          int                 `json:"active_status_reports"`
	StatusBreakdown              StatusBreakdown     `json:"status_breakdown"`
	CapabilitiesByType           CapabilitiesSummary `json:"capabilities_by_type"`
}

// ActiveEvents lists the disaster events with status reports.
type ActiveEvents struct {
	ActiveEvents []string `json:"active_events"`
}
