package model

import "time"

// MetricType names a partner impact measure.
type MetricType string

const (
	MetricClientsServed         MetricType = "clients_served"
	MetricHouseholdsServed      MetricType = "households_served"
	MetricMealsServed           MetricType = "meals_served"
	MetricFoodPoundsDistributed MetricType = "food_pounds_distributed"
	MetricWorkshopsHeld         MetricType = "workshops_held"
	MetricWorkshopAttendance    MetricType = "workshop_attendance"
	MetricVolunteersEngaged     MetricType = "volunteers_engaged"
	MetricFinancialAssistance   MetricType = "financial_assistance"
	MetricGrantsDistributed     MetricType = "grants_distributed"
	MetricReferralsMade         MetricType = "referrals_made"
	MetricOther                 MetricType = "other"
)

var metricTypes = map[MetricType]bool{
	MetricClientsServed: true, MetricHouseholdsServed: true, MetricMealsServed: true,
	MetricFoodPoundsDistributed: true, MetricWorkshopsHeld: true, MetricWorkshopAttendance: true,
	MetricVolunteersEngaged: true, MetricFinancialAssistance: true, MetricGrantsDistributed: true,
	MetricReferralsMade: true, MetricOther: true,
}

func (m MetricType) Valid() bool { return metricTypes[m] }

// PartnerMetrics is one reported value for a reporting window.
type PartnerMetrics struct {
	ID                   string     `json:"id"`
	PartnerID            string     `json:"partner_id"`
	ReportingPeriodStart time.Time  `json:"reporting_period_start"`
	ReportingPeriodEnd   time.Time  `json:"reporting_period_end"`
	MetricType           MetricType `json:"metric_type"`
	MetricValue          float64    `json:"metric_value"`
	MeasurementUnit      string     `json:"measurement_unit,omitempty"`
	Verified             bool       `json:"verified"`
}

// MetricSummary aggregates every report of one metric type.
type MetricSummary struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// MetricsSummary is keyed by metric type.
type MetricsSummary map[MetricType]MetricSummary

// MetricsFilter narrows a metrics listing. Zero values mean "any".
type MetricsFilter struct {
	PartnerID  string
	MetricType MetricType
}

// TimeseriesPoint is a single value in a metric time series.
type TimeseriesPoint struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Value       float64   `json:"value"`
	PartnerID   string    `json:"partner_id"`
}

// MetricsInput is the create payload for a metrics report.
type MetricsInput struct {
	PartnerID            *string     `json:"partner_id,omitempty"`
	MetricType           *MetricType `json:"metric_type,omitempty"`
	MetricValue          *float64    `json:"metric_value,omitempty"`
	ReportingPeriodStart *time.Time  `json:"reporting_period_start,omitempty"`
	ReportingPeriodEnd   *time.Time  `json:"reporting_period_end,omitempty"`
	MeasurementUnit      *string     `json:"measurement_unit,omitempty"`
}

func (in MetricsInput) Validate() error {
	errs := ValidationErrors{}
	if in.PartnerID == nil || *in.PartnerID == "" {
		errs.add("partner_id", "Partner is required")
	}
	if in.MetricType == nil || !in.MetricType.Valid() {
		errs.add("metric_type", "Unknown metric type")
	}
	if in.MetricValue == nil {
		errs.add("metric_value", "Value is required")
	} else if *in.MetricValue < 0 {
		errs.add("metric_value", "Value cannot be negative")
	}
	if in.ReportingPeriodStart == nil {
		errs.add("reporting_period_start", "Period start is required")
	}
	if in.ReportingPeriodEnd == nil {
		errs.add("reporting_period_end", "Period end is required")
	}
	if in.ReportingPeriodStart != nil && in.ReportingPeriodEnd != nil && in.ReportingPeriodEnd.Before(*in.ReportingPeriodStart) {
		errs.add("reporting_period_end", "Period end must not precede period start")
	}
	return errs.orNil()
}

// Build turns a validated input into a metrics record.
func (in MetricsInput) Build(id string) PartnerMetrics {
	m := PartnerMetrics{
		ID:                   id,
		PartnerID:            *in.PartnerID,
		MetricType:           *in.MetricType,
		MetricValue:          *in.MetricValue,
		ReportingPeriodStart: *in.ReportingPeriodStart,
		ReportingPeriodEnd:   *in.ReportingPeriodEnd,
	}
	if in.MeasurementUnit != nil {
		m.MeasurementUnit = *in.MeasurementUnit
	}
	return m
}
