package model

// GeoBucket is a coarse location with a partner count.
type GeoBucket struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Count int     `json:"count"`
}

// Coverage summarizes service coverage across the directory.
type Coverage struct {
	TotalPartners             int                     `json:"total_partners"`
	TotalServices             int                     `json:"total_services"`
	ServicesByCategory        map[ServiceCategory]int `json:"services_by_category"`
	GeographicDistribution    []GeoBucket             `json:"geographic_distribution"`
	AverageServicesPerPartner float64                 `json:"average_services_per_partner"`
}

type ServiceGap struct {
	AreaName        string   `json:"area_name"`
	SVIScore        float64  `json:"svi_score"`
	GapSeverity     string   `json:"gap_severity"`
	MissingServices []string `json:"missing_services"`
}

type GapAnalysis struct {
	AnalysisType string       `json:"analysis_type"`
	SampleGaps   []ServiceGap `json:"sample_gaps"`
}

type EquitySummary struct {
	EquityScore           float64 `json:"equity_score"`
	HighSVIServiceDensity float64 `json:"high_svi_service_density"`
	LowSVIServiceDensity  float64 `json:"low_svi_service_density"`
	DisparityRatio        float64 `json:"disparity_ratio"`
}

type EquityAssessment struct {
	AnalysisType    string        `json:"analysis_type"`
	Summary         EquitySummary `json:"summary"`
	Recommendations []string      `json:"recommendations"`
}

type ImpactSummary struct {
	Metrics MetricsSummary `json:"metrics"`
}

type NetworkReadiness struct {
	TotalPartners                 int     `json:"total_partners"`
	TotalDisasterCapabilities     int     `json:"total_disaster_capabilities"`
	AverageCapabilitiesPerPartner float64 `json:"average_capabilities_per_partner"`
}

type ReadinessScore struct {
	NetworkReadiness NetworkReadiness `json:"network_readiness"`
}

// SummarizeRequest asks for a narrative summary of the network.
type SummarizeRequest struct {
	Prompt    string `json:"prompt"`
	PartnerID string `json:"partner_id,omitempty"`
}

type SummarizeResponse struct {
	Summary     string `json:"summary"`
	ContextUsed string `json:"context_used"`
}
