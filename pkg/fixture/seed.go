package fixture

import (
	"fmt"
	"strconv"

	"github.com/rmax-ai/partnermap/pkg/model"
)

// ActiveEvent is the disaster event every seeded dashboard refers to.
const ActiveEvent = "2024 Wildfire Season"

type seedPartner struct {
	name, kind, address, contact, email, mission string
	lat, lng                                     float64
	ada                                          model.AccessibilityLevel
	languages                                    []string
}

// Northern California directory, ordered by partner id "1".."12".
var seedPartners = []seedPartner{
	{"San Francisco Food Bank", "nonprofit", "900 Pennsylvania Ave, San Francisco, CA 94107", "Maria Chen", "maria@sffoodbank.org",
		"Ending hunger in San Francisco and Marin counties through food distribution and advocacy.",
		37.7535, -122.3937, model.AccessYes, []string{"English", "Spanish", "Mandarin"}},
	{"Bay Area Disaster Relief Coalition", "coalition", "500 Howard St, San Francisco, CA 94105", "David Wong", "david@badrc.org",
		"Coordinating disaster response across the nine-county Bay Area.",
		37.7879, -122.3962, model.AccessYes, []string{"English", "Spanish", "Mandarin", "Vietnamese"}},
	{"Oakland Community Services", "nonprofit", "1 Frank H. Ogawa Plaza, Oakland, CA 94612", "James Patterson", "james@oaklandcs.org",
		"Providing comprehensive social services to Oakland residents in need.",
		37.8044, -122.2712, model.AccessYes, []string{"English", "Spanish", "Cantonese"}},
	{"North Bay Fire Recovery Center", "nonprofit", "50 D Street, Santa Rosa, CA 95404", "Sarah Martinez", "sarah@nbfrc.org",
		"Supporting long-term recovery from wildfires in Sonoma, Napa, and Mendocino counties.",
		38.4404, -122.7141, model.AccessYes, []string{"English", "Spanish"}},
	{"Sacramento Regional Recovery Hub", "nonprofit", "1500 Capitol Mall, Sacramento, CA 95814", "Lisa Thompson", "lisa@sacrecovery.org",
		"Central hub for disaster recovery coordination in the Sacramento Valley.",
		38.5816, -121.4944, model.AccessYes, []string{"English", "Spanish", "Hmong", "Vietnamese"}},
	{"Marin County Emergency Services", "government", "1600 Los Gamos Dr, San Rafael, CA 94903", "Director Michael Lee", "mlee@marincounty.org",
		"Protecting Marin County residents through emergency preparedness and response.",
		38.0020, -122.5422, model.AccessYes, []string{"English", "Spanish"}},
	{"Silicon Valley Community Foundation", "nonprofit", "2440 W El Camino Real, Mountain View, CA 94040", "Jennifer Patel", "jennifer@svcf.org",
		"Advancing innovative solutions to community challenges in Silicon Valley.",
		37.4030, -122.1097, model.AccessYes, []string{"English", "Spanish", "Mandarin", "Hindi"}},
	{"Alameda County Social Services", "government", "2000 San Pablo Ave, Oakland, CA 94612", "Robert Garcia", "rgarcia@acgov.org",
		"Serving Alameda County's most vulnerable residents.",
		37.8115, -122.2726, model.AccessYes, []string{"English", "Spanish", "Cantonese", "Vietnamese"}},
	{"Napa Valley Community Resilience", "coalition", "1195 Third St, Napa, CA 94559", "Amanda Wilson", "amanda@napavalleyresilience.org",
		"Building community resilience in Napa Valley through collaborative partnerships.",
		38.2975, -122.2869, model.AccessPartial, []string{"English", "Spanish"}},
	{"Faith Community Alliance - San Jose", "faith_based", "170 W San Carlos St, San Jose, CA 95113", "Pastor Daniel Nguyen", "pastor.nguyen@fcasj.org",
		"Uniting faith communities to serve those in need across Santa Clara County.",
		37.3337, -121.8907, model.AccessYes, []string{"English", "Spanish", "Vietnamese", "Tagalog"}},
	{"Contra Costa Crisis Center", "nonprofit", "211 Civic Dr, Walnut Creek, CA 94596", "Dr. Emily Brooks", "ebrooks@cococrisis.org",
		"Providing crisis intervention and mental health support to Contra Costa County.",
		37.9023, -122.0645, model.AccessYes, []string{"English", "Spanish"}},
	{"Solano County Emergency Management", "government", "675 Texas St, Fairfield, CA 94533", "Director Patricia Jones", "pjones@solanocounty.com",
		"Protecting Solano County through comprehensive emergency management.",
		38.2494, -122.0400, model.AccessYes, []string{"English", "Spanish", "Tagalog"}},
}

func partners() []model.Partner {
	out := make([]model.Partner, 0, len(seedPartners))
	for i, s := range seedPartners {
		n := i + 1
		out = append(out, model.Partner{
			ID:                  strconv.Itoa(n),
			PartnerID:           fmt.Sprintf("PTR-%03d", n),
			OrganizationName:    s.name,
			OrganizationType:    model.OrganizationType(s.kind),
			MissionStatement:    s.mission,
			PhysicalAddress:     s.address,
			Latitude:            model.Ptr(s.lat),
			Longitude:           model.Ptr(s.lng),
			PrimaryContactName:  s.contact,
			PrimaryContactEmail: s.email,
			LanguagesOffered:    append([]string(nil), s.languages...),
			ADAAccessible:       s.ada,
			IsActive:            true,
			ApprovalStatus:      model.ApprovalApproved,
		})
	}
	return out
}

func services() []model.Service {
	svc := func(id, partner string, cat model.ServiceCategory, typ, name, access string) model.Service {
		return model.Service{ID: id, PartnerID: partner, Category: cat, ServiceType: typ, ServiceName: name, AccessType: access, IsActive: true}
	}
	return []model.Service{
		svc("s1", "1", model.CategoryFoodBasicNeeds, "food_pantry", "Weekly Food Distribution", "walk_in"),
		svc("s2", "1", model.CategoryFoodBasicNeeds, "produce_distribution", "Fresh Produce Program", "walk_in"),
		svc("s3", "2", model.CategoryCommunityResilience, "volunteer_coordination", "Volunteer Deployment", "appointment"),
		svc("s4", "2", model.CategoryHealthWellness, "case_management", "Disaster Case Management", "appointment"),
		svc("s5", "3", model.CategoryHousingStability, "rental_assistance", "Emergency Rental Aid", "appointment"),
		svc("s6", "3", model.CategoryEconomicSocial, "benefits_enrollment", "Benefits Navigation", "appointment"),
		svc("s7", "4", model.CategoryHousingStability, "navigation_services", "Housing Navigation", "appointment"),
		svc("s8", "4", model.CategoryHealthWellness, "mental_health_support", "Trauma Counseling", "appointment"),
		svc("s9", "5", model.CategoryCommunityResilience, "information_hub", "Resource Information Center", "walk_in"),
		svc("s10", "5", model.CategoryHousingStability, "utility_assistance", "Utility Bill Support", "appointment"),
		svc("s11", "6", model.CategoryCommunityResilience, "cooling_warming_space", "Emergency Shelter Operations", "walk_in"),
		svc("s12", "7", model.CategoryEconomicSocial, "financial_coaching", "Financial Empowerment", "appointment"),
		svc("s13", "7", model.CategoryHousingStability, "rental_assistance", "Housing Stability Fund", "appointment"),
		svc("s14", "8", model.CategoryFoodBasicNeeds, "food_pantry", "CalFresh Enrollment", "appointment"),
		svc("s15", "8", model.CategoryEconomicSocial, "job_readiness", "Employment Services", "appointment"),
		svc("s16", "9", model.CategoryCommunityResilience, "volunteer_coordination", "CERT Training", "appointment"),
		svc("s17", "10", model.CategoryFoodBasicNeeds, "hot_meals", "Community Meal Program", "walk_in"),
		svc("s18", "10", model.CategoryFoodBasicNeeds, "clothing", "Clothing Closet", "walk_in"),
		svc("s19", "11", model.CategoryHealthWellness, "mental_health_support", "Crisis Hotline", "walk_in"),
		svc("s20", "11", model.CategoryHealthWellness, "peer_support_groups", "Support Groups", "appointment"),
		svc("s21", "12", model.CategoryCommunityResilience, "information_hub", "Emergency Alerts", "walk_in"),
	}
}

func edges() []model.NetworkEdge {
	edge := func(id, a, b, typ string, strength model.RelationshipStrength, ctx model.RelationshipContext) model.NetworkEdge {
		return model.NetworkEdge{ID: id, PartnerAID: a, PartnerBID: b, RelationshipType: typ, RelationshipStrength: strength, RelationshipContext: ctx}
	}
	return []model.NetworkEdge{
		edge("e1", "1", "2", "disaster_coordination", model.StrengthStrong, model.ContextDisaster),
		edge("e2", "1", "3", "referrals_send", model.StrengthStrong, model.ContextSteadyState),
		edge("e3", "2", "4", "disaster_coordination", model.StrengthStrong, model.ContextDisaster),
		edge("e4", "2", "5", "disaster_coordination", model.StrengthStrong, model.ContextDisaster),
		edge("e5", "2", "6", "disaster_coordination", model.StrengthStrong, model.ContextDisaster),
		edge("e6", "3", "8", "joint_programs", model.StrengthStrong, model.ContextBoth),
		edge("e7", "4", "9", "information_sharing", model.StrengthStrong, model.ContextBoth),
		edge("e8", "5", "12", "disaster_coordination", model.StrengthOccasional, model.ContextDisaster),
		edge("e9", "6", "9", "disaster_coordination", model.StrengthOccasional, model.ContextDisaster),
		edge("e10", "7", "10", "shared_funding", model.StrengthStrong, model.ContextSteadyState),
		edge("e11", "7", "11", "referrals_send", model.StrengthOccasional, model.ContextBoth),
		edge("e12", "8", "11", "referrals_send", model.StrengthStrong, model.ContextBoth),
		edge("e13", "1", "10", "shared_volunteers", model.StrengthOccasional, model.ContextSteadyState),
		edge("e14", "3", "7", "information_sharing", model.StrengthEmerging, model.ContextSteadyState),
	}
}

func metricsSummary() model.MetricsSummary {
	return model.MetricsSummary{
		model.MetricClientsServed:       {Total: 156420, Count: 48, Average: 3258.75},
		model.MetricHouseholdsServed:    {Total: 42380, Count: 36, Average: 1177.22},
		model.MetricMealsServed:         {Total: 384500, Count: 24, Average: 16020.83},
		model.MetricVolunteersEngaged:   {Total: 8240, Count: 40, Average: 206},
		model.MetricFinancialAssistance: {Total: 2450000, Count: 28, Average: 87500},
		model.MetricReferralsMade:       {Total: 12840, Count: 32, Average: 401.25},
	}
}

func disasterDashboard() model.DisasterDashboard {
	return model.DisasterDashboard{
		TotalDisasterCapablePartners: 10,
		TotalCapabilities:            24,
		ActiveStatusReports:          5,
		StatusBreakdown: model.StatusBreakdown{
			Operational:    9,
			Limited:        2,
			NotOperational: 1,
			Unknown:        0,
		},
		CapabilitiesByType: model.CapabilitiesSummary{
			"feeding_support":      6,
			"mass_care_sheltering": 4,
			"emergency_supplies":   5,
			"case_management":      5,
			"volunteer_staging":    4,
		},
	}
}

var (
	degree      = []float64{0.42, 0.58, 0.33, 0.25, 0.33, 0.25, 0.33, 0.33, 0.25, 0.25, 0.25, 0.17}
	betweenness = []float64{0.28, 0.52, 0.22, 0.15, 0.18, 0.12, 0.25, 0.28, 0.10, 0.15, 0.18, 0.08}
	eigenvector = []float64{0.35, 0.48, 0.28, 0.22, 0.25, 0.20, 0.30, 0.32, 0.18, 0.22, 0.22, 0.12}
)

func networkAnalysis(ps []model.Partner) model.NetworkAnalysis {
	nodes := make([]model.NodeAnalysis, 0, len(ps))
	for i, p := range ps {
		community := 1
		if i < 6 {
			community = 0
		}
		nodes = append(nodes, model.NodeAnalysis{
			PartnerID:             p.ID,
			PartnerName:           p.OrganizationName,
			DegreeCentrality:      at(degree, i, 0.2),
			BetweennessCentrality: at(betweenness, i, 0.1),
			EigenvectorCentrality: at(eigenvector, i, 0.15),
			CommunityID:           model.Ptr(community),
		})
	}
	return model.NetworkAnalysis{
		NodeAnalysis: nodes,
		NetworkMetrics: model.NetworkMetrics{
			TotalNodes:        12,
			TotalEdges:        14,
			Density:           0.21,
			IsConnected:       true,
			NumComponents:     1,
			AverageClustering: 0.24,
		},
		Communities: []model.Community{
			{ID: 0, Members: []string{"1", "2", "3", "4", "5", "6"}, Size: 6},
			{ID: 1, Members: []string{"7", "8", "9", "10", "11", "12"}, Size: 6},
		},
		IsolatedNodes: []string{},
		KeyBridges: []model.KeyBridge{
			{PartnerID: "2", PartnerName: "Bay Area Disaster Relief Coalition", BetweennessCentrality: 0.52, DegreeCentrality: 0.58, EigenvectorCentrality: 0.48},
			{PartnerID: "1", PartnerName: "San Francisco Food Bank", BetweennessCentrality: 0.28, DegreeCentrality: 0.42, EigenvectorCentrality: 0.35},
			{PartnerID: "8", PartnerName: "Alameda County Social Services", BetweennessCentrality: 0.28, DegreeCentrality: 0.33, EigenvectorCentrality: 0.32},
			{PartnerID: "7", PartnerName: "Silicon Valley Community Foundation", BetweennessCentrality: 0.25, DegreeCentrality: 0.33, EigenvectorCentrality: 0.30},
			{PartnerID: "3", PartnerName: "Oakland Community Services", BetweennessCentrality: 0.22, DegreeCentrality: 0.33, EigenvectorCentrality: 0.28},
		},
	}
}

func coverage() model.Coverage {
	return model.Coverage{
		TotalPartners: 12,
		TotalServices: 21,
		ServicesByCategory: map[model.ServiceCategory]int{
			model.CategoryFoodBasicNeeds:      5,
			model.CategoryHealthWellness:      4,
			model.CategoryHousingStability:    5,
			model.CategoryEconomicSocial:      3,
			model.CategoryCommunityResilience: 4,
		},
		GeographicDistribution: []model.GeoBucket{
			{Lat: 37.8, Lng: -122.3, Count: 4},
			{Lat: 38.4, Lng: -122.7, Count: 2},
			{Lat: 38.5, Lng: -121.5, Count: 2},
			{Lat: 37.4, Lng: -122.1, Count: 2},
			{Lat: 37.9, Lng: -122.1, Count: 2},
		},
		AverageServicesPerPartner: 1.75,
	}
}

func gaps() model.GapAnalysis {
	return model.GapAnalysis{
		AnalysisType: "service_gap_analysis",
		SampleGaps: []model.ServiceGap{
			{AreaName: "East Oakland", SVIScore: 0.82, GapSeverity: "high", MissingServices: []string{"mental_health_support", "utility_assistance"}},
			{AreaName: "North Bay Rural", SVIScore: 0.65, GapSeverity: "medium", MissingServices: []string{"food_pantry", "transportation"}},
		},
	}
}

func equity() model.EquityAssessment {
	return model.EquityAssessment{
		AnalysisType: "equity_assessment",
		Summary: model.EquitySummary{
			EquityScore:           0.68,
			HighSVIServiceDensity: 1.4,
			LowSVIServiceDensity:  2.6,
			DisparityRatio:        1.86,
		},
		Recommendations: []string{
			"Expand food security services in East Oakland high-SVI census tracts",
			"Increase mental health support capacity in North Bay fire-affected areas",
			"Partner recruitment needed in Solano County underserved communities",
			"Consider mobile services for rural areas of Napa and Sonoma counties",
		},
	}
}

func readiness() model.ReadinessScore {
	return model.ReadinessScore{
		NetworkReadiness: model.NetworkReadiness{
			TotalPartners:                 12,
			TotalDisasterCapabilities:     24,
			AverageCapabilitiesPerPartner: 2.0,
		},
	}
}

func at(values []float64, i int, fallback float64) float64 {
	if i < len(values) {
		return values[i]
	}
	return fallback
}
