package query

import (
	"strconv"
	"strings"

	"github.com/rmax-ai/partnermap/pkg/model"
)

// Resource families. A successful mutation invalidates every key under the
// families it affects.
const (
	FamilyPartners = "partners"
	FamilyServices = "services"
	FamilyMetrics  = "metrics"
	FamilyNetwork  = "network"
	FamilyDisaster = "disaster"
	FamilySearch   = "search"
	FamilyAnalysis = "analysis"
)

var (
	PartnerMutation = []string{FamilyPartners, FamilySearch, FamilyNetwork}
	ServiceMutation = []string{FamilyServices, FamilySearch, FamilyAnalysis}
	EdgeMutation    = []string{FamilyNetwork}
	MetricMutation  = []string{FamilyMetrics, FamilyAnalysis}
	StatusMutation  = []string{FamilyDisaster}
)

var (
	KeyPartners            = Key{FamilyPartners, "list"}
	KeyPartnersGeoJSON     = Key{FamilyPartners, "geojson"}
	KeyServiceCategories   = Key{FamilyServices, "categories"}
	KeyMetricsSummary      = Key{FamilyMetrics, "summary"}
	KeyNetworkGraph        = Key{FamilyNetwork, "graph"}
	KeyNetworkAnalysis     = Key{FamilyNetwork, "analysis"}
	KeyCapabilities        = Key{FamilyDisaster, "capabilities"}
	KeyCapabilitiesSummary = Key{FamilyDisaster, "capabilities", "summary"}
	KeyDisasterStatuses    = Key{FamilyDisaster, "status"}
	KeyActiveEvents        = Key{FamilyDisaster, "status", "events"}
	KeyDisasterDashboard   = Key{FamilyDisaster, "dashboard"}
	KeySearchServices      = Key{FamilySearch, "services"}
	KeyCoverage            = Key{FamilyAnalysis, "coverage"}
	KeyGaps                = Key{FamilyAnalysis, "gaps"}
	KeyEquity              = Key{FamilyAnalysis, "equity"}
	KeyImpactSummary       = Key{FamilyAnalysis, "impact-summary"}
	KeyReadiness           = Key{FamilyAnalysis, "readiness"}
)

func PartnerKey(id string) Key {
	return Key{FamilyPartners, "detail", id}
}

func ServicesKey(partnerID string) Key {
	return Key{FamilyServices, "list", "partner=" + partnerID}
}

func MetricsKey(f model.MetricsFilter) Key {
	return Key{FamilyMetrics, "list", "partner=" + f.PartnerID, "type=" + string(f.MetricType)}
}

func TimeseriesKey(metricType model.MetricType, partnerID string) Key {
	return Key{FamilyMetrics, "timeseries", "type=" + string(metricType), "partner=" + partnerID}
}

func ConnectionsKey(id string) Key {
	return Key{FamilyNetwork, "partner", id, "connections"}
}

// SearchKey changes whenever any search parameter changes, so a new query
// text or filter is a new fetch.
func SearchKey(p model.SearchParams) Key {
	return Key{FamilySearch, "partners",
		"q=" + p.Query,
		"category=" + string(p.ServiceCategory),
		"limit=" + strconv.Itoa(p.Limit),
		"offset=" + strconv.Itoa(p.Offset),
	}
}

// SearchParamsFromKey recovers the parameters a SearchKey was built from.
func SearchParamsFromKey(k Key) (model.SearchParams, bool) {
	var p model.SearchParams
	if len(k) != 6 || k[0] != FamilySearch || k[1] != "partners" {
		return p, false
	}
	q, ok1 := strings.CutPrefix(k[2], "q=")
	c, ok2 := strings.CutPrefix(k[3], "category=")
	l, ok3 := strings.CutPrefix(k[4], "limit=")
	o, ok4 := strings.CutPrefix(k[5], "offset=")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return p, false
	}
	limit, err := strconv.Atoi(l)
	if err != nil {
		return p, false
	}
	offset, err := strconv.Atoi(o)
	if err != nil {
		return p, false
	}
	return model.SearchParams{Query: q, ServiceCategory: model.ServiceCategory(c), Limit: limit, Offset: offset}, true
}

func NearbyKey(lat, lng, radiusMiles float64) Key {
	return Key{FamilySearch, "nearby", formatFloat(lat), formatFloat(lng), formatFloat(radiusMiles)}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
