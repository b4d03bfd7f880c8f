// Package search holds the directory filters shared by the fixture client
// and the fixture API server. Every function is pure: it reads the slices
// it is given and returns fresh result envelopes.
package search

import (
	"math"
	"strings"

	"github.com/rmax-ai/partnermap/pkg/model"
)

// Partners filters partners by a case-insensitive substring of name or
// address and by service category. Both filters must hold when both are set.
// The query is matched as given, whitespace included. Offset and limit are
// echoed in the envelope but not applied.
func Partners(partners []model.Partner, services []model.Service, params model.SearchParams) model.SearchResult {
	q := strings.ToLower(params.Query)

	var withCategory map[string]bool
	if params.ServiceCategory != "" {
		withCategory = make(map[string]bool)
		for _, s := range services {
			if s.Category == params.ServiceCategory {
				withCategory[s.PartnerID] = true
			}
		}
	}

	results := make([]model.Partner, 0, len(partners))
	for _, p := range partners {
		if q != "" && !matchesText(p, q) {
			continue
		}
		if withCategory != nil && !withCategory[p.ID] {
			continue
		}
		results = append(results, p)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = model.DefaultSearchLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	return model.SearchResult{
		Count:   len(results),
		Offset:  offset,
		Limit:   limit,
		Results: results,
	}
}

func matchesText(p model.Partner, q string) bool {
	return strings.Contains(strings.ToLower(p.OrganizationName), q) ||
		strings.Contains(strings.ToLower(p.PhysicalAddress), q)
}

// Nearby returns partners whose planar distance in degrees from (lat, lng)
// is strictly below radiusMiles/model.MilesPerDegree. This is a coarse
// approximation, not a geodesic distance. Partners without a coordinate are
// skipped. The radius is used as given, so a radius of zero or less matches
// nothing; callers apply model.DefaultRadiusMiles when none was supplied.
func Nearby(partners []model.Partner, lat, lng, radiusMiles float64) model.NearbyResult {
	threshold := radiusMiles / model.MilesPerDegree

	results := make([]model.Partner, 0)
	for _, p := range partners {
		plat, plng, ok := p.Coordinate()
		if !ok {
			continue
		}
		if PlanarDistance(plat, plng, lat, lng) < threshold {
			results = append(results, p)
		}
	}

	return model.NearbyResult{
		SearchLocation: model.LatLng{Lat: lat, Lng: lng},
		RadiusMiles:    radiusMiles,
		Count:          len(results),
		Results:        results,
	}
}

// PlanarDistance is the Euclidean distance between two points in degrees.
func PlanarDistance(lat1, lng1, lat2, lng2 float64) float64 {
	return math.Hypot(lat1-lat2, lng1-lng2)
}

// Services wraps a service listing in its search envelope.
func Services(services []model.Service) model.ServiceSearchResult {
	results := make([]model.Service, len(services))
	copy(results, services)
	return model.ServiceSearchResult{Count: len(results), Results: results}
}
