package model

// Defaults echoed by partner search and nearby search.
const (
	DefaultSearchLimit = 50
	DefaultRadiusMiles = 5.0
	// MilesPerDegree is the planar approximation used by nearby search:
	// a partner is nearby when its degree distance is below radius/MilesPerDegree.
	MilesPerDegree = 50.0
)

// SearchParams are the partner search filters. Empty fields are ignored.
type SearchParams struct {
	Query           string          `json:"q,omitempty"`
	ServiceCategory ServiceCategory `json:"service_category,omitempty"`
	Limit           int             `json:"limit,omitempty"`
	Offset          int             `json:"offset,omitempty"`
}

// SearchResult is the partner search envelope. Offset and Limit are echoed
// but not applied to Results.
type SearchResult struct {
	Count   int       `json:"count"`
	Offset  int       `json:"offset"`
	Limit   int       `json:"limit"`
	Results []Partner `json:"results"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NearbyResult is the envelope returned by nearby search.
type NearbyResult struct {
	SearchLocation LatLng    `json:"search_location"`
	RadiusMiles    float64   `json:"radius_miles"`
	Count          int       `json:"count"`
	Results        []Partner `json:"results"`
}

// ServiceSearchResult is the envelope returned by service search.
type ServiceSearchResult struct {
	Count   int       `json:"count"`
	Results []Service `json:"results"`
}
