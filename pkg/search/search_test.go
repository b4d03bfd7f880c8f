package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmax-ai/partnermap/pkg/model"
)

func samplePartners() []model.Partner {
	return []model.Partner{
		{ID: "1", OrganizationName: "San Francisco Food Bank", PhysicalAddress: "900 Pennsylvania Ave, San Francisco", Latitude: model.Ptr(37.7535), Longitude: model.Ptr(-122.3937)},
		{ID: "2", OrganizationName: "Oakland Community Services", PhysicalAddress: "1 Frank H. Ogawa Plaza, Oakland", Latitude: model.Ptr(37.8044), Longitude: model.Ptr(-122.2712)},
		{ID: "3", OrganizationName: "Napa Valley Resilience", PhysicalAddress: "1195 Third St, Napa", Latitude: model.Ptr(38.2975), Longitude: model.Ptr(-122.2869)},
		{ID: "4", OrganizationName: "Mobile Pantry Collective", PhysicalAddress: "San Francisco"},
	}
}

func sampleServices() []model.Service {
	return []model.Service{
		{ID: "s1", PartnerID: "1", Category: model.CategoryFoodBasicNeeds},
		{ID: "s2", PartnerID: "2", Category: model.CategoryHousingStability},
		{ID: "s3", PartnerID: "3", Category: model.CategoryFoodBasicNeeds},
		{ID: "s4", PartnerID: "3", Category: model.CategoryCommunityResilience},
	}
}

func ids(partners []model.Partner) []string {
	out := make([]string, 0, len(partners))
	for _, p := range partners {
		out = append(out, p.ID)
	}
	return out
}

func TestPartners(t *testing.T) {
	tests := []struct {
		name   string
		params model.SearchParams
		want   []string
	}{
		{"empty query returns all", model.SearchParams{}, []string{"1", "2", "3", "4"}},
		{"name match is case insensitive", model.SearchParams{Query: "OAKLAND"}, []string{"2"}},
		{"address match", model.SearchParams{Query: "third st"}, []string{"3"}},
		{"name or address", model.SearchParams{Query: "san francisco"}, []string{"1", "4"}},
		{"category only", model.SearchParams{ServiceCategory: model.CategoryFoodBasicNeeds}, []string{"1", "3"}},
		{"query and category intersect", model.SearchParams{Query: "san francisco", ServiceCategory: model.CategoryFoodBasicNeeds}, []string{"1"}},
		{"no match", model.SearchParams{Query: "sacramento"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Partners(samplePartners(), sampleServices(), tt.params)
			assert.Equal(t, tt.want, ids(res.Results))
			assert.Equal(t, len(tt.want), res.Count)
		})
	}
}

func TestPartners_QueryWhitespaceIsSignificant(t *testing.T) {
	partners := []model.Partner{
		{ID: "a", OrganizationName: "Foodbank North", PhysicalAddress: "12 Main St"},
		{ID: "b", OrganizationName: "Food Bank South", PhysicalAddress: "40 Harbor Rd"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"leading space", " bank", []string{"b"}},
		{"trailing space", "food ", []string{"b"}},
		{"whitespace only", "   ", []string{}},
		{"no space", "bank", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Partners(partners, nil, model.SearchParams{Query: tt.query})
			assert.Equal(t, tt.want, ids(res.Results))
			assert.Equal(t, len(tt.want), res.Count)
		})
	}
}

func TestPartners_PaginationIsEchoedNotApplied(t *testing.T) {
	res := Partners(samplePartners(), sampleServices(), model.SearchParams{Limit: 1, Offset: 2})
	assert.Equal(t, 1, res.Limit)
	assert.Equal(t, 2, res.Offset)
	assert.Len(t, res.Results, 4)

	res = Partners(samplePartners(), sampleServices(), model.SearchParams{})
	assert.Equal(t, model.DefaultSearchLimit, res.Limit)
	assert.Equal(t, 0, res.Offset)
}

func TestNearby(t *testing.T) {
	// radius 5 -> threshold 0.1 degrees
	res := Nearby(samplePartners(), 37.78, -122.33, 5)
	assert.Equal(t, []string{"1", "2"}, ids(res.Results))
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, model.LatLng{Lat: 37.78, Lng: -122.33}, res.SearchLocation)

	res = Nearby(samplePartners(), 37.78, -122.33, 1)
	assert.Empty(t, res.Results)
}

func TestNearby_ThresholdIsStrict(t *testing.T) {
	partners := []model.Partner{{ID: "edge", Latitude: model.Ptr(0.1), Longitude: model.Ptr(0.0)}}
	res := Nearby(partners, 0, 0, 5)
	assert.Empty(t, res.Results, "a partner exactly on the threshold is excluded")
}

func TestNearby_ZeroRadiusMatchesNothing(t *testing.T) {
	partners := []model.Partner{{ID: "close", Latitude: model.Ptr(37.79), Longitude: model.Ptr(-122.33)}}

	res := Nearby(partners, 37.78, -122.33, 0)
	assert.Empty(t, res.Results)
	assert.Zero(t, res.Count)
	assert.Zero(t, res.RadiusMiles)

	res = Nearby(partners, 37.78, -122.33, -5)
	assert.Empty(t, res.Results)
	assert.Equal(t, -5.0, res.RadiusMiles)
}

func TestNearby_SkipsMissingCoordinates(t *testing.T) {
	res := Nearby(samplePartners(), 37.7535, -122.3937, 10000)
	require.Equal(t, 3, res.Count)
	assert.NotContains(t, ids(res.Results), "4")
}

func TestServices(t *testing.T) {
	res := Services(sampleServices())
	assert.Equal(t, 4, res.Count)
	assert.Len(t, res.Results, 4)
}
