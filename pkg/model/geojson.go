package model

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// PartnerFeatures builds the map feature collection for partners. Partners
// without both coordinates are left out since they cannot be placed.
func PartnerFeatures(partners []Partner) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(partners))}
	for _, p := range partners {
		lat, lng, ok := p.Coordinate()
		if !ok {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{lng, lat}),
			Properties: map[string]interface{}{
				"id":             p.ID,
				"partner_id":     p.PartnerID,
				"name":           p.OrganizationName,
				"type":           string(p.OrganizationType),
				"address":        p.PhysicalAddress,
				"ada_accessible": string(p.ADAAccessible),
			},
		})
	}
	return fc
}

// FeatureRef resolves a map feature back to the partner identity it was
// built from. It fails for features that are not points or lack an id.
func FeatureRef(f *geojson.Feature) (PartnerRef, bool) {
	if f == nil {
		return PartnerRef{}, false
	}
	pt, ok := f.Geometry.(*geom.Point)
	if !ok || pt.Empty() {
		return PartnerRef{}, false
	}
	ref := PartnerRef{
		ID:        stringProp(f.Properties, "id"),
		PartnerID: stringProp(f.Properties, "partner_id"),
		Name:      stringProp(f.Properties, "name"),
		Type:      stringProp(f.Properties, "type"),
		Address:   stringProp(f.Properties, "address"),
		Longitude: pt.X(),
		Latitude:  pt.Y(),
	}
	if ref.ID == "" {
		return PartnerRef{}, false
	}
	return ref, true
}

func stringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}
