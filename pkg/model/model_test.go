package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/twpayne/go-geom/encoding/geojson"
)

func TestPartnerInput_ValidateCreate(t *testing.T) {
	tests := []struct {
		name      string
		input     PartnerInput
		wantField string
	}{
		{
			name: "valid minimal",
			input: PartnerInput{
				OrganizationName: Ptr("Richmond Tool Library"),
				OrganizationType: Ptr(OrgInformal),
			},
		},
		{
			name:      "missing name",
			input:     PartnerInput{OrganizationType: Ptr(OrgNonprofit)},
			wantField: "organization_name",
		},
		{
			name:      "blank name",
			input:     PartnerInput{OrganizationName: Ptr("   "), OrganizationType: Ptr(OrgNonprofit)},
			wantField: "organization_name",
		},
		{
			name:      "missing type",
			input:     PartnerInput{OrganizationName: Ptr("A")},
			wantField: "organization_type",
		},
		{
			name:      "unknown type",
			input:     PartnerInput{OrganizationName: Ptr("A"), OrganizationType: Ptr(OrganizationType("club"))},
			wantField: "organization_type",
		},
		{
			name: "latitude out of range",
			input: PartnerInput{
				OrganizationName: Ptr("A"), OrganizationType: Ptr(OrgNonprofit),
				Latitude: Ptr(90.5),
			},
			wantField: "latitude",
		},
		{
			name: "longitude out of range",
			input: PartnerInput{
				OrganizationName: Ptr("A"), OrganizationType: Ptr(OrgNonprofit),
				Longitude: Ptr(-180.01),
			},
			wantField: "longitude",
		},
		{
			name: "year too early",
			input: PartnerInput{
				OrganizationName: Ptr("A"), OrganizationType: Ptr(OrgNonprofit),
				YearFounded: Ptr(1799),
			},
			wantField: "year_founded",
		},
		{
			name: "bad email",
			input: PartnerInput{
				OrganizationName: Ptr("A"), OrganizationType: Ptr(OrgNonprofit),
				PrimaryContactEmail: Ptr("not-an-email"),
			},
			wantField: "primary_contact_email",
		},
		{
			name: "boundary values accepted",
			input: PartnerInput{
				OrganizationName: Ptr("A"), OrganizationType: Ptr(OrgGovernment),
				Latitude: Ptr(-90.0), Longitude: Ptr(180.0), YearFounded: Ptr(2100),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.ValidateCreate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateCreate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("ValidateCreate() = %v, want ErrInvalidInput", err)
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("error %T is not ValidationErrors", err)
			}
			if verrs.Field(tt.wantField) == "" {
				t.Errorf("expected message for %s, got %v", tt.wantField, verrs)
			}
		})
	}
}

func TestPartnerInput_ValidateUpdateAllowsPartial(t *testing.T) {
	in := PartnerInput{PhysicalAddress: Ptr("1 Main St")}
	if err := in.ValidateUpdate(); err != nil {
		t.Fatalf("ValidateUpdate() = %v, want nil", err)
	}

	in = PartnerInput{OrganizationName: Ptr("")}
	if err := in.ValidateUpdate(); err == nil {
		t.Fatal("expected error for emptied name")
	}
}

func TestPartnerInput_ApplyTo(t *testing.T) {
	p := Partner{ID: "1", OrganizationName: "Old", PhysicalAddress: "Somewhere"}
	PartnerInput{OrganizationName: Ptr(" New "), Latitude: Ptr(37.1)}.ApplyTo(&p)

	if p.OrganizationName != "New" {
		t.Errorf("OrganizationName = %q, want %q", p.OrganizationName, "New")
	}
	if p.PhysicalAddress != "Somewhere" {
		t.Errorf("PhysicalAddress changed to %q", p.PhysicalAddress)
	}
	if p.Latitude == nil || *p.Latitude != 37.1 {
		t.Errorf("Latitude = %v, want 37.1", p.Latitude)
	}
}

func TestValidationErrors_ErrorIsSorted(t *testing.T) {
	v := ValidationErrors{}
	v.add("b", "second")
	v.add("a", "first")
	v.add("a", "ignored")

	got := v.Error()
	want := "invalid input: a: first; b: second"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestServiceInput_Validate(t *testing.T) {
	cats := DefaultServiceCategories()

	ok := ServiceInput{
		PartnerID:   Ptr("1"),
		Category:    Ptr(CategoryFoodBasicNeeds),
		ServiceType: Ptr("hot_meals"),
	}
	if err := ok.Validate(cats); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	wrong := ok
	wrong.ServiceType = Ptr("rental_assistance")
	err := wrong.Validate(cats)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || verrs.Field("service_type") == "" {
		t.Fatalf("Validate() = %v, want service_type error", err)
	}
}

func TestMetricsInput_ValidatePeriodOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := MetricsInput{
		PartnerID:            Ptr("1"),
		MetricType:           Ptr(MetricMealsServed),
		MetricValue:          Ptr(10.0),
		ReportingPeriodStart: Ptr(start),
		ReportingPeriodEnd:   Ptr(start.Add(-time.Hour)),
	}
	err := in.Validate()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || verrs.Field("reporting_period_end") == "" {
		t.Fatalf("Validate() = %v, want reporting_period_end error", err)
	}
}

func TestEdgeInput_ValidateRejectsSelfLoop(t *testing.T) {
	in := EdgeInput{
		PartnerAID:       Ptr("1"),
		PartnerBID:       Ptr("1"),
		RelationshipType: Ptr("joint_programs"),
	}
	if err := in.Validate(); err == nil {
		t.Fatal("expected self loop to be rejected")
	}

	in.PartnerBID = Ptr("2")
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	e := in.Build("e99")
	if e.RelationshipStrength != StrengthOccasional || e.RelationshipContext != ContextBoth {
		t.Errorf("defaults = %s/%s, want occasional/both", e.RelationshipStrength, e.RelationshipContext)
	}
}

func TestPartnerFeatures_RoundTrip(t *testing.T) {
	partners := []Partner{
		{ID: "1", PartnerID: "PTR-001", OrganizationName: "Food Bank", OrganizationType: OrgNonprofit, Latitude: Ptr(37.75), Longitude: Ptr(-122.39)},
		{ID: "2", PartnerID: "PTR-002", OrganizationName: "No Location", OrganizationType: OrgInformal},
	}

	fc := PartnerFeatures(partners)
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}

	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"coordinates":[-122.39,37.75]`) {
		t.Errorf("coordinates not in lng,lat order: %s", data)
	}

	var decoded geojson.FeatureCollection
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ref, ok := FeatureRef(decoded.Features[0])
	if !ok {
		t.Fatal("FeatureRef failed on decoded feature")
	}
	if ref.ID != "1" || ref.PartnerID != "PTR-001" || ref.Latitude != 37.75 || ref.Longitude != -122.39 {
		t.Errorf("FeatureRef() = %+v", ref)
	}
}
