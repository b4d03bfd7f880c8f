package fixture

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmax-ai/partnermap/pkg/model"
)

var fixedNow = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	return New(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "3f2a9c1e-0000-4000-8000-000000000001" }),
	)
}

func TestSeedCounts(t *testing.T) {
	s := newTestStore()
	assert.Len(t, s.Partners(), 12)
	assert.Len(t, s.Services(""), 21)
	g := s.NetworkGraph()
	assert.Equal(t, 12, g.Summary.TotalNodes)
	assert.Equal(t, 14, g.Summary.TotalEdges)
}

func TestDashboardScenario(t *testing.T) {
	d := newTestStore().DisasterDashboard()
	assert.Equal(t, 10, d.TotalDisasterCapablePartners)
	assert.Equal(t, 9, d.StatusBreakdown.Operational)
	assert.Equal(t, 24, d.TotalCapabilities)
}

func TestCoverageScenario(t *testing.T) {
	c := newTestStore().Coverage()
	assert.Equal(t, 12, c.TotalPartners)
	assert.Equal(t, 21, c.TotalServices)
	assert.Equal(t, 1.75, c.AverageServicesPerPartner)
}

func TestPartnerLookupByEitherIdentifier(t *testing.T) {
	s := newTestStore()

	byID, err := s.Partner("3")
	require.NoError(t, err)
	byExternal, err := s.Partner("PTR-003")
	require.NoError(t, err)
	assert.Equal(t, byID, byExternal)
	assert.Equal(t, "Oakland Community Services", byID.OrganizationName)

	_, err = s.Partner("nope")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestCreatePartner(t *testing.T) {
	s := newTestStore()

	p, err := s.CreatePartner(model.PartnerInput{
		OrganizationName: model.Ptr("Richmond Tool Library"),
		OrganizationType: model.Ptr(model.OrgInformal),
		Latitude:         model.Ptr(37.93),
		Longitude:        model.Ptr(-122.35),
	})
	require.NoError(t, err)

	assert.Equal(t, "3f2a9c1e-0000-4000-8000-000000000001", p.ID)
	assert.Equal(t, "PTR-3F2A9C1E", p.PartnerID)
	assert.Equal(t, model.ApprovalPending, p.ApprovalStatus)
	assert.True(t, p.IsActive)
	assert.Equal(t, fixedNow, p.CreatedAt)

	assert.Len(t, s.Partners(), 13)
	assert.Len(t, s.PartnersGeoJSON().Features, 13)
}

func TestCreatePartnerRejectsInvalidInput(t *testing.T) {
	s := newTestStore()
	_, err := s.CreatePartner(model.PartnerInput{OrganizationName: model.Ptr("No type")})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Len(t, s.Partners(), 12)
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	s := newTestStore()
	p, err := s.Partner("1")
	require.NoError(t, err)

	*p.Latitude = 0
	p.LanguagesOffered[0] = "Klingon"

	again, err := s.Partner("1")
	require.NoError(t, err)
	assert.Equal(t, 37.7535, *again.Latitude)
	assert.Equal(t, "English", again.LanguagesOffered[0])
}

func TestUpdatePartner(t *testing.T) {
	s := newTestStore()
	p, err := s.UpdatePartner("PTR-002", model.PartnerInput{PrimaryContactName: model.Ptr("Ana Ruiz")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", p.PrimaryContactName)
	assert.Equal(t, "Bay Area Disaster Relief Coalition", p.OrganizationName)
	assert.Equal(t, fixedNow, p.UpdatedAt)

	_, err = s.UpdatePartner("missing", model.PartnerInput{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeletePartnerIsSoft(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.DeletePartner("2"))

	assert.Len(t, s.Partners(), 11)
	p, err := s.Partner("2")
	require.NoError(t, err)
	assert.False(t, p.IsActive)

	g := s.NetworkGraph()
	assert.Equal(t, 11, g.Summary.TotalNodes)
	// e1, e3, e4, e5 touch partner 2
	assert.Equal(t, 10, g.Summary.TotalEdges)

	res := s.SearchPartners(model.SearchParams{Query: "disaster relief"})
	assert.Equal(t, 0, res.Count)

	assert.ErrorIs(t, s.DeletePartner("missing"), model.ErrNotFound)
}

func TestApprovePartner(t *testing.T) {
	s := newTestStore()
	p, err := s.CreatePartner(model.PartnerInput{
		OrganizationName: model.Ptr("New Org"),
		OrganizationType: model.Ptr(model.OrgNonprofit),
	})
	require.NoError(t, err)

	res, err := s.ApprovePartner(p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalResult{Status: model.ApprovalApproved, PartnerID: p.PartnerID}, res)
}

func TestServices(t *testing.T) {
	s := newTestStore()
	assert.Len(t, s.Services("1"), 2)
	assert.Len(t, s.Services("PTR-001"), 2)
	assert.Empty(t, s.Services("999"))

	svc, err := s.CreateService(model.ServiceInput{
		PartnerID:   model.Ptr("PTR-006"),
		Category:    model.Ptr(model.CategoryFoodBasicNeeds),
		ServiceType: model.Ptr("hygiene_kits"),
	})
	require.NoError(t, err)
	assert.Equal(t, "6", svc.PartnerID)
	assert.Len(t, s.Services("6"), 2)

	_, err = s.CreateService(model.ServiceInput{
		PartnerID:   model.Ptr("999"),
		Category:    model.Ptr(model.CategoryFoodBasicNeeds),
		ServiceType: model.Ptr("hygiene_kits"),
	})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestSearchByCategoryUsesServices(t *testing.T) {
	s := newTestStore()
	res := s.SearchPartners(model.SearchParams{ServiceCategory: model.CategoryHealthWellness})
	var ids []string
	for _, p := range res.Results {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"2", "4", "11"}, ids)
}

func TestConnections(t *testing.T) {
	s := newTestStore()
	c, err := s.PartnerConnections("2")
	require.NoError(t, err)
	assert.Equal(t, 4, c.TotalConnections)

	_, err = s.CreateEdge(model.EdgeInput{
		PartnerAID:       model.Ptr("2"),
		PartnerBID:       model.Ptr("PTR-011"),
		RelationshipType: model.Ptr("information_sharing"),
	})
	require.NoError(t, err)

	c, err = s.PartnerConnections("PTR-002")
	require.NoError(t, err)
	assert.Equal(t, 5, c.TotalConnections)
	assert.Equal(t, "2", c.PartnerID)

	_, err = s.PartnerConnections("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCreateEdgeRejectsUnknownPartner(t *testing.T) {
	s := newTestStore()
	_, err := s.CreateEdge(model.EdgeInput{
		PartnerAID:       model.Ptr("1"),
		PartnerBID:       model.Ptr("404"),
		RelationshipType: model.Ptr("joint_programs"),
	})
	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.NotEmpty(t, verrs.Field("partner_b_id"))
}

func TestMetricsFoldIntoSummary(t *testing.T) {
	s := newTestStore()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, v := range []float64{300, 100} {
		_, err := s.CreateMetrics(model.MetricsInput{
			PartnerID:            model.Ptr("1"),
			MetricType:           model.Ptr(model.MetricWorkshopsHeld),
			MetricValue:          model.Ptr(v),
			ReportingPeriodStart: model.Ptr(start.AddDate(0, 1-i, 0)),
			ReportingPeriodEnd:   model.Ptr(start.AddDate(0, 2-i, 0)),
		})
		require.NoError(t, err)
	}

	sum := s.MetricsSummary()[model.MetricWorkshopsHeld]
	assert.Equal(t, model.MetricSummary{Total: 400, Count: 2, Average: 200}, sum)
	assert.Equal(t, 156420.0, s.MetricsSummary()[model.MetricClientsServed].Total)

	series := s.MetricsTimeseries(model.MetricWorkshopsHeld, "PTR-001")
	require.Len(t, series, 2)
	assert.Equal(t, 100.0, series[0].Value)
	assert.Equal(t, 300.0, series[1].Value)

	assert.Len(t, s.Metrics(model.MetricsFilter{PartnerID: "2"}), 0)
}

func TestDisasterStatus(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, []string{ActiveEvent}, s.ActiveEvents().ActiveEvents)

	st, err := s.CreateDisasterStatus(model.StatusInput{
		PartnerID:         model.Ptr("4"),
		DisasterEventName: model.Ptr("2025 Atmospheric River"),
		OperationalStatus: model.Ptr(model.StatusLimited),
	})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, st.LastUpdated)

	assert.Len(t, s.DisasterStatuses(), 1)
	assert.Equal(t, []string{ActiveEvent, "2025 Atmospheric River"}, s.ActiveEvents().ActiveEvents)

	_, err = s.CreateDisasterStatus(model.StatusInput{
		PartnerID:         model.Ptr("4"),
		DisasterEventName: model.Ptr("x"),
		OperationalStatus: model.Ptr(model.OperationalStatus("sideways")),
	})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestAnalysisIsPrecomputed(t *testing.T) {
	a := newTestStore().NetworkAnalysis()
	require.Len(t, a.NodeAnalysis, 12)
	n, ok := a.Node("2")
	require.True(t, ok)
	assert.Equal(t, 0.58, n.DegreeCentrality)
	assert.Equal(t, 0, *n.CommunityID)
	last, _ := a.Node("12")
	assert.Equal(t, 1, *last.CommunityID)
	assert.Equal(t, "2", a.KeyBridges[0].PartnerID)
}

func TestSummarize(t *testing.T) {
	res := newTestStore().Summarize(model.SummarizeRequest{Prompt: "overview"})
	assert.Contains(t, res.Summary, "network of 12 organizations")
	assert.Equal(t, "overview", res.ContextUsed)
}
