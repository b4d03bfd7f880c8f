package reports

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rmax-ai/partnermap/pkg/model"
)

// DirectoryReport exports the partner directory with the service categories
// each partner offers.
type DirectoryReport struct {
	store ReportStore
}

func NewDirectoryReport(s ReportStore) *DirectoryReport {
	return &DirectoryReport{store: s}
}

func (r *DirectoryReport) Generate(ctx context.Context, params ReportParams) (io.Reader, error) {
	partners, err := r.store.ListPartners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	services, err := r.store.ListServices(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	categories := make(map[string]map[model.ServiceCategory]bool)
	for _, s := range services {
		if categories[s.PartnerID] == nil {
			categories[s.PartnerID] = make(map[model.ServiceCategory]bool)
		}
		categories[s.PartnerID][s.Category] = true
	}

	t := &table{headers: []string{
		"partner_id", "organization_name", "organization_type", "physical_address",
		"latitude", "longitude", "ada_accessible", "languages_offered",
		"service_categories", "approval_status", "created_at",
	}}
	for _, p := range partners {
		if params.PartnerID != "" && !p.Matches(params.PartnerID) {
			continue
		}
		offered := categories[p.ID]
		if params.Category != "" && !offered[params.Category] {
			continue
		}
		var cats []string
		for _, c := range model.ServiceCategoryOrder {
			if offered[c] {
				cats = append(cats, string(c))
			}
		}
		t.add(
			p.PartnerID,
			p.OrganizationName,
			string(p.OrganizationType),
			p.PhysicalAddress,
			formatCoord(p.Latitude),
			formatCoord(p.Longitude),
			string(p.ADAAccessible),
			strings.Join(p.LanguagesOffered, ";"),
			strings.Join(cats, ";"),
			string(p.ApprovalStatus),
			formatTime(p.CreatedAt),
		)
	}
	return t.encode(params.Format)
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(time.RFC3339)
}
