package reports

import (
	"context"
	"io"

	"github.com/rmax-ai/partnermap/pkg/model"
)

type ReportType string

const (
	ReportTypeDirectory ReportType = "directory"
	ReportTypeMetrics   ReportType = "metrics"
	ReportTypeStatus    ReportType = "disaster_status"
)

type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatJSON ReportFormat = "json"
)

func (f ReportFormat) ContentType() string {
	if f == ReportFormatJSON {
		return "application/json"
	}
	return "text/csv"
}

type ReportParams struct {
	Format ReportFormat

	// Optional filters; empty means all.
	PartnerID  string
	Category   model.ServiceCategory
	MetricType model.MetricType
}

// ReportStore is the data access reports need. client.API satisfies it.
type ReportStore interface {
	ListPartners(ctx context.Context) ([]model.Partner, error)
	ListServices(ctx context.Context, partnerID string) ([]model.Service, error)
	ListMetrics(ctx context.Context, filter model.MetricsFilter) ([]model.PartnerMetrics, error)
	DisasterStatuses(ctx context.Context) ([]model.DisasterStatus, error)
}

type Generator interface {
	Generate(ctx context.Context, params ReportParams) (io.Reader, error)
}
