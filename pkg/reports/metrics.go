package reports

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rmax-ai/partnermap/pkg/model"
)

// MetricsReport exports impact metric reports.
type MetricsReport struct {
	store ReportStore
}

func NewMetricsReport(s ReportStore) *MetricsReport {
	return &MetricsReport{store: s}
}

func (r *MetricsReport) Generate(ctx context.Context, params ReportParams) (io.Reader, error) {
	metrics, err := r.store.ListMetrics(ctx, model.MetricsFilter{PartnerID: params.PartnerID, MetricType: params.MetricType})
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}

	t := &table{headers: []string{"id", "partner_id", "metric_type", "metric_value", "measurement_unit", "period_start", "period_end", "verified"}}
	for _, m := range metrics {
		t.add(
			m.ID,
			m.PartnerID,
			string(m.MetricType),
			strconv.FormatFloat(m.MetricValue, 'f', -1, 64),
			m.MeasurementUnit,
			formatTime(m.ReportingPeriodStart),
			formatTime(m.ReportingPeriodEnd),
			strconv.FormatBool(m.Verified),
		)
	}
	return t.encode(params.Format)
}

// StatusReport exports disaster operational status reports.
type StatusReport struct {
	store ReportStore
}

func NewStatusReport(s ReportStore) *StatusReport {
	return &StatusReport{store: s}
}

func (r *StatusReport) Generate(ctx context.Context, params ReportParams) (io.Reader, error) {
	statuses, err := r.store.DisasterStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list disaster status: %w", err)
	}

	t := &table{headers: []string{"id", "partner_id", "disaster_event_name", "operational_status", "active_services", "last_updated"}}
	for _, s := range statuses {
		if params.PartnerID != "" && s.PartnerID != params.PartnerID {
			continue
		}
		t.add(
			s.ID,
			s.PartnerID,
			s.DisasterEventName,
			string(s.OperationalStatus),
			strings.Join(s.ActiveServices, ";"),
			formatTime(s.LastUpdated),
		)
	}
	return t.encode(params.Format)
}
