package reports

import (
	"fmt"
)

// NewReportGenerator creates a report generator based on the report type.
func NewReportGenerator(reportType ReportType, s ReportStore) (Generator, error) {
	switch reportType {
	case ReportTypeDirectory:
		return NewDirectoryReport(s), nil
	case ReportTypeMetrics:
		return NewMetricsReport(s), nil
	case ReportTypeStatus:
		return NewStatusReport(s), nil
	default:
		return nil, fmt.Errorf("unknown report type: %s", reportType)
	}
}

// ParseFormat accepts "", "csv" and "json"; "" means CSV.
func ParseFormat(s string) (ReportFormat, error) {
	switch ReportFormat(s) {
	case "", ReportFormatCSV:
		return ReportFormatCSV, nil
	case ReportFormatJSON:
		return ReportFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown report format: %s", s)
	}
}
