package dto

import (
	"github.com/spec-kit/barber-portal/internal/domain"
	"github.com/spec-kit/barber-portal/internal/service"
)

// EarningsSummaryResponse is the API shape of the derived summary.
type EarningsSummaryResponse struct {
	Today      float64 `json:"today"`
	Week       float64 `json:"week"`
	Month      float64 `json:"month"`
	Commission float64 `json:"commission"`
}

// NewEarningsSummaryResponse maps the domain summary.
func NewEarningsSummaryResponse(summary domain.EarningsSummary) EarningsSummaryResponse {
	return EarningsSummaryResponse{
		Today:      summary.Today,
		Week:       summary.Week,
		Month:      summary.Month,
		Commission: summary.Commission,
	}
}

// ServiceRevenueResponse is one ranked service bucket.
type ServiceRevenueResponse struct {
	ServiceName string  `json:"service_name"`
	Revenue     float64 `json:"revenue"`
	Count       int     `json:"count"`
}

// PeriodReportResponse is the API shape of a period report. ChangePct is
// omitted when no comparison is defined.
type PeriodReportResponse struct {
	Period      string                   `json:"period"`
	From        string                   `json:"from"`
	Total       float64                  `json:"total"`
	Count       int                      `json:"count"`
	TopServices []ServiceRevenueResponse `json:"top_services"`
	ChangePct   *float64                 `json:"change_pct,omitempty"`
}

// NewPeriodReportResponse maps a service report.
func NewPeriodReportResponse(report service.PeriodReport) PeriodReportResponse {
	top := make([]ServiceRevenueResponse, 0, len(report.TopServices))
	for _, svc := range report.TopServices {
		top = append(top, ServiceRevenueResponse{
			ServiceName: svc.ServiceName,
			Revenue:     svc.Revenue,
			Count:       svc.Count,
		})
	}
	return PeriodReportResponse{
		Period:      string(report.Period),
		From:        report.From.Format("2006-01-02"),
		Total:       report.Total,
		Count:       report.Count,
		TopServices: top,
		ChangePct:   report.ChangePct,
	}
}
