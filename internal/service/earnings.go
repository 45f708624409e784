package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/spec-kit/barber-portal/internal/domain"
)

// Period identifies a reporting window anchored at "now".
type Period string

const (
	PeriodToday   Period = "today"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// ServiceRevenue is one bucket of the ranked top-services list.
type ServiceRevenue struct {
	ServiceName string
	Revenue     float64
	Count       int
}

// PeriodReport aggregates completed appointments over one window.
// ChangePct is nil when no comparison with the preceding window is
// defined (any period other than month, or a zero previous total).
type PeriodReport struct {
	Period      Period
	From        time.Time
	Total       float64
	Count       int
	TopServices []ServiceRevenue
	ChangePct   *float64
}

// Summarize recomputes the earnings summary from scratch. It is a pure
// function of the appointment set, the commission rate and "now": only
// appointments whose status is exactly completed count, negative or
// missing prices are normalized to zero, and all window boundaries are
// inclusive. Week starts on the most recent Sunday; month on the first
// calendar day.
func Summarize(appointments []domain.Appointment, commissionRate float64, now time.Time) domain.EarningsSummary {
	if commissionRate <= 0 {
		commissionRate = domain.DefaultCommissionRate
	}

	today := dateOnly(now)
	weekFrom := today.AddDate(0, 0, -int(today.Weekday()))
	monthFrom := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	var summary domain.EarningsSummary
	for _, appt := range appointments {
		if appt.Status != domain.AppointmentStatusCompleted {
			continue
		}
		date := dateOnly(appt.Date)
		price := normalizePrice(appt.Price)
		if date.Equal(today) {
			summary.Today += price
		}
		if !date.Before(weekFrom) {
			summary.Week += price
		}
		if !date.Before(monthFrom) {
			summary.Month += price
		}
	}
	summary.Commission = summary.Month * commissionRate / 100
	return summary
}

// BuildPeriodReport aggregates completed appointments over an arbitrary
// window and ranks services by revenue. The percent-change comparison is
// computed against the previous calendar month and only for the month
// period; every other case reports no comparison.
func BuildPeriodReport(appointments []domain.Appointment, period Period, topN int, now time.Time) (PeriodReport, error) {
	today := dateOnly(now)

	var from time.Time
	switch period {
	case PeriodToday:
		from = today
	case PeriodWeek:
		from = today.AddDate(0, 0, -6)
	case PeriodMonth:
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	case PeriodQuarter:
		quarterMonth := time.Month((int(today.Month())-1)/3*3 + 1)
		from = time.Date(today.Year(), quarterMonth, 1, 0, 0, 0, 0, today.Location())
	case PeriodYear:
		from = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
	default:
		return PeriodReport{}, fmt.Errorf("unknown period %q", period)
	}

	report := PeriodReport{Period: period, From: from}
	buckets := map[string]*ServiceRevenue{}

	for _, appt := range appointments {
		if appt.Status != domain.AppointmentStatusCompleted {
			continue
		}
		date := dateOnly(appt.Date)
		if date.Before(from) || date.After(today) {
			continue
		}
		price := normalizePrice(appt.Price)
		report.Total += price
		report.Count++

		bucket, ok := buckets[appt.ServiceName]
		if !ok {
			bucket = &ServiceRevenue{ServiceName: appt.ServiceName}
			buckets[appt.ServiceName] = bucket
		}
		bucket.Revenue += price
		bucket.Count++
	}

	ranked := make([]ServiceRevenue, 0, len(buckets))
	for _, bucket := range buckets {
		ranked = append(ranked, *bucket)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].ServiceName < ranked[j].ServiceName
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	report.TopServices = ranked

	if period == PeriodMonth {
		prevFrom := from.AddDate(0, -1, 0)
		prevTotal := 0.0
		for _, appt := range appointments {
			if appt.Status != domain.AppointmentStatusCompleted {
				continue
			}
			date := dateOnly(appt.Date)
			if date.Before(prevFrom) || !date.Before(from) {
				continue
			}
			prevTotal += normalizePrice(appt.Price)
		}
		if prevTotal > 0 {
			change := (report.Total - prevTotal) / prevTotal * 100
			report.ChangePct = &change
		}
	}

	return report, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func normalizePrice(price float64) float64 {
	if price < 0 {
		return 0
	}
	return price
}
