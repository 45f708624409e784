package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/barber-portal/internal/api/dto"
	"github.com/spec-kit/barber-portal/internal/auth"
	"github.com/spec-kit/barber-portal/internal/domain"
	"github.com/spec-kit/barber-portal/internal/service"
)

const defaultTopServices = 5

// EarningsHandler exposes the derived earnings views. Everything here is
// computed from the session cache; no store round trip is involved.
type EarningsHandler struct{}

// NewEarningsHandler constructs handler.
func NewEarningsHandler() *EarningsHandler {
	return &EarningsHandler{}
}

// Summary handles GET /earnings.
func (h *EarningsHandler) Summary(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	return c.JSON(fiber.Map{"data": dto.NewEarningsSummaryResponse(sess.Earnings())})
}

// Report handles GET /earnings/report?period=month&top=5.
func (h *EarningsHandler) Report(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	report, err := h.buildReport(c, sess.Appointments())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPeriodReportResponse(report)})
}

// Export handles GET /earnings/report/export. It renders the same report
// as a spreadsheet and streams it back as an attachment.
func (h *EarningsHandler) Export(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	report, err := h.buildReport(c, sess.Appointments())
	if err != nil {
		return err
	}
	payload, err := service.ExportPeriodReport(report, sess.Settings())
	if err != nil {
		return err
	}

	filename := "earnings-" + string(report.Period) + "-" + report.From.Format("2006-01-02") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(payload)
}

func (h *EarningsHandler) buildReport(c *fiber.Ctx, appointments []domain.Appointment) (service.PeriodReport, error) {
	period := service.Period(c.Query("period", string(service.PeriodMonth)))

	topN := defaultTopServices
	if raw := c.Query("top"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return service.PeriodReport{}, fiber.NewError(http.StatusBadRequest, "top must be a positive integer")
		}
		topN = parsed
	}

	report, err := service.BuildPeriodReport(appointments, period, topN, time.Now())
	if err != nil {
		return service.PeriodReport{}, fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return report, nil
}
