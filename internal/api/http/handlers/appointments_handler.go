package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/barber-portal/internal/api/dto"
	"github.com/spec-kit/barber-portal/internal/auth"
	"github.com/spec-kit/barber-portal/internal/domain"
	"github.com/spec-kit/barber-portal/internal/service"
)

// AppointmentsHandler exposes the appointment lifecycle endpoints. The
// named transition endpoints check the current status before calling the
// service; the generic status endpoint overwrites unconditionally.
type AppointmentsHandler struct {
	schedule *service.ScheduleService
}

// NewAppointmentsHandler constructs handler.
func NewAppointmentsHandler(schedule *service.ScheduleService) *AppointmentsHandler {
	return &AppointmentsHandler{schedule: schedule}
}

// List handles GET /appointments.
func (h *AppointmentsHandler) List(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	return c.JSON(fiber.Map{"data": dto.NewAppointmentResponses(sess.Appointments())})
}

// Confirm handles POST /appointments/:id/confirm.
func (h *AppointmentsHandler) Confirm(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id := c.Params("id")
	if err := h.guardTransition(c, id, domain.AppointmentStatusConfirmed); err != nil {
		return err
	}
	if err := h.schedule.Confirm(c.UserContext(), sess, id); err != nil {
		return err
	}
	return h.respondWith(c, id)
}

// Start handles POST /appointments/:id/start.
func (h *AppointmentsHandler) Start(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id := c.Params("id")
	if err := h.guardTransition(c, id, domain.AppointmentStatusInProgress); err != nil {
		return err
	}
	if err := h.schedule.Start(c.UserContext(), sess, id); err != nil {
		return err
	}
	return h.respondWith(c, id)
}

// Complete handles POST /appointments/:id/complete.
func (h *AppointmentsHandler) Complete(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id := c.Params("id")
	if err := h.guardTransition(c, id, domain.AppointmentStatusCompleted); err != nil {
		return err
	}
	if err := h.schedule.Complete(c.UserContext(), sess, id); err != nil {
		return err
	}
	return h.respondWith(c, id)
}

// MarkNoShow handles POST /appointments/:id/no-show.
func (h *AppointmentsHandler) MarkNoShow(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id := c.Params("id")
	if err := h.guardTransition(c, id, domain.AppointmentStatusNoShow); err != nil {
		return err
	}
	if err := h.schedule.MarkNoShow(c.UserContext(), sess, id); err != nil {
		return err
	}
	return h.respondWith(c, id)
}

// SetStatus handles PATCH /appointments/:id/status. No transition guard
// is applied here, the target status is written as given.
func (h *AppointmentsHandler) SetStatus(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	id := c.Params("id")

	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	status := domain.AppointmentStatus(req.Status)
	if !status.Valid() {
		return fiber.NewError(http.StatusBadRequest, "unknown status "+req.Status)
	}

	if err := h.schedule.SetStatus(c.UserContext(), sess, id, status); err != nil {
		return err
	}
	return h.respondWith(c, id)
}

// History handles GET /appointments/:id/history.
func (h *AppointmentsHandler) History(c *fiber.Ctx) error {
	records, err := h.schedule.TransitionHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTransitionResponses(records)})
}

func (h *AppointmentsHandler) guardTransition(c *fiber.Ctx, id string, target domain.AppointmentStatus) error {
	sess, _ := auth.SessionFromContext(c)
	appt, ok := sess.FindAppointment(id)
	if !ok {
		// Unknown to the cache; let the service resolve it against the store.
		return nil
	}
	if !domain.CanTransition(appt.Status, target) {
		return fiber.NewError(http.StatusConflict,
			"cannot move appointment from "+string(appt.Status)+" to "+string(target))
	}
	return nil
}

func (h *AppointmentsHandler) respondWith(c *fiber.Ctx, id string) error {
	sess, _ := auth.SessionFromContext(c)
	if appt, ok := sess.FindAppointment(id); ok {
		return c.JSON(fiber.Map{"data": dto.NewAppointmentResponse(appt)})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "status": "updated"}})
}
