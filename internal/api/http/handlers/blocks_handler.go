package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/barber-portal/internal/api/dto"
	"github.com/spec-kit/barber-portal/internal/auth"
	"github.com/spec-kit/barber-portal/internal/domain"
	"github.com/spec-kit/barber-portal/internal/service"
)

const blockDateLayout = "2006-01-02"

// BlocksHandler exposes schedule block endpoints.
type BlocksHandler struct {
	schedule *service.ScheduleService
}

// NewBlocksHandler constructs handler.
func NewBlocksHandler(schedule *service.ScheduleService) *BlocksHandler {
	return &BlocksHandler{schedule: schedule}
}

// List handles GET /blocks.
func (h *BlocksHandler) List(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	return c.JSON(fiber.Map{"data": dto.NewBlockResponses(sess.Blocks())})
}

// Create handles POST /blocks.
func (h *BlocksHandler) Create(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	var req dto.BlockCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	blockType := domain.BlockType(req.Type)
	if !blockType.Valid() {
		return fiber.NewError(http.StatusBadRequest, "unknown block type "+req.Type)
	}
	if req.StartDate == "" {
		return fiber.NewError(http.StatusBadRequest, "start_date required")
	}
	start, err := time.Parse(blockDateLayout, req.StartDate)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "start_date must use YYYY-MM-DD")
	}
	end := start
	if req.EndDate != "" {
		end, err = time.Parse(blockDateLayout, req.EndDate)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "end_date must use YYYY-MM-DD")
		}
	}

	block, err := h.schedule.AddBlock(c.UserContext(), sess, service.BlockInput{
		Type:      blockType,
		StartDate: start,
		EndDate:   end,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		AllDay:    req.AllDay,
		Reason:    req.Reason,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBlockResponse(*block)})
}

// Delete handles DELETE /blocks/:id.
func (h *BlocksHandler) Delete(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)
	if err := h.schedule.RemoveBlock(c.UserContext(), sess, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "removed"}})
}
