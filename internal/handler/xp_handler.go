package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/brightpath-labs/brightpath-api/internal/dto"
	"github.com/brightpath-labs/brightpath-api/internal/service"
	"github.com/brightpath-labs/brightpath-api/internal/utils"
)

// XpHandler accepts XP award triggers for non-exam actions.
type XpHandler struct {
	service   service.XpService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewXpHandler builds an XP handler instance.
func NewXpHandler(service service.XpService, validator *validator.Validate, logger zerolog.Logger) *XpHandler {
	return &XpHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "xp_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *XpHandler) Register(router fiber.Router) {
	router.Post("/video-watched", h.videoWatched)
	router.Post("/course-completed", h.courseCompleted)
}

func (h *XpHandler) videoWatched(c *fiber.Ctx) error {
	payload, err := h.parsePayload(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	h.service.AwardVideoWatched(payload.StudentEmail, payload.ReferenceID)

	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "xp award queued", nil)
}

func (h *XpHandler) courseCompleted(c *fiber.Ctx) error {
	payload, err := h.parsePayload(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	h.service.AwardCourseCompleted(payload.StudentEmail, payload.ReferenceID)

	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "xp award queued", nil)
}

func (h *XpHandler) parsePayload(c *fiber.Ctx) (dto.XpAwardRequest, error) {
	var payload dto.XpAwardRequest
	if err := c.BodyParser(&payload); err != nil {
		return payload, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.StudentEmail == "" {
		payload.StudentEmail = userEmailFromContext(c)
	}

	if err := h.validator.Struct(payload); err != nil {
		return payload, err
	}

	return payload, nil
}
