package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/brightpath-labs/brightpath-api/internal/dto"
	"github.com/brightpath-labs/brightpath-api/internal/middleware"
	"github.com/brightpath-labs/brightpath-api/internal/service"
	"github.com/brightpath-labs/brightpath-api/internal/utils"
)

// LeaderboardHandler serves ranked standings and admin resets.
type LeaderboardHandler struct {
	service   service.LeaderboardService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewLeaderboardHandler builds a leaderboard handler instance.
func NewLeaderboardHandler(service service.LeaderboardService, validator *validator.Validate, logger zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "leaderboard_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *LeaderboardHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Post("/reset", middleware.RequireRole("admin"), h.reset)
}

func (h *LeaderboardHandler) get(c *fiber.Ctx) error {
	scope := c.Query("scope", service.ScopeGlobal)

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	response, err := h.service.Get(c.Context(), scope, page, pageSize)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leaderboard retrieved", response)
}

func (h *LeaderboardHandler) reset(c *fiber.Ctx) error {
	var payload dto.LeaderboardResetRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return h.handleError(c, err)
	}

	audit, err := h.service.Reset(c.Context(), payload.Scope, userEmailFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "leaderboard reset", dto.NewLeaderboardAuditResponse(audit))
}

func (h *LeaderboardHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidScope):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid leaderboard scope")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
