package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/brightpath-labs/brightpath-api/internal/dto"
	"github.com/brightpath-labs/brightpath-api/internal/service"
	"github.com/brightpath-labs/brightpath-api/internal/utils"
)

// SubmissionHandler manages exam submissions and scored results.
type SubmissionHandler struct {
	service   service.ScoringService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.ScoringService, validator *validator.Validate, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Post("/:id/submissions", h.submit)
	router.Get("/:id/results", h.result)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if payload.StudentEmail == "" {
		payload.StudentEmail = userEmailFromContext(c)
	}

	if err := h.validator.Struct(payload); err != nil {
		return h.handleError(c, err)
	}

	result, err := h.service.SubmitExam(c.Context(), examID, payload.StudentEmail, payload.Answers)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission scored", dto.NewExamResultResponse(result))
}

func (h *SubmissionHandler) result(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	email := strings.TrimSpace(c.Query("student_email"))
	if email == "" {
		email = userEmailFromContext(c)
	}
	if email == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "student email is required")
	}

	result, err := h.service.GetResult(c.Context(), examID, email)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "result retrieved", dto.NewExamResultResponse(result))
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "exam not found")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "result not found")
	case errors.Is(err, service.ErrExamClosed):
		return utils.SendError(c, fiber.StatusForbidden, "exam is not open for submissions")
	case errors.Is(err, service.ErrAlreadyCompleted):
		return utils.SendError(c, fiber.StatusConflict, "exam already completed by this student")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
