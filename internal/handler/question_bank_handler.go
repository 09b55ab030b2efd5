package handler

import (
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/brightpath-labs/brightpath-api/internal/dto"
	"github.com/brightpath-labs/brightpath-api/internal/service"
	"github.com/brightpath-labs/brightpath-api/internal/utils"
)

// QuestionBankHandler manages question bank ingestion and listing.
type QuestionBankHandler struct {
	service service.QuestionBankService
	logger  zerolog.Logger
}

// NewQuestionBankHandler builds a question bank handler instance.
func NewQuestionBankHandler(service service.QuestionBankService, logger zerolog.Logger) *QuestionBankHandler {
	return &QuestionBankHandler{
		service: service,
		logger:  logger.With().Str("component", "question_bank_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *QuestionBankHandler) Register(router fiber.Router) {
	router.Post("/:id/questions/import", h.importBank)
	router.Get("/:id/questions", h.listQuestions)
}

func (h *QuestionBankHandler) importBank(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "bank file is required")
	}

	reader, err := file.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to open bank file")
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to read bank file")
	}

	// Banks are plain comma-separated text; reject binary uploads early.
	mime := mimetype.Detect(raw)
	if !mime.Is("text/plain") && !mime.Is("text/csv") {
		return utils.SendError(c, fiber.StatusBadRequest, "bank file must be plain text")
	}

	questions, err := h.service.Import(c.Context(), examID, string(raw))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "question bank imported", dto.BankImportResponse{
		ExamID:   examID,
		Imported: len(questions),
	})
}

func (h *QuestionBankHandler) listQuestions(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	questions, err := h.service.ListByExam(c.Context(), examID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "questions retrieved", dto.NewQuestionResponseSlice(questions))
}

func (h *QuestionBankHandler) handleError(c *fiber.Ctx, err error) error {
	var formatErr *service.BankFormatError
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "exam not found")
	case errors.Is(err, service.ErrEmptyBank):
		return utils.SendError(c, fiber.StatusBadRequest, "question bank is empty")
	case errors.As(err, &formatErr):
		return utils.Fail(c, fiber.StatusBadRequest, formatErr.Error(), fiber.Map{
			"expected_header": strings.Join(formatErr.Expected, ","),
		})
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
