package service

import (
	"context"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/brightpath-labs/brightpath-api/internal/models"
	"github.com/brightpath-labs/brightpath-api/internal/repository"
)

// bankSchema is the fixed, positional header of a question bank file.
var bankSchema = []string{"Question", "OptionA", "OptionB", "OptionC", "OptionD", "Answer", "Explanation"}

// QuestionBankService ingests question banks and serves exam question lists.
type QuestionBankService interface {
	ParseBank(raw string) ([]models.Question, error)
	Import(ctx context.Context, examID uint, raw string) ([]models.Question, error)
	ListByExam(ctx context.Context, examID uint) ([]models.Question, error)
}

type questionBankService struct {
	questions repository.QuestionRepository
	exams     repository.ExamRepository
	logger    zerolog.Logger
	policy    *bluemonday.Policy
}

// NewQuestionBankService constructs the question bank service.
func NewQuestionBankService(questions repository.QuestionRepository, exams repository.ExamRepository, logger zerolog.Logger) QuestionBankService {
	return &questionBankService{
		questions: questions,
		exams:     exams,
		logger:    logger.With().Str("component", "question_bank_service").Logger(),
		policy:    bluemonday.StrictPolicy(),
	}
}

// ParseBank turns a comma-separated bank into validated questions. The
// header must match bankSchema case-insensitively and in order. Rows with
// fewer than seven fields are skipped so trailing blank lines are harmless.
// The Answer column is stored raw; label normalization happens at
// evaluation time. Prompt and Explanation pass through a strict HTML
// sanitizer, which strips markup and entity-escapes characters such as
// "<"; option cells are only trimmed.
func (s *questionBankService) ParseBank(raw string) ([]models.Question, error) {
	lines := splitBankLines(raw)
	if len(lines) == 0 {
		return nil, ErrEmptyBank
	}

	header := strings.Split(lines[0], ",")
	if !headerMatches(header) {
		return nil, &BankFormatError{Expected: bankSchema}
	}

	questions := make([]models.Question, 0, len(lines)-1)
	skipped := 0
	for _, line := range lines[1:] {
		fields := strings.Split(line, ",")
		if len(fields) < len(bankSchema) {
			skipped++
			continue
		}

		questions = append(questions, models.Question{
			Prompt:      s.policy.Sanitize(strings.TrimSpace(fields[0])),
			OptionA:     strings.TrimSpace(fields[1]),
			OptionB:     strings.TrimSpace(fields[2]),
			OptionC:     strings.TrimSpace(fields[3]),
			OptionD:     strings.TrimSpace(fields[4]),
			Answer:      strings.TrimSpace(fields[5]),
			Explanation: s.policy.Sanitize(strings.TrimSpace(fields[6])),
		})
	}

	if skipped > 0 {
		s.logger.Debug().Int("skipped_rows", skipped).Msg("question bank rows skipped")
	}

	return questions, nil
}

// Import parses the bank and persists its questions onto the exam in file order.
func (s *questionBankService) Import(ctx context.Context, examID uint, raw string) ([]models.Question, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	questions, err := s.ParseBank(raw)
	if err != nil {
		return nil, err
	}

	if err := s.questions.CreateBatch(ctx, questions); err != nil {
		return nil, err
	}

	if err := s.questions.AttachToExam(ctx, examID, questions); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("exam_id", examID).Int("questions", len(questions)).Msg("question bank imported")

	return questions, nil
}

func (s *questionBankService) ListByExam(ctx context.Context, examID uint) ([]models.Question, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	return s.questions.ListByExam(ctx, examID)
}

func splitBankLines(raw string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func headerMatches(header []string) bool {
	if len(header) != len(bankSchema) {
		return false
	}
	for i, column := range header {
		if !strings.EqualFold(strings.TrimSpace(column), bankSchema[i]) {
			return false
		}
	}
	return true
}
