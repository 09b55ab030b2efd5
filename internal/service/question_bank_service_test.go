package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-labs/brightpath-api/internal/dto"
	"github.com/brightpath-labs/brightpath-api/internal/models"
	"github.com/brightpath-labs/brightpath-api/internal/repository"
)

const validBank = `Question,OptionA,OptionB,OptionC,OptionD,Answer,Explanation
What is 2+2?,3,5,22,4,D,Basic addition
Capital of France?,Paris,Lyon,Nice,Lille,OptionA,`

func setupBankService(t *testing.T) (QuestionBankService, repository.ExamRepository, repository.QuestionRepository) {
	t.Helper()

	db := openTestDB(t, "question_bank")
	questions := repository.NewQuestionRepository(db)
	exams := repository.NewExamRepository(db)

	return NewQuestionBankService(questions, exams, zerolog.Nop()), exams, questions
}

func TestParseBankAcceptsHeaderAnyCase(t *testing.T) {
	svc, _, _ := setupBankService(t)

	bank := "question,optiona,OPTIONB,OptionC,optionD,ANSWER,explanation\nPrompt,a,b,c,d,A,why"
	questions, err := svc.ParseBank(bank)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	require.Equal(t, "Prompt", questions[0].Prompt)
	require.Equal(t, "A", questions[0].Answer)
}

func TestParseBankTrimsFieldsAndKeepsAnswerRaw(t *testing.T) {
	svc, _, _ := setupBankService(t)

	bank := "Question,OptionA,OptionB,OptionC,OptionD,Answer,Explanation\n  Prompt ,  a, b ,c,d,  OptionC  , because "
	questions, err := svc.ParseBank(bank)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	require.Equal(t, "Prompt", questions[0].Prompt)
	require.Equal(t, "a", questions[0].OptionA)
	require.Equal(t, "OptionC", questions[0].Answer, "answer column is stored verbatim")
	require.Equal(t, "because", questions[0].Explanation)
}

func TestParseBankRejectsReorderedHeader(t *testing.T) {
	svc, _, _ := setupBankService(t)

	bank := "OptionA,Question,OptionB,OptionC,OptionD,Answer,Explanation\nPrompt,a,b,c,d,A,why"
	_, err := svc.ParseBank(bank)

	var formatErr *BankFormatError
	require.ErrorAs(t, err, &formatErr)
	require.Equal(t, bankSchema, formatErr.Expected)
}

func TestParseBankRejectsMissingColumn(t *testing.T) {
	svc, _, _ := setupBankService(t)

	_, err := svc.ParseBank("Question,OptionA,OptionB,OptionC,OptionD,Answer\nPrompt,a,b,c,d,A")

	var formatErr *BankFormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestParseBankHeaderOnlyYieldsNoQuestions(t *testing.T) {
	svc, _, _ := setupBankService(t)

	questions, err := svc.ParseBank("Question,OptionA,OptionB,OptionC,OptionD,Answer,Explanation")
	require.NoError(t, err)
	require.Empty(t, questions)
}

func TestParseBankEmptyInput(t *testing.T) {
	svc, _, _ := setupBankService(t)

	for _, input := range []string{"", "\n\n", "   \r\n  "} {
		_, err := svc.ParseBank(input)
		require.True(t, errors.Is(err, ErrEmptyBank), "input %q", input)
	}
}

func TestParseBankSkipsShortRows(t *testing.T) {
	svc, _, _ := setupBankService(t)

	bank := validBank + "\ntoo,short,row\n"
	questions, err := svc.ParseBank(bank)
	require.NoError(t, err)
	require.Len(t, questions, 2)
}

func TestParseBankSanitizesMarkup(t *testing.T) {
	svc, _, _ := setupBankService(t)

	bank := "Question,OptionA,OptionB,OptionC,OptionD,Answer,Explanation\n<script>x</script>Prompt,a,b,c,d,A,<b>bold</b> note"
	questions, err := svc.ParseBank(bank)
	require.NoError(t, err)
	require.Equal(t, "Prompt", questions[0].Prompt)
	require.Equal(t, "bold note", questions[0].Explanation)
}

func TestImportAttachesQuestionsInFileOrder(t *testing.T) {
	svc, exams, questions := setupBankService(t)
	ctx := context.Background()

	exam := models.Exam{Name: "Math Final", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour), DurationMinutes: 60}
	require.NoError(t, exams.Create(ctx, &exam))

	imported, err := svc.Import(ctx, exam.ID, validBank)
	require.NoError(t, err)
	require.Len(t, imported, 2)

	listed, err := questions.ListByExam(ctx, exam.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "What is 2+2?", listed[0].Prompt)
	require.Equal(t, "Capital of France?", listed[1].Prompt)
}

func TestImportUnknownExam(t *testing.T) {
	svc, _, _ := setupBankService(t)

	_, err := svc.Import(context.Background(), 404, validBank)
	require.ErrorIs(t, err, ErrExamNotFound)
}

func TestListByExamUnknownExam(t *testing.T) {
	svc, _, _ := setupBankService(t)

	_, err := svc.ListByExam(context.Background(), 404)
	require.ErrorIs(t, err, ErrExamNotFound)
}

func TestParsedBankEvaluatesAgainstBareLetter(t *testing.T) {
	svc, _, _ := setupBankService(t)

	parsed, err := svc.ParseBank("Question,OptionA,OptionB,OptionC,OptionD,Answer,Explanation\n2+2?,1,2,3,4,OptionD,basic math")
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	parsed[0].ID = 1

	result := Evaluate(parsed, []dto.SubmittedAnswer{{QuestionID: 1, SelectedOption: "D"}})
	require.Equal(t, 1, result.CorrectCount)
	require.InDelta(t, 100.0, result.Percentage, 0.01)

	empty := Evaluate(parsed, nil)
	require.Equal(t, dto.NotAnswered, empty.Records[0].StudentAnswer)
	require.False(t, empty.Records[0].IsCorrect)
	require.Zero(t, empty.Percentage)
}
