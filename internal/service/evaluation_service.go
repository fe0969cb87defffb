package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/exaima/exaima-backend/internal/model"
	"github.com/exaima/exaima-backend/internal/repository"
)

// ErrPersistResult wraps a persistence failure after scoring succeeded.
// Callers that receive it alongside a non-nil result may retry the write
// without re-scoring.
var ErrPersistResult = errors.New("persist result")

// EvaluationService scores submissions against an exam's answer key and
// persists the outcome.
type EvaluationService struct {
	exams     ExamStore
	questions QuestionStore
	results   ResultStore
	log       zerolog.Logger
}

// NewEvaluationService creates a new EvaluationService.
func NewEvaluationService(exams ExamStore, questions QuestionStore, results ResultStore, log zerolog.Logger) *EvaluationService {
	return &EvaluationService{
		exams:     exams,
		questions: questions,
		results:   results,
		log:       log.With().Str("component", "evaluation_service").Logger(),
	}
}

// Evaluate scores a submission and persists one result row plus one
// response row per question in a single transaction.
//
// The iteration is driven by the exam's question set: unanswered questions
// count as wrong, and answers for questions outside the exam are dropped.
// When the same question appears twice in the submission the last entry
// wins. If persistence fails the fully scored result is still returned
// (with a zero ID) together with an error wrapping ErrPersistResult, so
// the computed score is never silently lost.
func (s *EvaluationService) Evaluate(ctx context.Context, userID, examID uuid.UUID, answers []model.AnswerSubmission) (*model.EvaluatedResult, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	result, responses := score(userID, exam, questions, answers)

	persisted := &model.ExamResult{
		UserID:         result.UserID,
		ExamID:         result.ExamID,
		TotalMarks:     result.TotalMarks,
		ObtainedMarks:  result.ObtainedMarks,
		CorrectAnswers: result.CorrectAnswers,
		WrongAnswers:   result.WrongAnswers,
		CompletedAt:    result.CompletedAt,
	}
	if err := s.results.CreateWithResponses(ctx, persisted, responses); err != nil {
		s.log.Error().Err(err).
			Str("user_id", userID.String()).
			Str("exam_id", examID.String()).
			Int("obtained", result.ObtainedMarks).
			Msg("Result persistence failed after scoring")
		return result, fmt.Errorf("%w: %v", ErrPersistResult, err)
	}
	result.ID = persisted.ID

	s.log.Info().
		Str("user_id", userID.String()).
		Str("exam_id", examID.String()).
		Int("obtained", result.ObtainedMarks).
		Int("total", result.TotalMarks).
		Msg("Exam evaluated")

	return result, nil
}

// score is the pure scoring pass. It never touches the store, so a
// persistence retry can reuse its output as-is.
func score(userID uuid.UUID, exam *model.Exam, questions []model.Question, answers []model.AnswerSubmission) (*model.EvaluatedResult, []model.QuestionResponse) {
	// Last-seen wins for duplicate question ids; answers for questions
	// outside this exam are dropped below by the lookup.
	selected := make(map[uuid.UUID]string, len(answers))
	for _, a := range answers {
		qid, err := uuid.Parse(a.QuestionID)
		if err != nil {
			continue
		}
		selected[qid] = a.SelectedOption
	}

	result := &model.EvaluatedResult{
		UserID:          userID,
		ExamID:          exam.ID,
		ExamName:        exam.ExamName,
		CompletedAt:     time.Now().UTC(),
		QuestionResults: make([]model.QuestionResult, 0, len(questions)),
	}
	responses := make([]model.QuestionResponse, 0, len(questions))

	for i := range questions {
		q := &questions[i]
		marks := q.Marks
		if marks <= 0 {
			marks = 1
		}
		result.TotalMarks += marks

		option, answered := selected[q.ID]
		correct := answered && option == q.CorrectOption
		if correct {
			result.ObtainedMarks += marks
			result.CorrectAnswers++
		} else {
			result.WrongAnswers++
		}

		var selectedPtr *string
		selectedText := ""
		if answered {
			o := option
			selectedPtr = &o
			selectedText = option
		}

		result.QuestionResults = append(result.QuestionResults, model.QuestionResult{
			QuestionID:     q.ID,
			QuestionText:   q.QuestionText,
			SelectedOption: selectedText,
			CorrectOption:  q.CorrectOption,
			IsCorrect:      correct,
			Marks:          marks,
			Options:        q.OptionMap(),
		})
		responses = append(responses, model.QuestionResponse{
			QuestionID:     q.ID,
			SelectedOption: selectedPtr,
			IsCorrect:      correct,
		})
	}

	result.Percentage = model.RoundPercentage(result.ObtainedMarks, result.TotalMarks)
	return result, responses
}
