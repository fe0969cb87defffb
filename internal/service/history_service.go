package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/exaima/exaima-backend/internal/model"
	"github.com/exaima/exaima-backend/internal/repository"
)

// HistoryService reconstructs past attempts from persisted results and
// question responses.
type HistoryService struct {
	exams     ExamStore
	questions QuestionStore
	results   ResultStore
	log       zerolog.Logger
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(exams ExamStore, questions QuestionStore, results ResultStore, log zerolog.Logger) *HistoryService {
	return &HistoryService{
		exams:     exams,
		questions: questions,
		results:   results,
		log:       log.With().Str("component", "history_service").Logger(),
	}
}

// ListForUser returns all of a user's result summaries, most recent first.
// A missing results table yields an empty history rather than an error, so
// the endpoint keeps working before the feature's tables are provisioned.
func (s *HistoryService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.ResultSummary, error) {
	summaries, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotProvisioned) {
			s.log.Warn().Msg("Results table not provisioned, returning empty history")
			return []model.ResultSummary{}, nil
		}
		return nil, fmt.Errorf("list results: %w", err)
	}
	if summaries == nil {
		summaries = []model.ResultSummary{}
	}
	return summaries, nil
}

// DetailForExam reconstructs the user's most recent attempt at an exam by
// joining persisted responses back to the exam's questions. Absence of an
// attempt is a normal outcome reported as a "not_taken" status, and a
// missing backing table as "not_available"; neither is an error.
func (s *HistoryService) DetailForExam(ctx context.Context, userID, examID uuid.UUID) (*model.AttemptDetail, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	res, err := s.results.GetLatestByUserAndExam(ctx, userID, examID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return &model.AttemptDetail{Status: model.AttemptNotTaken}, nil
		case errors.Is(err, repository.ErrTableNotProvisioned):
			return &model.AttemptDetail{Status: model.AttemptNotAvailable}, nil
		}
		return nil, fmt.Errorf("get result: %w", err)
	}

	responses, err := s.results.ListResponses(ctx, res.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotProvisioned) {
			return &model.AttemptDetail{Status: model.AttemptNotAvailable}, nil
		}
		return nil, fmt.Errorf("list responses: %w", err)
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	byQuestion := make(map[uuid.UUID]*model.QuestionResponse, len(responses))
	for i := range responses {
		byQuestion[responses[i].QuestionID] = &responses[i]
	}

	detail := &model.EvaluatedResult{
		ID:              res.ID,
		UserID:          res.UserID,
		ExamID:          res.ExamID,
		ExamName:        exam.ExamName,
		TotalMarks:      res.TotalMarks,
		ObtainedMarks:   res.ObtainedMarks,
		CorrectAnswers:  res.CorrectAnswers,
		WrongAnswers:    res.WrongAnswers,
		Percentage:      res.Percentage(),
		CompletedAt:     res.CompletedAt,
		QuestionResults: make([]model.QuestionResult, 0, len(questions)),
	}

	// Drive the reconstruction by the exam's question set so the detail
	// view lines up with how the attempt was scored.
	for i := range questions {
		q := &questions[i]
		marks := q.Marks
		if marks <= 0 {
			marks = 1
		}

		qr := model.QuestionResult{
			QuestionID:    q.ID,
			QuestionText:  q.QuestionText,
			CorrectOption: q.CorrectOption,
			Marks:         marks,
			Options:       q.OptionMap(),
		}
		if resp, ok := byQuestion[q.ID]; ok {
			qr.IsCorrect = resp.IsCorrect
			if resp.SelectedOption != nil {
				qr.SelectedOption = *resp.SelectedOption
			}
		}
		detail.QuestionResults = append(detail.QuestionResults, qr)
	}

	return &model.AttemptDetail{Status: model.AttemptTaken, Result: detail}, nil
}
