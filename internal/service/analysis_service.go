package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/exaima/exaima-backend/internal/model"
)

// TextGenerator produces free-form text from a prompt pair. Implemented by
// the OpenAI client; faked in tests.
type TextGenerator interface {
	Enabled() bool
	GenerateText(ctx context.Context, system, user string) (string, error)
}

const analysisSystemPrompt = "You are a study coach. Given a student's " +
	"scored exam attempt, write a short performance analysis: overall " +
	"standing, topics the wrong answers suggest they should revisit, and " +
	"two or three concrete next steps. Plain text, under 250 words."

// AnalysisService builds an AI-generated performance report for a user's
// most recent attempt at an exam.
type AnalysisService struct {
	history *HistoryService
	gen     TextGenerator
	log     zerolog.Logger
}

// NewAnalysisService creates a new AnalysisService. gen may be nil or
// disabled; reports then degrade to a "not_available" status.
func NewAnalysisService(history *HistoryService, gen TextGenerator, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{
		history: history,
		gen:     gen,
		log:     log.With().Str("component", "analysis_service").Logger(),
	}
}

// Report generates a study report for the user's latest attempt at the
// exam. Soft statuses mirror the history detail contract: "not_taken"
// when there is no attempt, "not_available" when history is unavailable
// or no text generator is configured.
func (s *AnalysisService) Report(ctx context.Context, userID, examID uuid.UUID) (*model.AnalysisReport, error) {
	detail, err := s.history.DetailForExam(ctx, userID, examID)
	if err != nil {
		return nil, err
	}
	if detail.Status != model.AttemptTaken {
		return &model.AnalysisReport{Status: detail.Status}, nil
	}

	if s.gen == nil || !s.gen.Enabled() {
		s.log.Debug().Msg("Text generator not configured, analysis unavailable")
		return &model.AnalysisReport{Status: model.AttemptNotAvailable}, nil
	}

	report, err := s.gen.GenerateText(ctx, analysisSystemPrompt, buildAttemptPrompt(detail.Result))
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	return &model.AnalysisReport{
		Status:   model.AttemptTaken,
		ExamName: detail.Result.ExamName,
		Report:   report,
	}, nil
}

// buildAttemptPrompt flattens a scored attempt into the user prompt.
// Option texts are included so the model can name the topics involved.
func buildAttemptPrompt(r *model.EvaluatedResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Exam: %s\n", r.ExamName)
	fmt.Fprintf(&b, "Score: %d/%d (%.2f%%), %d correct, %d wrong\n\n",
		r.ObtainedMarks, r.TotalMarks, r.Percentage, r.CorrectAnswers, r.WrongAnswers)

	for i, qr := range r.QuestionResults {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, qr.QuestionText)
		for _, letter := range []string{"A", "B", "C", "D"} {
			fmt.Fprintf(&b, "  %s) %s\n", letter, qr.Options[letter])
		}
		selected := qr.SelectedOption
		if selected == "" {
			selected = "(unanswered)"
		}
		fmt.Fprintf(&b, "  Answered: %s, correct: %s\n\n", selected, qr.CorrectOption)
	}
	return b.String()
}
