package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ExamResult is the scored outcome of one submission. Created exactly once
// per submission and never mutated.
type ExamResult struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	ExamID         uuid.UUID `json:"exam_id"`
	TotalMarks     int       `json:"total_marks"`
	ObtainedMarks  int       `json:"obtained_marks"`
	CorrectAnswers int       `json:"correct_answers"`
	WrongAnswers   int       `json:"wrong_answers"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Percentage returns the obtained/total ratio as a percentage rounded to
// 2 decimal places, or 0 for a zero-mark exam.
func (r *ExamResult) Percentage() float64 {
	return RoundPercentage(r.ObtainedMarks, r.TotalMarks)
}

// RoundPercentage computes obtained/total*100 rounded to 2 decimal places.
// Defined as 0 when total is 0.
func RoundPercentage(obtained, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(obtained)/float64(total)*10000) / 100
}

// QuestionResponse is the persisted per-question record of one result.
// SelectedOption is nil when the question was left unanswered.
type QuestionResponse struct {
	ID             uuid.UUID `json:"id"`
	ResultID       uuid.UUID `json:"result_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption *string   `json:"selected_option"`
	IsCorrect      bool      `json:"is_correct"`
	CreatedAt      time.Time `json:"created_at"`
}

// AnswerSubmission is one (question, option) pair in a submission.
type AnswerSubmission struct {
	QuestionID     string `json:"question_id" binding:"required,uuid"`
	SelectedOption string `json:"selected_option" binding:"required,oneof=A B C D"`
}

// SubmitExamRequest is the payload for submitting an exam.
type SubmitExamRequest struct {
	ExamID  string             `json:"exam_id" binding:"required,uuid"`
	Answers []AnswerSubmission `json:"answers" binding:"required,dive"`
}

// QuestionResult is the full per-question breakdown returned right after
// scoring and by the history detail endpoint. Option texts are included so
// clients never need a second lookup.
type QuestionResult struct {
	QuestionID     uuid.UUID         `json:"question_id"`
	QuestionText   string            `json:"question_text"`
	SelectedOption string            `json:"selected_option"`
	CorrectOption  string            `json:"correct_option"`
	IsCorrect      bool              `json:"is_correct"`
	Marks          int               `json:"marks"`
	Options        map[string]string `json:"options"`
}

// EvaluatedResult is the combined view returned by the evaluation engine:
// the result row aggregates plus the in-memory per-question breakdown.
type EvaluatedResult struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	ExamID          uuid.UUID        `json:"exam_id"`
	ExamName        string           `json:"exam_name"`
	TotalMarks      int              `json:"total_marks"`
	ObtainedMarks   int              `json:"obtained_marks"`
	CorrectAnswers  int              `json:"correct_answers"`
	WrongAnswers    int              `json:"wrong_answers"`
	Percentage      float64          `json:"percentage"`
	CompletedAt     time.Time        `json:"completed_at"`
	QuestionResults []QuestionResult `json:"question_results"`
}

// ResultSummary is one row of a user's exam history.
type ResultSummary struct {
	ExamResult
	ExamName   string  `json:"exam_name"`
	Percentage float64 `json:"percentage"`
}

// AttemptStatus tags the soft outcomes of a history detail lookup.
type AttemptStatus string

const (
	// AttemptTaken means a result exists and Result is populated.
	AttemptTaken AttemptStatus = "taken"
	// AttemptNotTaken means the user never submitted this exam. This is a
	// normal response, not an error.
	AttemptNotTaken AttemptStatus = "not_taken"
	// AttemptNotAvailable means a backing table has not been provisioned
	// yet; the feature degrades instead of failing hard.
	AttemptNotAvailable AttemptStatus = "not_available"
)

// AttemptDetail is the reconstruction of a past attempt, or a soft status
// when there is nothing to reconstruct.
type AttemptDetail struct {
	Status AttemptStatus    `json:"status"`
	Result *EvaluatedResult `json:"result,omitempty"`
}

// AnalysisReport is the AI-generated study report for a past attempt.
type AnalysisReport struct {
	Status   AttemptStatus `json:"status"`
	ExamName string        `json:"exam_name,omitempty"`
	Report   string        `json:"report,omitempty"`
}
