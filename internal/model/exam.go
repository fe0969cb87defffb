package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam represents an exam entity.
type Exam struct {
	ID           uuid.UUID `json:"id"`
	ExamName     string    `json:"exam_name"`
	Description  string    `json:"description"`
	DurationMins int       `json:"duration_mins"`
	IsMCQ        bool      `json:"is_mcq"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ExamSummary is an exam enriched with its question count, as returned by
// the listing endpoint.
type ExamSummary struct {
	Exam
	NumberOfQuestions int `json:"number_of_questions"`
}

// ExamPaper is the student-facing view of an exam: metadata plus questions
// with the correct options stripped. This is what gets cached in Redis.
type ExamPaper struct {
	Exam
	NumberOfQuestions int               `json:"number_of_questions"`
	Questions         []QuestionForExam `json:"questions"`
}
