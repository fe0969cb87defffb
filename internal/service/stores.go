package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/exaima/exaima-backend/internal/model"
)

// Store interfaces consumed by the services. The repository package
// provides the pgx-backed implementations; tests substitute fakes.

// UserStore accesses user rows.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *model.User) error
}

// TokenStore accesses session token rows.
type TokenStore interface {
	Create(ctx context.Context, userID uuid.UUID, token string) (*model.SessionToken, error)
	GetActive(ctx context.Context, token string) (*model.SessionToken, error)
	Revoke(ctx context.Context, token string) error
}

// ExamStore accesses exam rows.
type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	ListWithCounts(ctx context.Context) ([]model.ExamSummary, error)
}

// QuestionStore accesses question rows.
type QuestionStore interface {
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error)
}

// ResultStore accesses result and question response rows.
type ResultStore interface {
	CreateWithResponses(ctx context.Context, res *model.ExamResult, responses []model.QuestionResponse) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.ResultSummary, error)
	GetLatestByUserAndExam(ctx context.Context, userID, examID uuid.UUID) (*model.ExamResult, error)
	ListResponses(ctx context.Context, resultID uuid.UUID) ([]model.QuestionResponse, error)
}
