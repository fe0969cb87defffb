package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/exaima/exaima-backend/internal/model"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	e := &model.Exam{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_name, description, duration_mins, is_mcq, created_at, updated_at
		 FROM exams WHERE id = $1`, id,
	).Scan(&e.ID, &e.ExamName, &e.Description, &e.DurationMins, &e.IsMCQ, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return e, nil
}

// ListWithCounts retrieves all exams with their question counts in a single
// query, ordered by creation time (newest first).
func (r *ExamRepository) ListWithCounts(ctx context.Context) ([]model.ExamSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.exam_name, e.description, e.duration_mins, e.is_mcq,
		        e.created_at, e.updated_at, COUNT(q.id)
		 FROM exams e
		 LEFT JOIN questions q ON q.exam_id = e.id
		 GROUP BY e.id
		 ORDER BY e.created_at DESC`)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var exams []model.ExamSummary
	for rows.Next() {
		var e model.ExamSummary
		if err := rows.Scan(&e.ID, &e.ExamName, &e.Description, &e.DurationMins, &e.IsMCQ,
			&e.CreatedAt, &e.UpdatedAt, &e.NumberOfQuestions); err != nil {
			return nil, wrapErr(err)
		}
		exams = append(exams, e)
	}
	return exams, wrapErr(rows.Err())
}

// Create inserts a new exam. Used by the seeding CLI only; there is no
// authoring endpoint.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exams (exam_name, description, duration_mins, is_mcq)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		e.ExamName, e.Description, e.DurationMins, e.IsMCQ,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return wrapErr(err)
}
