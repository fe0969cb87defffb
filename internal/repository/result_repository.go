package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/exaima/exaima-backend/internal/model"
)

// ResultRepository handles exam result and question response data access.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// CreateWithResponses inserts one result row plus its per-question response
// rows inside a single transaction, so an aborted request can never leave a
// result with a fraction of its responses. The store-assigned result id is
// written back into res and each response.
func (r *ResultRepository) CreateWithResponses(ctx context.Context, res *model.ExamResult, responses []model.QuestionResponse) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrapErr(err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO user_exam_results (user_id, exam_id, total_marks, obtained_marks, correct_answers, wrong_answers, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		res.UserID, res.ExamID, res.TotalMarks, res.ObtainedMarks,
		res.CorrectAnswers, res.WrongAnswers, res.CompletedAt,
	).Scan(&res.ID)
	if err != nil {
		return wrapErr(err)
	}

	batch := &pgx.Batch{}
	for i := range responses {
		responses[i].ResultID = res.ID
		batch.Queue(
			`INSERT INTO user_question_responses (result_id, question_id, selected_option, is_correct)
			 VALUES ($1, $2, $3, $4)`,
			responses[i].ResultID, responses[i].QuestionID,
			responses[i].SelectedOption, responses[i].IsCorrect,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for range responses {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return wrapErr(err)
		}
	}
	if err := br.Close(); err != nil {
		return wrapErr(err)
	}

	return wrapErr(tx.Commit(ctx))
}

// ListByUser retrieves all results for a user joined with the owning exam's
// name, most recent first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.ResultSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.user_id, r.exam_id, r.total_marks, r.obtained_marks,
		        r.correct_answers, r.wrong_answers, r.completed_at, e.exam_name
		 FROM user_exam_results r
		 JOIN exams e ON e.id = r.exam_id
		 WHERE r.user_id = $1
		 ORDER BY r.completed_at DESC`, userID,
	)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var summaries []model.ResultSummary
	for rows.Next() {
		var s model.ResultSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.ExamID, &s.TotalMarks, &s.ObtainedMarks,
			&s.CorrectAnswers, &s.WrongAnswers, &s.CompletedAt, &s.ExamName); err != nil {
			return nil, wrapErr(err)
		}
		s.Percentage = s.ExamResult.Percentage()
		summaries = append(summaries, s)
	}
	return summaries, wrapErr(rows.Err())
}

// GetLatestByUserAndExam retrieves the most recent result for a (user, exam)
// pair. Multiple attempts are allowed; latest wins.
func (r *ResultRepository) GetLatestByUserAndExam(ctx context.Context, userID, examID uuid.UUID) (*model.ExamResult, error) {
	res := &model.ExamResult{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, exam_id, total_marks, obtained_marks, correct_answers, wrong_answers, completed_at
		 FROM user_exam_results
		 WHERE user_id = $1 AND exam_id = $2
		 ORDER BY completed_at DESC
		 LIMIT 1`, userID, examID,
	).Scan(&res.ID, &res.UserID, &res.ExamID, &res.TotalMarks, &res.ObtainedMarks,
		&res.CorrectAnswers, &res.WrongAnswers, &res.CompletedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return res, nil
}

// ListResponses retrieves the question responses belonging to a result.
func (r *ResultRepository) ListResponses(ctx context.Context, resultID uuid.UUID) ([]model.QuestionResponse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, result_id, question_id, selected_option, is_correct, created_at
		 FROM user_question_responses
		 WHERE result_id = $1
		 ORDER BY id`, resultID,
	)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var responses []model.QuestionResponse
	for rows.Next() {
		var qr model.QuestionResponse
		if err := rows.Scan(&qr.ID, &qr.ResultID, &qr.QuestionID, &qr.SelectedOption,
			&qr.IsCorrect, &qr.CreatedAt); err != nil {
			return nil, wrapErr(err)
		}
		responses = append(responses, qr)
	}
	return responses, wrapErr(rows.Err())
}
