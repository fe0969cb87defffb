package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/exaima/exaima-backend/internal/config"
	"github.com/exaima/exaima-backend/internal/model"
	"github.com/exaima/exaima-backend/internal/repository"
)

// Domain errors shared by the exam-facing services.
var (
	ErrExamNotFound = errors.New("exam not found")
	ErrNoQuestions  = errors.New("exam has no questions")
)

// paperCacheTTL bounds how long a cached paper is served. Questions are
// immutable once seeded, so the TTL only limits memory, not staleness.
const paperCacheTTL = time.Hour

// ExamService handles exam listing and delivery, with a Redis
// read-through cache for the student-facing paper.
type ExamService struct {
	exams     ExamStore
	questions QuestionStore
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewExamService creates a new ExamService. rdb may be nil; caching is
// then skipped entirely.
func NewExamService(exams ExamStore, questions QuestionStore, rdb *redis.Client, log zerolog.Logger) *ExamService {
	return &ExamService{
		exams:     exams,
		questions: questions,
		rdb:       rdb,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// ListExams returns all exams with their question counts.
func (s *ExamService) ListExams(ctx context.Context) ([]model.ExamSummary, error) {
	exams, err := s.exams.ListWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	if exams == nil {
		exams = []model.ExamSummary{}
	}
	return exams, nil
}

// GetExamPaper returns an exam with its questions, answer key stripped.
// Served from Redis when possible; a miss falls back to PostgreSQL and
// repopulates the cache. Question order is pinned by id either way.
func (s *ExamService) GetExamPaper(ctx context.Context, examID uuid.UUID) (*model.ExamPaper, error) {
	cacheKey := config.CacheKey.ExamPaperKey(examID.String())

	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var paper model.ExamPaper
			if err := json.Unmarshal([]byte(raw), &paper); err == nil {
				return &paper, nil
			}
			s.log.Warn().Str("exam_id", examID.String()).Msg("Corrupt cached paper, rebuilding")
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("Paper cache read failed")
		}
	}

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

	paper := &model.ExamPaper{
		Exam:              *exam,
		NumberOfQuestions: len(questions),
		Questions:         make([]model.QuestionForExam, 0, len(questions)),
	}
	for i := range questions {
		paper.Questions = append(paper.Questions, questions[i].ForExam())
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(paper); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, paperCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Paper cache write failed")
			}
		}
	}

	return paper, nil
}
