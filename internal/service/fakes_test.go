package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/exaima/exaima-backend/internal/model"
	"github.com/exaima/exaima-backend/internal/repository"
)

// In-memory store fakes shared by the service tests.

type fakeUserStore struct {
	users     []*model.User
	createErr error
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users = append(f.users, u)
	return nil
}

type fakeTokenStore struct {
	tokens map[string]*model.SessionToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*model.SessionToken)}
}

func (f *fakeTokenStore) Create(_ context.Context, userID uuid.UUID, token string) (*model.SessionToken, error) {
	st := &model.SessionToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now(),
	}
	f.tokens[token] = st
	return st, nil
}

func (f *fakeTokenStore) GetActive(_ context.Context, token string) (*model.SessionToken, error) {
	st, ok := f.tokens[token]
	if !ok || st.IsRevoked {
		return nil, repository.ErrNotFound
	}
	return st, nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, token string) error {
	st, ok := f.tokens[token]
	if !ok || st.IsRevoked {
		return repository.ErrNotFound
	}
	st.IsRevoked = true
	return nil
}

type fakeExamStore struct {
	exams     []model.Exam
	summaries []model.ExamSummary
	listErr   error
}

func (f *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	for i := range f.exams {
		if f.exams[i].ID == id {
			e := f.exams[i]
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExamStore) ListWithCounts(_ context.Context) ([]model.ExamSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.summaries, nil
}

type fakeQuestionStore struct {
	questions map[uuid.UUID][]model.Question
}

func (f *fakeQuestionStore) ListByExam(_ context.Context, examID uuid.UUID) ([]model.Question, error) {
	return f.questions[examID], nil
}

type fakeResultStore struct {
	results     []model.ExamResult
	responses   map[uuid.UUID][]model.QuestionResponse
	summaries   []model.ResultSummary
	createErr   error
	listErr     error
	latestErr   error
	responseErr error
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{responses: make(map[uuid.UUID][]model.QuestionResponse)}
}

func (f *fakeResultStore) CreateWithResponses(_ context.Context, res *model.ExamResult, responses []model.QuestionResponse) error {
	if f.createErr != nil {
		return f.createErr
	}
	res.ID = uuid.New()
	stored := make([]model.QuestionResponse, len(responses))
	for i, r := range responses {
		r.ID = uuid.New()
		r.ResultID = res.ID
		stored[i] = r
	}
	f.results = append(f.results, *res)
	f.responses[res.ID] = stored
	return nil
}

func (f *fakeResultStore) ListByUser(_ context.Context, userID uuid.UUID) ([]model.ResultSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.ResultSummary
	for _, s := range f.summaries {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeResultStore) GetLatestByUserAndExam(_ context.Context, userID, examID uuid.UUID) (*model.ExamResult, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	var latest *model.ExamResult
	for i := range f.results {
		r := &f.results[i]
		if r.UserID != userID || r.ExamID != examID {
			continue
		}
		if latest == nil || r.CompletedAt.After(latest.CompletedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (f *fakeResultStore) ListResponses(_ context.Context, resultID uuid.UUID) ([]model.QuestionResponse, error) {
	if f.responseErr != nil {
		return nil, f.responseErr
	}
	return f.responses[resultID], nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// newTestExam builds an exam plus its questions for scoring tests.
// correctOptions and marks line up by index.
func newTestExam(correctOptions []string, marks []int) (*model.Exam, []model.Question) {
	exam := &model.Exam{
		ID:       uuid.New(),
		ExamName: "Sample Exam",
		IsMCQ:    true,
	}
	questions := make([]model.Question, len(correctOptions))
	for i := range correctOptions {
		questions[i] = model.Question{
			ID:            uuid.New(),
			ExamID:        exam.ID,
			QuestionText:  "Question",
			OptionA:       "a",
			OptionB:       "b",
			OptionC:       "c",
			OptionD:       "d",
			CorrectOption: correctOptions[i],
			Marks:         marks[i],
		}
	}
	return exam, questions
}
