package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/exaima/exaima-backend/internal/model"
)

type fakeGenerator struct {
	enabled    bool
	report     string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeGenerator) Enabled() bool { return f.enabled }

func (f *fakeGenerator) GenerateText(_ context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	return f.report, f.err
}

func newAnalysisFixture(gen TextGenerator) (*AnalysisService, *model.Exam, []model.Question, *fakeResultStore) {
	exam, questions := newTestExam([]string{"A", "C"}, []int{1, 2})
	history, results := newHistoryFixture(exam, questions)
	return NewAnalysisService(history, gen, testLogger()), exam, questions, results
}

func seedAttempt(results *fakeResultStore, userID uuid.UUID, exam *model.Exam, questions []model.Question) {
	res := model.ExamResult{
		ID: uuid.New(), UserID: userID, ExamID: exam.ID,
		TotalMarks: 3, ObtainedMarks: 1, CorrectAnswers: 1, WrongAnswers: 1,
		CompletedAt: time.Now(),
	}
	results.results = append(results.results, res)
	selected := "A"
	results.responses[res.ID] = []model.QuestionResponse{
		{ResultID: res.ID, QuestionID: questions[0].ID, SelectedOption: &selected, IsCorrect: true},
		{ResultID: res.ID, QuestionID: questions[1].ID, SelectedOption: nil, IsCorrect: false},
	}
}

func TestReportForTakenExam(t *testing.T) {
	gen := &fakeGenerator{enabled: true, report: "Revise joins."}
	svc, exam, questions, results := newAnalysisFixture(gen)
	userID := uuid.New()
	seedAttempt(results, userID, exam, questions)

	report, err := svc.Report(context.Background(), userID, exam.ID)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.Status != model.AttemptTaken {
		t.Fatalf("Status = %q, want %q", report.Status, model.AttemptTaken)
	}
	if report.Report != "Revise joins." {
		t.Errorf("Report = %q", report.Report)
	}
	if report.ExamName != exam.ExamName {
		t.Errorf("ExamName = %q, want %q", report.ExamName, exam.ExamName)
	}
	if !strings.Contains(gen.lastUser, "(unanswered)") {
		t.Errorf("prompt misses unanswered marker:\n%s", gen.lastUser)
	}
	if !strings.Contains(gen.lastUser, "1/3") {
		t.Errorf("prompt misses score summary:\n%s", gen.lastUser)
	}
}

func TestReportNotTakenSkipsGenerator(t *testing.T) {
	gen := &fakeGenerator{enabled: true, report: "unused"}
	svc, exam, _, _ := newAnalysisFixture(gen)

	report, err := svc.Report(context.Background(), uuid.New(), exam.ID)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.Status != model.AttemptNotTaken {
		t.Errorf("Status = %q, want %q", report.Status, model.AttemptNotTaken)
	}
	if gen.lastUser != "" {
		t.Error("generator invoked for an untaken exam")
	}
}

func TestReportWithoutGenerator(t *testing.T) {
	svc, exam, questions, results := newAnalysisFixture(nil)
	userID := uuid.New()
	seedAttempt(results, userID, exam, questions)

	report, err := svc.Report(context.Background(), userID, exam.ID)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.Status != model.AttemptNotAvailable {
		t.Errorf("Status = %q, want %q", report.Status, model.AttemptNotAvailable)
	}
}

func TestReportWithDisabledGenerator(t *testing.T) {
	gen := &fakeGenerator{enabled: false}
	svc, exam, questions, results := newAnalysisFixture(gen)
	userID := uuid.New()
	seedAttempt(results, userID, exam, questions)

	report, err := svc.Report(context.Background(), userID, exam.ID)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.Status != model.AttemptNotAvailable {
		t.Errorf("Status = %q, want %q", report.Status, model.AttemptNotAvailable)
	}
}

func TestReportSurfacesGeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{enabled: true, err: errors.New("rate limited")}
	svc, exam, questions, results := newAnalysisFixture(gen)
	userID := uuid.New()
	seedAttempt(results, userID, exam, questions)

	if _, err := svc.Report(context.Background(), userID, exam.ID); err == nil {
		t.Error("generator failure swallowed")
	}
}
