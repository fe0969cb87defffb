package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/exaima/exaima-backend/internal/model"
)

func newEvaluationFixture(exam *model.Exam, questions []model.Question) (*EvaluationService, *fakeResultStore) {
	exams := &fakeExamStore{exams: []model.Exam{*exam}}
	qs := &fakeQuestionStore{questions: map[uuid.UUID][]model.Question{exam.ID: questions}}
	results := newFakeResultStore()
	return NewEvaluationService(exams, qs, results, testLogger()), results
}

func answerFor(q *model.Question, option string) model.AnswerSubmission {
	return model.AnswerSubmission{QuestionID: q.ID.String(), SelectedOption: option}
}

func TestEvaluateScoresWeightedQuestions(t *testing.T) {
	exam, questions := newTestExam([]string{"A", "C"}, []int{1, 2})
	svc, results := newEvaluationFixture(exam, questions)
	userID := uuid.New()

	res, err := svc.Evaluate(context.Background(), userID, exam.ID, []model.AnswerSubmission{
		answerFor(&questions[0], "A"),
		answerFor(&questions[1], "B"),
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if res.TotalMarks != 3 {
		t.Errorf("TotalMarks = %d, want 3", res.TotalMarks)
	}
	if res.ObtainedMarks != 1 {
		t.Errorf("ObtainedMarks = %d, want 1", res.ObtainedMarks)
	}
	if res.CorrectAnswers != 1 || res.WrongAnswers != 1 {
		t.Errorf("correct/wrong = %d/%d, want 1/1", res.CorrectAnswers, res.WrongAnswers)
	}
	if res.Percentage != 33.33 {
		t.Errorf("Percentage = %v, want 33.33", res.Percentage)
	}
	if len(results.results) != 1 {
		t.Fatalf("persisted %d results, want 1", len(results.results))
	}
	if got := len(results.responses[res.ID]); got != 2 {
		t.Errorf("persisted %d responses, want 2", got)
	}
}

func TestEvaluateUnansweredCountsAsWrong(t *testing.T) {
	exam, questions := newTestExam([]string{"A", "C"}, []int{1, 2})
	svc, results := newEvaluationFixture(exam, questions)

	// Only the first question answered; the second is omitted entirely.
	res, err := svc.Evaluate(context.Background(), uuid.New(), exam.ID, []model.AnswerSubmission{
		answerFor(&questions[0], "A"),
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if res.TotalMarks != 3 || res.ObtainedMarks != 1 {
		t.Errorf("marks = %d/%d, want 1/3", res.ObtainedMarks, res.TotalMarks)
	}
	if res.WrongAnswers != 1 {
		t.Errorf("WrongAnswers = %d, want 1", res.WrongAnswers)
	}

	responses := results.responses[res.ID]
	if len(responses) != 2 {
		t.Fatalf("persisted %d responses, want 2", len(responses))
	}
	var unanswered *model.QuestionResponse
	for i := range responses {
		if responses[i].QuestionID == questions[1].ID {
			unanswered = &responses[i]
		}
	}
	if unanswered == nil {
		t.Fatal("no response row for unanswered question")
	}
	if unanswered.SelectedOption != nil {
		t.Errorf("SelectedOption = %q, want nil", *unanswered.SelectedOption)
	}
	if unanswered.IsCorrect {
		t.Error("unanswered question marked correct")
	}
}

func TestEvaluateDropsForeignAnswers(t *testing.T) {
	exam, questions := newTestExam([]string{"A"}, []int{1})
	svc, _ := newEvaluationFixture(exam, questions)

	res, err := svc.Evaluate(context.Background(), uuid.New(), exam.ID, []model.AnswerSubmission{
		answerFor(&questions[0], "A"),
		{QuestionID: uuid.NewString(), SelectedOption: "B"},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if res.TotalMarks != 1 || res.ObtainedMarks != 1 {
		t.Errorf("marks = %d/%d, want 1/1", res.ObtainedMarks, res.TotalMarks)
	}
	if len(res.QuestionResults) != 1 {
		t.Errorf("QuestionResults = %d, want 1", len(res.QuestionResults))
	}
}

func TestEvaluateLastDuplicateWins(t *testing.T) {
	exam, questions := newTestExam([]string{"A"}, []int{1})
	svc, _ := newEvaluationFixture(exam, questions)

	res, err := svc.Evaluate(context.Background(), uuid.New(), exam.ID, []model.AnswerSubmission{
		answerFor(&questions[0], "A"),
		answerFor(&questions[0], "B"),
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if res.ObtainedMarks != 0 {
		t.Errorf("ObtainedMarks = %d, want 0 (last duplicate should win)", res.ObtainedMarks)
	}
	if res.QuestionResults[0].SelectedOption != "B" {
		t.Errorf("SelectedOption = %q, want B", res.QuestionResults[0].SelectedOption)
	}
}

func TestEvaluateDefaultsNonPositiveMarks(t *testing.T) {
	exam, questions := newTestExam([]string{"A", "B"}, []int{0, -3})
	svc, _ := newEvaluationFixture(exam, questions)

	res, err := svc.Evaluate(context.Background(), uuid.New(), exam.ID, []model.AnswerSubmission{
		answerFor(&questions[0], "A"),
		answerFor(&questions[1], "B"),
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if res.TotalMarks != 2 || res.ObtainedMarks != 2 {
		t.Errorf("marks = %d/%d, want 2/2", res.ObtainedMarks, res.TotalMarks)
	}
	if res.Percentage != 100 {
		t.Errorf("Percentage = %v, want 100", res.Percentage)
	}
}

func TestEvaluateUnknownExam(t *testing.T) {
	exam, questions := newTestExam([]string{"A"}, []int{1})
	svc, _ := newEvaluationFixture(exam, questions)

	_, err := svc.Evaluate(context.Background(), uuid.New(), uuid.New(), nil)
	if !errors.Is(err, ErrExamNotFound) {
		t.Errorf("err = %v, want ErrExamNotFound", err)
	}
}

func TestEvaluateExamWithoutQuestions(t *testing.T) {
	exam := &model.Exam{ID: uuid.New(), ExamName: "Empty"}
	exams := &fakeExamStore{exams: []model.Exam{*exam}}
	qs := &fakeQuestionStore{questions: map[uuid.UUID][]model.Question{}}
	svc := NewEvaluationService(exams, qs, newFakeResultStore(), testLogger())

	_, err := svc.Evaluate(context.Background(), uuid.New(), exam.ID, nil)
	if !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}

func TestEvaluateReturnsScoreOnPersistFailure(t *testing.T) {
	exam, questions := newTestExam([]string{"A"}, []int{1})
	exams := &fakeExamStore{exams: []model.Exam{*exam}}
	qs := &fakeQuestionStore{questions: map[uuid.UUID][]model.Question{exam.ID: questions}}
	results := newFakeResultStore()
	results.createErr = errors.New("connection refused")
	svc := NewEvaluationService(exams, qs, results, testLogger())

	res, err := svc.Evaluate(context.Background(), uuid.New(), exam.ID, []model.AnswerSubmission{
		answerFor(&questions[0], "A"),
	})
	if !errors.Is(err, ErrPersistResult) {
		t.Fatalf("err = %v, want ErrPersistResult", err)
	}
	if res == nil {
		t.Fatal("result dropped on persistence failure")
	}
	if res.ObtainedMarks != 1 {
		t.Errorf("ObtainedMarks = %d, want 1", res.ObtainedMarks)
	}
}

func TestRoundPercentage(t *testing.T) {
	cases := []struct {
		obtained, total int
		want            float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{3, 3, 100},
		{0, 7, 0},
	}
	for _, tc := range cases {
		if got := model.RoundPercentage(tc.obtained, tc.total); got != tc.want {
			t.Errorf("RoundPercentage(%d, %d) = %v, want %v", tc.obtained, tc.total, got, tc.want)
		}
	}
}
