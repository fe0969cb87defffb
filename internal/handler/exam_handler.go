package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/exaima/exaima-backend/internal/middleware"
	"github.com/exaima/exaima-backend/internal/model"
	"github.com/exaima/exaima-backend/internal/response"
	"github.com/exaima/exaima-backend/internal/service"
	"github.com/exaima/exaima-backend/internal/validator"
)

// ExamHandler handles exam listing, exam delivery and submission.
type ExamHandler struct {
	examService       *service.ExamService
	evaluationService *service.EvaluationService
	log               zerolog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService, evaluationService *service.EvaluationService, log zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		examService:       examService,
		evaluationService: evaluationService,
		log:               log.With().Str("component", "exam_handler").Logger(),
	}
}

// List handles GET /exams.
func (h *ExamHandler) List(c *gin.Context) {
	exams, err := h.examService.ListExams(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Exam listing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, exams)
}

// Get handles GET /exams/:exam_id. The paper never includes correct
// options or marks.
func (h *ExamHandler) Get(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paper, err := h.examService.GetExamPaper(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
			return
		}
		h.log.Error().Err(err).Str("exam_id", examID.String()).Msg("Paper delivery failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, paper)
}

// Submit handles POST /exams/submit. Scoring happens server-side against
// the stored answer key.
func (h *ExamHandler) Submit(c *gin.Context) {
	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	// Format is enforced by the uuid binding tag above.
	examID := uuid.MustParse(req.ExamID)
	user := middleware.GetCurrentUser(c)

	result, err := h.evaluationService.Evaluate(c.Request.Context(), user.ID, examID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		case errors.Is(err, service.ErrNoQuestions):
			response.Fail(c, http.StatusNotFound, response.ErrNoQuestions)
		case errors.Is(err, service.ErrPersistResult):
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		default:
			h.log.Error().Err(err).Str("exam_id", examID.String()).Msg("Submission failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}
