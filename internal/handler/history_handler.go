package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/exaima/exaima-backend/internal/middleware"
	"github.com/exaima/exaima-backend/internal/response"
	"github.com/exaima/exaima-backend/internal/service"
)

// HistoryHandler handles exam history retrieval and the AI analysis report.
type HistoryHandler struct {
	historyService  *service.HistoryService
	analysisService *service.AnalysisService
	log             zerolog.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService *service.HistoryService, analysisService *service.AnalysisService, log zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		historyService:  historyService,
		analysisService: analysisService,
		log:             log.With().Str("component", "history_handler").Logger(),
	}
}

// ListMine handles GET /exams/history/me.
func (h *HistoryHandler) ListMine(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	summaries, err := h.historyService.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("History listing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, summaries)
}

// Detail handles GET /exams/history/:exam_id. A never-taken exam comes
// back 200 with a "not_taken" status, not 404.
func (h *HistoryHandler) Detail(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	user := middleware.GetCurrentUser(c)

	detail, err := h.historyService.DetailForExam(c.Request.Context(), user.ID, examID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
			return
		}
		h.log.Error().Err(err).Str("exam_id", examID.String()).Msg("History detail failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// Analysis handles GET /exams/history/:exam_id/analysis.
func (h *HistoryHandler) Analysis(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	user := middleware.GetCurrentUser(c)

	report, err := h.analysisService.Report(c.Request.Context(), user.ID, examID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
			return
		}
		h.log.Error().Err(err).Str("exam_id", examID.String()).Msg("Analysis report failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, report)
}
