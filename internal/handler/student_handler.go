package handler

import (
	"errors"
	"net/http"

	"github.com/examhall/examhall-backend/internal/middleware"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StudentHandler handles the student exam-taking endpoints.
type StudentHandler struct {
	catalogService    *service.CatalogService
	submissionService *service.SubmissionService
	resultService     *service.ResultService
	log               zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(
	catalogService *service.CatalogService,
	submissionService *service.SubmissionService,
	resultService *service.ResultService,
	log zerolog.Logger,
) *StudentHandler {
	return &StudentHandler{
		catalogService:    catalogService,
		submissionService: submissionService,
		resultService:     resultService,
		log:               log.With().Str("component", "student_handler").Logger(),
	}
}

// ListExams godoc
// GET /api/v1/student/exams
// Lists active exams the authenticated student has not yet taken.
func (h *StudentHandler) ListExams(c *gin.Context) {
	claims := middleware.GetClaims(c)
	exams, err := h.catalogService.ListAvailable(c.Request.Context(), claims.UserID)
	if err != nil {
		h.log.Error().Err(err).Int("student_id", claims.UserID).Msg("Failed to list exams")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// GetExamPaper godoc
// GET /api/v1/student/exams/:exam_id/paper
// Hands out the exam paper (answer key stripped) and starts the attempt clock.
func (h *StudentHandler) GetExamPaper(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paper, err := h.catalogService.FetchForAttempt(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyTaken):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyTaken)
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		default:
			h.log.Error().Err(err).Str("exam_id", examID.String()).Msg("Failed to fetch exam paper")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, paper)
}

// SubmitExam godoc
// POST /api/v1/student/exams/:exam_id/submit
// Scores and records the submission, then closes the attempt.
func (h *StudentHandler) SubmitExam(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err = h.submissionService.Submit(c.Request.Context(), examID, claims.UserID, req.Answers)
	if err != nil {
		var txErr *service.TransactionError
		switch {
		case errors.Is(err, service.ErrUnknownStudent):
			response.Fail(c, http.StatusNotFound, response.ErrUnknownStudent)
		case errors.Is(err, service.ErrAlreadyTaken):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyTaken)
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		case errors.Is(err, service.ErrSubmissionTooLate):
			response.Fail(c, http.StatusConflict, response.ErrSubmissionTooLate)
		case errors.As(err, &txErr):
			h.log.Error().Err(err).Str("exam_id", examID.String()).Int("student_id", claims.UserID).Msg("Submission transaction failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrTransactionFailed)
		default:
			h.log.Error().Err(err).Str("exam_id", examID.String()).Msg("Submission failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submitted": true})
}

// GetResult godoc
// GET /api/v1/student/exams/:exam_id/result
// Returns the student's own result, gated on the exam's visibility flag.
func (h *StudentHandler) GetResult(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.resultService.GetStudentResult(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		case errors.Is(err, service.ErrResultsNotVisible):
			response.Fail(c, http.StatusForbidden, response.ErrResultsNotVisible)
		case errors.Is(err, service.ErrResultNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrResultNotFound)
		default:
			h.log.Error().Err(err).Str("exam_id", examID.String()).Msg("Failed to load result")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}
