package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/examhall/examhall-backend/internal/middleware"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TeacherHandler handles the teacher console endpoints: exam authoring,
// result reporting, and session management.
type TeacherHandler struct {
	authoringService *service.AuthoringService
	resultService    *service.ResultService
	monitorService   *service.MonitorService
	authService      *service.AuthService
	log              zerolog.Logger
}

// NewTeacherHandler creates a new TeacherHandler.
func NewTeacherHandler(
	authoringService *service.AuthoringService,
	resultService *service.ResultService,
	monitorService *service.MonitorService,
	authService *service.AuthService,
	log zerolog.Logger,
) *TeacherHandler {
	return &TeacherHandler{
		authoringService: authoringService,
		resultService:    resultService,
		monitorService:   monitorService,
		authService:      authService,
		log:              log.With().Str("component", "teacher_handler").Logger(),
	}
}

// ListExams godoc
// GET /api/v1/teacher/exams
// Lists every exam, including inactive ones.
func (h *TeacherHandler) ListExams(c *gin.Context) {
	exams, err := h.authoringService.ListExams(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list exams")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// CreateExam godoc
// POST /api/v1/teacher/exams
// Creates an exam with its full question/option tree in one transaction.
func (h *TeacherHandler) CreateExam(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.ExamDefinitionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	examID, err := h.authoringService.CreateExam(c.Request.Context(), &req, claims.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create exam")
		response.Fail(c, http.StatusInternalServerError, response.ErrTransactionFailed)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam_id": examID})
}

// UpdateExam godoc
// PUT /api/v1/teacher/exams/:exam_id
// Replaces the exam definition and its whole question tree atomically.
func (h *TeacherHandler) UpdateExam(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ExamDefinitionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err = h.authoringService.UpdateExam(c.Request.Context(), examID, &req, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
			return
		}
		h.log.Error().Err(err).Str("exam_id", examID.String()).Msg("Failed to update exam")
		response.Fail(c, http.StatusInternalServerError, response.ErrTransactionFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam_id": examID})
}

// DeleteExam godoc
// DELETE /api/v1/teacher/exams/:exam_id
// Deletes the exam and every dependent row, all-or-nothing.
func (h *TeacherHandler) DeleteExam(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	err = h.authoringService.DeleteExam(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
			return
		}
		h.log.Error().Err(err).Str("exam_id", examID.String()).Msg("Failed to delete exam")
		response.Fail(c, http.StatusInternalServerError, response.ErrTransactionFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// SetVisibility godoc
// PATCH /api/v1/teacher/exams/:exam_id/visibility
// Flips whether students may view their own results for this exam.
func (h *TeacherHandler) SetVisibility(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SetVisibilityRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err = h.resultService.SetVisibility(c.Request.Context(), examID, *req.Visible, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
			return
		}
		h.log.Error().Err(err).Str("exam_id", examID.String()).Msg("Failed to set visibility")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam_id": examID, "visible": *req.Visible})
}

// ListResults godoc
// GET /api/v1/teacher/exams/:exam_id/results
// Returns every result for the exam, best score first. Not gated on the
// visibility flag.
func (h *TeacherHandler) ListResults(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	results, err := h.resultService.ListExamResults(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
			return
		}
		h.log.Error().Err(err).Str("exam_id", examID.String()).Msg("Failed to list results")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// ListSessions godoc
// GET /api/v1/teacher/sessions
// Returns a snapshot of in-flight exam attempts.
func (h *TeacherHandler) ListSessions(c *gin.Context) {
	sessions, err := h.monitorService.ActiveSessions(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to snapshot sessions")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

// ResetStudentSession godoc
// POST /api/v1/teacher/students/:student_id/reset-session
// Clears a student's single-device login marker so they can log in again.
func (h *TeacherHandler) ResetStudentSession(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.authService.ResetStudentSession(c.Request.Context(), studentID); err != nil {
		h.log.Error().Err(err).Int("student_id", studentID).Msg("Failed to reset session")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
