package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/examhall/examhall-backend/internal/audit"
	"github.com/examhall/examhall-backend/internal/middleware"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService    *service.AuthService
	accountService *service.AccountService
	recorder       *audit.Recorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, accountService *service.AccountService, recorder *audit.Recorder) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
		recorder:       recorder,
	}
}

// StudentLogin godoc
// POST /api/v1/auth/student/login
// Validates username + password, checks for existing session (rejects if active), returns JWT.
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req model.StudentLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.accountService.GetStudentByUsername(c.Request.Context(), req.Username)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(student.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateStudentToken(c.Request.Context(), student.ID)
	if err != nil {
		if errors.Is(err, service.ErrSessionAlreadyActive) {
			response.Fail(c, http.StatusConflict, response.ErrSessionActive)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Event{
		Actor:     fmt.Sprintf("student:%d", student.ID),
		Action:    "student.logged_in",
		StudentID: student.ID,
	})
	response.Success(c, http.StatusOK, model.StudentLoginResponse{
		Token:   token,
		Student: *student,
	})
}

// TeacherLogin godoc
// POST /api/v1/auth/teacher/login
// Validates username + password, returns JWT.
func (h *AuthHandler) TeacherLogin(c *gin.Context) {
	var req model.TeacherLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	teacher, err := h.accountService.GetTeacherByUsername(c.Request.Context(), req.Username)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(teacher.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateTeacherToken(teacher.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Event{
		Actor:  fmt.Sprintf("teacher:%d", teacher.ID),
		Action: "teacher.logged_in",
	})
	response.Success(c, http.StatusOK, model.TeacherLoginResponse{
		Token:   token,
		Teacher: *teacher,
	})
}

// GetStudentProfile godoc
// GET /api/v1/auth/student/me
// Returns the profile of the currently authenticated student.
func (h *AuthHandler) GetStudentProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	student, err := h.accountService.GetStudentByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// GetTeacherProfile godoc
// GET /api/v1/auth/teacher/me
// Returns the profile of the currently authenticated teacher.
func (h *AuthHandler) GetTeacherProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	teacher, err := h.accountService.GetTeacherByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teacher": teacher})
}

// StudentLogout godoc
// POST /api/v1/auth/student/logout
// Clears the single-device login marker for the authenticated student.
func (h *AuthHandler) StudentLogout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.ResetStudentSession(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.recorder.Record(c.Request.Context(), audit.Event{
		Actor:     fmt.Sprintf("student:%d", claims.UserID),
		Action:    "student.logged_out",
		StudentID: claims.UserID,
	})
	response.Success(c, http.StatusOK, gin.H{})
}
