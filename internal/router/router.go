package router

import (
	"net/http"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/handler"
	"github.com/examhall/examhall-backend/internal/middleware"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Student *handler.StudentHandler
	Teacher *handler.TeacherHandler
	Monitor *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for login routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/student/login", authLimiter.Middleware(), handlers.Auth.StudentLogin)
		auth.POST("/teacher/login", authLimiter.Middleware(), handlers.Auth.TeacherLogin)

		// Authenticated profile routes
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
		auth.GET("/teacher/me", middleware.RequireTeacherJWT(authService), handlers.Auth.GetTeacherProfile)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/exams", handlers.Student.ListExams)
		studentAPI.GET("/exams/:exam_id/paper", handlers.Student.GetExamPaper)
		studentAPI.POST("/exams/:exam_id/submit", handlers.Student.SubmitExam)
		studentAPI.GET("/exams/:exam_id/result", handlers.Student.GetResult)
	}

	// ─── 3. Teacher Group (JWT) ────────────────────────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(middleware.RequireTeacherJWT(authService))
	{
		teacherAPI.GET("/exams", handlers.Teacher.ListExams)
		teacherAPI.POST("/exams", handlers.Teacher.CreateExam)
		teacherAPI.PUT("/exams/:exam_id", handlers.Teacher.UpdateExam)
		teacherAPI.DELETE("/exams/:exam_id", handlers.Teacher.DeleteExam)
		teacherAPI.PATCH("/exams/:exam_id/visibility", handlers.Teacher.SetVisibility)
		teacherAPI.GET("/exams/:exam_id/results", handlers.Teacher.ListResults)
		teacherAPI.GET("/sessions", handlers.Teacher.ListSessions)
		teacherAPI.POST("/students/:student_id/reset-session", handlers.Teacher.ResetStudentSession)
	}

	// ─── 4. WebSocket Group (Teacher WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireTeacherWSAuth(authService))
	{
		ws.GET("/teacher/sessions/stream", handlers.Monitor.SessionStream)
	}

	return router
}
