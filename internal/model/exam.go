package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam represents an exam definition. Exams are authored by teachers and
// immutable to students.
type Exam struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	ResultsVisible  bool      `json:"results_visible"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ExamSummary is the catalog entry shown to students in the exam list.
type ExamSummary struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
}

// ExamPaper is the exam body handed to a student at attempt start.
// Correct options and point values are stripped before it crosses the
// student boundary.
type ExamPaper struct {
	ExamID          uuid.UUID            `json:"exam_id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	DurationMinutes int                  `json:"duration_minutes"`
	Questions       []QuestionForStudent `json:"questions"`
}

// QuestionInput is one question in an authoring payload.
type QuestionInput struct {
	Text          string   `json:"text" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,min=2,max=10,dive,required"`
	CorrectOption int      `json:"correct_option" binding:"min=0"`
	Points        int      `json:"points" binding:"required,min=1"`
}

// ExamDefinitionRequest is the payload for creating or replacing an exam
// together with its full question/option tree.
type ExamDefinitionRequest struct {
	Title           string          `json:"title" binding:"required,min=3,max=255"`
	Description     string          `json:"description" binding:"max=2000"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=1,max=480"`
	ResultsVisible  bool            `json:"results_visible"`
	Active          bool            `json:"active"`
	Questions       []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// SetVisibilityRequest is the payload for flipping an exam's result
// visibility flag.
type SetVisibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}
