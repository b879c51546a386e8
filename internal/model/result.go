package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamResult is a recorded, immutable submission outcome. At most one
// exists per (exam, student) pair; the database enforces this with a
// unique constraint.
type ExamResult struct {
	ID             uuid.UUID `json:"id"`
	ExamID         uuid.UUID `json:"exam_id"`
	ExamTitle      string    `json:"exam_title"`
	StudentID      int       `json:"student_id"`
	StudentName    string    `json:"student_name"`
	Score          int       `json:"score"`
	TotalPossible  int       `json:"total_possible"`
	Percentage     float64   `json:"percentage"`
	SubmissionTime time.Time `json:"submission_time"`
}
