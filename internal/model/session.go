package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionSummary is one in-flight attempt as shown on the monitoring view.
type SessionSummary struct {
	StudentID        int       `json:"student_id"`
	ExamID           uuid.UUID `json:"exam_id"`
	ExamTitle        string    `json:"exam_title"`
	StartTime        time.Time `json:"start_time"`
	RemainingSeconds int64     `json:"remaining_seconds"`
}
