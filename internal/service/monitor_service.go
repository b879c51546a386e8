package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/registry"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
)

// MonitorService builds the teacher monitoring view of in-flight attempts.
// It only reads the session registry snapshot; it never disturbs attempts.
type MonitorService struct {
	sessions *registry.SessionRegistry
	examRepo *repository.ExamRepository
}

// NewMonitorService creates a new MonitorService.
func NewMonitorService(sessions *registry.SessionRegistry, examRepo *repository.ExamRepository) *MonitorService {
	return &MonitorService{sessions: sessions, examRepo: examRepo}
}

// ActiveSessions returns a point-in-time view of every in-flight attempt
// with its exam title and derived remaining time, ordered by start time.
func (s *MonitorService) ActiveSessions(ctx context.Context) ([]model.SessionSummary, error) {
	snapshot := s.sessions.Snapshot()
	now := time.Now()

	examIDs := make([]uuid.UUID, 0, len(snapshot))
	seen := make(map[uuid.UUID]bool, len(snapshot))
	for _, att := range snapshot {
		if !seen[att.ExamID] {
			seen[att.ExamID] = true
			examIDs = append(examIDs, att.ExamID)
		}
	}

	titles, err := s.examRepo.TitlesByIDs(ctx, examIDs)
	if err != nil {
		return nil, fmt.Errorf("load exam titles: %w", err)
	}

	summaries := make([]model.SessionSummary, 0, len(snapshot))
	for _, att := range snapshot {
		title, ok := titles[att.ExamID]
		if !ok {
			// Exam deleted while the attempt is live.
			title = "Unknown Exam"
		}
		summaries = append(summaries, model.SessionSummary{
			StudentID:        att.StudentID,
			ExamID:           att.ExamID,
			ExamTitle:        title,
			StartTime:        att.StartTime,
			RemainingSeconds: int64(att.Remaining(now).Seconds()),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartTime.Before(summaries[j].StartTime)
	})
	return summaries, nil
}
