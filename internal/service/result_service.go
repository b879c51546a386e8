package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/examhall/examhall-backend/internal/audit"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ResultService gates student access to recorded results behind the
// per-exam visibility flag. The teacher-facing accessors bypass the gate.
type ResultService struct {
	examRepo   *repository.ExamRepository
	resultRepo *repository.ResultRepository
	recorder   *audit.Recorder
	log        zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(
	examRepo *repository.ExamRepository,
	resultRepo *repository.ResultRepository,
	recorder *audit.Recorder,
	log zerolog.Logger,
) *ResultService {
	return &ResultService{
		examRepo:   examRepo,
		resultRepo: resultRepo,
		recorder:   recorder,
		log:        log.With().Str("component", "result_service").Logger(),
	}
}

// GetStudentResult returns a student's own result for an exam. Fails with
// ErrResultsNotVisible while the teacher has the flag off, and
// ErrResultNotFound when no result is recorded.
func (s *ResultService) GetStudentResult(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamResult, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	if !exam.ResultsVisible {
		s.log.Info().
			Int("student_id", studentID).
			Str("exam_id", examID.String()).
			Msg("Result view blocked by visibility flag")
		return nil, ErrResultsNotVisible
	}

	res, err := s.resultRepo.GetForStudent(ctx, examID, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("get result: %w", err)
	}

	res.Percentage = percentage(res.Score, res.TotalPossible)
	return res, nil
}

// ListExamResults returns all results for an exam, best score first.
// Teacher path: the visibility flag does not apply here.
func (s *ResultService) ListExamResults(ctx context.Context, examID uuid.UUID) ([]model.ExamResult, error) {
	if _, err := s.examRepo.GetByID(ctx, examID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	results, err := s.resultRepo.ListForExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	for i := range results {
		results[i].Percentage = percentage(results[i].Score, results[i].TotalPossible)
	}
	return results, nil
}

// SetVisibility flips the result visibility flag, effective immediately
// for subsequent student reads.
func (s *ResultService) SetVisibility(ctx context.Context, examID uuid.UUID, visible bool, teacherID int) error {
	rows, err := s.examRepo.SetResultsVisible(ctx, examID, visible)
	if err != nil {
		return fmt.Errorf("set visibility: %w", err)
	}
	if rows == 0 {
		return ErrExamNotFound
	}

	s.recorder.Record(ctx, audit.Event{
		Actor:  fmt.Sprintf("teacher:%d", teacherID),
		Action: "exam.visibility_changed",
		ExamID: examID.String(),
		Detail: fmt.Sprintf("visible=%t", visible),
	})
	s.log.Info().
		Str("exam_id", examID.String()).
		Bool("visible", visible).
		Msg("Result visibility changed")
	return nil
}

// percentage derives the display percentage for a result. Defined as zero
// when totalPossible is zero to avoid division by zero.
func percentage(score, totalPossible int) float64 {
	if totalPossible == 0 {
		return 0
	}
	return 100 * float64(score) / float64(totalPossible)
}
