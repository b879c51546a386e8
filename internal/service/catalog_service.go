package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examhall/examhall-backend/internal/audit"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/registry"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// CatalogService lists takeable exams and hands out exam papers. Handing
// out a paper registers the attempt with the session registry so the
// monitoring view can observe it.
type CatalogService struct {
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
	resultRepo   *repository.ResultRepository
	sessions     *registry.SessionRegistry
	recorder     *audit.Recorder
	log          zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	resultRepo *repository.ResultRepository,
	sessions *registry.SessionRegistry,
	recorder *audit.Recorder,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		sessions:     sessions,
		recorder:     recorder,
		log:          log.With().Str("component", "catalog_service").Logger(),
	}
}

// ListAvailable returns every active exam the student has not yet taken.
// Side-effect-free.
func (s *CatalogService) ListAvailable(ctx context.Context, studentID int) ([]model.ExamSummary, error) {
	exams, err := s.examRepo.ListAvailableForStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list available exams: %w", err)
	}
	return exams, nil
}

// FetchForAttempt returns the exam paper (questions and options with the
// answer key stripped) and registers the attempt. Fails with
// ErrAlreadyTaken if a result is already recorded for the pair, or
// ErrExamNotFound for an unknown exam id. Re-fetching an in-progress exam
// re-registers the attempt, which resets its clock.
func (s *CatalogService) FetchForAttempt(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamPaper, error) {
	taken, err := s.resultRepo.Exists(ctx, examID, studentID)
	if err != nil {
		return nil, fmt.Errorf("check existing result: %w", err)
	}
	if taken {
		s.log.Warn().
			Int("student_id", studentID).
			Str("exam_id", examID.String()).
			Msg("Retake attempt blocked")
		return nil, ErrAlreadyTaken
	}

	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if !exam.Active {
		return nil, ErrExamNotFound
	}

	questions, err := s.questionRepo.ListForStudent(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	s.sessions.Register(studentID, examID, time.Duration(exam.DurationMinutes)*time.Minute)

	s.recorder.Record(ctx, audit.Event{
		Actor:     fmt.Sprintf("student:%d", studentID),
		Action:    "exam.handed_out",
		ExamID:    examID.String(),
		StudentID: studentID,
	})
	s.log.Info().
		Int("student_id", studentID).
		Str("exam_id", examID.String()).
		Int("questions", len(questions)).
		Msg("Exam handed out")

	return &model.ExamPaper{
		ExamID:          exam.ID,
		Title:           exam.Title,
		Description:     exam.Description,
		DurationMinutes: exam.DurationMinutes,
		Questions:       questions,
	}, nil
}
