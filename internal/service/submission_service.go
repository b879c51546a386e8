package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examhall/examhall-backend/internal/audit"
	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/registry"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SubmissionService scores a submitted answer set and records the result.
// The result row and all answer audit rows are written in one transaction;
// the unique constraint on exam_results (exam_id, student_id) is the
// authoritative no-retake guard, with the read pre-check kept only as a
// fast path.
type SubmissionService struct {
	pool         *pgxpool.Pool
	studentRepo  *repository.StudentRepository
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
	resultRepo   *repository.ResultRepository
	sessions     *registry.SessionRegistry
	recorder     *audit.Recorder
	cfg          *config.Config
	log          zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	pool *pgxpool.Pool,
	studentRepo *repository.StudentRepository,
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	resultRepo *repository.ResultRepository,
	sessions *registry.SessionRegistry,
	recorder *audit.Recorder,
	cfg *config.Config,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		pool:         pool,
		studentRepo:  studentRepo,
		examRepo:     examRepo,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		sessions:     sessions,
		recorder:     recorder,
		cfg:          cfg,
		log:          log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit validates eligibility, scores the answers, and persists the
// outcome. On success the active session is evicted; on any failure it is
// left intact so the student can retry.
func (s *SubmissionService) Submit(ctx context.Context, examID uuid.UUID, studentID int, answers []model.Answer) error {
	known, err := s.studentRepo.Exists(ctx, studentID)
	if err != nil {
		return fmt.Errorf("check student: %w", err)
	}
	if !known {
		s.log.Warn().Int("student_id", studentID).Msg("Submission from unknown student")
		return ErrUnknownStudent
	}

	// Fast path only; the unique constraint below is the real gate.
	taken, err := s.resultRepo.Exists(ctx, examID, studentID)
	if err != nil {
		return fmt.Errorf("check existing result: %w", err)
	}
	if taken {
		s.log.Warn().
			Int("student_id", studentID).
			Str("exam_id", examID.String()).
			Msg("Resubmission blocked")
		return ErrAlreadyTaken
	}

	if _, err := s.examRepo.GetByID(ctx, examID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExamNotFound
		}
		return fmt.Errorf("get exam: %w", err)
	}

	if s.cfg.RejectLateSubmissions {
		if att, ok := s.sessions.Get(studentID, examID); ok {
			if lateBy := lateness(att, time.Now()); lateBy > s.cfg.LateSubmissionGrace {
				s.log.Warn().
					Int("student_id", studentID).
					Str("exam_id", examID.String()).
					Dur("late_by", lateBy).
					Msg("Late submission rejected")
				return ErrSubmissionTooLate
			}
		}
		// No registered attempt means no start time to judge lateness
		// against; the submission proceeds on eligibility alone.
	}

	key, err := s.questionRepo.AnswerKey(ctx, examID)
	if err != nil {
		return fmt.Errorf("load answer key: %w", err)
	}

	outcome := scoreAnswers(key, answers)

	if err := s.persist(ctx, examID, studentID, outcome); err != nil {
		return err
	}

	s.sessions.Remove(studentID, examID)

	s.recorder.Record(ctx, audit.Event{
		Actor:     fmt.Sprintf("student:%d", studentID),
		Action:    "exam.submitted",
		ExamID:    examID.String(),
		StudentID: studentID,
		Detail:    fmt.Sprintf("score %d/%d", outcome.Score, outcome.TotalPossible),
	})
	s.log.Info().
		Int("student_id", studentID).
		Str("exam_id", examID.String()).
		Int("score", outcome.Score).
		Int("total_possible", outcome.TotalPossible).
		Msg("Exam submitted")

	return nil
}

// persist writes the result row and the answer audit rows atomically.
func (s *SubmissionService) persist(ctx context.Context, examID uuid.UUID, studentID int, outcome scoredSubmission) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &TransactionError{Op: "submit", Err: err}
	}
	defer tx.Rollback(ctx)

	var resultID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO exam_results (exam_id, student_id, score, total_possible, submission_time)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING id`,
		examID, studentID, outcome.Score, outcome.TotalPossible,
	).Scan(&resultID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// A concurrent submission won the race.
			return ErrAlreadyTaken
		}
		return &TransactionError{Op: "submit", Err: err}
	}

	if len(outcome.Accepted) > 0 {
		questionIDs := make([]uuid.UUID, len(outcome.Accepted))
		selections := make([]int, len(outcome.Accepted))
		for i, a := range outcome.Accepted {
			questionIDs[i] = a.QuestionID
			selections[i] = a.SelectedOption
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO student_answers (exam_id, student_id, question_id, selected_option)
			 SELECT $1, $2, u.question_id, u.selected_option
			 FROM UNNEST($3::uuid[], $4::int[]) AS u (question_id, selected_option)`,
			examID, studentID, questionIDs, selections)
		if err != nil {
			return &TransactionError{Op: "submit", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &TransactionError{Op: "submit", Err: err}
	}
	return nil
}

// scoredSubmission is the outcome of scoring one answer set.
type scoredSubmission struct {
	Score         int
	TotalPossible int
	// Accepted holds the answers that count: first occurrence per question,
	// questions belonging to the exam only. These become the audit rows.
	Accepted []model.Answer
}

// scoreAnswers grades a submitted answer set against the exam's answer
// key. Duplicate question ids keep their first occurrence; answers for
// questions outside the exam are ignored; UnansweredOption and wrong
// selections score zero. TotalPossible sums every key entry's points
// regardless of what was answered.
func scoreAnswers(key []repository.AnswerKeyEntry, answers []model.Answer) scoredSubmission {
	correct := make(map[uuid.UUID]int, len(key))
	points := make(map[uuid.UUID]int, len(key))

	out := scoredSubmission{}
	for _, e := range key {
		correct[e.QuestionID] = e.CorrectOption
		points[e.QuestionID] = e.Points
		out.TotalPossible += e.Points
	}

	seen := make(map[uuid.UUID]bool, len(answers))
	for _, a := range answers {
		pts, inExam := points[a.QuestionID]
		if !inExam || seen[a.QuestionID] {
			continue
		}
		seen[a.QuestionID] = true
		out.Accepted = append(out.Accepted, a)

		if a.SelectedOption != model.UnansweredOption && a.SelectedOption == correct[a.QuestionID] {
			out.Score += pts
		}
	}
	return out
}

// lateness reports how far past its allotted duration an attempt is at the
// given instant. Zero or negative means the attempt is still within time.
func lateness(att registry.Attempt, now time.Time) time.Duration {
	return now.Sub(att.StartTime.Add(att.Duration))
}
