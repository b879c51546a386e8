package service

import (
	"context"
	"fmt"

	"github.com/examhall/examhall-backend/internal/audit"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// AuthoringService creates, replaces, and deletes exam definitions with
// their full question/option trees. Every write is one transaction: the
// tree is never observable half-written.
type AuthoringService struct {
	pool     *pgxpool.Pool
	examRepo *repository.ExamRepository
	recorder *audit.Recorder
	log      zerolog.Logger
}

// NewAuthoringService creates a new AuthoringService.
func NewAuthoringService(pool *pgxpool.Pool, examRepo *repository.ExamRepository, recorder *audit.Recorder, log zerolog.Logger) *AuthoringService {
	return &AuthoringService{
		pool:     pool,
		examRepo: examRepo,
		recorder: recorder,
		log:      log.With().Str("component", "authoring_service").Logger(),
	}
}

// ListExams returns every exam, active or not, for the teacher console.
func (s *AuthoringService) ListExams(ctx context.Context) ([]model.Exam, error) {
	return s.examRepo.ListAll(ctx)
}

// CreateExam inserts an exam and its question/option tree atomically and
// returns the new exam id.
func (s *AuthoringService) CreateExam(ctx context.Context, req *model.ExamDefinitionRequest, teacherID int) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, &TransactionError{Op: "create exam", Err: err}
	}
	defer tx.Rollback(ctx)

	var examID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO exams (title, description, duration_minutes, results_visible, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		req.Title, req.Description, req.DurationMinutes, req.ResultsVisible, req.Active,
	).Scan(&examID)
	if err != nil {
		return uuid.Nil, &TransactionError{Op: "create exam", Err: err}
	}

	if err := insertQuestionTree(ctx, tx, examID, req.Questions); err != nil {
		return uuid.Nil, &TransactionError{Op: "create exam", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, &TransactionError{Op: "create exam", Err: err}
	}

	s.recorder.Record(ctx, audit.Event{
		Actor:  fmt.Sprintf("teacher:%d", teacherID),
		Action: "exam.created",
		ExamID: examID.String(),
		Detail: req.Title,
	})
	s.log.Info().Str("exam_id", examID.String()).Str("title", req.Title).Msg("Exam created")
	return examID, nil
}

// UpdateExam replaces an exam definition. Semantics are replace-all: the
// existing question/option tree is deleted and the new one inserted in the
// same transaction as the exam row update.
func (s *AuthoringService) UpdateExam(ctx context.Context, examID uuid.UUID, req *model.ExamDefinitionRequest, teacherID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &TransactionError{Op: "update exam", Err: err}
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE exams
		 SET title = $1, description = $2, duration_minutes = $3,
		     results_visible = $4, active = $5, updated_at = NOW()
		 WHERE id = $6`,
		req.Title, req.Description, req.DurationMinutes, req.ResultsVisible, req.Active, examID)
	if err != nil {
		return &TransactionError{Op: "update exam", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrExamNotFound
	}

	if err := deleteQuestionTree(ctx, tx, examID); err != nil {
		return &TransactionError{Op: "update exam", Err: err}
	}
	if err := insertQuestionTree(ctx, tx, examID, req.Questions); err != nil {
		return &TransactionError{Op: "update exam", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &TransactionError{Op: "update exam", Err: err}
	}

	s.recorder.Record(ctx, audit.Event{
		Actor:  fmt.Sprintf("teacher:%d", teacherID),
		Action: "exam.updated",
		ExamID: examID.String(),
		Detail: req.Title,
	})
	s.log.Info().Str("exam_id", examID.String()).Msg("Exam replaced")
	return nil
}

// DeleteExam removes an exam and every dependent row: answer audit rows,
// results, the question/option tree, and finally the exam itself,
// all-or-nothing.
func (s *AuthoringService) DeleteExam(ctx context.Context, examID uuid.UUID, teacherID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &TransactionError{Op: "delete exam", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM student_answers WHERE exam_id = $1`, examID); err != nil {
		return &TransactionError{Op: "delete exam", Err: err}
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM exam_results WHERE exam_id = $1`, examID); err != nil {
		return &TransactionError{Op: "delete exam", Err: err}
	}
	if err := deleteQuestionTree(ctx, tx, examID); err != nil {
		return &TransactionError{Op: "delete exam", Err: err}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM exams WHERE id = $1`, examID)
	if err != nil {
		return &TransactionError{Op: "delete exam", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrExamNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return &TransactionError{Op: "delete exam", Err: err}
	}

	s.recorder.Record(ctx, audit.Event{
		Actor:  fmt.Sprintf("teacher:%d", teacherID),
		Action: "exam.deleted",
		ExamID: examID.String(),
	})
	s.log.Info().Str("exam_id", examID.String()).Msg("Exam deleted")
	return nil
}

// insertQuestionTree inserts questions, their exam links, and their
// options within the caller's transaction.
func insertQuestionTree(ctx context.Context, tx pgx.Tx, examID uuid.UUID, questions []model.QuestionInput) error {
	for pos, q := range questions {
		var questionID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO questions (text, correct_option, points)
			 VALUES ($1, $2, $3)
			 RETURNING id`,
			q.Text, q.CorrectOption, q.Points,
		).Scan(&questionID)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO exam_questions (exam_id, question_id, position)
			 VALUES ($1, $2, $3)`,
			examID, questionID, pos); err != nil {
			return fmt.Errorf("link question: %w", err)
		}

		orders := make([]int, len(q.Options))
		for i := range q.Options {
			orders[i] = i
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO question_options (question_id, option_text, option_order)
			 SELECT $1, u.option_text, u.option_order
			 FROM UNNEST($2::text[], $3::int[]) AS u (option_text, option_order)`,
			questionID, q.Options, orders); err != nil {
			return fmt.Errorf("insert options: %w", err)
		}
	}
	return nil
}

// deleteQuestionTree removes an exam's questions, their options, and the
// link rows within the caller's transaction. Link rows go before the
// questions they reference.
func deleteQuestionTree(ctx context.Context, tx pgx.Tx, examID uuid.UUID) error {
	rows, err := tx.Query(ctx,
		`SELECT question_id FROM exam_questions WHERE exam_id = $1`, examID)
	if err != nil {
		return fmt.Errorf("list question ids: %w", err)
	}
	var questionIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan question id: %w", err)
		}
		questionIDs = append(questionIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list question ids: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM question_options WHERE question_id = ANY($1)`, questionIDs); err != nil {
		return fmt.Errorf("delete options: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM exam_questions WHERE exam_id = $1`, examID); err != nil {
		return fmt.Errorf("delete question links: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM questions WHERE id = ANY($1)`, questionIDs); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}
