package repository

import (
	"context"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnswerKeyEntry is a question's scoring data, loaded server-side only.
type AnswerKeyEntry struct {
	QuestionID    uuid.UUID
	CorrectOption int
	Points        int
}

// QuestionRepository handles question and option data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListForStudent loads the ordered question/option tree for an exam with
// correct options and point values stripped.
func (r *QuestionRepository) ListForStudent(ctx context.Context, examID uuid.UUID) ([]model.QuestionForStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.text, eq.position, qo.option_text
		 FROM questions q
		 JOIN exam_questions eq ON eq.question_id = q.id
		 LEFT JOIN question_options qo ON qo.question_id = q.id
		 WHERE eq.exam_id = $1
		 ORDER BY eq.position, qo.option_order`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.QuestionForStudent
	index := make(map[uuid.UUID]int)

	for rows.Next() {
		var (
			id       uuid.UUID
			text     string
			position int
			option   *string
		)
		if err := rows.Scan(&id, &text, &position, &option); err != nil {
			return nil, err
		}

		i, seen := index[id]
		if !seen {
			i = len(questions)
			index[id] = i
			questions = append(questions, model.QuestionForStudent{
				ID:       id,
				Text:     text,
				Position: position,
			})
		}
		if option != nil {
			questions[i].Options = append(questions[i].Options, *option)
		}
	}
	return questions, rows.Err()
}

// AnswerKey loads every question's correct option and point value for an
// exam. Used by the submission path only; never crosses the student
// boundary.
func (r *QuestionRepository) AnswerKey(ctx context.Context, examID uuid.UUID) ([]AnswerKeyEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.correct_option, q.points
		 FROM questions q
		 JOIN exam_questions eq ON eq.question_id = q.id
		 WHERE eq.exam_id = $1`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var key []AnswerKeyEntry
	for rows.Next() {
		var e AnswerKeyEntry
		if err := rows.Scan(&e.QuestionID, &e.CorrectOption, &e.Points); err != nil {
			return nil, err
		}
		key = append(key, e)
	}
	return key, rows.Err()
}
