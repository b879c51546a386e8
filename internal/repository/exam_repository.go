package repository

import (
	"context"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	e := &model.Exam{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, duration_minutes, results_visible, active,
		        created_at, updated_at
		 FROM exams WHERE id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.Description, &e.DurationMinutes, &e.ResultsVisible,
		&e.Active, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListAvailableForStudent returns all active exams the student has no
// recorded result for. Ordering is by creation time; presentation may
// re-sort freely.
func (r *ExamRepository) ListAvailableForStudent(ctx context.Context, studentID int) ([]model.ExamSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.title, e.description, e.duration_minutes
		 FROM exams e
		 WHERE e.active = TRUE
		   AND NOT EXISTS (
		       SELECT 1 FROM exam_results er
		       WHERE er.exam_id = e.id AND er.student_id = $1
		   )
		 ORDER BY e.created_at`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.ExamSummary
	for rows.Next() {
		var e model.ExamSummary
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.DurationMinutes); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// ListAll returns every exam, including inactive ones. Teacher console path.
func (r *ExamRepository) ListAll(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, duration_minutes, results_visible, active,
		        created_at, updated_at
		 FROM exams
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.DurationMinutes,
			&e.ResultsVisible, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// TitlesByIDs returns exam titles for the given ids. Missing ids are
// simply absent from the map.
func (r *ExamRepository) TitlesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	titles := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, title FROM exams WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		titles[id] = title
	}
	return titles, rows.Err()
}

// SetResultsVisible flips the per-exam result visibility flag. Returns the
// number of rows updated so callers can distinguish an unknown exam.
func (r *ExamRepository) SetResultsVisible(ctx context.Context, id uuid.UUID, visible bool) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams SET results_visible = $1, updated_at = NOW() WHERE id = $2`,
		visible, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
