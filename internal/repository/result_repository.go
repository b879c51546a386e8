package repository

import (
	"context"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultRepository handles exam result reads. Result writes happen inside
// the submission transaction and live in the submission service.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Exists reports whether a result is already recorded for the pair. Used
// as the eligibility fast path; the unique constraint on
// (exam_id, student_id) remains the authoritative guard.
func (r *ResultRepository) Exists(ctx context.Context, examID uuid.UUID, studentID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM exam_results WHERE exam_id = $1 AND student_id = $2
		 )`, examID, studentID,
	).Scan(&exists)
	return exists, err
}

// GetForStudent retrieves one student's result with the denormalized
// student name and exam title.
func (r *ResultRepository) GetForStudent(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamResult, error) {
	res := &model.ExamResult{}
	err := r.pool.QueryRow(ctx,
		`SELECT er.id, er.exam_id, e.title, er.student_id, s.name,
		        er.score, er.total_possible, er.submission_time
		 FROM exam_results er
		 JOIN students s ON s.id = er.student_id
		 JOIN exams e ON e.id = er.exam_id
		 WHERE er.exam_id = $1 AND er.student_id = $2`, examID, studentID,
	).Scan(&res.ID, &res.ExamID, &res.ExamTitle, &res.StudentID, &res.StudentName,
		&res.Score, &res.TotalPossible, &res.SubmissionTime)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListForExam retrieves all results for one exam, best score first. Score
// ties are broken by submission order.
func (r *ResultRepository) ListForExam(ctx context.Context, examID uuid.UUID) ([]model.ExamResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT er.id, er.exam_id, e.title, er.student_id, s.name,
		        er.score, er.total_possible, er.submission_time
		 FROM exam_results er
		 JOIN students s ON s.id = er.student_id
		 JOIN exams e ON e.id = er.exam_id
		 WHERE er.exam_id = $1
		 ORDER BY er.score DESC, er.submission_time ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.ExamResult
	for rows.Next() {
		var res model.ExamResult
		if err := rows.Scan(&res.ID, &res.ExamID, &res.ExamTitle, &res.StudentID,
			&res.StudentName, &res.Score, &res.TotalPossible, &res.SubmissionTime); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
