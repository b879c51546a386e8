package repository

import (
	"context"
	"errors"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TeacherRepository handles teacher account data access.
type TeacherRepository struct {
	pool *pgxpool.Pool
}

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

// GetByID retrieves a teacher by id.
func (r *TeacherRepository) GetByID(ctx context.Context, id int) (*model.Teacher, error) {
	t := &model.Teacher{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, name, password_hash, created_at
		 FROM teachers WHERE id = $1`, id,
	).Scan(&t.ID, &t.Username, &t.Name, &t.PasswordHash, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByUsername retrieves a teacher by username for login.
func (r *TeacherRepository) GetByUsername(ctx context.Context, username string) (*model.Teacher, error) {
	t := &model.Teacher{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, name, password_hash, created_at
		 FROM teachers WHERE username = $1`, username,
	).Scan(&t.ID, &t.Username, &t.Name, &t.PasswordHash, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new teacher account.
func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teachers (username, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		t.Username, t.Name, t.PasswordHash,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}
