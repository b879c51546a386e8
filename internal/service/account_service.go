package service

import (
	"context"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
)

// AccountService looks up student and teacher accounts for login and
// profile reads.
type AccountService struct {
	studentRepo *repository.StudentRepository
	teacherRepo *repository.TeacherRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(studentRepo *repository.StudentRepository, teacherRepo *repository.TeacherRepository) *AccountService {
	return &AccountService{studentRepo: studentRepo, teacherRepo: teacherRepo}
}

// GetStudentByUsername retrieves a student account for login.
func (s *AccountService) GetStudentByUsername(ctx context.Context, username string) (*model.Student, error) {
	return s.studentRepo.GetByUsername(ctx, username)
}

// GetStudentByID retrieves a student account by id.
func (s *AccountService) GetStudentByID(ctx context.Context, id int) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetTeacherByUsername retrieves a teacher account for login.
func (s *AccountService) GetTeacherByUsername(ctx context.Context, username string) (*model.Teacher, error) {
	return s.teacherRepo.GetByUsername(ctx, username)
}

// GetTeacherByID retrieves a teacher account by id.
func (s *AccountService) GetTeacherByID(ctx context.Context, id int) (*model.Teacher, error) {
	return s.teacherRepo.GetByID(ctx, id)
}
