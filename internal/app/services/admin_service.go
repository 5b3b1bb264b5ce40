package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/auth"
	"github.com/yigit/ais/internal/pkg/helpers"
)

// AdminService manages student and teacher accounts
type AdminService interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	ListStudents(ctx context.Context, groupID *int64, page, size int) ([]*models.Student, int64, error)
	UpdateStudent(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	AssignStudentToGroup(ctx context.Context, id, groupID int64) (*models.Student, error)
	RemoveStudentFromGroup(ctx context.Context, id int64) (*models.Student, error)

	CreateTeacher(ctx context.Context, req dto.CreateTeacherRequest) (*models.Teacher, error)
	GetTeacher(ctx context.Context, id int64) (*models.Teacher, error)
	ListTeachers(ctx context.Context, department string) ([]*models.Teacher, error)
	UpdateTeacher(ctx context.Context, id int64, req dto.UpdateTeacherRequest) (*models.Teacher, error)
	DeleteTeacher(ctx context.Context, id int64) error

	Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)
}

type adminServiceImpl struct {
	userRepo    repositories.IUserRepository
	studentRepo repositories.IStudentRepository
	teacherRepo repositories.ITeacherRepository
	groupRepo   repositories.IGroupRepository
	subjectRepo repositories.ISubjectRepository
	gradeRepo   repositories.IGradeRepository
	logger      zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo repositories.IUserRepository,
	studentRepo repositories.IStudentRepository,
	teacherRepo repositories.ITeacherRepository,
	groupRepo repositories.IGroupRepository,
	subjectRepo repositories.ISubjectRepository,
	gradeRepo repositories.IGradeRepository,
	logger zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
		groupRepo:   groupRepo,
		subjectRepo: subjectRepo,
		gradeRepo:   gradeRepo,
		logger:      logger,
	}
}

// newAccount validates credentials and returns a user ready to insert
func (s *adminServiceImpl) newAccount(ctx context.Context, username, password string) (*models.User, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	taken, err := s.userRepo.UsernameExists(ctx, username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrUsernameExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &models.User{Username: username, Password: hash}, nil
}

// updateAccount applies optional username and password changes to the user
func (s *adminServiceImpl) updateAccount(ctx context.Context, id int64, username, password *string) error {
	if username == nil && password == nil {
		return nil
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if username != nil {
		name, err := normalizeUsername(*username)
		if err != nil {
			return err
		}
		taken, err := s.userRepo.UsernameExists(ctx, name, id)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrUsernameExists
		}
		user.Username = name
	}

	if password != nil {
		if err := validatePassword(*password); err != nil {
			return err
		}
		hash, err := auth.HashPassword(*password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hash
	}

	return s.userRepo.Update(ctx, user)
}

func (s *adminServiceImpl) ensureGroup(ctx context.Context, groupID *int64) error {
	if groupID == nil {
		return nil
	}
	_, err := s.groupRepo.GetByID(ctx, *groupID)
	return err
}

// CreateStudent creates the account and student record, optionally inside a group
func (s *adminServiceImpl) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	user, err := s.newAccount(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.ensureGroup(ctx, req.GroupID); err != nil {
		return nil, err
	}

	id, err := s.studentRepo.Create(ctx, user, req.GroupID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("studentID", id).Str("username", user.Username).Msg("Student created")
	return s.studentRepo.GetByUserID(ctx, id)
}

func (s *adminServiceImpl) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByUserID(ctx, id)
}

// ListStudents returns one page of students and the total count
func (s *adminServiceImpl) ListStudents(ctx context.Context, groupID *int64, page, size int) ([]*models.Student, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.studentRepo.List(ctx, repositories.StudentFilter{
		GroupID: groupID,
		Offset:  offset,
		Limit:   limit,
	})
}

// UpdateStudent changes the provided fields only
func (s *adminServiceImpl) UpdateStudent(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	if _, err := s.studentRepo.GetByUserID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.ensureGroup(ctx, req.GroupID); err != nil {
		return nil, err
	}
	if err := s.updateAccount(ctx, id, req.Username, req.Password); err != nil {
		return nil, err
	}
	if req.GroupID != nil {
		if err := s.studentRepo.SetGroup(ctx, id, req.GroupID); err != nil {
			return nil, err
		}
	}
	return s.studentRepo.GetByUserID(ctx, id)
}

// DeleteStudent removes the student with their grades and account
func (s *adminServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

func (s *adminServiceImpl) AssignStudentToGroup(ctx context.Context, id, groupID int64) (*models.Student, error) {
	if err := s.ensureGroup(ctx, &groupID); err != nil {
		return nil, err
	}
	if err := s.studentRepo.SetGroup(ctx, id, &groupID); err != nil {
		return nil, err
	}
	return s.studentRepo.GetByUserID(ctx, id)
}

func (s *adminServiceImpl) RemoveStudentFromGroup(ctx context.Context, id int64) (*models.Student, error) {
	if err := s.studentRepo.SetGroup(ctx, id, nil); err != nil {
		return nil, err
	}
	return s.studentRepo.GetByUserID(ctx, id)
}

// CreateTeacher creates the account and teacher record
func (s *adminServiceImpl) CreateTeacher(ctx context.Context, req dto.CreateTeacherRequest) (*models.Teacher, error) {
	user, err := s.newAccount(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	id, err := s.teacherRepo.Create(ctx, user, strings.TrimSpace(req.Department))
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("teacherID", id).Str("username", user.Username).Msg("Teacher created")
	return s.teacherRepo.GetByUserID(ctx, id)
}

func (s *adminServiceImpl) GetTeacher(ctx context.Context, id int64) (*models.Teacher, error) {
	return s.teacherRepo.GetByUserID(ctx, id)
}

func (s *adminServiceImpl) ListTeachers(ctx context.Context, department string) ([]*models.Teacher, error) {
	return s.teacherRepo.List(ctx, strings.TrimSpace(department))
}

// UpdateTeacher changes the provided fields only
func (s *adminServiceImpl) UpdateTeacher(ctx context.Context, id int64, req dto.UpdateTeacherRequest) (*models.Teacher, error) {
	if _, err := s.teacherRepo.GetByUserID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.updateAccount(ctx, id, req.Username, req.Password); err != nil {
		return nil, err
	}
	if req.Department != nil {
		if err := s.teacherRepo.UpdateDepartment(ctx, id, strings.TrimSpace(*req.Department)); err != nil {
			return nil, err
		}
	}
	return s.teacherRepo.GetByUserID(ctx, id)
}

// DeleteTeacher removes the teacher with their assignments and account
func (s *adminServiceImpl) DeleteTeacher(ctx context.Context, id int64) error {
	if err := s.teacherRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("teacherID", id).Msg("Teacher deleted")
	return nil
}

// Dashboard collects the system-wide counts
func (s *adminServiceImpl) Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	var (
		resp dto.AdminDashboardResponse
		err  error
	)

	counters := []struct {
		dst *int64
		fn  func(context.Context) (int64, error)
	}{
		{&resp.Users, s.userRepo.Count},
		{&resp.Admins, s.userRepo.CountAdmins},
		{&resp.Teachers, s.teacherRepo.Count},
		{&resp.Students, s.studentRepo.Count},
		{&resp.Groups, s.groupRepo.Count},
		{&resp.Subjects, s.subjectRepo.Count},
	}
	for _, c := range counters {
		if *c.dst, err = c.fn(ctx); err != nil {
			return nil, err
		}
	}

	agg, err := s.gradeRepo.Aggregate(ctx, models.GradeFilter{})
	if err != nil {
		return nil, err
	}
	resp.Grades = agg.Count
	return &resp, nil
}
