package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/pkg/apperrors"
)

// AssignmentService manages which teacher teaches which subject
type AssignmentService interface {
	AssignTeacher(ctx context.Context, teacherID, subjectID int64) (*models.TeacherSubject, error)
	ActivateAssignment(ctx context.Context, id int64) (*models.TeacherSubject, error)
	DeactivateAssignment(ctx context.Context, id int64) (*models.TeacherSubject, error)
	RemoveAssignment(ctx context.Context, id int64) error
	ListByTeacher(ctx context.Context, teacherID int64) ([]*models.TeacherSubject, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]*models.TeacherSubject, error)
}

type assignmentServiceImpl struct {
	teacherRepo        repositories.ITeacherRepository
	subjectRepo        repositories.ISubjectRepository
	teacherSubjectRepo repositories.ITeacherSubjectRepository
	logger             zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	teacherRepo repositories.ITeacherRepository,
	subjectRepo repositories.ISubjectRepository,
	teacherSubjectRepo repositories.ITeacherSubjectRepository,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentServiceImpl{
		teacherRepo:        teacherRepo,
		subjectRepo:        subjectRepo,
		teacherSubjectRepo: teacherSubjectRepo,
		logger:             logger,
	}
}

// AssignTeacher creates an active assignment. An existing inactive
// assignment for the same pair is re-activated instead.
func (s *assignmentServiceImpl) AssignTeacher(ctx context.Context, teacherID, subjectID int64) (*models.TeacherSubject, error) {
	if _, err := s.teacherRepo.GetByUserID(ctx, teacherID); err != nil {
		return nil, err
	}
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}

	existing, err := s.teacherSubjectRepo.GetByPair(ctx, teacherID, subjectID)
	switch {
	case err == nil && existing.IsActive:
		return nil, apperrors.ErrAssignmentExists
	case err == nil:
		s.logger.Info().Int64("assignmentID", existing.ID).Msg("Re-activating teacher assignment")
		return s.setActive(ctx, existing.ID, true)
	case !errors.Is(err, apperrors.ErrAssignmentNotFound):
		return nil, err
	}

	ts, err := s.teacherSubjectRepo.Create(ctx, teacherID, subjectID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("teacherID", teacherID).Int64("subjectID", subjectID).Msg("Teacher assigned to subject")
	return ts, nil
}

func (s *assignmentServiceImpl) setActive(ctx context.Context, id int64, active bool) (*models.TeacherSubject, error) {
	if err := s.teacherSubjectRepo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.teacherSubjectRepo.GetByID(ctx, id)
}

func (s *assignmentServiceImpl) ActivateAssignment(ctx context.Context, id int64) (*models.TeacherSubject, error) {
	return s.setActive(ctx, id, true)
}

// DeactivateAssignment keeps the link but revokes the grade editing right
func (s *assignmentServiceImpl) DeactivateAssignment(ctx context.Context, id int64) (*models.TeacherSubject, error) {
	return s.setActive(ctx, id, false)
}

func (s *assignmentServiceImpl) RemoveAssignment(ctx context.Context, id int64) error {
	return s.teacherSubjectRepo.Delete(ctx, id)
}

func (s *assignmentServiceImpl) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.TeacherSubject, error) {
	if _, err := s.teacherRepo.GetByUserID(ctx, teacherID); err != nil {
		return nil, err
	}
	return s.teacherSubjectRepo.ListByTeacher(ctx, teacherID)
}

func (s *assignmentServiceImpl) ListBySubject(ctx context.Context, subjectID int64) ([]*models.TeacherSubject, error) {
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.teacherSubjectRepo.ListBySubject(ctx, subjectID)
}
