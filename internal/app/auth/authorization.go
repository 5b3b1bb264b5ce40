package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/logger"
)

// ErrNotAssigned is returned when a teacher acts on a subject without an active assignment
var ErrNotAssigned = fmt.Errorf("%w: teacher is not actively assigned to this subject", apperrors.ErrValidationFailed)

// AuthorizationService decides what a teacher may do with a subject
type AuthorizationService struct {
	teacherRepo        repositories.ITeacherRepository
	teacherSubjectRepo repositories.ITeacherSubjectRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(teacherRepo repositories.ITeacherRepository, teacherSubjectRepo repositories.ITeacherSubjectRepository) *AuthorizationService {
	return &AuthorizationService{
		teacherRepo:        teacherRepo,
		teacherSubjectRepo: teacherSubjectRepo,
	}
}

// TeachesSubject reports whether the teacher holds an active assignment for the subject
func (s *AuthorizationService) TeachesSubject(ctx context.Context, teacherUserID, subjectID int64) (bool, error) {
	active, err := s.teacherSubjectRepo.IsActive(ctx, teacherUserID, subjectID)
	if err != nil {
		logger.Error().Err(err).Int64("teacherID", teacherUserID).Int64("subjectID", subjectID).Msg("Error checking teacher assignment")
		return false, fmt.Errorf("failed to check teacher assignment: %w", err)
	}
	return active, nil
}

// ValidateTeacherTeachesSubject fails with ErrNotAssigned unless the teacher
// actively teaches the subject
func (s *AuthorizationService) ValidateTeacherTeachesSubject(ctx context.Context, teacherUserID, subjectID int64) error {
	ok, err := s.TeachesSubject(ctx, teacherUserID, subjectID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAssigned
	}
	return nil
}

// ValidateTeacher makes sure the user has a teacher record
func (s *AuthorizationService) ValidateTeacher(ctx context.Context, userID int64) error {
	if _, err := s.teacherRepo.GetByUserID(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrTeacherNotFound) {
			return apperrors.NewForbiddenError("only teachers can perform this action")
		}
		return err
	}
	return nil
}
