package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/pkg/apperrors"
)

const maxSubjectCodeLen = 20

// SubjectService manages subjects
type SubjectService interface {
	CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error)
	GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error)
	GetSubjectByCode(ctx context.Context, code string) (*models.Subject, error)
	ListSubjects(ctx context.Context, filter models.SubjectFilter) ([]*models.Subject, error)
	UpdateSubject(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id int64) error
	ListWithoutTeachers(ctx context.Context) ([]*models.Subject, error)
	ListWithoutGroups(ctx context.Context) ([]*models.Subject, error)
	GetSubjectInfo(ctx context.Context, id int64) (*dto.SubjectInfoResponse, error)
}

type subjectServiceImpl struct {
	subjectRepo repositories.ISubjectRepository
}

// NewSubjectService creates a new SubjectService
func NewSubjectService(subjectRepo repositories.ISubjectRepository) SubjectService {
	return &subjectServiceImpl{subjectRepo: subjectRepo}
}

// normalizeSubjectCode trims and uppercases the code
func normalizeSubjectCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", fmt.Errorf("%w: code cannot be empty", apperrors.ErrValidationFailed)
	}
	if len(code) > maxSubjectCodeLen {
		return "", fmt.Errorf("%w: code must be at most %d characters", apperrors.ErrValidationFailed, maxSubjectCodeLen)
	}
	return code, nil
}

func validateCredits(credits *int) error {
	if credits != nil && *credits <= 0 {
		return fmt.Errorf("%w: credits must be positive", apperrors.ErrValidationFailed)
	}
	return nil
}

func (s *subjectServiceImpl) ensureCodeFree(ctx context.Context, code string, excludeID int64) error {
	taken, err := s.subjectRepo.CodeExists(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrSubjectCodeExists
	}
	return nil
}

func (s *subjectServiceImpl) CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	code, err := normalizeSubjectCode(req.Code)
	if err != nil {
		return nil, err
	}
	if err := validateCredits(req.Credits); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, code, 0); err != nil {
		return nil, err
	}

	subject := &models.Subject{Code: code, Credits: req.Credits}
	if _, err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *subjectServiceImpl) GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error) {
	return s.subjectRepo.GetByID(ctx, id)
}

func (s *subjectServiceImpl) GetSubjectByCode(ctx context.Context, code string) (*models.Subject, error) {
	code, err := normalizeSubjectCode(code)
	if err != nil {
		return nil, err
	}
	return s.subjectRepo.GetByCode(ctx, code)
}

func (s *subjectServiceImpl) ListSubjects(ctx context.Context, filter models.SubjectFilter) ([]*models.Subject, error) {
	if filter.MinCredits != nil && filter.MaxCredits != nil && *filter.MinCredits > *filter.MaxCredits {
		return nil, fmt.Errorf("%w: minCredits cannot exceed maxCredits", apperrors.ErrValidationFailed)
	}
	filter.CodeContains = strings.TrimSpace(filter.CodeContains)
	filter.Semester = strings.TrimSpace(filter.Semester)
	return s.subjectRepo.List(ctx, filter)
}

// UpdateSubject changes the provided fields; code uniqueness ignores the subject itself
func (s *subjectServiceImpl) UpdateSubject(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code, err := normalizeSubjectCode(*req.Code)
		if err != nil {
			return nil, err
		}
		if code != subject.Code {
			if err := s.ensureCodeFree(ctx, code, id); err != nil {
				return nil, err
			}
		}
		subject.Code = code
	}
	if req.Credits != nil {
		if err := validateCredits(req.Credits); err != nil {
			return nil, err
		}
		subject.Credits = req.Credits
	}

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// DeleteSubject removes the subject with its grades and assignments
func (s *subjectServiceImpl) DeleteSubject(ctx context.Context, id int64) error {
	return s.subjectRepo.Delete(ctx, id)
}

func (s *subjectServiceImpl) ListWithoutTeachers(ctx context.Context) ([]*models.Subject, error) {
	return s.subjectRepo.ListWithoutTeachers(ctx)
}

func (s *subjectServiceImpl) ListWithoutGroups(ctx context.Context) ([]*models.Subject, error) {
	return s.subjectRepo.ListWithoutGroups(ctx)
}

// GetSubjectInfo reports how widely the subject is used. A subject with an
// active teacher or a curriculum entry is not safe to delete.
func (s *subjectServiceImpl) GetSubjectInfo(ctx context.Context, id int64) (*dto.SubjectInfoResponse, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	teachers, err := s.subjectRepo.CountActiveTeachers(ctx, id)
	if err != nil {
		return nil, err
	}
	groups, err := s.subjectRepo.CountGroups(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.SubjectInfoResponse{
		ID:                 subject.ID,
		Code:               subject.Code,
		Credits:            subject.Credits,
		ActiveTeacherCount: teachers,
		GroupCount:         groups,
		CanBeDeleted:       teachers == 0 && groups == 0,
	}, nil
}
