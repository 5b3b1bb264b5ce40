package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/domain"
	"github.com/yigit/ais/internal/pkg/apperrors"
)

// GroupService manages groups and their curriculum
type GroupService interface {
	CreateGroup(ctx context.Context, req dto.CreateGroupRequest) (*models.Group, error)
	UpdateGroup(ctx context.Context, id int64, req dto.UpdateGroupRequest) (*models.Group, error)
	DeleteGroup(ctx context.Context, id int64) error
	GetGroupByID(ctx context.Context, id int64) (*models.Group, error)
	GetGroupByCode(ctx context.Context, code string) (*models.Group, error)
	ListGroups(ctx context.Context, filter models.GroupFilter) ([]*models.Group, error)
	ListProgramInitials(ctx context.Context) ([]string, error)
	ListStartYears(ctx context.Context) ([]int, error)

	ListStudents(ctx context.Context, groupID int64) ([]*models.Student, error)
	ListSubjects(ctx context.Context, groupID int64, semester string) ([]*models.GroupSubject, error)
	ListGroupsBySubject(ctx context.Context, subjectID int64) ([]*models.Group, error)
	ListGroupsByTeacher(ctx context.Context, teacherID int64) ([]*models.Group, error)
	AssignSubject(ctx context.Context, groupID int64, req dto.AssignSubjectRequest) (*models.GroupSubject, error)
	RemoveSubject(ctx context.Context, groupID, subjectID int64) error
	GetGroupInfo(ctx context.Context, id int64) (*dto.GroupInfoResponse, error)
}

type groupServiceImpl struct {
	groupRepo        repositories.IGroupRepository
	studentRepo      repositories.IStudentRepository
	subjectRepo      repositories.ISubjectRepository
	teacherRepo      repositories.ITeacherRepository
	groupSubjectRepo repositories.IGroupSubjectRepository
	logger           zerolog.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(
	groupRepo repositories.IGroupRepository,
	studentRepo repositories.IStudentRepository,
	subjectRepo repositories.ISubjectRepository,
	teacherRepo repositories.ITeacherRepository,
	groupSubjectRepo repositories.IGroupSubjectRepository,
	logger zerolog.Logger,
) GroupService {
	return &groupServiceImpl{
		groupRepo:        groupRepo,
		studentRepo:      studentRepo,
		subjectRepo:      subjectRepo,
		teacherRepo:      teacherRepo,
		groupSubjectRepo: groupSubjectRepo,
		logger:           logger,
	}
}

func groupFromParts(parts domain.GroupCodeParts) *models.Group {
	g := &models.Group{
		GroupCode:       parts.Code(),
		ProgramInitials: parts.ProgramInitials,
		StartYear:       parts.StartYear,
	}
	if parts.LanguageCode != "" {
		lang := parts.LanguageCode
		g.LanguageCode = &lang
	}
	return g
}

// ensureCodeFree fails when another group already uses code
func (s *groupServiceImpl) ensureCodeFree(ctx context.Context, code string, excludeID int64) error {
	taken, err := s.groupRepo.CodeExists(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrGroupCodeExists
	}
	return nil
}

// CreateGroup derives the code from the parts and stores the group
func (s *groupServiceImpl) CreateGroup(ctx context.Context, req dto.CreateGroupRequest) (*models.Group, error) {
	if req.StartYear == nil {
		return nil, apperrors.NewValidationError("start year is required")
	}
	parts, err := domain.GroupCodeParts{
		ProgramInitials: req.ProgramInitials,
		StartYear:       *req.StartYear,
		LanguageCode:    req.LanguageCode,
	}.Normalize()
	if err != nil {
		return nil, err
	}

	group := groupFromParts(parts)
	if err := s.ensureCodeFree(ctx, group.GroupCode, 0); err != nil {
		return nil, err
	}
	if _, err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("groupID", group.ID).Str("groupCode", group.GroupCode).Msg("Group created")
	return group, nil
}

// UpdateGroup merges the provided parts into the group and derives the code again
func (s *groupServiceImpl) UpdateGroup(ctx context.Context, id int64, req dto.UpdateGroupRequest) (*models.Group, error) {
	existing, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	parts := domain.GroupCodeParts{
		ProgramInitials: existing.ProgramInitials,
		StartYear:       existing.StartYear,
		LanguageCode:    existing.Language(),
	}
	if req.ProgramInitials != nil {
		parts.ProgramInitials = *req.ProgramInitials
	}
	if req.StartYear != nil {
		parts.StartYear = *req.StartYear
	}
	if req.LanguageCode != nil {
		parts.LanguageCode = *req.LanguageCode
	}

	parts, err = parts.Normalize()
	if err != nil {
		return nil, err
	}

	updated := groupFromParts(parts)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.GroupCode != existing.GroupCode {
		if err := s.ensureCodeFree(ctx, updated.GroupCode, id); err != nil {
			return nil, err
		}
	}

	if err := s.groupRepo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteGroup removes the group; its students stay without a group
func (s *groupServiceImpl) DeleteGroup(ctx context.Context, id int64) error {
	if err := s.groupRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("groupID", id).Msg("Group deleted")
	return nil
}

func (s *groupServiceImpl) GetGroupByID(ctx context.Context, id int64) (*models.Group, error) {
	return s.groupRepo.GetByID(ctx, id)
}

// GetGroupByCode accepts any letter case; the code must otherwise be canonical
func (s *groupServiceImpl) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	parts, err := domain.ParseGroupCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	return s.groupRepo.GetByCode(ctx, parts.Code())
}

func (s *groupServiceImpl) ListGroups(ctx context.Context, filter models.GroupFilter) ([]*models.Group, error) {
	if filter.ProgramInitials != "" {
		initials, err := domain.NormalizeInitials(filter.ProgramInitials)
		if err != nil {
			return nil, err
		}
		filter.ProgramInitials = initials
	}
	if filter.StartYear != nil {
		if err := domain.ValidateStartYear(*filter.StartYear); err != nil {
			return nil, err
		}
	}
	return s.groupRepo.List(ctx, filter)
}

func (s *groupServiceImpl) ListProgramInitials(ctx context.Context) ([]string, error) {
	return s.groupRepo.DistinctProgramInitials(ctx)
}

func (s *groupServiceImpl) ListStartYears(ctx context.Context) ([]int, error) {
	return s.groupRepo.DistinctStartYears(ctx)
}

// ListStudents returns every student of the group
func (s *groupServiceImpl) ListStudents(ctx context.Context, groupID int64) ([]*models.Student, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	students, _, err := s.studentRepo.List(ctx, repositories.StudentFilter{GroupID: &groupID})
	return students, err
}

// ListSubjects returns the group's curriculum; an empty semester means every semester
func (s *groupServiceImpl) ListSubjects(ctx context.Context, groupID int64, semester string) ([]*models.GroupSubject, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.groupSubjectRepo.ListByGroup(ctx, groupID, strings.TrimSpace(semester))
}

func (s *groupServiceImpl) ListGroupsBySubject(ctx context.Context, subjectID int64) ([]*models.Group, error) {
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.groupRepo.ListBySubject(ctx, subjectID)
}

func (s *groupServiceImpl) ListGroupsByTeacher(ctx context.Context, teacherID int64) ([]*models.Group, error) {
	if _, err := s.teacherRepo.GetByUserID(ctx, teacherID); err != nil {
		return nil, err
	}
	return s.groupRepo.ListByTeacher(ctx, teacherID)
}

// AssignSubject adds the subject to the group's curriculum
func (s *groupServiceImpl) AssignSubject(ctx context.Context, groupID int64, req dto.AssignSubjectRequest) (*models.GroupSubject, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	subject, err := s.subjectRepo.GetByID(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}

	gs := &models.GroupSubject{
		GroupID:          groupID,
		SubjectID:        req.SubjectID,
		AcademicSemester: strings.TrimSpace(req.AcademicSemester),
	}
	if _, err := s.groupSubjectRepo.Create(ctx, gs); err != nil {
		return nil, err
	}
	gs.GroupCode = group.GroupCode
	gs.SubjectCode = subject.Code
	return gs, nil
}

func (s *groupServiceImpl) RemoveSubject(ctx context.Context, groupID, subjectID int64) error {
	return s.groupSubjectRepo.DeleteByPair(ctx, groupID, subjectID)
}

// GetGroupInfo reports usage counts and whether the group can be deleted
// without detaching anything
func (s *groupServiceImpl) GetGroupInfo(ctx context.Context, id int64) (*dto.GroupInfoResponse, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	students, err := s.groupRepo.CountStudents(ctx, id)
	if err != nil {
		return nil, err
	}
	subjects, err := s.groupRepo.CountSubjects(ctx, id)
	if err != nil {
		return nil, err
	}

	status := dto.GroupStatusEmpty
	if students > 0 {
		status = dto.GroupStatusActive
	}
	return &dto.GroupInfoResponse{
		ID:           group.ID,
		GroupCode:    group.GroupCode,
		StudentCount: students,
		SubjectCount: subjects,
		CanBeDeleted: students == 0 && subjects == 0,
		Status:       status,
	}, nil
}
