package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/domain"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/helpers"
)

// GradeService is the administrative view of grades. It is not limited by
// teaching assignments.
type GradeService interface {
	GetGrade(ctx context.Context, id int64) (*models.Grade, error)
	ListGrades(ctx context.Context, query dto.GradeListQuery) ([]*models.Grade, error)
	CreateGrade(ctx context.Context, req dto.CreateGradeRequest) (*models.Grade, error)
	UpdateGrade(ctx context.Context, id int64, req dto.UpdateGradeRequest) (*models.Grade, error)
	DeleteGrade(ctx context.Context, id int64) error
	StudentAverage(ctx context.Context, studentID int64) (*dto.AverageResponse, error)
	SubjectStats(ctx context.Context, subjectID int64) (domain.GradeSummary, error)
	GroupStats(ctx context.Context, groupID int64) (domain.GradeSummary, error)
}

// gradeStore holds the grade writing rules shared by the administrative and
// the teacher services
type gradeStore struct {
	gradeRepo   repositories.IGradeRepository
	studentRepo repositories.IStudentRepository
	subjectRepo repositories.ISubjectRepository
	logger      zerolog.Logger
}

func (g *gradeStore) create(ctx context.Context, req dto.CreateGradeRequest) (*models.Grade, error) {
	if req.GradeValue == nil {
		return nil, apperrors.NewValidationError("grade value is required")
	}
	if err := domain.ValidateGradeValue(*req.GradeValue); err != nil {
		return nil, err
	}
	if _, err := g.studentRepo.GetByUserID(ctx, req.StudentID); err != nil {
		return nil, err
	}
	if _, err := g.subjectRepo.GetByID(ctx, req.SubjectID); err != nil {
		return nil, err
	}

	grade := &models.Grade{
		StudentID:  req.StudentID,
		SubjectID:  req.SubjectID,
		GradeValue: domain.Round2(*req.GradeValue),
		Comment:    helpers.OptionalString(req.Comment),
	}
	if _, err := g.gradeRepo.Create(ctx, grade); err != nil {
		return nil, err
	}
	g.logger.Info().
		Int64("gradeID", grade.ID).
		Int64("studentID", grade.StudentID).
		Int64("subjectID", grade.SubjectID).
		Msg("Grade recorded")
	return g.gradeRepo.GetByID(ctx, grade.ID)
}

func (g *gradeStore) update(ctx context.Context, grade *models.Grade, req dto.UpdateGradeRequest) (*models.Grade, error) {
	if req.GradeValue == nil && req.Comment == nil {
		return nil, apperrors.NewValidationError("nothing to update")
	}
	if req.GradeValue != nil {
		if err := domain.ValidateGradeValue(*req.GradeValue); err != nil {
			return nil, err
		}
		grade.GradeValue = domain.Round2(*req.GradeValue)
	}
	if req.Comment != nil {
		grade.Comment = helpers.OptionalString(req.Comment)
	}

	if err := g.gradeRepo.Update(ctx, grade); err != nil {
		return nil, err
	}
	return g.gradeRepo.GetByID(ctx, grade.ID)
}

func (g *gradeStore) summarize(ctx context.Context, filter models.GradeFilter) (domain.GradeSummary, error) {
	agg, err := g.gradeRepo.Aggregate(ctx, filter)
	if err != nil {
		return domain.GradeSummary{}, err
	}
	return summaryOf(agg), nil
}

type gradeServiceImpl struct {
	gradeStore
	groupRepo        repositories.IGroupRepository
	passingThreshold float64
}

// NewGradeService creates a new GradeService. Grades strictly below
// passingThreshold count as failing.
func NewGradeService(
	gradeRepo repositories.IGradeRepository,
	studentRepo repositories.IStudentRepository,
	subjectRepo repositories.ISubjectRepository,
	groupRepo repositories.IGroupRepository,
	passingThreshold float64,
	logger zerolog.Logger,
) GradeService {
	return &gradeServiceImpl{
		gradeStore: gradeStore{
			gradeRepo:   gradeRepo,
			studentRepo: studentRepo,
			subjectRepo: subjectRepo,
			logger:      logger,
		},
		groupRepo:        groupRepo,
		passingThreshold: passingThreshold,
	}
}

func parseTimeParam(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an RFC 3339 timestamp", apperrors.ErrValidationFailed, name)
	}
	return &t, nil
}

// gradeFilterFromQuery validates the query and converts it to a store filter
func gradeFilterFromQuery(q dto.GradeListQuery, passingThreshold float64) (models.GradeFilter, error) {
	filter := models.GradeFilter{
		StudentID:    q.StudentID,
		SubjectID:    q.SubjectID,
		GroupID:      q.GroupID,
		MinValue:     q.MinValue,
		MaxValue:     q.MaxValue,
		WithComments: q.WithComments,
	}
	if q.MinValue != nil && q.MaxValue != nil && *q.MinValue > *q.MaxValue {
		return filter, fmt.Errorf("%w: minValue cannot exceed maxValue", apperrors.ErrValidationFailed)
	}

	var err error
	if filter.UpdatedFrom, err = parseTimeParam("since", q.Since); err != nil {
		return filter, err
	}
	if filter.UpdatedTo, err = parseTimeParam("until", q.Until); err != nil {
		return filter, err
	}
	if filter.UpdatedFrom != nil && filter.UpdatedTo != nil && filter.UpdatedFrom.After(*filter.UpdatedTo) {
		return filter, fmt.Errorf("%w: since cannot be after until", apperrors.ErrValidationFailed)
	}
	if q.FailingOnly {
		threshold := passingThreshold
		filter.Below = &threshold
	}
	return filter, nil
}

func (s *gradeServiceImpl) GetGrade(ctx context.Context, id int64) (*models.Grade, error) {
	return s.gradeRepo.GetByID(ctx, id)
}

func (s *gradeServiceImpl) ListGrades(ctx context.Context, query dto.GradeListQuery) ([]*models.Grade, error) {
	filter, err := gradeFilterFromQuery(query, s.passingThreshold)
	if err != nil {
		return nil, err
	}
	return s.gradeRepo.List(ctx, filter)
}

func (s *gradeServiceImpl) CreateGrade(ctx context.Context, req dto.CreateGradeRequest) (*models.Grade, error) {
	return s.create(ctx, req)
}

func (s *gradeServiceImpl) UpdateGrade(ctx context.Context, id int64, req dto.UpdateGradeRequest) (*models.Grade, error) {
	grade, err := s.gradeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, grade, req)
}

func (s *gradeServiceImpl) DeleteGrade(ctx context.Context, id int64) error {
	return s.gradeRepo.Delete(ctx, id)
}

// StudentAverage returns the student's rounded average over all subjects
func (s *gradeServiceImpl) StudentAverage(ctx context.Context, studentID int64) (*dto.AverageResponse, error) {
	if _, err := s.studentRepo.GetByUserID(ctx, studentID); err != nil {
		return nil, err
	}
	sum, err := s.summarize(ctx, models.GradeFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}
	return &dto.AverageResponse{Average: sum.Average, Count: sum.Count}, nil
}

func (s *gradeServiceImpl) SubjectStats(ctx context.Context, subjectID int64) (domain.GradeSummary, error) {
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return domain.GradeSummary{}, err
	}
	return s.summarize(ctx, models.GradeFilter{SubjectID: &subjectID})
}

// GroupStats aggregates the grades of the group's current students
func (s *gradeServiceImpl) GroupStats(ctx context.Context, groupID int64) (domain.GradeSummary, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return domain.GradeSummary{}, err
	}
	return s.summarize(ctx, models.GradeFilter{GroupID: &groupID})
}
