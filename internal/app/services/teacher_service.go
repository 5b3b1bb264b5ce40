package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/ais/internal/app/auth"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/domain"
)

const (
	defaultTopGrades = 10
	maxTopGrades     = 100
)

// TeacherService is a teacher's own grade work. Every operation on a subject
// requires an active assignment to it.
type TeacherService interface {
	EnterGrade(ctx context.Context, teacherID int64, req dto.CreateGradeRequest) (*models.Grade, error)
	EditGrade(ctx context.Context, teacherID, gradeID int64, req dto.UpdateGradeRequest) (*models.Grade, error)
	DeleteGrade(ctx context.Context, teacherID, gradeID int64) error

	GradesBySubject(ctx context.Context, teacherID, subjectID int64) ([]*models.Grade, error)
	StudentGrades(ctx context.Context, teacherID, subjectID, studentID int64) ([]*models.Grade, error)
	GroupGrades(ctx context.Context, teacherID, subjectID, groupID int64) ([]*models.Grade, error)
	SubjectStats(ctx context.Context, teacherID, subjectID int64) (domain.GradeSummary, error)
	FailingGrades(ctx context.Context, teacherID, subjectID int64) ([]*models.Grade, error)
	TopGrades(ctx context.Context, teacherID, subjectID int64, limit int) ([]*models.Grade, error)
	CommentedGrades(ctx context.Context, teacherID, subjectID int64) ([]*models.Grade, error)

	Subjects(ctx context.Context, teacherID int64) ([]*models.Subject, error)
	Groups(ctx context.Context, teacherID int64) ([]*models.Group, error)
	Students(ctx context.Context, teacherID int64) ([]*models.Student, error)
	Dashboard(ctx context.Context, teacherID int64) (*dto.TeacherDashboardResponse, error)
}

type teacherServiceImpl struct {
	gradeStore
	teacherRepo      repositories.ITeacherRepository
	groupRepo        repositories.IGroupRepository
	authz            *auth.AuthorizationService
	passingThreshold float64
}

// NewTeacherService creates a new TeacherService
func NewTeacherService(
	gradeRepo repositories.IGradeRepository,
	studentRepo repositories.IStudentRepository,
	subjectRepo repositories.ISubjectRepository,
	teacherRepo repositories.ITeacherRepository,
	groupRepo repositories.IGroupRepository,
	authz *auth.AuthorizationService,
	passingThreshold float64,
	logger zerolog.Logger,
) TeacherService {
	return &teacherServiceImpl{
		gradeStore: gradeStore{
			gradeRepo:   gradeRepo,
			studentRepo: studentRepo,
			subjectRepo: subjectRepo,
			logger:      logger,
		},
		teacherRepo:      teacherRepo,
		groupRepo:        groupRepo,
		authz:            authz,
		passingThreshold: passingThreshold,
	}
}

// gate checks the assignment and rejects unknown subjects first
func (s *teacherServiceImpl) gate(ctx context.Context, teacherID, subjectID int64) error {
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return err
	}
	return s.authz.ValidateTeacherTeachesSubject(ctx, teacherID, subjectID)
}

func (s *teacherServiceImpl) EnterGrade(ctx context.Context, teacherID int64, req dto.CreateGradeRequest) (*models.Grade, error) {
	if err := s.gate(ctx, teacherID, req.SubjectID); err != nil {
		return nil, err
	}
	return s.create(ctx, req)
}

func (s *teacherServiceImpl) EditGrade(ctx context.Context, teacherID, gradeID int64, req dto.UpdateGradeRequest) (*models.Grade, error) {
	grade, err := s.gradeRepo.GetByID(ctx, gradeID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateTeacherTeachesSubject(ctx, teacherID, grade.SubjectID); err != nil {
		return nil, err
	}
	return s.update(ctx, grade, req)
}

func (s *teacherServiceImpl) DeleteGrade(ctx context.Context, teacherID, gradeID int64) error {
	grade, err := s.gradeRepo.GetByID(ctx, gradeID)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateTeacherTeachesSubject(ctx, teacherID, grade.SubjectID); err != nil {
		return err
	}
	if err := s.gradeRepo.Delete(ctx, gradeID); err != nil {
		return err
	}
	s.logger.Info().Int64("gradeID", gradeID).Int64("teacherID", teacherID).Msg("Grade deleted")
	return nil
}

// listFor gates the subject and lists its grades narrowed by filter
func (s *teacherServiceImpl) listFor(ctx context.Context, teacherID, subjectID int64, filter models.GradeFilter) ([]*models.Grade, error) {
	if err := s.gate(ctx, teacherID, subjectID); err != nil {
		return nil, err
	}
	filter.SubjectID = &subjectID
	return s.gradeRepo.List(ctx, filter)
}

func (s *teacherServiceImpl) GradesBySubject(ctx context.Context, teacherID, subjectID int64) ([]*models.Grade, error) {
	return s.listFor(ctx, teacherID, subjectID, models.GradeFilter{})
}

func (s *teacherServiceImpl) StudentGrades(ctx context.Context, teacherID, subjectID, studentID int64) ([]*models.Grade, error) {
	if _, err := s.studentRepo.GetByUserID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.listFor(ctx, teacherID, subjectID, models.GradeFilter{StudentID: &studentID})
}

func (s *teacherServiceImpl) GroupGrades(ctx context.Context, teacherID, subjectID, groupID int64) ([]*models.Grade, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.listFor(ctx, teacherID, subjectID, models.GradeFilter{GroupID: &groupID})
}

func (s *teacherServiceImpl) SubjectStats(ctx context.Context, teacherID, subjectID int64) (domain.GradeSummary, error) {
	if err := s.gate(ctx, teacherID, subjectID); err != nil {
		return domain.GradeSummary{}, err
	}
	return s.summarize(ctx, models.GradeFilter{SubjectID: &subjectID})
}

// FailingGrades lists grades strictly below the passing threshold
func (s *teacherServiceImpl) FailingGrades(ctx context.Context, teacherID, subjectID int64) ([]*models.Grade, error) {
	threshold := s.passingThreshold
	return s.listFor(ctx, teacherID, subjectID, models.GradeFilter{Below: &threshold})
}

// TopGrades lists the best grades first; limit falls back to 10 and is capped at 100
func (s *teacherServiceImpl) TopGrades(ctx context.Context, teacherID, subjectID int64, limit int) ([]*models.Grade, error) {
	if limit <= 0 {
		limit = defaultTopGrades
	}
	if limit > maxTopGrades {
		limit = maxTopGrades
	}
	return s.listFor(ctx, teacherID, subjectID, models.GradeFilter{
		OrderByValueDesc: true,
		Limit:            uint64(limit),
	})
}

func (s *teacherServiceImpl) CommentedGrades(ctx context.Context, teacherID, subjectID int64) ([]*models.Grade, error) {
	return s.listFor(ctx, teacherID, subjectID, models.GradeFilter{WithComments: true})
}

// Subjects lists the subjects the teacher actively teaches
func (s *teacherServiceImpl) Subjects(ctx context.Context, teacherID int64) ([]*models.Subject, error) {
	return s.subjectRepo.ListByTeacher(ctx, teacherID, true)
}

func (s *teacherServiceImpl) Groups(ctx context.Context, teacherID int64) ([]*models.Group, error) {
	return s.groupRepo.ListByTeacher(ctx, teacherID)
}

// Students lists members of groups that study a subject the teacher teaches
func (s *teacherServiceImpl) Students(ctx context.Context, teacherID int64) ([]*models.Student, error) {
	students, _, err := s.studentRepo.List(ctx, repositories.StudentFilter{TeacherID: &teacherID})
	return students, err
}

func (s *teacherServiceImpl) Dashboard(ctx context.Context, teacherID int64) (*dto.TeacherDashboardResponse, error) {
	teacher, err := s.teacherRepo.GetByUserID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.Subjects(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	groups, err := s.Groups(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	_, students, err := s.studentRepo.List(ctx, repositories.StudentFilter{TeacherID: &teacherID, Limit: 1})
	if err != nil {
		return nil, err
	}

	agg, err := s.gradeRepo.Aggregate(ctx, models.GradeFilter{TeacherID: &teacherID})
	if err != nil {
		return nil, err
	}

	resp := &dto.TeacherDashboardResponse{
		TeacherID:    teacher.UserID,
		Department:   teacher.Department,
		SubjectCount: len(subjects),
		GroupCount:   len(groups),
		StudentCount: students,
		GradeCount:   agg.Count,
	}
	if teacher.User != nil {
		resp.Username = teacher.User.Username
	}
	return resp, nil
}
