package services

import (
	"context"
	"sort"

	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/domain"
)

// StudentService is a student's read-only view of their own record
type StudentService interface {
	Profile(ctx context.Context, studentID int64) (*dto.StudentProfileResponse, error)
	Grades(ctx context.Context, studentID int64) ([]*models.Grade, error)
	Subjects(ctx context.Context, studentID int64) ([]*models.Subject, error)
	Average(ctx context.Context, studentID int64) (*dto.AverageResponse, error)
	Report(ctx context.Context, studentID int64) (*dto.StudentReportResponse, error)
}

type studentServiceImpl struct {
	studentRepo repositories.IStudentRepository
	subjectRepo repositories.ISubjectRepository
	gradeRepo   repositories.IGradeRepository
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo repositories.IStudentRepository,
	subjectRepo repositories.ISubjectRepository,
	gradeRepo repositories.IGradeRepository,
) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		subjectRepo: subjectRepo,
		gradeRepo:   gradeRepo,
	}
}

func (s *studentServiceImpl) Profile(ctx context.Context, studentID int64) (*dto.StudentProfileResponse, error) {
	student, err := s.studentRepo.GetByUserID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	resp := &dto.StudentProfileResponse{ID: student.UserID, GroupID: student.GroupID}
	if student.User != nil {
		resp.Username = student.User.Username
	}
	if student.Group != nil {
		code := student.Group.GroupCode
		resp.GroupCode = &code
	}
	return resp, nil
}

func (s *studentServiceImpl) Grades(ctx context.Context, studentID int64) ([]*models.Grade, error) {
	if _, err := s.studentRepo.GetByUserID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.gradeRepo.List(ctx, models.GradeFilter{StudentID: &studentID})
}

// Subjects lists the curriculum of the student's group; empty without a group
func (s *studentServiceImpl) Subjects(ctx context.Context, studentID int64) ([]*models.Subject, error) {
	student, err := s.studentRepo.GetByUserID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.GroupID == nil {
		return []*models.Subject{}, nil
	}
	return s.subjectRepo.ListByGroup(ctx, *student.GroupID)
}

func (s *studentServiceImpl) Average(ctx context.Context, studentID int64) (*dto.AverageResponse, error) {
	if _, err := s.studentRepo.GetByUserID(ctx, studentID); err != nil {
		return nil, err
	}
	agg, err := s.gradeRepo.Aggregate(ctx, models.GradeFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}
	sum := summaryOf(agg)
	return &dto.AverageResponse{Average: sum.Average, Count: sum.Count}, nil
}

// Report summarizes the student's grades overall and per subject
func (s *studentServiceImpl) Report(ctx context.Context, studentID int64) (*dto.StudentReportResponse, error) {
	student, err := s.studentRepo.GetByUserID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	grades, err := s.gradeRepo.List(ctx, models.GradeFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	all := make([]float64, 0, len(grades))
	bySubject := map[int64][]float64{}
	codes := map[int64]string{}
	for _, g := range grades {
		all = append(all, g.GradeValue)
		bySubject[g.SubjectID] = append(bySubject[g.SubjectID], g.GradeValue)
		codes[g.SubjectID] = g.SubjectCode
	}

	report := &dto.StudentReportResponse{
		StudentID: student.UserID,
		Overall:   domain.Summarize(all),
		Subjects:  make([]dto.SubjectReport, 0, len(bySubject)),
	}
	if student.User != nil {
		report.Username = student.User.Username
	}
	if student.Group != nil {
		report.GroupCode = student.Group.GroupCode
	}
	for subjectID, values := range bySubject {
		report.Subjects = append(report.Subjects, dto.SubjectReport{
			SubjectID:   subjectID,
			SubjectCode: codes[subjectID],
			Summary:     domain.Summarize(values),
		})
	}
	sort.Slice(report.Subjects, func(i, j int) bool {
		return report.Subjects[i].SubjectCode < report.Subjects[j].SubjectCode
	})
	return report, nil
}
