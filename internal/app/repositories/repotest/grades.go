package repotest

import (
	"context"
	"sort"

	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/domain"
	"github.com/yigit/ais/internal/pkg/apperrors"
)

type gradeRepo struct{ s *Store }

func (r *gradeRepo) load(g *models.Grade) *models.Grade {
	cp := *g
	if u := r.s.users[g.StudentID]; u != nil {
		cp.StudentUsername = u.Username
	}
	if sub := r.s.subjects[g.SubjectID]; sub != nil {
		cp.SubjectCode = sub.Code
	}
	return &cp
}

func (r *gradeRepo) Create(_ context.Context, grade *models.Grade) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.students[grade.StudentID] == nil || r.s.subjects[grade.SubjectID] == nil {
		return 0, apperrors.NewResourceNotFoundError("student or subject not found")
	}
	grade.ID = r.s.id()
	grade.UpdatedAt = r.s.Now()
	cp := *grade
	r.s.grades[grade.ID] = &cp
	return grade.ID, nil
}

func (r *gradeRepo) GetByID(_ context.Context, id int64) (*models.Grade, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.grades[id]
	if !ok {
		return nil, apperrors.ErrGradeNotFound
	}
	return r.load(g), nil
}

func (r *gradeRepo) Update(_ context.Context, grade *models.Grade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.grades[grade.ID]
	if !ok {
		return apperrors.ErrGradeNotFound
	}
	g.GradeValue = grade.GradeValue
	g.Comment = grade.Comment
	g.UpdatedAt = r.s.Now()
	grade.UpdatedAt = g.UpdatedAt
	return nil
}

func (r *gradeRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.grades[id]; !ok {
		return apperrors.ErrGradeNotFound
	}
	delete(r.s.grades, id)
	return nil
}

func (r *gradeRepo) matches(g *models.Grade, f models.GradeFilter) bool {
	switch {
	case f.StudentID != nil && g.StudentID != *f.StudentID:
		return false
	case f.SubjectID != nil && g.SubjectID != *f.SubjectID:
		return false
	case f.MinValue != nil && g.GradeValue < *f.MinValue:
		return false
	case f.MaxValue != nil && g.GradeValue > *f.MaxValue:
		return false
	case f.Below != nil && g.GradeValue >= *f.Below:
		return false
	case f.UpdatedFrom != nil && g.UpdatedAt.Before(*f.UpdatedFrom):
		return false
	case f.UpdatedTo != nil && g.UpdatedAt.After(*f.UpdatedTo):
		return false
	case f.WithComments && (g.Comment == nil || *g.Comment == ""):
		return false
	}
	if f.TeacherID != nil && !r.s.teaches(*f.TeacherID, g.SubjectID) {
		return false
	}
	if f.GroupID != nil {
		st := r.s.students[g.StudentID]
		if st == nil || st.GroupID == nil || *st.GroupID != *f.GroupID {
			return false
		}
	}
	return true
}

func (r *gradeRepo) selectGrades(f models.GradeFilter) []*models.Grade {
	out := make([]*models.Grade, 0)
	for _, g := range r.s.grades {
		if r.matches(g, f) {
			out = append(out, r.load(g))
		}
	}
	return out
}

func (r *gradeRepo) List(_ context.Context, filter models.GradeFilter) ([]*models.Grade, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.selectGrades(filter)
	if filter.OrderByValueDesc {
		sort.Slice(out, func(i, j int) bool {
			if out[i].GradeValue != out[j].GradeValue {
				return out[i].GradeValue > out[j].GradeValue
			}
			return out[i].ID < out[j].ID
		})
	} else {
		sort.Slice(out, func(i, j int) bool {
			if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
				return out[i].UpdatedAt.After(out[j].UpdatedAt)
			}
			return out[i].ID > out[j].ID
		})
	}
	if filter.Limit > 0 && uint64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *gradeRepo) Aggregate(_ context.Context, filter models.GradeFilter) (models.GradeAggregate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	grades := r.selectGrades(filter)
	values := make([]float64, len(grades))
	for i, g := range grades {
		values[i] = g.GradeValue
	}
	sum := domain.Summarize(values)
	return models.GradeAggregate{Count: sum.Count, Average: sum.Average, Min: sum.Min, Max: sum.Max}, nil
}
