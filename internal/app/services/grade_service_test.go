package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/domain"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/helpers"
)

func TestGradeService_CreateGrade(t *testing.T) {
	f := newFixture(t)
	st := f.studentAccount(t, "sam", nil)
	sub := f.subject(t, "MATH101")

	tests := []struct {
		name    string
		req     dto.CreateGradeRequest
		want    float64
		wantErr error
	}{
		{"rounds to two decimals", dto.CreateGradeRequest{StudentID: st.UserID, SubjectID: sub.ID, GradeValue: helpers.Ptr(87.456)}, 87.46, nil},
		{"lower bound", dto.CreateGradeRequest{StudentID: st.UserID, SubjectID: sub.ID, GradeValue: helpers.Ptr(0.0)}, 0, nil},
		{"upper bound", dto.CreateGradeRequest{StudentID: st.UserID, SubjectID: sub.ID, GradeValue: helpers.Ptr(100.0)}, 100, nil},
		{"missing value", dto.CreateGradeRequest{StudentID: st.UserID, SubjectID: sub.ID}, 0, apperrors.ErrValidationFailed},
		{"negative", dto.CreateGradeRequest{StudentID: st.UserID, SubjectID: sub.ID, GradeValue: helpers.Ptr(-1.0)}, 0, apperrors.ErrValidationFailed},
		{"above range", dto.CreateGradeRequest{StudentID: st.UserID, SubjectID: sub.ID, GradeValue: helpers.Ptr(100.01)}, 0, apperrors.ErrValidationFailed},
		{"unknown student", dto.CreateGradeRequest{StudentID: 999, SubjectID: sub.ID, GradeValue: helpers.Ptr(50.0)}, 0, apperrors.ErrStudentNotFound},
		{"unknown subject", dto.CreateGradeRequest{StudentID: st.UserID, SubjectID: 999, GradeValue: helpers.Ptr(50.0)}, 0, apperrors.ErrSubjectNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := f.grades.CreateGrade(f.ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.GradeValue)
			assert.Equal(t, "MATH101", g.SubjectCode)
			assert.Equal(t, "sam", g.StudentUsername)
		})
	}
}

func TestGradeService_MultipleGradesPerSubject(t *testing.T) {
	f := newFixture(t)
	st := f.studentAccount(t, "sam", nil)
	sub := f.subject(t, "MATH101")

	f.gradeFor(t, st.UserID, sub.ID, 40, "")
	f.gradeFor(t, st.UserID, sub.ID, 60, "")

	grades, err := f.grades.ListGrades(f.ctx, dto.GradeListQuery{StudentID: &st.UserID, SubjectID: &sub.ID})
	require.NoError(t, err)
	assert.Len(t, grades, 2)
}

func TestGradeService_UpdateGrade(t *testing.T) {
	f := newFixture(t)
	st := f.studentAccount(t, "sam", nil)
	sub := f.subject(t, "MATH101")
	g := f.gradeFor(t, st.UserID, sub.ID, 40, "late")

	updated, err := f.grades.UpdateGrade(f.ctx, g.ID, dto.UpdateGradeRequest{GradeValue: helpers.Ptr(55.555)})
	require.NoError(t, err)
	assert.Equal(t, 55.56, updated.GradeValue)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, "late", *updated.Comment)

	updated, err = f.grades.UpdateGrade(f.ctx, g.ID, dto.UpdateGradeRequest{Comment: helpers.Ptr("  ")})
	require.NoError(t, err)
	assert.Nil(t, updated.Comment)
	assert.Equal(t, 55.56, updated.GradeValue)

	_, err = f.grades.UpdateGrade(f.ctx, g.ID, dto.UpdateGradeRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.grades.UpdateGrade(f.ctx, g.ID, dto.UpdateGradeRequest{GradeValue: helpers.Ptr(101.0)})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.grades.UpdateGrade(f.ctx, 999, dto.UpdateGradeRequest{GradeValue: helpers.Ptr(50.0)})
	assert.ErrorIs(t, err, apperrors.ErrGradeNotFound)

	require.NoError(t, f.grades.DeleteGrade(f.ctx, g.ID))
	assert.ErrorIs(t, f.grades.DeleteGrade(f.ctx, g.ID), apperrors.ErrGradeNotFound)
}

func TestGradeService_ListGrades(t *testing.T) {
	f := newFixture(t)
	g1 := f.group(t, "PI", 24, "E")
	g2 := f.group(t, "CS", 24, "")
	amy := f.studentAccount(t, "amy", &g1.ID)
	bob := f.studentAccount(t, "bob", &g2.ID)
	math := f.subject(t, "MATH101")
	phys := f.subject(t, "PHYS101")

	f.gradeFor(t, amy.UserID, math.ID, 35, "needs work")
	f.gradeFor(t, amy.UserID, phys.ID, 75, "")
	f.gradeFor(t, bob.UserID, math.ID, 90, "")
	f.gradeFor(t, bob.UserID, phys.ID, 50, "")

	tests := []struct {
		name  string
		query dto.GradeListQuery
		want  int
	}{
		{"all", dto.GradeListQuery{}, 4},
		{"by subject", dto.GradeListQuery{SubjectID: &math.ID}, 2},
		{"by group", dto.GradeListQuery{GroupID: &g1.ID}, 2},
		{"value range", dto.GradeListQuery{MinValue: helpers.Ptr(50.0), MaxValue: helpers.Ptr(80.0)}, 2},
		{"failing excludes the threshold", dto.GradeListQuery{FailingOnly: true}, 1},
		{"with comments", dto.GradeListQuery{WithComments: true}, 1},
		{"updated window", dto.GradeListQuery{
			Since: time.Now().Add(-time.Hour).Format(time.RFC3339),
			Until: time.Now().Add(time.Hour).Format(time.RFC3339),
		}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grades, err := f.grades.ListGrades(f.ctx, tt.query)
			require.NoError(t, err)
			assert.Len(t, grades, tt.want)
		})
	}

	invalid := []struct {
		name  string
		query dto.GradeListQuery
	}{
		{"min above max", dto.GradeListQuery{MinValue: helpers.Ptr(80.0), MaxValue: helpers.Ptr(50.0)}},
		{"bad since", dto.GradeListQuery{Since: "yesterday"}},
		{"inverted window", dto.GradeListQuery{
			Since: "2025-02-01T00:00:00Z",
			Until: "2025-01-01T00:00:00Z",
		}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.grades.ListGrades(f.ctx, tt.query)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestGradeService_Statistics(t *testing.T) {
	f := newFixture(t)
	g := f.group(t, "PI", 24, "E")
	empty := f.group(t, "CS", 24, "")
	amy := f.studentAccount(t, "amy", &g.ID)
	bob := f.studentAccount(t, "bob", &g.ID)
	math := f.subject(t, "MATH101")
	phys := f.subject(t, "PHYS101")

	f.gradeFor(t, amy.UserID, math.ID, 70, "")
	f.gradeFor(t, amy.UserID, math.ID, 75, "")
	f.gradeFor(t, bob.UserID, math.ID, 80.5, "")

	t.Run("student average", func(t *testing.T) {
		avg, err := f.grades.StudentAverage(f.ctx, amy.UserID)
		require.NoError(t, err)
		assert.Equal(t, &dto.AverageResponse{Average: 72.5, Count: 2}, avg)

		_, err = f.grades.StudentAverage(f.ctx, 999)
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})

	t.Run("subject stats", func(t *testing.T) {
		stats, err := f.grades.SubjectStats(f.ctx, math.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.GradeSummary{Count: 3, Average: 75.17, Min: 70, Max: 80.5}, stats)
	})

	t.Run("empty subject is all zeros", func(t *testing.T) {
		stats, err := f.grades.SubjectStats(f.ctx, phys.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.GradeSummary{}, stats)
	})

	t.Run("group stats", func(t *testing.T) {
		stats, err := f.grades.GroupStats(f.ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Count)

		stats, err = f.grades.GroupStats(f.ctx, empty.ID)
		require.NoError(t, err)
		assert.Zero(t, stats.Count)

		_, err = f.grades.GroupStats(f.ctx, 999)
		assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
	})
}

func TestGradeFilterFromQuery(t *testing.T) {
	filter, err := gradeFilterFromQuery(dto.GradeListQuery{FailingOnly: true, WithComments: true}, 60)
	require.NoError(t, err)
	require.NotNil(t, filter.Below)
	assert.Equal(t, 60.0, *filter.Below)
	assert.True(t, filter.WithComments)
	assert.Nil(t, filter.UpdatedFrom)

	filter, err = gradeFilterFromQuery(dto.GradeListQuery{Since: "2025-01-01T10:00:00Z"}, 60)
	require.NoError(t, err)
	require.NotNil(t, filter.UpdatedFrom)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), filter.UpdatedFrom.UTC())
	assert.Equal(t, models.GradeFilter{UpdatedFrom: filter.UpdatedFrom}, filter)
}
