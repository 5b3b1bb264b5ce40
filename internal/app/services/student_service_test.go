package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/domain"
	"github.com/yigit/ais/internal/pkg/apperrors"
)

func TestStudentService(t *testing.T) {
	f := newFixture(t)
	g := f.group(t, "PI", 24, "E")
	math := f.subject(t, "MATH101")
	phys := f.subject(t, "PHYS101")
	f.subject(t, "CHEM101")
	_, err := f.groups.AssignSubject(f.ctx, g.ID, dto.AssignSubjectRequest{SubjectID: math.ID})
	require.NoError(t, err)
	_, err = f.groups.AssignSubject(f.ctx, g.ID, dto.AssignSubjectRequest{SubjectID: phys.ID})
	require.NoError(t, err)

	amy := f.studentAccount(t, "amy", &g.ID)
	loner := f.studentAccount(t, "loner", nil)
	f.gradeFor(t, amy.UserID, math.ID, 60, "")
	f.gradeFor(t, amy.UserID, math.ID, 71, "")
	f.gradeFor(t, amy.UserID, phys.ID, 90, "")

	t.Run("profile", func(t *testing.T) {
		p, err := f.student.Profile(f.ctx, amy.UserID)
		require.NoError(t, err)
		assert.Equal(t, "amy", p.Username)
		require.NotNil(t, p.GroupCode)
		assert.Equal(t, "PI24E", *p.GroupCode)

		p, err = f.student.Profile(f.ctx, loner.UserID)
		require.NoError(t, err)
		assert.Nil(t, p.GroupID)
		assert.Nil(t, p.GroupCode)

		_, err = f.student.Profile(f.ctx, 999)
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})

	t.Run("grades and subjects", func(t *testing.T) {
		grades, err := f.student.Grades(f.ctx, amy.UserID)
		require.NoError(t, err)
		assert.Len(t, grades, 3)

		subjects, err := f.student.Subjects(f.ctx, amy.UserID)
		require.NoError(t, err)
		require.Len(t, subjects, 2)
		assert.Equal(t, "MATH101", subjects[0].Code)

		subjects, err = f.student.Subjects(f.ctx, loner.UserID)
		require.NoError(t, err)
		assert.Empty(t, subjects)
	})

	t.Run("average", func(t *testing.T) {
		avg, err := f.student.Average(f.ctx, amy.UserID)
		require.NoError(t, err)
		assert.Equal(t, &dto.AverageResponse{Average: 73.67, Count: 3}, avg)

		avg, err = f.student.Average(f.ctx, loner.UserID)
		require.NoError(t, err)
		assert.Equal(t, &dto.AverageResponse{}, avg)
	})

	t.Run("report", func(t *testing.T) {
		r, err := f.student.Report(f.ctx, amy.UserID)
		require.NoError(t, err)
		assert.Equal(t, "PI24E", r.GroupCode)
		assert.Equal(t, domain.GradeSummary{Count: 3, Average: 73.67, Min: 60, Max: 90}, r.Overall)
		assert.Equal(t, []dto.SubjectReport{
			{SubjectID: math.ID, SubjectCode: "MATH101", Summary: domain.GradeSummary{Count: 2, Average: 65.5, Min: 60, Max: 71}},
			{SubjectID: phys.ID, SubjectCode: "PHYS101", Summary: domain.GradeSummary{Count: 1, Average: 90, Min: 90, Max: 90}},
		}, r.Subjects)

		r, err = f.student.Report(f.ctx, loner.UserID)
		require.NoError(t, err)
		assert.Equal(t, domain.GradeSummary{}, r.Overall)
		assert.Empty(t, r.Subjects)
	})
}
