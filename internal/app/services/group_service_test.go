package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/helpers"
)

func TestGroupService_CreateGroup(t *testing.T) {
	tests := []struct {
		name     string
		initials string
		year     *int
		lang     string
		wantCode string
		wantErr  error
	}{
		{"with language", "pi", helpers.Ptr(24), "e", "PI24E", nil},
		{"without language", "CSE", helpers.Ptr(5), "", "CSE5", nil},
		{"single digit year is not padded", "MA", helpers.Ptr(0), "", "MA0", nil},
		{"missing year", "PI", nil, "", "", apperrors.ErrValidationFailed},
		{"initials too short", "P", helpers.Ptr(24), "", "", apperrors.ErrValidationFailed},
		{"initials with digits", "P1", helpers.Ptr(24), "", "", apperrors.ErrValidationFailed},
		{"year out of range", "PI", helpers.Ptr(100), "", "", apperrors.ErrValidationFailed},
		{"long language code", "PI", helpers.Ptr(24), "EN", "", apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			g, err := f.groups.CreateGroup(f.ctx, dto.CreateGroupRequest{
				ProgramInitials: tt.initials,
				StartYear:       tt.year,
				LanguageCode:    tt.lang,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, g.GroupCode)
			assert.NotZero(t, g.ID)
		})
	}
}

func TestGroupService_CodeUniqueness(t *testing.T) {
	f := newFixture(t)
	f.group(t, "PI", 24, "E")
	other := f.group(t, "PI", 24, "")

	_, err := f.groups.CreateGroup(f.ctx, dto.CreateGroupRequest{ProgramInitials: "pi", StartYear: helpers.Ptr(24), LanguageCode: "E"})
	assert.ErrorIs(t, err, apperrors.ErrGroupCodeExists)

	_, err = f.groups.UpdateGroup(f.ctx, other.ID, dto.UpdateGroupRequest{LanguageCode: helpers.Ptr("e")})
	assert.ErrorIs(t, err, apperrors.ErrGroupCodeExists)
}

func TestGroupService_UpdateGroup(t *testing.T) {
	f := newFixture(t)
	g := f.group(t, "PI", 24, "E")

	updated, err := f.groups.UpdateGroup(f.ctx, g.ID, dto.UpdateGroupRequest{StartYear: helpers.Ptr(25)})
	require.NoError(t, err)
	assert.Equal(t, "PI25E", updated.GroupCode)

	updated, err = f.groups.UpdateGroup(f.ctx, g.ID, dto.UpdateGroupRequest{LanguageCode: helpers.Ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "PI25", updated.GroupCode)
	assert.Nil(t, updated.LanguageCode)

	byCode, err := f.groups.GetGroupByCode(f.ctx, " pi25 ")
	require.NoError(t, err)
	assert.Equal(t, g.ID, byCode.ID)

	_, err = f.groups.UpdateGroup(f.ctx, 999, dto.UpdateGroupRequest{StartYear: helpers.Ptr(25)})
	assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
}

func TestGroupService_GetGroupByCode_Invalid(t *testing.T) {
	f := newFixture(t)
	_, err := f.groups.GetGroupByCode(f.ctx, "24PI")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.groups.GetGroupByCode(f.ctx, "PI24")
	assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
}

func TestGroupService_DeleteKeepsStudents(t *testing.T) {
	f := newFixture(t)
	g := f.group(t, "PI", 24, "E")
	sub := f.subject(t, "MATH101")
	st := f.studentAccount(t, "sam", &g.ID)
	_, err := f.groups.AssignSubject(f.ctx, g.ID, dto.AssignSubjectRequest{SubjectID: sub.ID})
	require.NoError(t, err)

	require.NoError(t, f.groups.DeleteGroup(f.ctx, g.ID))

	kept, err := f.admin.GetStudent(f.ctx, st.UserID)
	require.NoError(t, err)
	assert.Nil(t, kept.GroupID)

	groups, err := f.groups.ListGroupsBySubject(f.ctx, sub.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	assert.ErrorIs(t, f.groups.DeleteGroup(f.ctx, g.ID), apperrors.ErrGroupNotFound)
}

func TestGroupService_ListGroups(t *testing.T) {
	f := newFixture(t)
	pi24 := f.group(t, "PI", 24, "E")
	f.group(t, "PI", 23, "")
	cs24 := f.group(t, "CS", 24, "")
	f.studentAccount(t, "sam", &pi24.ID)

	tests := []struct {
		name   string
		filter models.GroupFilter
		want   []string
	}{
		{"all sorted by code", models.GroupFilter{}, []string{"CS24", "PI23", "PI24E"}},
		{"by initials case insensitive", models.GroupFilter{ProgramInitials: "pi"}, []string{"PI23", "PI24E"}},
		{"by year", models.GroupFilter{StartYear: helpers.Ptr(24)}, []string{"CS24", "PI24E"}},
		{"with students", models.GroupFilter{HasStudents: helpers.Ptr(true)}, []string{"PI24E"}},
		{"without students", models.GroupFilter{HasStudents: helpers.Ptr(false)}, []string{"CS24", "PI23"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := f.groups.ListGroups(f.ctx, tt.filter)
			require.NoError(t, err)
			codes := make([]string, len(groups))
			for i, g := range groups {
				codes[i] = g.GroupCode
			}
			assert.Equal(t, tt.want, codes)
		})
	}

	initials, err := f.groups.ListProgramInitials(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CS", "PI"}, initials)

	years, err := f.groups.ListStartYears(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{23, 24}, years)

	students, err := f.groups.ListStudents(f.ctx, pi24.ID)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	students, err = f.groups.ListStudents(f.ctx, cs24.ID)
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestGroupService_Curriculum(t *testing.T) {
	f := newFixture(t)
	g := f.group(t, "PI", 24, "E")
	math := f.subject(t, "MATH101")
	phys := f.subject(t, "PHYS101")

	gs, err := f.groups.AssignSubject(f.ctx, g.ID, dto.AssignSubjectRequest{SubjectID: math.ID, AcademicSemester: " 2024/25 Fall "})
	require.NoError(t, err)
	assert.Equal(t, "2024/25 Fall", gs.AcademicSemester)
	assert.Equal(t, "PI24E", gs.GroupCode)
	assert.Equal(t, "MATH101", gs.SubjectCode)

	_, err = f.groups.AssignSubject(f.ctx, g.ID, dto.AssignSubjectRequest{SubjectID: math.ID})
	assert.ErrorIs(t, err, apperrors.ErrAssignmentExists)

	_, err = f.groups.AssignSubject(f.ctx, g.ID, dto.AssignSubjectRequest{SubjectID: 999})
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)

	_, err = f.groups.AssignSubject(f.ctx, g.ID, dto.AssignSubjectRequest{SubjectID: phys.ID})
	require.NoError(t, err)

	subjects, err := f.groups.ListSubjects(f.ctx, g.ID, "")
	require.NoError(t, err)
	assert.Len(t, subjects, 2)

	t.Run("semester filters", func(t *testing.T) {
		fall, err := f.groups.ListSubjects(f.ctx, g.ID, "2024/25 Fall")
		require.NoError(t, err)
		require.Len(t, fall, 1)
		assert.Equal(t, "MATH101", fall[0].SubjectCode)

		list, err := f.subjects.ListSubjects(f.ctx, models.SubjectFilter{Semester: " 2024/25 Fall "})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, math.ID, list[0].ID)

		list, err = f.subjects.ListSubjects(f.ctx, models.SubjectFilter{Semester: "2025 Spring"})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("subject info", func(t *testing.T) {
		tom := f.teacherAccount(t, "tom")
		_, err := f.assignments.AssignTeacher(f.ctx, tom.UserID, math.ID)
		require.NoError(t, err)

		info, err := f.subjects.GetSubjectInfo(f.ctx, math.ID)
		require.NoError(t, err)
		assert.Equal(t, &dto.SubjectInfoResponse{
			ID:                 math.ID,
			Code:               "MATH101",
			ActiveTeacherCount: 1,
			GroupCount:         1,
			CanBeDeleted:       false,
		}, info)

		chem := f.subject(t, "CHEM101")
		info, err = f.subjects.GetSubjectInfo(f.ctx, chem.ID)
		require.NoError(t, err)
		assert.True(t, info.CanBeDeleted)

		_, err = f.subjects.GetSubjectInfo(f.ctx, 999)
		assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)
	})

	require.NoError(t, f.groups.RemoveSubject(f.ctx, g.ID, phys.ID))
	assert.ErrorIs(t, f.groups.RemoveSubject(f.ctx, g.ID, phys.ID), apperrors.ErrAssignmentNotFound)

	withoutGroups, err := f.subjects.ListWithoutGroups(f.ctx)
	require.NoError(t, err)
	require.Len(t, withoutGroups, 2)
	assert.Equal(t, "CHEM101", withoutGroups[0].Code)
	assert.Equal(t, "PHYS101", withoutGroups[1].Code)
}

func TestGroupService_GroupsByTeacher(t *testing.T) {
	f := newFixture(t)
	g := f.group(t, "PI", 24, "E")
	f.group(t, "CS", 24, "")
	math := f.subject(t, "MATH101")
	tom := f.teacherAccount(t, "tom")
	_, err := f.groups.AssignSubject(f.ctx, g.ID, dto.AssignSubjectRequest{SubjectID: math.ID})
	require.NoError(t, err)

	groups, err := f.groups.ListGroupsByTeacher(f.ctx, tom.UserID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	ts := f.assign(t, tom.UserID, math.ID)
	groups, err = f.groups.ListGroupsByTeacher(f.ctx, tom.UserID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "PI24E", groups[0].GroupCode)

	_, err = f.assignments.DeactivateAssignment(f.ctx, ts.ID)
	require.NoError(t, err)
	groups, err = f.groups.ListGroupsByTeacher(f.ctx, tom.UserID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	_, err = f.groups.ListGroupsByTeacher(f.ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrTeacherNotFound)
}

func TestGroupService_GetGroupInfo(t *testing.T) {
	f := newFixture(t)
	g := f.group(t, "PI", 24, "E")

	info, err := f.groups.GetGroupInfo(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.GroupStatusEmpty, info.Status)
	assert.True(t, info.CanBeDeleted)

	f.studentAccount(t, "sam", &g.ID)
	info, err = f.groups.GetGroupInfo(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.GroupStatusActive, info.Status)
	assert.Equal(t, int64(1), info.StudentCount)
	assert.False(t, info.CanBeDeleted)
}

func TestSubjectService(t *testing.T) {
	f := newFixture(t)

	t.Run("create normalizes and validates", func(t *testing.T) {
		s, err := f.subjects.CreateSubject(f.ctx, dto.CreateSubjectRequest{Code: " math101 ", Credits: helpers.Ptr(6)})
		require.NoError(t, err)
		assert.Equal(t, "MATH101", s.Code)

		_, err = f.subjects.CreateSubject(f.ctx, dto.CreateSubjectRequest{Code: "Math101"})
		assert.ErrorIs(t, err, apperrors.ErrSubjectCodeExists)

		_, err = f.subjects.CreateSubject(f.ctx, dto.CreateSubjectRequest{Code: "   "})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		_, err = f.subjects.CreateSubject(f.ctx, dto.CreateSubjectRequest{Code: "PHYS", Credits: helpers.Ptr(0)})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("update and lookups", func(t *testing.T) {
		phys := f.subject(t, "PHYS101")
		s, err := f.subjects.UpdateSubject(f.ctx, phys.ID, dto.UpdateSubjectRequest{Code: helpers.Ptr("phys102"), Credits: helpers.Ptr(4)})
		require.NoError(t, err)
		assert.Equal(t, "PHYS102", s.Code)
		assert.Equal(t, 4, *s.Credits)

		_, err = f.subjects.UpdateSubject(f.ctx, phys.ID, dto.UpdateSubjectRequest{Code: helpers.Ptr("MATH101")})
		assert.ErrorIs(t, err, apperrors.ErrSubjectCodeExists)

		got, err := f.subjects.GetSubjectByCode(f.ctx, "phys102")
		require.NoError(t, err)
		assert.Equal(t, phys.ID, got.ID)
	})

	t.Run("list filters", func(t *testing.T) {
		list, err := f.subjects.ListSubjects(f.ctx, models.SubjectFilter{CodeContains: "math"})
		require.NoError(t, err)
		require.Len(t, list, 1)

		list, err = f.subjects.ListSubjects(f.ctx, models.SubjectFilter{MinCredits: helpers.Ptr(5)})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "MATH101", list[0].Code)

		_, err = f.subjects.ListSubjects(f.ctx, models.SubjectFilter{MinCredits: helpers.Ptr(5), MaxCredits: helpers.Ptr(2)})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("delete cascades grades", func(t *testing.T) {
		math, err := f.subjects.GetSubjectByCode(f.ctx, "MATH101")
		require.NoError(t, err)
		st := f.studentAccount(t, "sam", nil)
		f.gradeFor(t, st.UserID, math.ID, 70, "")

		require.NoError(t, f.subjects.DeleteSubject(f.ctx, math.ID))
		assert.Equal(t, 0, f.store.GradeCount())
		assert.ErrorIs(t, f.subjects.DeleteSubject(f.ctx, math.ID), apperrors.ErrSubjectNotFound)
	})
}

func TestAssignmentService(t *testing.T) {
	f := newFixture(t)
	tom := f.teacherAccount(t, "tom")
	math := f.subject(t, "MATH101")
	f.subject(t, "PHYS101")

	ts := f.assign(t, tom.UserID, math.ID)
	assert.True(t, ts.IsActive)
	assert.Equal(t, "MATH101", ts.SubjectCode)

	t.Run("active duplicate is rejected", func(t *testing.T) {
		_, err := f.assignments.AssignTeacher(f.ctx, tom.UserID, math.ID)
		assert.ErrorIs(t, err, apperrors.ErrAssignmentExists)
	})

	t.Run("unknown teacher or subject", func(t *testing.T) {
		_, err := f.assignments.AssignTeacher(f.ctx, 999, math.ID)
		assert.ErrorIs(t, err, apperrors.ErrTeacherNotFound)
		_, err = f.assignments.AssignTeacher(f.ctx, tom.UserID, 999)
		assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)
	})

	t.Run("deactivated assignment is reactivated", func(t *testing.T) {
		off, err := f.assignments.DeactivateAssignment(f.ctx, ts.ID)
		require.NoError(t, err)
		assert.False(t, off.IsActive)

		without, err := f.subjects.ListWithoutTeachers(f.ctx)
		require.NoError(t, err)
		assert.Len(t, without, 2)

		again, err := f.assignments.AssignTeacher(f.ctx, tom.UserID, math.ID)
		require.NoError(t, err)
		assert.Equal(t, ts.ID, again.ID)
		assert.True(t, again.IsActive)
	})

	t.Run("listing and removal", func(t *testing.T) {
		byTeacher, err := f.assignments.ListByTeacher(f.ctx, tom.UserID)
		require.NoError(t, err)
		assert.Len(t, byTeacher, 1)

		require.NoError(t, f.assignments.RemoveAssignment(f.ctx, ts.ID))
		assert.ErrorIs(t, f.assignments.RemoveAssignment(f.ctx, ts.ID), apperrors.ErrAssignmentNotFound)

		bySubject, err := f.assignments.ListBySubject(f.ctx, math.ID)
		require.NoError(t, err)
		assert.Empty(t, bySubject)
	})
}
