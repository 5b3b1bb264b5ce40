package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/ais/internal/app/auth"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/repositories/repotest"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/auth"
	"github.com/yigit/ais/internal/pkg/helpers"
	"golang.org/x/crypto/bcrypt"
)

const testPassingThreshold = 50.0

func TestMain(m *testing.M) {
	auth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	ctx   context.Context
	store *repotest.Store
	jwt   *auth.JWTService

	auth        AuthService
	admin       AdminService
	groups      GroupService
	subjects    SubjectService
	assignments AssignmentService
	grades      GradeService
	teacher     TeacherService
	student     StudentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repotest.New()
	log := zerolog.Nop()
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenTTL: time.Hour, TokenIssuer: "ais-test"})
	authz := appauth.NewAuthorizationService(store.Teachers(), store.TeacherSubjects())

	return &fixture{
		ctx:   context.Background(),
		store: store,
		jwt:   jwt,
		auth:  NewAuthService(store.Users(), jwt, log),
		admin: NewAdminService(store.Users(), store.Students(), store.Teachers(), store.Groups(),
			store.Subjects(), store.Grades(), log),
		groups: NewGroupService(store.Groups(), store.Students(), store.Subjects(), store.Teachers(),
			store.GroupSubjects(), log),
		subjects:    NewSubjectService(store.Subjects()),
		assignments: NewAssignmentService(store.Teachers(), store.Subjects(), store.TeacherSubjects(), log),
		grades: NewGradeService(store.Grades(), store.Students(), store.Subjects(), store.Groups(),
			testPassingThreshold, log),
		teacher: NewTeacherService(store.Grades(), store.Students(), store.Subjects(), store.Teachers(),
			store.Groups(), authz, testPassingThreshold, log),
		student: NewStudentService(store.Students(), store.Subjects(), store.Grades()),
	}
}

func (f *fixture) group(t *testing.T, initials string, year int, lang string) *models.Group {
	t.Helper()
	g, err := f.groups.CreateGroup(f.ctx, dto.CreateGroupRequest{
		ProgramInitials: initials,
		StartYear:       &year,
		LanguageCode:    lang,
	})
	require.NoError(t, err)
	return g
}

func (f *fixture) subject(t *testing.T, code string) *models.Subject {
	t.Helper()
	s, err := f.subjects.CreateSubject(f.ctx, dto.CreateSubjectRequest{Code: code})
	require.NoError(t, err)
	return s
}

func (f *fixture) teacherAccount(t *testing.T, username string) *models.Teacher {
	t.Helper()
	teacher, err := f.admin.CreateTeacher(f.ctx, dto.CreateTeacherRequest{
		Username:   username,
		Password:   "secret",
		Department: "Mathematics",
	})
	require.NoError(t, err)
	return teacher
}

func (f *fixture) studentAccount(t *testing.T, username string, groupID *int64) *models.Student {
	t.Helper()
	st, err := f.admin.CreateStudent(f.ctx, dto.CreateStudentRequest{
		Username: username,
		Password: "secret",
		GroupID:  groupID,
	})
	require.NoError(t, err)
	return st
}

func (f *fixture) assign(t *testing.T, teacherID, subjectID int64) *models.TeacherSubject {
	t.Helper()
	ts, err := f.assignments.AssignTeacher(f.ctx, teacherID, subjectID)
	require.NoError(t, err)
	return ts
}

func (f *fixture) gradeFor(t *testing.T, studentID, subjectID int64, value float64, comment string) *models.Grade {
	t.Helper()
	req := dto.CreateGradeRequest{StudentID: studentID, SubjectID: subjectID, GradeValue: &value}
	if comment != "" {
		req.Comment = &comment
	}
	g, err := f.grades.CreateGrade(f.ctx, req)
	require.NoError(t, err)
	return g
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacherAccount(t, "tom")

	hash, err := auth.HashPassword("rootpw")
	require.NoError(t, err)
	adminID := f.store.AddUser(&models.User{Username: "root", Password: hash})
	f.store.MakeAdmin(adminID)
	f.store.AddUser(&models.User{Username: "ghost", Password: hash})

	t.Run("teacher gets a session token", func(t *testing.T) {
		resp, err := f.auth.Login(f.ctx, dto.LoginRequest{Username: " tom ", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, teacher.UserID, resp.User.ID)
		assert.Equal(t, models.RoleTeacher, resp.User.Role)
		assert.Equal(t, "Bearer", resp.Token.TokenType)
		assert.Equal(t, int64(3600), resp.Token.ExpiresIn)

		claims, err := f.jwt.ValidateToken(resp.Token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, teacher.UserID, claims.UserID)
		assert.Equal(t, string(models.RoleTeacher), claims.Role)
	})

	t.Run("admin role", func(t *testing.T) {
		resp, err := f.auth.Login(f.ctx, dto.LoginRequest{Username: "root", Password: "rootpw"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, resp.User.Role)
	})

	tests := []struct {
		name    string
		req     dto.LoginRequest
		wantErr error
	}{
		{"unknown user", dto.LoginRequest{Username: "nobody", Password: "secret"}, apperrors.ErrInvalidCredentials},
		{"wrong password", dto.LoginRequest{Username: "tom", Password: "wrong"}, apperrors.ErrInvalidCredentials},
		{"missing password", dto.LoginRequest{Username: "tom"}, apperrors.ErrValidationFailed},
		{"user without role", dto.LoginRequest{Username: "ghost", Password: "rootpw"}, apperrors.ErrNoRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.auth.Login(f.ctx, tt.req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSession(t *testing.T) {
	f := newFixture(t)
	st := f.studentAccount(t, "sam", nil)

	user, err := f.auth.Session(f.ctx, st.UserID)
	require.NoError(t, err)
	assert.Equal(t, "sam", user.Username)
	assert.Equal(t, models.RoleStudent, user.Role)

	_, err = f.auth.Session(f.ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestAdminService_Students(t *testing.T) {
	f := newFixture(t)
	g1 := f.group(t, "PI", 24, "E")
	g2 := f.group(t, "CS", 23, "")

	t.Run("create validates input", func(t *testing.T) {
		_, err := f.admin.CreateStudent(f.ctx, dto.CreateStudentRequest{Username: "  ", Password: "secret"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		_, err = f.admin.CreateStudent(f.ctx, dto.CreateStudentRequest{Username: "amy", Password: "ab"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		_, err = f.admin.CreateStudent(f.ctx, dto.CreateStudentRequest{Username: "amy", Password: "secret", GroupID: helpers.Ptr(int64(999))})
		assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
	})

	amy := f.studentAccount(t, "amy", &g1.ID)
	bob := f.studentAccount(t, "bob", &g1.ID)
	f.studentAccount(t, "cid", nil)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := f.admin.CreateStudent(f.ctx, dto.CreateStudentRequest{Username: "amy", Password: "secret"})
		assert.ErrorIs(t, err, apperrors.ErrUsernameExists)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		st, err := f.admin.GetStudent(f.ctx, amy.UserID)
		require.NoError(t, err)
		assert.NotEqual(t, "secret", st.User.Password)
		assert.True(t, auth.CheckPassword(st.User.Password, "secret"))
		assert.Equal(t, "PI24E", st.Group.GroupCode)
	})

	t.Run("list pages and filters", func(t *testing.T) {
		page, total, err := f.admin.ListStudents(f.ctx, nil, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, page, 2)
		assert.Equal(t, "amy", page[0].User.Username)

		inGroup, total, err := f.admin.ListStudents(f.ctx, &g1.ID, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, inGroup, 2)

		beyond, total, err := f.admin.ListStudents(f.ctx, nil, 461168601842738792, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Empty(t, beyond)
	})

	t.Run("update renames and moves", func(t *testing.T) {
		st, err := f.admin.UpdateStudent(f.ctx, bob.UserID, dto.UpdateStudentRequest{
			Username: helpers.Ptr("robert"),
			GroupID:  &g2.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "robert", st.User.Username)
		assert.Equal(t, g2.ID, *st.GroupID)

		_, err = f.admin.UpdateStudent(f.ctx, bob.UserID, dto.UpdateStudentRequest{Username: helpers.Ptr("amy")})
		assert.ErrorIs(t, err, apperrors.ErrUsernameExists)
	})

	t.Run("group membership", func(t *testing.T) {
		st, err := f.admin.RemoveStudentFromGroup(f.ctx, amy.UserID)
		require.NoError(t, err)
		assert.Nil(t, st.GroupID)

		st, err = f.admin.AssignStudentToGroup(f.ctx, amy.UserID, g2.ID)
		require.NoError(t, err)
		assert.Equal(t, g2.ID, *st.GroupID)

		_, err = f.admin.AssignStudentToGroup(f.ctx, amy.UserID, 999)
		assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
	})

	t.Run("delete removes account and grades", func(t *testing.T) {
		sub := f.subject(t, "MATH101")
		f.gradeFor(t, amy.UserID, sub.ID, 80, "")

		require.NoError(t, f.admin.DeleteStudent(f.ctx, amy.UserID))
		assert.False(t, f.store.UserExists(amy.UserID))
		assert.Equal(t, 0, f.store.GradeCount())
		assert.ErrorIs(t, f.admin.DeleteStudent(f.ctx, amy.UserID), apperrors.ErrStudentNotFound)
	})
}

func TestAdminService_Teachers(t *testing.T) {
	f := newFixture(t)
	tom := f.teacherAccount(t, "tom")
	sub := f.subject(t, "MATH101")
	f.assign(t, tom.UserID, sub.ID)

	t.Run("update department and password", func(t *testing.T) {
		teacher, err := f.admin.UpdateTeacher(f.ctx, tom.UserID, dto.UpdateTeacherRequest{
			Department: helpers.Ptr(" Physics "),
			Password:   helpers.Ptr("newpass"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Physics", teacher.Department)
		assert.True(t, auth.CheckPassword(teacher.User.Password, "newpass"))
	})

	t.Run("list by department", func(t *testing.T) {
		f.teacherAccount(t, "tina")
		physics, err := f.admin.ListTeachers(f.ctx, "Physics")
		require.NoError(t, err)
		require.Len(t, physics, 1)
		assert.Equal(t, tom.UserID, physics[0].UserID)

		all, err := f.admin.ListTeachers(f.ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("delete drops assignments", func(t *testing.T) {
		require.NoError(t, f.admin.DeleteTeacher(f.ctx, tom.UserID))
		assignments, err := f.assignments.ListBySubject(f.ctx, sub.ID)
		require.NoError(t, err)
		assert.Empty(t, assignments)
		_, err = f.admin.GetTeacher(f.ctx, tom.UserID)
		assert.ErrorIs(t, err, apperrors.ErrTeacherNotFound)
	})
}

func TestAdminService_Dashboard(t *testing.T) {
	f := newFixture(t)
	hash, err := auth.HashPassword("rootpw")
	require.NoError(t, err)
	f.store.MakeAdmin(f.store.AddUser(&models.User{Username: "root", Password: hash}))

	g := f.group(t, "PI", 24, "")
	sub := f.subject(t, "MATH101")
	f.teacherAccount(t, "tom")
	st := f.studentAccount(t, "sam", &g.ID)
	f.gradeFor(t, st.UserID, sub.ID, 70, "")
	f.gradeFor(t, st.UserID, sub.ID, 90, "")

	d, err := f.admin.Dashboard(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.AdminDashboardResponse{
		Users:    3,
		Admins:   1,
		Teachers: 1,
		Students: 1,
		Groups:   1,
		Subjects: 1,
		Grades:   2,
	}, *d)
}
