package repositories

import (
	"context"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/db"
	"github.com/yigit/ais/internal/pkg/apperrors"
)

func newMockDB(t *testing.T) (*db.PostgresDB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return db.NewWithPool(mock), mock
}

func sqlOf(statement string) string {
	return regexp.QuoteMeta(statement)
}

func TestGroupRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("detaches students before removing the group", func(t *testing.T) {
		database, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(sqlOf("UPDATE students SET group_id = $1 WHERE group_id = $2")).
			WithArgs(nil, int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 2))
		mock.ExpectExec(sqlOf("DELETE FROM group_subjects WHERE group_id = $1")).
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))
		mock.ExpectExec(sqlOf("DELETE FROM groups WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		require.NoError(t, NewGroupRepository(database).Delete(ctx, 7))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing group rolls back", func(t *testing.T) {
		database, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(sqlOf("UPDATE students SET group_id = $1 WHERE group_id = $2")).
			WithArgs(nil, int64(9)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectExec(sqlOf("DELETE FROM group_subjects WHERE group_id = $1")).
			WithArgs(int64(9)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(sqlOf("DELETE FROM groups WHERE id = $1")).
			WithArgs(int64(9)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectRollback()

		err := NewGroupRepository(database).Delete(ctx, 9)
		assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStudentRepository_Delete(t *testing.T) {
	database, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(sqlOf("DELETE FROM grades WHERE student_id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec(sqlOf("DELETE FROM students WHERE user_id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(sqlOf("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, NewStudentRepository(database).Delete(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepository_Delete(t *testing.T) {
	database, mock := newMockDB(t)
	mock.ExpectBegin()
	for _, table := range []string{"grades", "teacher_subjects", "group_subjects"} {
		mock.ExpectExec(sqlOf("DELETE FROM " + table + " WHERE subject_id = $1")).
			WithArgs(int64(3)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
	}
	mock.ExpectExec(sqlOf("DELETE FROM subjects WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, NewSubjectRepository(database).Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepository_ListBySemester(t *testing.T) {
	database, mock := newMockDB(t)
	mock.ExpectQuery(sqlOf("SELECT sub.id, sub.code, sub.credits FROM subjects sub " +
		"WHERE sub.id IN (SELECT subject_id FROM group_subjects WHERE academic_semester = $1) ORDER BY sub.code ASC")).
		WithArgs("2024/25 Fall").
		WillReturnRows(pgxmock.NewRows([]string{"id", "code", "credits"}))

	subjects, err := NewSubjectRepository(database).List(context.Background(), models.SubjectFilter{Semester: "2024/25 Fall"})
	require.NoError(t, err)
	assert.Empty(t, subjects)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupSubjectRepository_ListByGroup(t *testing.T) {
	const base = "SELECT gs.id, gs.group_id, gs.subject_id, gs.academic_semester, g.group_code, sub.code " +
		"FROM group_subjects gs JOIN groups g ON g.id = gs.group_id JOIN subjects sub ON sub.id = gs.subject_id "
	columns := []string{"id", "group_id", "subject_id", "academic_semester", "group_code", "code"}

	t.Run("every semester", func(t *testing.T) {
		database, mock := newMockDB(t)
		mock.ExpectQuery(sqlOf(base+"WHERE gs.group_id = $1 ORDER BY sub.code ASC")).
			WithArgs(int64(2)).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(10), int64(2), int64(4), "2024/25 Fall", "PI24E", "MATH101").
				AddRow(int64(11), int64(2), int64(5), "2025 Spring", "PI24E", "PHYS101"))

		list, err := NewGroupSubjectRepository(database).ListByGroup(context.Background(), 2, "")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "MATH101", list[0].SubjectCode)
		assert.Equal(t, "2025 Spring", list[1].AcademicSemester)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("one semester", func(t *testing.T) {
		database, mock := newMockDB(t)
		mock.ExpectQuery(sqlOf(base+"WHERE gs.group_id = $1 AND gs.academic_semester = $2 ORDER BY sub.code ASC")).
			WithArgs(int64(2), "2025 Spring").
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(11), int64(2), int64(5), "2025 Spring", "PI24E", "PHYS101"))

		list, err := NewGroupSubjectRepository(database).ListByGroup(context.Background(), 2, "2025 Spring")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(5), list[0].SubjectID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGradeRepository_Aggregate(t *testing.T) {
	database, mock := newMockDB(t)
	teacherID := int64(3)
	mock.ExpectQuery(sqlOf("SELECT COUNT(*), COALESCE(AVG(gr.grade_value), 0)::float8, " +
		"COALESCE(MIN(gr.grade_value), 0)::float8, COALESCE(MAX(gr.grade_value), 0)::float8 FROM grades gr " +
		"WHERE gr.subject_id IN (SELECT subject_id FROM teacher_subjects WHERE teacher_id = $1 AND is_active)")).
		WithArgs(teacherID).
		WillReturnRows(pgxmock.NewRows([]string{"count", "avg", "min", "max"}).AddRow(int64(2), 90.0, 85.0, 95.0))

	agg, err := NewGradeRepository(database).Aggregate(context.Background(), models.GradeFilter{TeacherID: &teacherID})
	require.NoError(t, err)
	assert.Equal(t, models.GradeAggregate{Count: 2, Average: 90, Min: 85, Max: 95}, agg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyGradeFilter(t *testing.T) {
	sb := NewGradeRepository(nil).sb
	ptr := func(v float64) *float64 { return &v }
	id := func(v int64) *int64 { return &v }

	tests := []struct {
		name     string
		filter   models.GradeFilter
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:    "no constraint",
			wantSQL: "SELECT gr.id FROM grades gr",
		},
		{
			name:     "student and subject",
			filter:   models.GradeFilter{StudentID: id(1), SubjectID: id(2)},
			wantSQL:  "SELECT gr.id FROM grades gr WHERE gr.student_id = $1 AND gr.subject_id = $2",
			wantArgs: []interface{}{int64(1), int64(2)},
		},
		{
			name:     "group members",
			filter:   models.GradeFilter{GroupID: id(6)},
			wantSQL:  "SELECT gr.id FROM grades gr WHERE gr.student_id IN (SELECT user_id FROM students WHERE group_id = $1)",
			wantArgs: []interface{}{int64(6)},
		},
		{
			name:     "value range and failing",
			filter:   models.GradeFilter{MinValue: ptr(40), MaxValue: ptr(90), Below: ptr(50)},
			wantSQL:  "SELECT gr.id FROM grades gr WHERE gr.grade_value >= $1 AND gr.grade_value <= $2 AND gr.grade_value < $3",
			wantArgs: []interface{}{40.0, 90.0, 50.0},
		},
		{
			name:    "commented only",
			filter:  models.GradeFilter{WithComments: true},
			wantSQL: "SELECT gr.id FROM grades gr WHERE gr.comment IS NOT NULL AND gr.comment <> ''",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := applyGradeFilter(sb.Select("gr.id").From("grades gr"), tt.filter).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}
