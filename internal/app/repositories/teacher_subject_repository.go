package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/db"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/dberrors"
	"github.com/yigit/ais/internal/pkg/logger"
)

// TeacherSubjectRepository handles teaching assignments
type TeacherSubjectRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewTeacherSubjectRepository creates a new TeacherSubjectRepository
func NewTeacherSubjectRepository(database *db.PostgresDB) *TeacherSubjectRepository {
	return &TeacherSubjectRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *TeacherSubjectRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select("ts.id", "ts.teacher_id", "ts.subject_id", "ts.is_active", "ts.assigned_at", "u.username", "sub.code").
		From("teacher_subjects ts").
		Join("users u ON u.id = ts.teacher_id").
		Join("subjects sub ON sub.id = ts.subject_id")
}

func scanTeacherSubject(row pgx.Row) (*models.TeacherSubject, error) {
	var ts models.TeacherSubject
	err := row.Scan(&ts.ID, &ts.TeacherID, &ts.SubjectID, &ts.IsActive, &ts.AssignedAt, &ts.TeacherUsername, &ts.SubjectCode)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// Create assigns a subject to a teacher as an active assignment
func (r *TeacherSubjectRepository) Create(ctx context.Context, teacherID, subjectID int64) (*models.TeacherSubject, error) {
	sql, args, err := r.sb.Insert("teacher_subjects").
		Columns("teacher_id", "subject_id", "is_active").
		Values(teacherID, subjectID, true).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert teacher subject SQL")
		return nil, fmt.Errorf("failed to build insert teacher subject query: %w", err)
	}

	var id int64
	if err := r.database.Pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return nil, apperrors.ErrAssignmentExists
		case dberrors.IsForeignKeyViolation(err):
			return nil, apperrors.NewResourceNotFoundError("teacher or subject not found")
		}
		logger.Error().Err(err).Int64("teacherID", teacherID).Int64("subjectID", subjectID).Msg("Error executing insert teacher subject query")
		return nil, fmt.Errorf("error creating teacher subject: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *TeacherSubjectRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.TeacherSubject, error) {
	sql, args, err := r.baseSelect().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get teacher subject query: %w", err)
	}

	ts, err := scanTeacherSubject(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning teacher subject row")
		return nil, fmt.Errorf("error getting teacher subject: %w", err)
	}
	return ts, nil
}

// GetByID retrieves an assignment by ID
func (r *TeacherSubjectRepository) GetByID(ctx context.Context, id int64) (*models.TeacherSubject, error) {
	return r.getOne(ctx, squirrel.Eq{"ts.id": id})
}

// GetByPair retrieves the assignment of a subject to a teacher
func (r *TeacherSubjectRepository) GetByPair(ctx context.Context, teacherID, subjectID int64) (*models.TeacherSubject, error) {
	return r.getOne(ctx, squirrel.Eq{"ts.teacher_id": teacherID, "ts.subject_id": subjectID})
}

// SetActive toggles an assignment
func (r *TeacherSubjectRepository) SetActive(ctx context.Context, id int64, active bool) error {
	sql, args, err := r.sb.Update("teacher_subjects").
		Set("is_active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update teacher subject query: %w", err)
	}

	cmdTag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("assignmentID", id).Msg("Error executing update teacher subject query")
		return fmt.Errorf("error updating teacher subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// Delete removes an assignment
func (r *TeacherSubjectRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("teacher_subjects").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete teacher subject query: %w", err)
	}

	cmdTag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("assignmentID", id).Msg("Error executing delete teacher subject query")
		return fmt.Errorf("error deleting teacher subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

func (r *TeacherSubjectRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.TeacherSubject, error) {
	sql, args, err := r.baseSelect().Where(where).OrderBy("sub.code ASC", "u.username ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list teacher subjects query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list teacher subjects query")
		return nil, fmt.Errorf("error listing teacher subjects: %w", err)
	}
	defer rows.Close()

	out := make([]*models.TeacherSubject, 0)
	for rows.Next() {
		ts, err := scanTeacherSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning teacher subject: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// ListByTeacher returns a teacher's assignments
func (r *TeacherSubjectRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.TeacherSubject, error) {
	return r.list(ctx, squirrel.Eq{"ts.teacher_id": teacherID})
}

// ListBySubject returns the assignments of a subject
func (r *TeacherSubjectRepository) ListBySubject(ctx context.Context, subjectID int64) ([]*models.TeacherSubject, error) {
	return r.list(ctx, squirrel.Eq{"ts.subject_id": subjectID})
}

// IsActive reports whether the teacher currently teaches the subject
func (r *TeacherSubjectRepository) IsActive(ctx context.Context, teacherID, subjectID int64) (bool, error) {
	return exists(ctx, r.database.Pool, r.sb.Select("1").
		From("teacher_subjects").
		Where(squirrel.Eq{"teacher_id": teacherID, "subject_id": subjectID, "is_active": true}))
}
