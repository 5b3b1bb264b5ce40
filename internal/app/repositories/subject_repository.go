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

// SubjectRepository handles subjects
type SubjectRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(database *db.PostgresDB) *SubjectRepository {
	return &SubjectRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *SubjectRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select("sub.id", "sub.code", "sub.credits").From("subjects sub")
}

func scanSubject(row pgx.Row) (*models.Subject, error) {
	var s models.Subject
	if err := row.Scan(&s.ID, &s.Code, &s.Credits); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new subject
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) (int64, error) {
	sql, args, err := r.sb.Insert("subjects").
		Columns("code", "credits").
		Values(subject.Code, subject.Credits).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert subject SQL")
		return 0, fmt.Errorf("failed to build insert subject query: %w", err)
	}

	if err := r.database.Pool.QueryRow(ctx, sql, args...).Scan(&subject.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrSubjectCodeExists
		}
		logger.Error().Err(err).Str("code", subject.Code).Msg("Error executing insert subject query")
		return 0, fmt.Errorf("error creating subject: %w", err)
	}
	return subject.ID, nil
}

func (r *SubjectRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Subject, error) {
	sql, args, err := r.baseSelect().Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get subject SQL")
		return nil, fmt.Errorf("failed to build get subject query: %w", err)
	}

	subject, err := scanSubject(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		logger.Error().Err(err).Msg("Error scanning subject row")
		return nil, fmt.Errorf("error getting subject: %w", err)
	}
	return subject, nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	return r.getOne(ctx, squirrel.Eq{"sub.id": id})
}

// GetByCode retrieves a subject by its code
func (r *SubjectRepository) GetByCode(ctx context.Context, code string) (*models.Subject, error) {
	return r.getOne(ctx, squirrel.Eq{"sub.code": code})
}

// CodeExists checks whether another subject already uses code
func (r *SubjectRepository) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := r.sb.Select("1").From("subjects").Where(squirrel.Eq{"code": code})
	if excludeID > 0 {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}
	return exists(ctx, r.database.Pool, query)
}

// Update stores code and credits
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	sql, args, err := r.sb.Update("subjects").
		Set("code", subject.Code).
		Set("credits", subject.Credits).
		Where(squirrel.Eq{"id": subject.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update subject SQL")
		return fmt.Errorf("failed to build update subject query: %w", err)
	}

	cmdTag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrSubjectCodeExists
		}
		logger.Error().Err(err).Int64("subjectID", subject.ID).Msg("Error executing update subject query")
		return fmt.Errorf("error updating subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}

// Delete removes the subject together with its grades and assignments
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, table := range []string{"grades", "teacher_subjects", "group_subjects"} {
			sql, args, err := r.sb.Delete(table).Where(squirrel.Eq{"subject_id": id}).ToSql()
			if err != nil {
				return fmt.Errorf("failed to build delete %s query: %w", table, err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("error deleting %s: %w", table, err)
			}
		}

		sql, args, err := r.sb.Delete("subjects").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete subject query: %w", err)
		}
		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("subjectID", id).Msg("Error executing delete subject query")
			return fmt.Errorf("error deleting subject: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrSubjectNotFound
		}
		return nil
	})
}

func (r *SubjectRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Subject, error) {
	sql, args, err := query.OrderBy("sub.code ASC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list subjects SQL")
		return nil, fmt.Errorf("failed to build list subjects query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list subjects query")
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]*models.Subject, 0)
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning subject: %w", err)
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

// List returns subjects matching the filter, ordered by code
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]*models.Subject, error) {
	query := r.baseSelect()
	if filter.CodeContains != "" {
		query = query.Where(squirrel.ILike{"sub.code": "%" + filter.CodeContains + "%"})
	}
	if filter.MinCredits != nil {
		query = query.Where(squirrel.GtOrEq{"sub.credits": *filter.MinCredits})
	}
	if filter.MaxCredits != nil {
		query = query.Where(squirrel.LtOrEq{"sub.credits": *filter.MaxCredits})
	}
	if filter.Semester != "" {
		query = query.Where(squirrel.Expr("sub.id IN (SELECT subject_id FROM group_subjects WHERE academic_semester = ?)", filter.Semester))
	}
	return r.list(ctx, query)
}

// ListByGroup returns the subjects in a group's curriculum
func (r *SubjectRepository) ListByGroup(ctx context.Context, groupID int64) ([]*models.Subject, error) {
	query := r.baseSelect().
		Join("group_subjects gs ON gs.subject_id = sub.id").
		Where(squirrel.Eq{"gs.group_id": groupID})
	return r.list(ctx, query)
}

// ListByTeacher returns the subjects assigned to a teacher
func (r *SubjectRepository) ListByTeacher(ctx context.Context, teacherID int64, activeOnly bool) ([]*models.Subject, error) {
	query := r.baseSelect().
		Join("teacher_subjects ts ON ts.subject_id = sub.id").
		Where(squirrel.Eq{"ts.teacher_id": teacherID})
	if activeOnly {
		query = query.Where(squirrel.Eq{"ts.is_active": true})
	}
	return r.list(ctx, query)
}

// ListWithoutTeachers returns subjects nobody actively teaches
func (r *SubjectRepository) ListWithoutTeachers(ctx context.Context) ([]*models.Subject, error) {
	query := r.baseSelect().
		Where("NOT EXISTS (SELECT 1 FROM teacher_subjects ts WHERE ts.subject_id = sub.id AND ts.is_active)")
	return r.list(ctx, query)
}

// ListWithoutGroups returns subjects absent from every curriculum
func (r *SubjectRepository) ListWithoutGroups(ctx context.Context) ([]*models.Subject, error) {
	query := r.baseSelect().
		Where("NOT EXISTS (SELECT 1 FROM group_subjects gs WHERE gs.subject_id = sub.id)")
	return r.list(ctx, query)
}

// CountActiveTeachers returns how many teachers actively teach the subject
func (r *SubjectRepository) CountActiveTeachers(ctx context.Context, subjectID int64) (int64, error) {
	return count(ctx, r.database.Pool, r.sb.Select("COUNT(*)").From("teacher_subjects").
		Where(squirrel.Eq{"subject_id": subjectID, "is_active": true}))
}

// CountGroups returns how many curricula include the subject
func (r *SubjectRepository) CountGroups(ctx context.Context, subjectID int64) (int64, error) {
	return count(ctx, r.database.Pool, r.sb.Select("COUNT(*)").From("group_subjects").
		Where(squirrel.Eq{"subject_id": subjectID}))
}

// Count returns the number of subjects
func (r *SubjectRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.database.Pool, r.sb.Select("COUNT(*)").From("subjects"))
}
