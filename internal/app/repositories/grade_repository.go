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

// GradeRepository handles grades
type GradeRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewGradeRepository creates a new GradeRepository
func NewGradeRepository(database *db.PostgresDB) *GradeRepository {
	return &GradeRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *GradeRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"gr.id", "gr.student_id", "gr.subject_id", "gr.grade_value::float8", "gr.comment", "gr.updated_at",
		"u.username", "sub.code",
	).
		From("grades gr").
		Join("users u ON u.id = gr.student_id").
		Join("subjects sub ON sub.id = gr.subject_id")
}

func scanGrade(row pgx.Row) (*models.Grade, error) {
	var g models.Grade
	err := row.Scan(&g.ID, &g.StudentID, &g.SubjectID, &g.GradeValue, &g.Comment, &g.UpdatedAt, &g.StudentUsername, &g.SubjectCode)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// applyGradeFilter adds the filter's WHERE clauses; the query must alias grades as gr
func applyGradeFilter(query squirrel.SelectBuilder, filter models.GradeFilter) squirrel.SelectBuilder {
	if filter.StudentID != nil {
		query = query.Where(squirrel.Eq{"gr.student_id": *filter.StudentID})
	}
	if filter.SubjectID != nil {
		query = query.Where(squirrel.Eq{"gr.subject_id": *filter.SubjectID})
	}
	if filter.GroupID != nil {
		query = query.Where(squirrel.Expr("gr.student_id IN (SELECT user_id FROM students WHERE group_id = ?)", *filter.GroupID))
	}
	if filter.TeacherID != nil {
		query = query.Where(squirrel.Expr("gr.subject_id IN (SELECT subject_id FROM teacher_subjects WHERE teacher_id = ? AND is_active)", *filter.TeacherID))
	}
	if filter.MinValue != nil {
		query = query.Where(squirrel.GtOrEq{"gr.grade_value": *filter.MinValue})
	}
	if filter.MaxValue != nil {
		query = query.Where(squirrel.LtOrEq{"gr.grade_value": *filter.MaxValue})
	}
	if filter.Below != nil {
		query = query.Where(squirrel.Lt{"gr.grade_value": *filter.Below})
	}
	if filter.UpdatedFrom != nil {
		query = query.Where(squirrel.GtOrEq{"gr.updated_at": *filter.UpdatedFrom})
	}
	if filter.UpdatedTo != nil {
		query = query.Where(squirrel.LtOrEq{"gr.updated_at": *filter.UpdatedTo})
	}
	if filter.WithComments {
		query = query.Where("gr.comment IS NOT NULL AND gr.comment <> ''")
	}
	return query
}

// Create inserts a grade
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) (int64, error) {
	sql, args, err := r.sb.Insert("grades").
		Columns("student_id", "subject_id", "grade_value", "comment").
		Values(grade.StudentID, grade.SubjectID, grade.GradeValue, grade.Comment).
		Suffix("RETURNING id, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert grade SQL")
		return 0, fmt.Errorf("failed to build insert grade query: %w", err)
	}

	if err := r.database.Pool.QueryRow(ctx, sql, args...).Scan(&grade.ID, &grade.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.NewResourceNotFoundError("student or subject not found")
		}
		logger.Error().Err(err).Int64("studentID", grade.StudentID).Int64("subjectID", grade.SubjectID).Msg("Error executing insert grade query")
		return 0, fmt.Errorf("error creating grade: %w", err)
	}
	return grade.ID, nil
}

// GetByID retrieves a grade by ID
func (r *GradeRepository) GetByID(ctx context.Context, id int64) (*models.Grade, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"gr.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get grade query: %w", err)
	}

	grade, err := scanGrade(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGradeNotFound
		}
		logger.Error().Err(err).Int64("gradeID", id).Msg("Error scanning grade row")
		return nil, fmt.Errorf("error getting grade: %w", err)
	}
	return grade, nil
}

// Update stores a new value and comment and refreshes updated_at
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	sql, args, err := r.sb.Update("grades").
		Set("grade_value", grade.GradeValue).
		Set("comment", grade.Comment).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": grade.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update grade SQL")
		return fmt.Errorf("failed to build update grade query: %w", err)
	}

	if err := r.database.Pool.QueryRow(ctx, sql, args...).Scan(&grade.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrGradeNotFound
		}
		logger.Error().Err(err).Int64("gradeID", grade.ID).Msg("Error executing update grade query")
		return fmt.Errorf("error updating grade: %w", err)
	}
	return nil
}

// Delete removes a grade
func (r *GradeRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("grades").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete grade query: %w", err)
	}

	cmdTag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("gradeID", id).Msg("Error executing delete grade query")
		return fmt.Errorf("error deleting grade: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGradeNotFound
	}
	return nil
}

// List returns grades matching the filter, newest first unless ordered by value
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]*models.Grade, error) {
	query := applyGradeFilter(r.baseSelect(), filter)
	if filter.OrderByValueDesc {
		query = query.OrderBy("gr.grade_value DESC", "gr.id ASC")
	} else {
		query = query.OrderBy("gr.updated_at DESC", "gr.id DESC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list grades SQL")
		return nil, fmt.Errorf("failed to build list grades query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list grades query")
		return nil, fmt.Errorf("error listing grades: %w", err)
	}
	defer rows.Close()

	grades := make([]*models.Grade, 0)
	for rows.Next() {
		grade, err := scanGrade(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning grade: %w", err)
		}
		grades = append(grades, grade)
	}
	return grades, rows.Err()
}

// Aggregate computes count, average, min and max over the matching grades.
// An empty selection yields zeros.
func (r *GradeRepository) Aggregate(ctx context.Context, filter models.GradeFilter) (models.GradeAggregate, error) {
	query := applyGradeFilter(r.sb.Select(
		"COUNT(*)",
		"COALESCE(AVG(gr.grade_value), 0)::float8",
		"COALESCE(MIN(gr.grade_value), 0)::float8",
		"COALESCE(MAX(gr.grade_value), 0)::float8",
	).From("grades gr"), filter)

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building aggregate grades SQL")
		return models.GradeAggregate{}, fmt.Errorf("failed to build aggregate grades query: %w", err)
	}

	var agg models.GradeAggregate
	if err := r.database.Pool.QueryRow(ctx, sql, args...).Scan(&agg.Count, &agg.Average, &agg.Min, &agg.Max); err != nil {
		logger.Error().Err(err).Msg("Error executing aggregate grades query")
		return models.GradeAggregate{}, fmt.Errorf("error aggregating grades: %w", err)
	}
	return agg, nil
}
