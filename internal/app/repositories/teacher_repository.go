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
	"github.com/yigit/ais/internal/pkg/logger"
)

// TeacherRepository handles teacher role records
type TeacherRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(database *db.PostgresDB) *TeacherRepository {
	return &TeacherRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the user and its teacher record in one transaction
func (r *TeacherRepository) Create(ctx context.Context, user *models.User, department string) (int64, error) {
	err := r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		id, err := insertUser(ctx, tx, r.sb, user)
		if err != nil {
			return err
		}

		sql, args, err := r.sb.Insert("teachers").
			Columns("user_id", "department").
			Values(id, department).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert teacher query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error inserting teacher: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrUsernameExists) {
			logger.Error().Err(err).Str("username", user.Username).Msg("Error creating teacher")
		}
		return 0, err
	}
	return user.ID, nil
}

func (r *TeacherRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select("t.user_id", "t.department", "u.username", "u.created_at", "u.updated_at").
		From("teachers t").
		Join("users u ON u.id = t.user_id")
}

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	var (
		t models.Teacher
		u models.User
	)
	if err := row.Scan(&t.UserID, &t.Department, &u.Username, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = t.UserID
	t.User = &u
	return &t, nil
}

// GetByUserID retrieves a teacher with its user
func (r *TeacherRepository) GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"t.user_id": userID}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get teacher SQL")
		return nil, fmt.Errorf("failed to build get teacher query: %w", err)
	}

	teacher, err := scanTeacher(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeacherNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning teacher row")
		return nil, fmt.Errorf("error getting teacher: %w", err)
	}
	return teacher, nil
}

// List returns teachers, optionally restricted to one department
func (r *TeacherRepository) List(ctx context.Context, department string) ([]*models.Teacher, error) {
	query := r.baseSelect().OrderBy("u.username ASC")
	if department != "" {
		query = query.Where(squirrel.Eq{"t.department": department})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list teachers SQL")
		return nil, fmt.Errorf("failed to build list teachers query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list teachers query")
		return nil, fmt.Errorf("error listing teachers: %w", err)
	}
	defer rows.Close()

	teachers := make([]*models.Teacher, 0)
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning teacher: %w", err)
		}
		teachers = append(teachers, teacher)
	}
	return teachers, rows.Err()
}

// UpdateDepartment changes the teacher's department
func (r *TeacherRepository) UpdateDepartment(ctx context.Context, userID int64, department string) error {
	sql, args, err := r.sb.Update("teachers").
		Set("department", department).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update teacher query: %w", err)
	}

	cmdTag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update teacher query")
		return fmt.Errorf("error updating teacher: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTeacherNotFound
	}
	return nil
}

// Delete removes the teacher's assignments, the teacher record and the user
func (r *TeacherRepository) Delete(ctx context.Context, userID int64) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Delete("teacher_subjects").Where(squirrel.Eq{"teacher_id": userID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete teacher subjects query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error deleting teacher subjects: %w", err)
		}

		sql, args, err = r.sb.Delete("teachers").Where(squirrel.Eq{"user_id": userID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete teacher query: %w", err)
		}
		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting teacher: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrTeacherNotFound
		}
		return deleteUser(ctx, tx, r.sb, userID)
	})
}

// Count returns the number of teachers
func (r *TeacherRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.database.Pool, r.sb.Select("COUNT(*)").From("teachers"))
}
