package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/db"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/dberrors"
	"github.com/yigit/ais/internal/pkg/logger"
)

// StudentRepository handles student role records
type StudentRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *db.PostgresDB) *StudentRepository {
	return &StudentRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the user and its student record in one transaction
func (r *StudentRepository) Create(ctx context.Context, user *models.User, groupID *int64) (int64, error) {
	err := r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		id, err := insertUser(ctx, tx, r.sb, user)
		if err != nil {
			return err
		}

		sql, args, err := r.sb.Insert("students").
			Columns("user_id", "group_id").
			Values(id, groupID).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert student query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrGroupNotFound
			}
			return fmt.Errorf("error inserting student: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrUsernameExists) && !errors.Is(err, apperrors.ErrGroupNotFound) {
			logger.Error().Err(err).Str("username", user.Username).Msg("Error creating student")
		}
		return 0, err
	}
	return user.ID, nil
}

func (r *StudentRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.user_id", "s.group_id",
		"u.username", "u.created_at", "u.updated_at",
		"g.group_code", "g.program_initials", "g.start_year", "g.language_code", "g.created_at",
	).
		From("students s").
		Join("users u ON u.id = s.user_id").
		LeftJoin("groups g ON g.id = s.group_id")
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var (
		s            models.Student
		u            models.User
		groupCode    *string
		initials     *string
		startYear    *int
		languageCode *string
		groupCreated *time.Time
	)
	err := row.Scan(
		&s.UserID, &s.GroupID,
		&u.Username, &u.CreatedAt, &u.UpdatedAt,
		&groupCode, &initials, &startYear, &languageCode, &groupCreated,
	)
	if err != nil {
		return nil, err
	}
	u.ID = s.UserID
	s.User = &u
	if s.GroupID != nil && groupCode != nil {
		s.Group = &models.Group{
			ID:              *s.GroupID,
			GroupCode:       *groupCode,
			ProgramInitials: derefString(initials),
			StartYear:       derefInt(startYear),
			LanguageCode:    languageCode,
		}
		if groupCreated != nil {
			s.Group.CreatedAt = *groupCreated
		}
	}
	return &s, nil
}

// GetByUserID retrieves a student with its user and group
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"s.user_id": userID}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return student, nil
}

func applyStudentFilter(query squirrel.SelectBuilder, filter StudentFilter) squirrel.SelectBuilder {
	if filter.GroupID != nil {
		query = query.Where(squirrel.Eq{"s.group_id": *filter.GroupID})
	}
	if filter.TeacherID != nil {
		query = query.Where(squirrel.Expr(`s.group_id IN (
			SELECT gs.group_id FROM group_subjects gs
			JOIN teacher_subjects ts ON ts.subject_id = gs.subject_id
			WHERE ts.teacher_id = ? AND ts.is_active)`, *filter.TeacherID))
	}
	return query
}

// List returns one page of students plus the total matching the filter
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter) ([]*models.Student, int64, error) {
	total, err := count(ctx, r.database.Pool,
		applyStudentFilter(r.sb.Select("COUNT(*)").From("students s"), filter))
	if err != nil {
		return nil, 0, err
	}

	query := applyStudentFilter(r.baseSelect(), filter).OrderBy("u.username ASC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit)).Offset(filter.Offset)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, 0, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, total, nil
}

// SetGroup moves a student to another group, or detaches it when groupID is nil
func (r *StudentRepository) SetGroup(ctx context.Context, userID int64, groupID *int64) error {
	sql, args, err := r.sb.Update("students").
		Set("group_id", groupID).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building set student group SQL")
		return fmt.Errorf("failed to build set group query: %w", err)
	}

	cmdTag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrGroupNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing set student group query")
		return fmt.Errorf("error setting student group: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes the student's grades, the student record and the user
func (r *StudentRepository) Delete(ctx context.Context, userID int64) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Delete("grades").Where(squirrel.Eq{"student_id": userID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete grades query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error deleting student grades: %w", err)
		}

		sql, args, err = r.sb.Delete("students").Where(squirrel.Eq{"user_id": userID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete student query: %w", err)
		}
		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting student: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrStudentNotFound
		}
		return deleteUser(ctx, tx, r.sb, userID)
	})
}

// Count returns the number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.database.Pool, r.sb.Select("COUNT(*)").From("students"))
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
