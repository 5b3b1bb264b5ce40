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

var groupColumns = []string{"g.id", "g.group_code", "g.program_initials", "g.start_year", "g.language_code", "g.created_at"}

// GroupRepository handles groups
type GroupRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(database *db.PostgresDB) *GroupRepository {
	return &GroupRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanGroup(row pgx.Row) (*models.Group, error) {
	var g models.Group
	if err := row.Scan(&g.ID, &g.GroupCode, &g.ProgramInitials, &g.StartYear, &g.LanguageCode, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a new group
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) (int64, error) {
	sql, args, err := r.sb.Insert("groups").
		Columns("group_code", "program_initials", "start_year", "language_code").
		Values(group.GroupCode, group.ProgramInitials, group.StartYear, group.LanguageCode).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert group SQL")
		return 0, fmt.Errorf("failed to build insert group query: %w", err)
	}

	if err := r.database.Pool.QueryRow(ctx, sql, args...).Scan(&group.ID, &group.CreatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrGroupCodeExists
		}
		logger.Error().Err(err).Str("groupCode", group.GroupCode).Msg("Error executing insert group query")
		return 0, fmt.Errorf("error creating group: %w", err)
	}
	return group.ID, nil
}

func (r *GroupRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Group, error) {
	sql, args, err := r.sb.Select(groupColumns...).From("groups g").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get group SQL")
		return nil, fmt.Errorf("failed to build get group query: %w", err)
	}

	group, err := scanGroup(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		logger.Error().Err(err).Msg("Error scanning group row")
		return nil, fmt.Errorf("error getting group: %w", err)
	}
	return group, nil
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	return r.getOne(ctx, squirrel.Eq{"g.id": id})
}

// GetByCode retrieves a group by its code
func (r *GroupRepository) GetByCode(ctx context.Context, code string) (*models.Group, error) {
	return r.getOne(ctx, squirrel.Eq{"g.group_code": code})
}

// CodeExists checks whether another group already uses code
func (r *GroupRepository) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := r.sb.Select("1").From("groups").Where(squirrel.Eq{"group_code": code})
	if excludeID > 0 {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}
	return exists(ctx, r.database.Pool, query)
}

// Update stores the group's code components
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	sql, args, err := r.sb.Update("groups").
		Set("group_code", group.GroupCode).
		Set("program_initials", group.ProgramInitials).
		Set("start_year", group.StartYear).
		Set("language_code", group.LanguageCode).
		Where(squirrel.Eq{"id": group.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update group SQL")
		return fmt.Errorf("failed to build update group query: %w", err)
	}

	cmdTag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrGroupCodeExists
		}
		logger.Error().Err(err).Int64("groupID", group.ID).Msg("Error executing update group query")
		return fmt.Errorf("error updating group: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGroupNotFound
	}
	return nil
}

// Delete detaches the group's students, drops its curriculum and removes it
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("students").
			Set("group_id", nil).
			Where(squirrel.Eq{"group_id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build detach students query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error detaching students: %w", err)
		}

		sql, args, err = r.sb.Delete("group_subjects").Where(squirrel.Eq{"group_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete group subjects query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error deleting group subjects: %w", err)
		}

		sql, args, err = r.sb.Delete("groups").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete group query: %w", err)
		}
		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("groupID", id).Msg("Error executing delete group query")
			return fmt.Errorf("error deleting group: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrGroupNotFound
		}
		return nil
	})
}

func (r *GroupRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Group, error) {
	sql, args, err := query.OrderBy("g.group_code ASC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list groups SQL")
		return nil, fmt.Errorf("failed to build list groups query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list groups query")
		return nil, fmt.Errorf("error listing groups: %w", err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning group: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// List returns groups matching the filter, ordered by code
func (r *GroupRepository) List(ctx context.Context, filter models.GroupFilter) ([]*models.Group, error) {
	query := r.sb.Select(groupColumns...).From("groups g")
	if filter.ProgramInitials != "" {
		query = query.Where(squirrel.Eq{"g.program_initials": filter.ProgramInitials})
	}
	if filter.StartYear != nil {
		query = query.Where(squirrel.Eq{"g.start_year": *filter.StartYear})
	}
	if filter.HasStudents != nil {
		sub := "EXISTS (SELECT 1 FROM students s WHERE s.group_id = g.id)"
		if !*filter.HasStudents {
			sub = "NOT " + sub
		}
		query = query.Where(sub)
	}
	return r.list(ctx, query)
}

// ListBySubject returns the groups whose curriculum contains the subject
func (r *GroupRepository) ListBySubject(ctx context.Context, subjectID int64) ([]*models.Group, error) {
	query := r.sb.Select(groupColumns...).
		From("groups g").
		Join("group_subjects gs ON gs.group_id = g.id").
		Where(squirrel.Eq{"gs.subject_id": subjectID})
	return r.list(ctx, query)
}

// ListByTeacher returns the groups studying any subject the teacher actively teaches
func (r *GroupRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.Group, error) {
	query := r.sb.Select(groupColumns...).
		Distinct().
		From("groups g").
		Join("group_subjects gs ON gs.group_id = g.id").
		Join("teacher_subjects ts ON ts.subject_id = gs.subject_id").
		Where(squirrel.Eq{"ts.teacher_id": teacherID, "ts.is_active": true})
	return r.list(ctx, query)
}

// DistinctProgramInitials returns the program initials in use
func (r *GroupRepository) DistinctProgramInitials(ctx context.Context) ([]string, error) {
	rows, err := r.database.Pool.Query(ctx, `SELECT DISTINCT program_initials FROM groups ORDER BY program_initials`)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying program initials")
		return nil, fmt.Errorf("error listing program initials: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// DistinctStartYears returns the start years in use
func (r *GroupRepository) DistinctStartYears(ctx context.Context) ([]int, error) {
	rows, err := r.database.Pool.Query(ctx, `SELECT DISTINCT start_year::int FROM groups ORDER BY 1`)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying start years")
		return nil, fmt.Errorf("error listing start years: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}

// CountStudents returns the number of students in a group
func (r *GroupRepository) CountStudents(ctx context.Context, groupID int64) (int64, error) {
	return count(ctx, r.database.Pool,
		r.sb.Select("COUNT(*)").From("students").Where(squirrel.Eq{"group_id": groupID}))
}

// CountSubjects returns the number of subjects in a group's curriculum
func (r *GroupRepository) CountSubjects(ctx context.Context, groupID int64) (int64, error) {
	return count(ctx, r.database.Pool,
		r.sb.Select("COUNT(*)").From("group_subjects").Where(squirrel.Eq{"group_id": groupID}))
}

// Count returns the number of groups
func (r *GroupRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.database.Pool, r.sb.Select("COUNT(*)").From("groups"))
}
