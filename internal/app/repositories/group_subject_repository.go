package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/db"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/dberrors"
	"github.com/yigit/ais/internal/pkg/logger"
)

// GroupSubjectRepository handles curriculum assignments
type GroupSubjectRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewGroupSubjectRepository creates a new GroupSubjectRepository
func NewGroupSubjectRepository(database *db.PostgresDB) *GroupSubjectRepository {
	return &GroupSubjectRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create adds a subject to a group's curriculum
func (r *GroupSubjectRepository) Create(ctx context.Context, gs *models.GroupSubject) (int64, error) {
	sql, args, err := r.sb.Insert("group_subjects").
		Columns("group_id", "subject_id", "academic_semester").
		Values(gs.GroupID, gs.SubjectID, gs.AcademicSemester).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert group subject SQL")
		return 0, fmt.Errorf("failed to build insert group subject query: %w", err)
	}

	if err := r.database.Pool.QueryRow(ctx, sql, args...).Scan(&gs.ID); err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return 0, apperrors.ErrAssignmentExists
		case dberrors.IsForeignKeyViolation(err):
			return 0, apperrors.NewResourceNotFoundError("group or subject not found")
		}
		logger.Error().Err(err).Int64("groupID", gs.GroupID).Int64("subjectID", gs.SubjectID).Msg("Error executing insert group subject query")
		return 0, fmt.Errorf("error creating group subject: %w", err)
	}
	return gs.ID, nil
}

// DeleteByPair removes a subject from a group's curriculum
func (r *GroupSubjectRepository) DeleteByPair(ctx context.Context, groupID, subjectID int64) error {
	sql, args, err := r.sb.Delete("group_subjects").
		Where(squirrel.Eq{"group_id": groupID, "subject_id": subjectID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete group subject query: %w", err)
	}

	cmdTag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete group subject query")
		return fmt.Errorf("error deleting group subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// ListByGroup returns a group's curriculum entries, optionally for one semester
func (r *GroupSubjectRepository) ListByGroup(ctx context.Context, groupID int64, semester string) ([]*models.GroupSubject, error) {
	query := r.sb.Select("gs.id", "gs.group_id", "gs.subject_id", "gs.academic_semester", "g.group_code", "sub.code").
		From("group_subjects gs").
		Join("groups g ON g.id = gs.group_id").
		Join("subjects sub ON sub.id = gs.subject_id").
		Where(squirrel.Eq{"gs.group_id": groupID})
	if semester != "" {
		query = query.Where(squirrel.Eq{"gs.academic_semester": semester})
	}
	sql, args, err := query.OrderBy("sub.code ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list group subjects query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("groupID", groupID).Msg("Error executing list group subjects query")
		return nil, fmt.Errorf("error listing group subjects: %w", err)
	}
	defer rows.Close()

	out := make([]*models.GroupSubject, 0)
	for rows.Next() {
		var gs models.GroupSubject
		if err := rows.Scan(&gs.ID, &gs.GroupID, &gs.SubjectID, &gs.AcademicSemester, &gs.GroupCode, &gs.SubjectCode); err != nil {
			return nil, fmt.Errorf("error scanning group subject: %w", err)
		}
		out = append(out, &gs)
	}
	return out, rows.Err()
}
