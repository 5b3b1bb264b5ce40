package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/ais/internal/db"
	"github.com/yigit/ais/internal/pkg/logger"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository           *UserRepository
	StudentRepository        *StudentRepository
	TeacherRepository        *TeacherRepository
	GroupRepository          *GroupRepository
	SubjectRepository        *SubjectRepository
	TeacherSubjectRepository *TeacherSubjectRepository
	GroupSubjectRepository   *GroupSubjectRepository
	GradeRepository          *GradeRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:           NewUserRepository(database),
		StudentRepository:        NewStudentRepository(database),
		TeacherRepository:        NewTeacherRepository(database),
		GroupRepository:          NewGroupRepository(database),
		SubjectRepository:        NewSubjectRepository(database),
		TeacherSubjectRepository: NewTeacherSubjectRepository(database),
		GroupSubjectRepository:   NewGroupSubjectRepository(database),
		GradeRepository:          NewGradeRepository(database),
	}
}

// exists wraps query in SELECT EXISTS (...)
func exists(ctx context.Context, q db.Querier, query squirrel.SelectBuilder) (bool, error) {
	sql, args, err := query.Prefix("SELECT EXISTS (").Suffix(")").Limit(1).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building exists SQL")
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var found bool
	if err := q.QueryRow(ctx, sql, args...).Scan(&found); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Msg("Error executing exists query")
		return false, fmt.Errorf("error checking existence: %w", err)
	}
	return found, nil
}

// count runs a single-column COUNT query
func count(ctx context.Context, q db.Querier, query squirrel.SelectBuilder) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count SQL")
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var n int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Msg("Error executing count query")
		return 0, fmt.Errorf("error counting rows: %w", err)
	}
	return n, nil
}
