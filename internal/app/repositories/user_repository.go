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

// UserRepository handles user accounts and role lookups
type UserRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// insertUser adds the users row inside an open transaction
func insertUser(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, user *models.User) (int64, error) {
	sql, args, err := sb.Insert("users").
		Columns("username", "password").
		Values(user.Username, user.Password).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert user SQL")
		return 0, fmt.Errorf("failed to build insert user query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrUsernameExists
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error inserting user")
		return 0, fmt.Errorf("error inserting user: %w", err)
	}
	return user.ID, nil
}

// deleteUser removes the users row; role records follow through ON DELETE CASCADE
func deleteUser(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, userID int64) error {
	sql, args, err := sb.Delete("users").Where(squirrel.Eq{"id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete user query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select("id", "username", "password", "created_at", "updated_at").
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user := &models.User{}
	err = r.database.Pool.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

// UsernameExists checks whether another user already holds the username
func (r *UserRepository) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	query := r.sb.Select("1").
		From("users").
		Where(squirrel.Eq{"username": username})
	if excludeID > 0 {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}
	return exists(ctx, r.database.Pool, query)
}

// Update stores a new username and password hash
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Update("users").
		Set("username", user.Username).
		Set("password", user.Password).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update user SQL")
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	cmdTag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrUsernameExists
		}
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Error executing update user query")
		return fmt.Errorf("error updating user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetRole resolves the role from the role records. Administrator wins over
// teacher, teacher over student.
func (r *UserRepository) GetRole(ctx context.Context, userID int64) (models.Role, error) {
	const query = `
	SELECT CASE
		WHEN EXISTS (SELECT 1 FROM admins WHERE user_id = $1) THEN 'ADMINISTRATOR'
		WHEN EXISTS (SELECT 1 FROM teachers WHERE user_id = $1) THEN 'TEACHER'
		WHEN EXISTS (SELECT 1 FROM students WHERE user_id = $1) THEN 'STUDENT'
		ELSE ''
	END`

	var role string
	if err := r.database.Pool.QueryRow(ctx, query, userID).Scan(&role); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error resolving user role")
		return "", fmt.Errorf("error resolving user role: %w", err)
	}
	if role == "" {
		return "", apperrors.ErrNoRole
	}
	return models.Role(role), nil
}

// CreateAdmin creates a user together with its administrator record
func (r *UserRepository) CreateAdmin(ctx context.Context, user *models.User) (int64, error) {
	err := r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		id, err := insertUser(ctx, tx, r.sb, user)
		if err != nil {
			return err
		}
		sql, args, err := r.sb.Insert("admins").Columns("user_id").Values(id).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert admin query: %w", err)
		}
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// CountAdmins returns the number of administrator records
func (r *UserRepository) CountAdmins(ctx context.Context) (int64, error) {
	return count(ctx, r.database.Pool, r.sb.Select("COUNT(*)").From("admins"))
}

// Count returns the number of user accounts
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.database.Pool, r.sb.Select("COUNT(*)").From("users"))
}
