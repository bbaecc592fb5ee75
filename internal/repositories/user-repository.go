package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	db "customer-portal/internal/infrastructure/bd"
	"customer-portal/pkg/constants"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
	"customer-portal/pkg/utils"
)

const (
	userTable  = "users"
	userFields = "id, username, password_hash, role, active, created_at, updated_at"
)

var userFilterMap = map[string]string{
	"role":   "role",
	"active": "active",
}

type dbUser struct {
	ID           uint64
	Username     string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    sql.NullTime
}

func (row *dbUser) ToEntity() *entities.User {
	return &entities.User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Role:         constants.Role(row.Role),
		Active:       row.Active,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func (row *dbUser) ToDTO() dto.UserDTO {
	return dto.UserDTO{
		ID:        row.ID,
		Username:  row.Username,
		Role:      row.Role,
		Active:    row.Active,
		CreatedAt: utils.FormatTime(row.CreatedAt),
		UpdatedAt: utils.NullTimeToEmptyString(row.UpdatedAt),
	}
}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	CreateUser(ctx context.Context, q Querier, username, passwordHash string, role constants.Role) (*entities.User, error)
	// ApplyRole sets the role inside the registration transaction once
	// the invite code has been consumed.
	ApplyRole(ctx context.Context, q Querier, id uint64, role constants.Role) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, role *string, active *bool, passwordHash *string) (*entities.User, error)
	DeleteUser(ctx context.Context, id uint64) error
	ListActiveUserIDs(ctx context.Context) ([]uint64, error)
}

type userRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &userRepository{storage: storage}
}

func scanUser(row pgx.Row) (*dbUser, error) {
	var u dbUser
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	base := sq.Select().From(userTable).PlaceholderFormat(sq.Dollar)
	if filter.Search != "" {
		base = base.Where(sq.ILike{"username": "%" + filter.Search + "%"})
	}

	countBuilder := db.ApplyListParams(base.Columns("COUNT(*)"), types.Filter{Filter: filter.Filter}, userFilterMap)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.UserDTO{}, 0, nil
	}

	listBuilder := db.ApplyListParams(base.Columns(userFields), filter, userFilterMap)
	if len(filter.Sort) == 0 {
		listBuilder = listBuilder.OrderBy("id")
	}
	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]dto.UserDTO, 0)
	for rows.Next() {
		var u dbUser
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, u.ToDTO())
	}
	return users, total, rows.Err()
}

func (r *userRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", userFields, userTable)
	row, err := scanUser(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return row.ToEntity(), nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE username = $1", userFields, userTable)
	row, err := scanUser(r.storage.QueryRow(ctx, query, username))
	if err != nil {
		return nil, err
	}
	return row.ToEntity(), nil
}

// CreateUser accepts a Querier so registration can run inside the same
// transaction that consumes the invite code.
func (r *userRepository) CreateUser(ctx context.Context, q Querier, username, passwordHash string, role constants.Role) (*entities.User, error) {
	if q == nil {
		q = r.storage
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (username, password_hash, role, active) VALUES ($1, $2, $3, true) RETURNING %s",
		userTable, userFields,
	)
	row, err := scanUser(q.QueryRow(ctx, query, username, passwordHash, string(role)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return row.ToEntity(), nil
}

func (r *userRepository) ApplyRole(ctx context.Context, q Querier, id uint64, role constants.Role) (*entities.User, error) {
	if q == nil {
		q = r.storage
	}
	query := fmt.Sprintf("UPDATE %s SET role = $1 WHERE id = $2 RETURNING %s", userTable, userFields)
	row, err := scanUser(q.QueryRow(ctx, query, string(role), id))
	if err != nil {
		return nil, err
	}
	return row.ToEntity(), nil
}

func (r *userRepository) UpdateUser(ctx context.Context, id uint64, role *string, active *bool, passwordHash *string) (*entities.User, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if role != nil {
		setClauses = append(setClauses, fmt.Sprintf("role = $%d", argID))
		args = append(args, *role)
		argID++
	}
	if active != nil {
		setClauses = append(setClauses, fmt.Sprintf("active = $%d", argID))
		args = append(args, *active)
		argID++
	}
	if passwordHash != nil {
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", argID))
		args = append(args, *passwordHash)
		argID++
	}
	if len(setClauses) == 0 {
		return r.FindUser(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		userTable, strings.Join(setClauses, ", "), argID, userFields)
	args = append(args, id)

	row, err := scanUser(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	return row.ToEntity(), nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", userTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) ListActiveUserIDs(ctx context.Context) ([]uint64, error) {
	rows, err := r.storage.Query(ctx, fmt.Sprintf("SELECT id FROM %s WHERE active = true", userTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
