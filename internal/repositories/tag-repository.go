package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"customer-portal/internal/dto"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
	"customer-portal/pkg/utils"
)

const (
	tagTable  = "tags"
	tagFields = "id, name, created_at"
)

type TagRepositoryInterface interface {
	GetTags(ctx context.Context, filter types.Filter) ([]dto.TagDTO, uint64, error)
	FindTag(ctx context.Context, id uint64) (*dto.TagDTO, error)
	CreateTag(ctx context.Context, name string) (*dto.TagDTO, error)
	UpdateTag(ctx context.Context, id uint64, name string) (*dto.TagDTO, error)
	DeleteTag(ctx context.Context, id uint64) error
}

type tagRepository struct {
	storage *pgxpool.Pool
}

func NewTagRepository(storage *pgxpool.Pool) TagRepositoryInterface {
	return &tagRepository{storage: storage}
}

func scanTag(row pgx.Row) (*dto.TagDTO, error) {
	var id uint64
	var name string
	var createdAt time.Time
	if err := row.Scan(&id, &name, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &dto.TagDTO{ID: id, Name: name, CreatedAt: utils.FormatTime(createdAt)}, nil
}

func (r *tagRepository) GetTags(ctx context.Context, filter types.Filter) ([]dto.TagDTO, uint64, error) {
	whereClause := ""
	var args []interface{}
	if filter.Search != "" {
		whereClause = "WHERE name ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", tagTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.TagDTO{}, 0, nil
	}

	queryArgs := append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY name LIMIT $%d OFFSET $%d",
		tagFields, tagTable, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tags := make([]dto.TagDTO, 0)
	for rows.Next() {
		var id uint64
		var name string
		var createdAt time.Time
		if err := rows.Scan(&id, &name, &createdAt); err != nil {
			return nil, 0, err
		}
		tags = append(tags, dto.TagDTO{ID: id, Name: name, CreatedAt: utils.FormatTime(createdAt)})
	}
	return tags, total, rows.Err()
}

func (r *tagRepository) FindTag(ctx context.Context, id uint64) (*dto.TagDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", tagFields, tagTable)
	return scanTag(r.storage.QueryRow(ctx, query, id))
}

func (r *tagRepository) CreateTag(ctx context.Context, name string) (*dto.TagDTO, error) {
	query := fmt.Sprintf("INSERT INTO %s (name) VALUES ($1) RETURNING %s", tagTable, tagFields)
	tag, err := scanTag(r.storage.QueryRow(ctx, query, name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return tag, nil
}

func (r *tagRepository) UpdateTag(ctx context.Context, id uint64, name string) (*dto.TagDTO, error) {
	query := fmt.Sprintf("UPDATE %s SET name = $1 WHERE id = $2 RETURNING %s", tagTable, tagFields)
	tag, err := scanTag(r.storage.QueryRow(ctx, query, name, id))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return tag, nil
}

func (r *tagRepository) DeleteTag(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", tagTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
