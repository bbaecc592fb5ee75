package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
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
	collectionTable  = "collections"
	collectionFields = "id, name, description, created_by, created_at, updated_at"
)

type dbCollection struct {
	ID          uint64
	Name        string
	Description sql.NullString
	CreatedBy   uint64
	CreatedAt   time.Time
	UpdatedAt   sql.NullTime
}

func (row *dbCollection) ToDTO() dto.CollectionDTO {
	return dto.CollectionDTO{
		ID:          row.ID,
		Name:        row.Name,
		Description: utils.NullStringToString(row.Description),
		FileIDs:     []uint64{},
		CreatedBy:   row.CreatedBy,
		CreatedAt:   utils.FormatTime(row.CreatedAt),
		UpdatedAt:   utils.NullTimeToEmptyString(row.UpdatedAt),
	}
}

type CollectionRepositoryInterface interface {
	GetCollections(ctx context.Context, filter types.Filter) ([]dto.CollectionDTO, uint64, error)
	FindCollection(ctx context.Context, id uint64) (*dto.CollectionDTO, error)
	CreateCollection(ctx context.Context, payload dto.CreateCollectionDTO, createdBy uint64) (*dto.CollectionDTO, error)
	UpdateCollection(ctx context.Context, id uint64, name, description *string) (*dto.CollectionDTO, error)
	// DeleteCollection removes the collection; membership rows cascade.
	DeleteCollection(ctx context.Context, id uint64) error
	AddFile(ctx context.Context, collectionID, fileID uint64) error
	RemoveFile(ctx context.Context, collectionID, fileID uint64) error
	GetFileIDs(ctx context.Context, collectionID uint64) ([]uint64, error)
}

type collectionRepository struct {
	storage *pgxpool.Pool
}

func NewCollectionRepository(storage *pgxpool.Pool) CollectionRepositoryInterface {
	return &collectionRepository{storage: storage}
}

func scanCollection(row pgx.Row) (*dbCollection, error) {
	var c dbCollection
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *collectionRepository) GetCollections(ctx context.Context, filter types.Filter) ([]dto.CollectionDTO, uint64, error) {
	whereClause := ""
	var args []interface{}
	if filter.Search != "" {
		whereClause = "WHERE name ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", collectionTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.CollectionDTO{}, 0, nil
	}

	queryArgs := append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY name LIMIT $%d OFFSET $%d",
		collectionFields, collectionTable, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	collections := make([]dto.CollectionDTO, 0)
	for rows.Next() {
		var c dbCollection
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		collections = append(collections, c.ToDTO())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range collections {
		fileIDs, err := r.GetFileIDs(ctx, collections[i].ID)
		if err != nil {
			return nil, 0, err
		}
		collections[i].FileIDs = fileIDs
	}
	return collections, total, nil
}

func (r *collectionRepository) FindCollection(ctx context.Context, id uint64) (*dto.CollectionDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", collectionFields, collectionTable)
	row, err := scanCollection(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	d := row.ToDTO()
	fileIDs, err := r.GetFileIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	d.FileIDs = fileIDs
	return &d, nil
}

func (r *collectionRepository) CreateCollection(ctx context.Context, payload dto.CreateCollectionDTO, createdBy uint64) (*dto.CollectionDTO, error) {
	var created *dbCollection
	err := WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		query := fmt.Sprintf("INSERT INTO %s (name, description, created_by) VALUES ($1, $2, $3) RETURNING %s",
			collectionTable, collectionFields)
		row, err := scanCollection(tx.QueryRow(ctx, query, payload.Name, payload.Description, createdBy))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return apperrors.ErrConflict
			}
			return err
		}
		for _, fileID := range payload.FileIDs {
			if _, err := tx.Exec(ctx,
				"INSERT INTO collection_files (collection_id, file_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
				row.ID, fileID); err != nil {
				return err
			}
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	d := created.ToDTO()
	d.FileIDs = append(d.FileIDs, payload.FileIDs...)
	return &d, nil
}

func (r *collectionRepository) UpdateCollection(ctx context.Context, id uint64, name, description *string) (*dto.CollectionDTO, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argID))
		args = append(args, *name)
		argID++
	}
	if description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		args = append(args, *description)
		argID++
	}
	if len(setClauses) == 0 {
		return r.FindCollection(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		collectionTable, strings.Join(setClauses, ", "), argID, collectionFields)
	args = append(args, id)

	row, err := scanCollection(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	d := row.ToDTO()
	fileIDs, err := r.GetFileIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	d.FileIDs = fileIDs
	return &d, nil
}

func (r *collectionRepository) DeleteCollection(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", collectionTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *collectionRepository) AddFile(ctx context.Context, collectionID, fileID uint64) error {
	_, err := r.storage.Exec(ctx,
		"INSERT INTO collection_files (collection_id, file_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		collectionID, fileID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *collectionRepository) RemoveFile(ctx context.Context, collectionID, fileID uint64) error {
	_, err := r.storage.Exec(ctx,
		"DELETE FROM collection_files WHERE collection_id = $1 AND file_id = $2",
		collectionID, fileID)
	return err
}

func (r *collectionRepository) GetFileIDs(ctx context.Context, collectionID uint64) ([]uint64, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT file_id FROM collection_files WHERE collection_id = $1 ORDER BY file_id", collectionID)
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
