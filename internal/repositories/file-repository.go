package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/pkg/constants"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
	"customer-portal/pkg/utils"
)

const (
	fileTable  = "download_files"
	fileFields = "id, name, description, original_name, blob_path, size_bytes, mime_type, allowed_roles, uploaded_by, created_at, updated_at"
)

type dbDownloadFile struct {
	ID           uint64
	Name         string
	Description  sql.NullString
	OriginalName string
	BlobPath     string
	SizeBytes    int64
	MimeType     string
	AllowedRoles []string
	UploadedBy   uint64
	CreatedAt    time.Time
	UpdatedAt    sql.NullTime
}

func (row *dbDownloadFile) ToEntity() *entities.DownloadFile {
	return &entities.DownloadFile{
		ID:           row.ID,
		Name:         row.Name,
		Description:  row.Description,
		OriginalName: row.OriginalName,
		BlobPath:     row.BlobPath,
		SizeBytes:    row.SizeBytes,
		MimeType:     row.MimeType,
		AllowedRoles: row.AllowedRoles,
		UploadedBy:   row.UploadedBy,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func (row *dbDownloadFile) ToDTO() dto.DownloadFileDTO {
	return dto.DownloadFileDTO{
		ID:           row.ID,
		Name:         row.Name,
		Description:  utils.NullStringToString(row.Description),
		OriginalName: row.OriginalName,
		SizeBytes:    row.SizeBytes,
		MimeType:     row.MimeType,
		AllowedRoles: row.AllowedRoles,
		UploadedBy:   row.UploadedBy,
		CreatedAt:    utils.FormatTime(row.CreatedAt),
		UpdatedAt:    utils.NullTimeToEmptyString(row.UpdatedAt),
	}
}

type FileRepositoryInterface interface {
	// GetFiles lists files. When role is non-empty only files whose
	// allowed_roles contain it are returned (the customer view).
	GetFiles(ctx context.Context, filter types.Filter, role constants.Role) ([]dto.DownloadFileDTO, uint64, error)
	FindFile(ctx context.Context, id uint64) (*entities.DownloadFile, error)
	CreateFile(ctx context.Context, file *entities.DownloadFile) (*dto.DownloadFileDTO, error)
	UpdateFile(ctx context.Context, id uint64, name, description *string, allowedRoles []string) (*dto.DownloadFileDTO, error)
	DeleteFile(ctx context.Context, id uint64) error
	SetTags(ctx context.Context, fileID uint64, tagIDs []uint64) error
	GetTags(ctx context.Context, fileID uint64) ([]dto.TagDTO, error)
}

type fileRepository struct {
	storage *pgxpool.Pool
}

func NewFileRepository(storage *pgxpool.Pool) FileRepositoryInterface {
	return &fileRepository{storage: storage}
}

func scanFile(row pgx.Row) (*dbDownloadFile, error) {
	var f dbDownloadFile
	err := row.Scan(&f.ID, &f.Name, &f.Description, &f.OriginalName, &f.BlobPath, &f.SizeBytes,
		&f.MimeType, &f.AllowedRoles, &f.UploadedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *fileRepository) GetFiles(ctx context.Context, filter types.Filter, role constants.Role) ([]dto.DownloadFileDTO, uint64, error) {
	var clauses []string
	var args []interface{}

	if role != "" {
		args = append(args, string(role))
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(allowed_roles)", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	whereClause := ""
	if len(clauses) > 0 {
		whereClause = "WHERE " + strings.Join(clauses, " AND ")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", fileTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.DownloadFileDTO{}, 0, nil
	}

	queryArgs := append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		fileFields, fileTable, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	files := make([]dto.DownloadFileDTO, 0)
	for rows.Next() {
		var f dbDownloadFile
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.OriginalName, &f.BlobPath, &f.SizeBytes,
			&f.MimeType, &f.AllowedRoles, &f.UploadedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, 0, err
		}
		files = append(files, f.ToDTO())
	}
	return files, total, rows.Err()
}

func (r *fileRepository) FindFile(ctx context.Context, id uint64) (*entities.DownloadFile, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", fileFields, fileTable)
	row, err := scanFile(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return row.ToEntity(), nil
}

func (r *fileRepository) CreateFile(ctx context.Context, file *entities.DownloadFile) (*dto.DownloadFileDTO, error) {
	query := fmt.Sprintf(
		"INSERT INTO %s (name, description, original_name, blob_path, size_bytes, mime_type, allowed_roles, uploaded_by) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING %s",
		fileTable, fileFields,
	)
	row, err := scanFile(r.storage.QueryRow(ctx, query,
		file.Name, file.Description, file.OriginalName, file.BlobPath,
		file.SizeBytes, file.MimeType, file.AllowedRoles, file.UploadedBy,
	))
	if err != nil {
		return nil, err
	}
	d := row.ToDTO()
	return &d, nil
}

func (r *fileRepository) UpdateFile(ctx context.Context, id uint64, name, description *string, allowedRoles []string) (*dto.DownloadFileDTO, error) {
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
	if allowedRoles != nil {
		setClauses = append(setClauses, fmt.Sprintf("allowed_roles = $%d", argID))
		args = append(args, allowedRoles)
		argID++
	}
	if len(setClauses) == 0 {
		row, err := r.FindFile(ctx, id)
		if err != nil {
			return nil, err
		}
		d := (&dbDownloadFile{
			ID: row.ID, Name: row.Name, Description: row.Description, OriginalName: row.OriginalName,
			BlobPath: row.BlobPath, SizeBytes: row.SizeBytes, MimeType: row.MimeType,
			AllowedRoles: row.AllowedRoles, UploadedBy: row.UploadedBy, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
		}).ToDTO()
		return &d, nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		fileTable, strings.Join(setClauses, ", "), argID, fileFields)
	args = append(args, id)

	row, err := scanFile(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	d := row.ToDTO()
	return &d, nil
}

func (r *fileRepository) DeleteFile(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", fileTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *fileRepository) SetTags(ctx context.Context, fileID uint64, tagIDs []uint64) error {
	return WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM file_tags WHERE file_id = $1", fileID); err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if _, err := tx.Exec(ctx,
				"INSERT INTO file_tags (file_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
				fileID, tagID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *fileRepository) GetTags(ctx context.Context, fileID uint64) ([]dto.TagDTO, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT t.id, t.name, t.created_at FROM tags t JOIN file_tags ft ON ft.tag_id = t.id WHERE ft.file_id = $1 ORDER BY t.name",
		fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]dto.TagDTO, 0)
	for rows.Next() {
		var id uint64
		var name string
		var createdAt time.Time
		if err := rows.Scan(&id, &name, &createdAt); err != nil {
			return nil, err
		}
		tags = append(tags, dto.TagDTO{ID: id, Name: name, CreatedAt: utils.FormatTime(createdAt)})
	}
	return tags, rows.Err()
}
