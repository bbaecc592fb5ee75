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
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
	"customer-portal/pkg/utils"
)

const (
	announcementTable  = "announcements"
	announcementFields = "id, title, body, created_by, created_at, updated_at"
)

type dbAnnouncement struct {
	ID        uint64
	Title     string
	Body      string
	CreatedBy uint64
	CreatedAt time.Time
	UpdatedAt sql.NullTime
}

func (row *dbAnnouncement) ToDTO() dto.AnnouncementDTO {
	return dto.AnnouncementDTO{
		ID:        row.ID,
		Title:     row.Title,
		Body:      row.Body,
		CreatedBy: row.CreatedBy,
		CreatedAt: utils.FormatTime(row.CreatedAt),
		UpdatedAt: utils.NullTimeToEmptyString(row.UpdatedAt),
	}
}

type AnnouncementRepositoryInterface interface {
	GetAnnouncements(ctx context.Context, filter types.Filter) ([]dto.AnnouncementDTO, uint64, error)
	FindAnnouncement(ctx context.Context, id uint64) (*dto.AnnouncementDTO, error)
	CreateAnnouncement(ctx context.Context, payload dto.CreateAnnouncementDTO, createdBy uint64) (*dto.AnnouncementDTO, error)
	UpdateAnnouncement(ctx context.Context, id uint64, title, body *string) (*dto.AnnouncementDTO, error)
	DeleteAnnouncement(ctx context.Context, id uint64) error
}

type announcementRepository struct {
	storage *pgxpool.Pool
}

func NewAnnouncementRepository(storage *pgxpool.Pool) AnnouncementRepositoryInterface {
	return &announcementRepository{storage: storage}
}

func scanAnnouncement(row pgx.Row) (*dbAnnouncement, error) {
	var a dbAnnouncement
	err := row.Scan(&a.ID, &a.Title, &a.Body, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepository) GetAnnouncements(ctx context.Context, filter types.Filter) ([]dto.AnnouncementDTO, uint64, error) {
	whereClause := ""
	var args []interface{}
	if filter.Search != "" {
		whereClause = "WHERE title ILIKE $1 OR body ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", announcementTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.AnnouncementDTO{}, 0, nil
	}

	queryArgs := append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		announcementFields, announcementTable, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	announcements := make([]dto.AnnouncementDTO, 0)
	for rows.Next() {
		var a dbAnnouncement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		announcements = append(announcements, a.ToDTO())
	}
	return announcements, total, rows.Err()
}

func (r *announcementRepository) FindAnnouncement(ctx context.Context, id uint64) (*dto.AnnouncementDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", announcementFields, announcementTable)
	row, err := scanAnnouncement(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	d := row.ToDTO()
	return &d, nil
}

func (r *announcementRepository) CreateAnnouncement(ctx context.Context, payload dto.CreateAnnouncementDTO, createdBy uint64) (*dto.AnnouncementDTO, error) {
	query := fmt.Sprintf("INSERT INTO %s (title, body, created_by) VALUES ($1, $2, $3) RETURNING %s",
		announcementTable, announcementFields)
	row, err := scanAnnouncement(r.storage.QueryRow(ctx, query, payload.Title, payload.Body, createdBy))
	if err != nil {
		return nil, err
	}
	d := row.ToDTO()
	return &d, nil
}

func (r *announcementRepository) UpdateAnnouncement(ctx context.Context, id uint64, title, body *string) (*dto.AnnouncementDTO, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *title)
		argID++
	}
	if body != nil {
		setClauses = append(setClauses, fmt.Sprintf("body = $%d", argID))
		args = append(args, *body)
		argID++
	}
	if len(setClauses) == 0 {
		return r.FindAnnouncement(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		announcementTable, strings.Join(setClauses, ", "), argID, announcementFields)
	args = append(args, id)

	row, err := scanAnnouncement(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	d := row.ToDTO()
	return &d, nil
}

func (r *announcementRepository) DeleteAnnouncement(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", announcementTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
