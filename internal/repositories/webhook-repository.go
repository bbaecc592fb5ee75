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
	"customer-portal/internal/entities"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
	"customer-portal/pkg/utils"
)

const (
	webhookTable  = "webhooks"
	webhookFields = "id, url, event_types, active, created_by, created_at, updated_at"
)

type dbWebhook struct {
	ID         uint64
	URL        string
	EventTypes []string
	Active     bool
	CreatedBy  uint64
	CreatedAt  time.Time
	UpdatedAt  sql.NullTime
}

func (row *dbWebhook) ToEntity() *entities.Webhook {
	return &entities.Webhook{
		ID:         row.ID,
		URL:        row.URL,
		EventTypes: row.EventTypes,
		Active:     row.Active,
		CreatedBy:  row.CreatedBy,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func (row *dbWebhook) ToDTO() dto.WebhookDTO {
	eventTypes := row.EventTypes
	if eventTypes == nil {
		eventTypes = []string{}
	}
	return dto.WebhookDTO{
		ID:         row.ID,
		URL:        row.URL,
		EventTypes: eventTypes,
		Active:     row.Active,
		CreatedBy:  row.CreatedBy,
		CreatedAt:  utils.FormatTime(row.CreatedAt),
		UpdatedAt:  utils.NullTimeToEmptyString(row.UpdatedAt),
	}
}

type WebhookRepositoryInterface interface {
	GetWebhooks(ctx context.Context, filter types.Filter) ([]dto.WebhookDTO, uint64, error)
	FindWebhook(ctx context.Context, id uint64) (*dto.WebhookDTO, error)
	// ListActive returns active webhooks as entities for the delivery
	// listener to match against.
	ListActive(ctx context.Context) ([]entities.Webhook, error)
	CreateWebhook(ctx context.Context, url string, eventTypes []string, createdBy uint64) (*dto.WebhookDTO, error)
	UpdateWebhook(ctx context.Context, id uint64, url *string, eventTypes []string, active *bool) (*dto.WebhookDTO, error)
	DeleteWebhook(ctx context.Context, id uint64) error
}

type webhookRepository struct {
	storage *pgxpool.Pool
}

func NewWebhookRepository(storage *pgxpool.Pool) WebhookRepositoryInterface {
	return &webhookRepository{storage: storage}
}

func scanWebhook(row pgx.Row) (*dbWebhook, error) {
	var w dbWebhook
	err := row.Scan(&w.ID, &w.URL, &w.EventTypes, &w.Active, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *webhookRepository) GetWebhooks(ctx context.Context, filter types.Filter) ([]dto.WebhookDTO, uint64, error) {
	whereClause := ""
	var args []interface{}
	if filter.Search != "" {
		whereClause = "WHERE url ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", webhookTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.WebhookDTO{}, 0, nil
	}

	queryArgs := append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY id LIMIT $%d OFFSET $%d",
		webhookFields, webhookTable, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	webhooks := make([]dto.WebhookDTO, 0)
	for rows.Next() {
		var w dbWebhook
		if err := rows.Scan(&w.ID, &w.URL, &w.EventTypes, &w.Active, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, 0, err
		}
		webhooks = append(webhooks, w.ToDTO())
	}
	return webhooks, total, rows.Err()
}

func (r *webhookRepository) FindWebhook(ctx context.Context, id uint64) (*dto.WebhookDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", webhookFields, webhookTable)
	row, err := scanWebhook(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	result := row.ToDTO()
	return &result, nil
}

func (r *webhookRepository) ListActive(ctx context.Context) ([]entities.Webhook, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE active = true ORDER BY id", webhookFields, webhookTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	webhooks := make([]entities.Webhook, 0)
	for rows.Next() {
		var w dbWebhook
		if err := rows.Scan(&w.ID, &w.URL, &w.EventTypes, &w.Active, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		webhooks = append(webhooks, *w.ToEntity())
	}
	return webhooks, rows.Err()
}

func (r *webhookRepository) CreateWebhook(ctx context.Context, url string, eventTypes []string, createdBy uint64) (*dto.WebhookDTO, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (url, event_types, active, created_by)
		VALUES ($1, $2, true, $3)
		RETURNING %s`, webhookTable, webhookFields)
	row, err := scanWebhook(r.storage.QueryRow(ctx, query, url, eventTypes, createdBy))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	result := row.ToDTO()
	return &result, nil
}

func (r *webhookRepository) UpdateWebhook(ctx context.Context, id uint64, url *string, eventTypes []string, active *bool) (*dto.WebhookDTO, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argIdx := 2

	if url != nil {
		setClauses = append(setClauses, fmt.Sprintf("url = $%d", argIdx))
		args = append(args, *url)
		argIdx++
	}
	if eventTypes != nil {
		setClauses = append(setClauses, fmt.Sprintf("event_types = $%d", argIdx))
		args = append(args, eventTypes)
		argIdx++
	}
	if active != nil {
		setClauses = append(setClauses, fmt.Sprintf("active = $%d", argIdx))
		args = append(args, *active)
		argIdx++
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 RETURNING %s",
		webhookTable, strings.Join(setClauses, ", "), webhookFields)
	row, err := scanWebhook(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	result := row.ToDTO()
	return &result, nil
}

func (r *webhookRepository) DeleteWebhook(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", webhookTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
