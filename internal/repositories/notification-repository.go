package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"customer-portal/internal/dto"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/utils"
)

const (
	notificationTable  = "notifications"
	notificationFields = "id, user_id, title, body, read, kind, related_entity_id, created_at"
)

type dbNotification struct {
	ID              uint64
	UserID          uint64
	Title           string
	Body            string
	Read            bool
	Kind            string
	RelatedEntityID sql.NullInt64
	CreatedAt       time.Time
}

func (row *dbNotification) ToDTO() dto.NotificationDTO {
	d := dto.NotificationDTO{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Body:      row.Body,
		Read:      row.Read,
		Kind:      row.Kind,
		CreatedAt: utils.FormatTime(row.CreatedAt),
	}
	if row.RelatedEntityID.Valid {
		d.RelatedEntityID = utils.Ptr(uint64(row.RelatedEntityID.Int64))
	}
	return d
}

type NotificationRepositoryInterface interface {
	// CreateForUsers inserts one notification per user in a single
	// transaction and returns the affected user ids.
	CreateForUsers(ctx context.Context, userIDs []uint64, title, body, kind string, relatedEntityID *uint64) error
	GetByUser(ctx context.Context, userID uint64, limit, offset int) ([]dto.NotificationDTO, uint64, error)
	MarkRead(ctx context.Context, id, userID uint64) (*dto.NotificationDTO, error)
	MarkAllRead(ctx context.Context, userID uint64) error
	Delete(ctx context.Context, id, userID uint64) error
}

type notificationRepository struct {
	storage *pgxpool.Pool
}

func NewNotificationRepository(storage *pgxpool.Pool) NotificationRepositoryInterface {
	return &notificationRepository{storage: storage}
}

func (r *notificationRepository) CreateForUsers(ctx context.Context, userIDs []uint64, title, body, kind string, relatedEntityID *uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	return WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		query := fmt.Sprintf(
			"INSERT INTO %s (user_id, title, body, kind, related_entity_id) VALUES ($1, $2, $3, $4, $5)",
			notificationTable)
		for _, userID := range userIDs {
			if _, err := tx.Exec(ctx, query, userID, title, body, kind, relatedEntityID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *notificationRepository) GetByUser(ctx context.Context, userID uint64, limit, offset int) ([]dto.NotificationDTO, uint64, error) {
	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE user_id = $1", notificationTable)
	if err := r.storage.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.NotificationDTO{}, 0, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3",
		notificationFields, notificationTable)
	rows, err := r.storage.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notifications := make([]dto.NotificationDTO, 0)
	for rows.Next() {
		var n dbNotification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Read, &n.Kind, &n.RelatedEntityID, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n.ToDTO())
	}
	return notifications, total, rows.Err()
}

// MarkRead scopes the update to the owning user so one user can never
// touch another's notifications.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uint64) (*dto.NotificationDTO, error) {
	query := fmt.Sprintf("UPDATE %s SET read = true WHERE id = $1 AND user_id = $2 RETURNING %s",
		notificationTable, notificationFields)
	var n dbNotification
	err := r.storage.QueryRow(ctx, query, id, userID).Scan(
		&n.ID, &n.UserID, &n.Title, &n.Body, &n.Read, &n.Kind, &n.RelatedEntityID, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	d := n.ToDTO()
	return &d, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint64) error {
	_, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET read = true WHERE user_id = $1 AND read = false", notificationTable), userID)
	return err
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uint64) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND user_id = $2", notificationTable), id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
