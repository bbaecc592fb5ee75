package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"customer-portal/internal/dto"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
	"customer-portal/pkg/utils"
)

const directMessageTable = "direct_messages"
const directMessageFields = "id, sender_id, recipient_id, body, read, created_at"

type DirectMessageRepositoryInterface interface {
	Create(ctx context.Context, senderID, recipientID uint64, body string) (*dto.DirectMessageDTO, error)
	// GetConversation returns messages between two users, oldest first.
	GetConversation(ctx context.Context, userID, peerID uint64, filter types.Filter) ([]dto.DirectMessageDTO, uint64, error)
	// MarkConversationRead marks messages sent by peer to user as read.
	MarkConversationRead(ctx context.Context, userID, peerID uint64) error
	CountUnread(ctx context.Context, userID uint64) (uint64, error)
}

type directMessageRepository struct {
	storage *pgxpool.Pool
}

func NewDirectMessageRepository(storage *pgxpool.Pool) DirectMessageRepositoryInterface {
	return &directMessageRepository{storage: storage}
}

func scanDirectMessage(row pgx.Row) (*dto.DirectMessageDTO, error) {
	var m dto.DirectMessageDTO
	var createdAt time.Time
	err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.Read, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	m.CreatedAt = utils.FormatTime(createdAt)
	return &m, nil
}

func (r *directMessageRepository) Create(ctx context.Context, senderID, recipientID uint64, body string) (*dto.DirectMessageDTO, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (sender_id, recipient_id, body)
		VALUES ($1, $2, $3)
		RETURNING %s`, directMessageTable, directMessageFields)
	return scanDirectMessage(r.storage.QueryRow(ctx, query, senderID, recipientID, body))
}

func (r *directMessageRepository) GetConversation(ctx context.Context, userID, peerID uint64, filter types.Filter) ([]dto.DirectMessageDTO, uint64, error) {
	where := "(sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)"

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", directMessageTable, where)
	if err := r.storage.QueryRow(ctx, countQuery, userID, peerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.DirectMessageDTO{}, 0, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s
		ORDER BY created_at, id LIMIT $3 OFFSET $4`,
		directMessageFields, directMessageTable, where)
	rows, err := r.storage.Query(ctx, query, userID, peerID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages := make([]dto.DirectMessageDTO, 0)
	for rows.Next() {
		var m dto.DirectMessageDTO
		var createdAt time.Time
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.Read, &createdAt); err != nil {
			return nil, 0, err
		}
		m.CreatedAt = utils.FormatTime(createdAt)
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}

func (r *directMessageRepository) MarkConversationRead(ctx context.Context, userID, peerID uint64) error {
	query := fmt.Sprintf(`
		UPDATE %s SET read = true
		WHERE recipient_id = $1 AND sender_id = $2 AND read = false`, directMessageTable)
	_, err := r.storage.Exec(ctx, query, userID, peerID)
	return err
}

func (r *directMessageRepository) CountUnread(ctx context.Context, userID uint64) (uint64, error) {
	var count uint64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE recipient_id = $1 AND read = false", directMessageTable)
	err := r.storage.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}
