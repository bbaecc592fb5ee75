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

const (
	forumThreadTable = "forum_threads"
	forumPostTable   = "forum_posts"
)

type ForumRepositoryInterface interface {
	GetThreads(ctx context.Context, filter types.Filter) ([]dto.ForumThreadDTO, uint64, error)
	FindThread(ctx context.Context, id uint64) (*dto.ForumThreadDTO, error)
	// CreateThread creates the thread and its opening post in one
	// transaction.
	CreateThread(ctx context.Context, title, body string, createdBy uint64) (*dto.ForumThreadDTO, error)
	// DeleteThread removes the thread; posts cascade at the schema level.
	DeleteThread(ctx context.Context, id uint64) error
	GetPosts(ctx context.Context, threadID uint64, filter types.Filter) ([]dto.ForumPostDTO, uint64, error)
	FindPost(ctx context.Context, id uint64) (*dto.ForumPostDTO, error)
	CreatePost(ctx context.Context, threadID uint64, body string, createdBy uint64) (*dto.ForumPostDTO, error)
	DeletePost(ctx context.Context, id uint64) error
}

type forumRepository struct {
	storage *pgxpool.Pool
}

func NewForumRepository(storage *pgxpool.Pool) ForumRepositoryInterface {
	return &forumRepository{storage: storage}
}

const threadSelect = `
SELECT t.id, t.title, t.created_by, COALESCE(u.username, ''), t.created_at,
       (SELECT COUNT(*) FROM forum_posts p WHERE p.thread_id = t.id)
FROM forum_threads t
LEFT JOIN users u ON u.id = t.created_by`

func scanThread(row pgx.Row) (*dto.ForumThreadDTO, error) {
	var t dto.ForumThreadDTO
	var createdAt time.Time
	err := row.Scan(&t.ID, &t.Title, &t.CreatedBy, &t.AuthorName, &createdAt, &t.PostCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	t.CreatedAt = utils.FormatTime(createdAt)
	return &t, nil
}

const postSelect = `
SELECT p.id, p.thread_id, p.body, p.created_by, COALESCE(u.username, ''), p.created_at
FROM forum_posts p
LEFT JOIN users u ON u.id = p.created_by`

func scanPost(row pgx.Row) (*dto.ForumPostDTO, error) {
	var p dto.ForumPostDTO
	var createdAt time.Time
	err := row.Scan(&p.ID, &p.ThreadID, &p.Body, &p.CreatedBy, &p.AuthorName, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	p.CreatedAt = utils.FormatTime(createdAt)
	return &p, nil
}

func (r *forumRepository) GetThreads(ctx context.Context, filter types.Filter) ([]dto.ForumThreadDTO, uint64, error) {
	whereClause := ""
	var args []interface{}
	if filter.Search != "" {
		whereClause = "WHERE t.title ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s t %s", forumThreadTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.ForumThreadDTO{}, 0, nil
	}

	queryArgs := append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("%s %s ORDER BY t.created_at DESC, t.id DESC LIMIT $%d OFFSET $%d",
		threadSelect, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	threads := make([]dto.ForumThreadDTO, 0)
	for rows.Next() {
		var t dto.ForumThreadDTO
		var createdAt time.Time
		if err := rows.Scan(&t.ID, &t.Title, &t.CreatedBy, &t.AuthorName, &createdAt, &t.PostCount); err != nil {
			return nil, 0, err
		}
		t.CreatedAt = utils.FormatTime(createdAt)
		threads = append(threads, t)
	}
	return threads, total, rows.Err()
}

func (r *forumRepository) FindThread(ctx context.Context, id uint64) (*dto.ForumThreadDTO, error) {
	return scanThread(r.storage.QueryRow(ctx, threadSelect+" WHERE t.id = $1", id))
}

func (r *forumRepository) CreateThread(ctx context.Context, title, body string, createdBy uint64) (*dto.ForumThreadDTO, error) {
	var threadID uint64
	err := WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			fmt.Sprintf("INSERT INTO %s (title, created_by) VALUES ($1, $2) RETURNING id", forumThreadTable),
			title, createdBy,
		).Scan(&threadID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			fmt.Sprintf("INSERT INTO %s (thread_id, body, created_by) VALUES ($1, $2, $3)", forumPostTable),
			threadID, body, createdBy)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.FindThread(ctx, threadID)
}

func (r *forumRepository) DeleteThread(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", forumThreadTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *forumRepository) GetPosts(ctx context.Context, threadID uint64, filter types.Filter) ([]dto.ForumPostDTO, uint64, error) {
	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE thread_id = $1", forumPostTable)
	if err := r.storage.QueryRow(ctx, countQuery, threadID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.ForumPostDTO{}, 0, nil
	}

	query := postSelect + " WHERE p.thread_id = $1 ORDER BY p.created_at, p.id LIMIT $2 OFFSET $3"
	rows, err := r.storage.Query(ctx, query, threadID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := make([]dto.ForumPostDTO, 0)
	for rows.Next() {
		var p dto.ForumPostDTO
		var createdAt time.Time
		if err := rows.Scan(&p.ID, &p.ThreadID, &p.Body, &p.CreatedBy, &p.AuthorName, &createdAt); err != nil {
			return nil, 0, err
		}
		p.CreatedAt = utils.FormatTime(createdAt)
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

func (r *forumRepository) FindPost(ctx context.Context, id uint64) (*dto.ForumPostDTO, error) {
	return scanPost(r.storage.QueryRow(ctx, postSelect+" WHERE p.id = $1", id))
}

func (r *forumRepository) CreatePost(ctx context.Context, threadID uint64, body string, createdBy uint64) (*dto.ForumPostDTO, error) {
	var postID uint64
	err := r.storage.QueryRow(ctx,
		fmt.Sprintf("INSERT INTO %s (thread_id, body, created_by) VALUES ($1, $2, $3) RETURNING id", forumPostTable),
		threadID, body, createdBy,
	).Scan(&postID)
	if err != nil {
		return nil, err
	}
	return r.FindPost(ctx, postID)
}

func (r *forumRepository) DeletePost(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", forumPostTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
