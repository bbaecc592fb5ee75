package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"customer-portal/internal/dto"
	"customer-portal/pkg/types"
	"customer-portal/pkg/utils"
)

const downloadHistoryTable = "download_history"

type DownloadHistoryRepositoryInterface interface {
	RecordDownload(ctx context.Context, fileID, userID uint64) (*dto.DownloadHistoryDTO, error)
	GetHistory(ctx context.Context, filter types.Filter) ([]dto.DownloadHistoryDTO, uint64, error)
	// GetAllHistory returns the unpaginated history for export.
	GetAllHistory(ctx context.Context) ([]dto.DownloadHistoryDTO, error)
}

type downloadHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewDownloadHistoryRepository(storage *pgxpool.Pool) DownloadHistoryRepositoryInterface {
	return &downloadHistoryRepository{storage: storage}
}

const historySelect = `
SELECT h.id, h.file_id, COALESCE(f.name, ''), h.user_id, COALESCE(u.username, ''), h.downloaded_at
FROM download_history h
LEFT JOIN download_files f ON f.id = h.file_id
LEFT JOIN users u ON u.id = h.user_id`

func (r *downloadHistoryRepository) RecordDownload(ctx context.Context, fileID, userID uint64) (*dto.DownloadHistoryDTO, error) {
	var id uint64
	var downloadedAt time.Time
	err := r.storage.QueryRow(ctx,
		fmt.Sprintf("INSERT INTO %s (file_id, user_id) VALUES ($1, $2) RETURNING id, downloaded_at", downloadHistoryTable),
		fileID, userID,
	).Scan(&id, &downloadedAt)
	if err != nil {
		return nil, err
	}
	return &dto.DownloadHistoryDTO{
		ID:           id,
		FileID:       fileID,
		UserID:       userID,
		DownloadedAt: utils.FormatTime(downloadedAt),
	}, nil
}

func (r *downloadHistoryRepository) GetHistory(ctx context.Context, filter types.Filter) ([]dto.DownloadHistoryDTO, uint64, error) {
	whereClause := ""
	var args []interface{}
	if filter.Search != "" {
		whereClause = "WHERE u.username ILIKE $1 OR f.name ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}

	var total uint64
	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s h LEFT JOIN download_files f ON f.id = h.file_id LEFT JOIN users u ON u.id = h.user_id %s",
		downloadHistoryTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.DownloadHistoryDTO{}, 0, nil
	}

	queryArgs := append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("%s %s ORDER BY h.downloaded_at DESC, h.id DESC LIMIT $%d OFFSET $%d",
		historySelect, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	history := make([]dto.DownloadHistoryDTO, 0)
	for rows.Next() {
		var h dto.DownloadHistoryDTO
		var downloadedAt time.Time
		if err := rows.Scan(&h.ID, &h.FileID, &h.FileName, &h.UserID, &h.Username, &downloadedAt); err != nil {
			return nil, 0, err
		}
		h.DownloadedAt = utils.FormatTime(downloadedAt)
		history = append(history, h)
	}
	return history, total, rows.Err()
}

func (r *downloadHistoryRepository) GetAllHistory(ctx context.Context) ([]dto.DownloadHistoryDTO, error) {
	rows, err := r.storage.Query(ctx, historySelect+" ORDER BY h.downloaded_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]dto.DownloadHistoryDTO, 0)
	for rows.Next() {
		var h dto.DownloadHistoryDTO
		var downloadedAt time.Time
		if err := rows.Scan(&h.ID, &h.FileID, &h.FileName, &h.UserID, &h.Username, &downloadedAt); err != nil {
			return nil, err
		}
		h.DownloadedAt = utils.FormatTime(downloadedAt)
		history = append(history, h)
	}
	return history, rows.Err()
}
