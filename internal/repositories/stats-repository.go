package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"customer-portal/internal/dto"
)

type StatsRepositoryInterface interface {
	GetStats(ctx context.Context) (*dto.StatsDTO, error)
}

type statsRepository struct {
	storage *pgxpool.Pool
}

func NewStatsRepository(storage *pgxpool.Pool) StatsRepositoryInterface {
	return &statsRepository{storage: storage}
}

func (r *statsRepository) GetStats(ctx context.Context) (*dto.StatsDTO, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE active = true),
			(SELECT COUNT(*) FROM download_files),
			(SELECT COUNT(*) FROM download_history),
			(SELECT COUNT(*) FROM forum_threads)`

	var stats dto.StatsDTO
	err := r.storage.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.ActiveUsers,
		&stats.TotalFiles,
		&stats.TotalDownloads,
		&stats.TotalThreads,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
