package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/repositories"
	"customer-portal/pkg/config"
)

const statsCacheKey = "stats:summary"

type StatsServiceInterface interface {
	GetStats(ctx context.Context) (*dto.StatsDTO, error)
}

// StatsService serves aggregate counters through a short-lived Redis
// cache so the dashboard does not hammer Postgres.
type StatsService struct {
	statsRepository repositories.StatsRepositoryInterface
	cache           repositories.CacheRepositoryInterface
	statsConfig     config.StatsConfig
	logger          *zap.Logger
}

func NewStatsService(
	statsRepository repositories.StatsRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	statsConfig config.StatsConfig,
	logger *zap.Logger,
) StatsServiceInterface {
	return &StatsService{
		statsRepository: statsRepository,
		cache:           cache,
		statsConfig:     statsConfig,
		logger:          logger,
	}
}

func (s *StatsService) GetStats(ctx context.Context) (*dto.StatsDTO, error) {
	if cached, err := s.cache.Get(ctx, statsCacheKey); err == nil {
		var stats dto.StatsDTO
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
		// A corrupt cache entry falls through to the database.
	}

	stats, err := s.statsRepository.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	if buf, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, statsCacheKey, string(buf), s.statsConfig.CacheTTL); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}
