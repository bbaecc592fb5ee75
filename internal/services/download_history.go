package services

import (
	"context"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/repositories"
	"customer-portal/pkg/types"
)

type DownloadHistoryServiceInterface interface {
	GetHistory(ctx context.Context, filter types.Filter) ([]dto.DownloadHistoryDTO, uint64, error)
	ExportHistory(ctx context.Context) (*excelize.File, error)
}

type DownloadHistoryService struct {
	historyRepository repositories.DownloadHistoryRepositoryInterface
	logger            *zap.Logger
}

func NewDownloadHistoryService(historyRepository repositories.DownloadHistoryRepositoryInterface, logger *zap.Logger) DownloadHistoryServiceInterface {
	return &DownloadHistoryService{historyRepository: historyRepository, logger: logger}
}

func (s *DownloadHistoryService) GetHistory(ctx context.Context, filter types.Filter) ([]dto.DownloadHistoryDTO, uint64, error) {
	return s.historyRepository.GetHistory(ctx, filter)
}

func (s *DownloadHistoryService) ExportHistory(ctx context.Context) (*excelize.File, error) {
	history, err := s.historyRepository.GetAllHistory(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Downloads"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "File", "User", "Downloaded At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, record := range history {
		values := []interface{}{record.ID, record.FileName, record.Username, record.DownloadedAt}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	return f, nil
}
