package services

import (
	"context"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/repositories"
	"customer-portal/pkg/types"
)

type AuditLogServiceInterface interface {
	// Record writes an audit entry. Failures are logged, never
	// propagated: auditing must not fail the mutation it describes.
	Record(ctx context.Context, actorID uint64, action, entityType string, entityID *uint64)
	GetLogs(ctx context.Context, filter types.Filter) ([]dto.AuditLogDTO, uint64, error)
	ExportLogs(ctx context.Context) (*excelize.File, error)
}

type AuditLogService struct {
	auditRepository repositories.AuditLogRepositoryInterface
	logger          *zap.Logger
}

func NewAuditLogService(auditRepository repositories.AuditLogRepositoryInterface, logger *zap.Logger) AuditLogServiceInterface {
	return &AuditLogService{auditRepository: auditRepository, logger: logger}
}

func (s *AuditLogService) Record(ctx context.Context, actorID uint64, action, entityType string, entityID *uint64) {
	if err := s.auditRepository.Record(ctx, actorID, action, entityType, entityID); err != nil {
		s.logger.Error("audit record failed",
			zap.Uint64("actor_id", actorID),
			zap.String("action", action),
			zap.Error(err))
	}
}

func (s *AuditLogService) GetLogs(ctx context.Context, filter types.Filter) ([]dto.AuditLogDTO, uint64, error) {
	return s.auditRepository.GetLogs(ctx, filter)
}

func (s *AuditLogService) ExportLogs(ctx context.Context) (*excelize.File, error) {
	logs, err := s.auditRepository.GetAllLogs(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Audit"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Actor", "Action", "Entity", "Entity ID", "Timestamp"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, l := range logs {
		entityID := ""
		if l.EntityID != nil {
			entityID = strconv.FormatUint(*l.EntityID, 10)
		}
		values := []interface{}{l.ID, l.ActorName, l.Action, l.EntityType, entityID, l.CreatedAt}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	return f, nil
}
