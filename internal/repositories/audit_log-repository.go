package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"customer-portal/internal/dto"
	db "customer-portal/internal/infrastructure/bd"
	"customer-portal/pkg/types"
	"customer-portal/pkg/utils"
)

const auditLogTable = "audit_logs"

var auditFilterMap = map[string]string{
	"actor_id":    "l.actor_id",
	"action":      "l.action",
	"entity_type": "l.entity_type",
}

type AuditLogRepositoryInterface interface {
	Record(ctx context.Context, actorID uint64, action, entityType string, entityID *uint64) error
	GetLogs(ctx context.Context, filter types.Filter) ([]dto.AuditLogDTO, uint64, error)
	// GetAllLogs returns every row in chronological order, for export.
	GetAllLogs(ctx context.Context) ([]dto.AuditLogDTO, error)
}

type auditLogRepository struct {
	storage *pgxpool.Pool
}

func NewAuditLogRepository(storage *pgxpool.Pool) AuditLogRepositoryInterface {
	return &auditLogRepository{storage: storage}
}

func (r *auditLogRepository) Record(ctx context.Context, actorID uint64, action, entityType string, entityID *uint64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (actor_id, action, entity_type, entity_id)
		VALUES ($1, $2, $3, $4)`, auditLogTable)
	_, err := r.storage.Exec(ctx, query, actorID, action, entityType, entityID)
	return err
}

const auditLogSelect = `l.id, l.actor_id, COALESCE(u.username, ''), l.action, l.entity_type, l.entity_id, l.created_at`

func (r *auditLogRepository) GetLogs(ctx context.Context, filter types.Filter) ([]dto.AuditLogDTO, uint64, error) {
	base := sq.Select().
		From(auditLogTable + " l").
		LeftJoin("users u ON u.id = l.actor_id").
		PlaceholderFormat(sq.Dollar)

	if filter.Search != "" {
		base = base.Where(sq.Or{
			sq.ILike{"l.action": "%" + filter.Search + "%"},
			sq.ILike{"l.entity_type": "%" + filter.Search + "%"},
		})
	}
	countBuilder := db.ApplyListParams(base.Columns("COUNT(*)"), types.Filter{Filter: filter.Filter}, auditFilterMap)
	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.AuditLogDTO{}, 0, nil
	}

	listBuilder := db.ApplyListParams(base.Columns(auditLogSelect), filter, auditFilterMap)
	if len(filter.Sort) == 0 {
		listBuilder = listBuilder.OrderBy("l.created_at DESC", "l.id DESC")
	}
	listSQL, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := make([]dto.AuditLogDTO, 0)
	for rows.Next() {
		var l dto.AuditLogDTO
		var createdAt time.Time
		if err := rows.Scan(&l.ID, &l.ActorID, &l.ActorName, &l.Action, &l.EntityType, &l.EntityID, &createdAt); err != nil {
			return nil, 0, err
		}
		l.CreatedAt = utils.FormatTime(createdAt)
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}

func (r *auditLogRepository) GetAllLogs(ctx context.Context) ([]dto.AuditLogDTO, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s l
		LEFT JOIN users u ON u.id = l.actor_id
		ORDER BY l.created_at, l.id`, auditLogSelect, auditLogTable)

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]dto.AuditLogDTO, 0)
	for rows.Next() {
		var l dto.AuditLogDTO
		var createdAt time.Time
		if err := rows.Scan(&l.ID, &l.ActorID, &l.ActorName, &l.Action, &l.EntityType, &l.EntityID, &createdAt); err != nil {
			return nil, err
		}
		l.CreatedAt = utils.FormatTime(createdAt)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
