package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/pkg/constants"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
	"customer-portal/pkg/utils"
)

const (
	inviteCodeTable  = "invite_codes"
	inviteCodeFields = "id, code, role, used, used_by, used_at, created_by, created_at"
)

type dbInviteCode struct {
	ID        uint64
	Code      string
	Role      string
	Used      bool
	UsedBy    sql.NullInt64
	UsedAt    sql.NullTime
	CreatedBy uint64
	CreatedAt time.Time
}

func (row *dbInviteCode) ToDTO() dto.InviteCodeDTO {
	d := dto.InviteCodeDTO{
		ID:        row.ID,
		Code:      row.Code,
		Role:      row.Role,
		Used:      row.Used,
		UsedAt:    utils.NullTimeToEmptyString(row.UsedAt),
		CreatedBy: row.CreatedBy,
		CreatedAt: utils.FormatTime(row.CreatedAt),
	}
	if row.UsedBy.Valid {
		d.UsedBy = utils.Ptr(uint64(row.UsedBy.Int64))
	}
	return d
}

func (row *dbInviteCode) ToEntity() *entities.InviteCode {
	return &entities.InviteCode{
		ID:        row.ID,
		Code:      row.Code,
		Role:      constants.Role(row.Role),
		Used:      row.Used,
		UsedBy:    row.UsedBy,
		UsedAt:    row.UsedAt,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
	}
}

type InviteCodeRepositoryInterface interface {
	GetInviteCodes(ctx context.Context, filter types.Filter) ([]dto.InviteCodeDTO, uint64, error)
	FindByCode(ctx context.Context, code string) (*entities.InviteCode, error)
	CreateInviteCode(ctx context.Context, code string, role constants.Role, createdBy uint64) (*dto.InviteCodeDTO, error)
	// ConsumeCode marks an unused code as used by the given user. It is
	// atomic: a second attempt on the same code returns ErrInviteCodeUsed.
	ConsumeCode(ctx context.Context, q Querier, code string, usedBy uint64) (*entities.InviteCode, error)
	DeleteInviteCode(ctx context.Context, id uint64) error
}

type inviteCodeRepository struct {
	storage *pgxpool.Pool
}

func NewInviteCodeRepository(storage *pgxpool.Pool) InviteCodeRepositoryInterface {
	return &inviteCodeRepository{storage: storage}
}

func scanInviteCode(row pgx.Row) (*dbInviteCode, error) {
	var c dbInviteCode
	err := row.Scan(&c.ID, &c.Code, &c.Role, &c.Used, &c.UsedBy, &c.UsedAt, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *inviteCodeRepository) GetInviteCodes(ctx context.Context, filter types.Filter) ([]dto.InviteCodeDTO, uint64, error) {
	whereClause := ""
	var args []interface{}
	if filter.Search != "" {
		whereClause = "WHERE code ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", inviteCodeTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.InviteCodeDTO{}, 0, nil
	}

	queryArgs := append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY id DESC LIMIT $%d OFFSET $%d",
		inviteCodeFields, inviteCodeTable, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	codes := make([]dto.InviteCodeDTO, 0)
	for rows.Next() {
		var c dbInviteCode
		if err := rows.Scan(&c.ID, &c.Code, &c.Role, &c.Used, &c.UsedBy, &c.UsedAt, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		codes = append(codes, c.ToDTO())
	}
	return codes, total, rows.Err()
}

func (r *inviteCodeRepository) FindByCode(ctx context.Context, code string) (*entities.InviteCode, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE code = $1", inviteCodeFields, inviteCodeTable)
	row, err := scanInviteCode(r.storage.QueryRow(ctx, query, code))
	if err != nil {
		return nil, err
	}
	return row.ToEntity(), nil
}

func (r *inviteCodeRepository) CreateInviteCode(ctx context.Context, code string, role constants.Role, createdBy uint64) (*dto.InviteCodeDTO, error) {
	query := fmt.Sprintf(
		"INSERT INTO %s (code, role, created_by) VALUES ($1, $2, $3) RETURNING %s",
		inviteCodeTable, inviteCodeFields,
	)
	row, err := scanInviteCode(r.storage.QueryRow(ctx, query, code, string(role), createdBy))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	d := row.ToDTO()
	return &d, nil
}

func (r *inviteCodeRepository) ConsumeCode(ctx context.Context, q Querier, code string, usedBy uint64) (*entities.InviteCode, error) {
	if q == nil {
		q = r.storage
	}
	query := fmt.Sprintf(
		"UPDATE %s SET used = true, used_by = $1, used_at = NOW() WHERE code = $2 AND used = false RETURNING %s",
		inviteCodeTable, inviteCodeFields,
	)
	row, err := scanInviteCode(q.QueryRow(ctx, query, usedBy, code))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Distinguish "never existed" from "already consumed".
			if _, findErr := r.FindByCode(ctx, code); findErr == nil {
				return nil, apperrors.ErrInviteCodeUsed
			}
			return nil, apperrors.ErrInviteCodeInvalid
		}
		return nil, err
	}
	return row.ToEntity(), nil
}

func (r *inviteCodeRepository) DeleteInviteCode(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", inviteCodeTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
