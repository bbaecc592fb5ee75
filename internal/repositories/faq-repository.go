package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"customer-portal/internal/dto"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
	"customer-portal/pkg/utils"
)

const (
	faqProductTable  = "faq_products"
	faqProductFields = "id, name, description, created_at, updated_at"
	faqItemTable     = "faq_items"
	faqItemFields    = "id, product_id, question, answer, position, created_at, updated_at"
)

type dbFaqProduct struct {
	ID          uint64
	Name        string
	Description sql.NullString
	CreatedAt   time.Time
	UpdatedAt   sql.NullTime
}

func (row *dbFaqProduct) ToDTO() dto.FaqProductDTO {
	return dto.FaqProductDTO{
		ID:          row.ID,
		Name:        row.Name,
		Description: utils.NullStringToString(row.Description),
		CreatedAt:   utils.FormatTime(row.CreatedAt),
		UpdatedAt:   utils.NullTimeToEmptyString(row.UpdatedAt),
	}
}

type dbFaqItem struct {
	ID        uint64
	ProductID uint64
	Question  string
	Answer    string
	Position  int
	CreatedAt time.Time
	UpdatedAt sql.NullTime
}

func (row *dbFaqItem) ToDTO() dto.FaqItemDTO {
	return dto.FaqItemDTO{
		ID:        row.ID,
		ProductID: row.ProductID,
		Question:  row.Question,
		Answer:    row.Answer,
		Position:  row.Position,
		CreatedAt: utils.FormatTime(row.CreatedAt),
		UpdatedAt: utils.NullTimeToEmptyString(row.UpdatedAt),
	}
}

type FaqRepositoryInterface interface {
	GetProducts(ctx context.Context, filter types.Filter) ([]dto.FaqProductDTO, uint64, error)
	FindProduct(ctx context.Context, id uint64) (*dto.FaqProductDTO, error)
	CreateProduct(ctx context.Context, payload dto.CreateFaqProductDTO) (*dto.FaqProductDTO, error)
	UpdateProduct(ctx context.Context, id uint64, name, description *string) (*dto.FaqProductDTO, error)
	// DeleteProduct removes the product; items cascade at the schema level.
	DeleteProduct(ctx context.Context, id uint64) error
	GetItems(ctx context.Context, productID uint64) ([]dto.FaqItemDTO, error)
	FindItem(ctx context.Context, id uint64) (*dto.FaqItemDTO, error)
	CreateItem(ctx context.Context, payload dto.CreateFaqItemDTO) (*dto.FaqItemDTO, error)
	UpdateItem(ctx context.Context, id uint64, question, answer *string, position *int) (*dto.FaqItemDTO, error)
	DeleteItem(ctx context.Context, id uint64) error
	CountItems(ctx context.Context, productID uint64) (uint64, error)
}

type faqRepository struct {
	storage *pgxpool.Pool
}

func NewFaqRepository(storage *pgxpool.Pool) FaqRepositoryInterface {
	return &faqRepository{storage: storage}
}

func scanFaqProduct(row pgx.Row) (*dbFaqProduct, error) {
	var p dbFaqProduct
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanFaqItem(row pgx.Row) (*dbFaqItem, error) {
	var it dbFaqItem
	err := row.Scan(&it.ID, &it.ProductID, &it.Question, &it.Answer, &it.Position, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *faqRepository) GetProducts(ctx context.Context, filter types.Filter) ([]dto.FaqProductDTO, uint64, error) {
	whereClause := ""
	var args []interface{}
	if filter.Search != "" {
		whereClause = "WHERE name ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", faqProductTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.FaqProductDTO{}, 0, nil
	}

	queryArgs := append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY name LIMIT $%d OFFSET $%d",
		faqProductFields, faqProductTable, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]dto.FaqProductDTO, 0)
	for rows.Next() {
		var p dbFaqProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		products = append(products, p.ToDTO())
	}
	return products, total, rows.Err()
}

func (r *faqRepository) FindProduct(ctx context.Context, id uint64) (*dto.FaqProductDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", faqProductFields, faqProductTable)
	row, err := scanFaqProduct(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	d := row.ToDTO()
	return &d, nil
}

func (r *faqRepository) CreateProduct(ctx context.Context, payload dto.CreateFaqProductDTO) (*dto.FaqProductDTO, error) {
	query := fmt.Sprintf("INSERT INTO %s (name, description) VALUES ($1, $2) RETURNING %s",
		faqProductTable, faqProductFields)
	row, err := scanFaqProduct(r.storage.QueryRow(ctx, query, payload.Name, payload.Description))
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

func (r *faqRepository) UpdateProduct(ctx context.Context, id uint64, name, description *string) (*dto.FaqProductDTO, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argID))
		args = append(args, *name)
		argID++
	}
	if description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		args = append(args, *description)
		argID++
	}
	if len(setClauses) == 0 {
		return r.FindProduct(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		faqProductTable, strings.Join(setClauses, ", "), argID, faqProductFields)
	args = append(args, id)

	row, err := scanFaqProduct(r.storage.QueryRow(ctx, query, args...))
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

func (r *faqRepository) DeleteProduct(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", faqProductTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *faqRepository) GetItems(ctx context.Context, productID uint64) ([]dto.FaqItemDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE product_id = $1 ORDER BY position, id", faqItemFields, faqItemTable)
	rows, err := r.storage.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]dto.FaqItemDTO, 0)
	for rows.Next() {
		var it dbFaqItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Question, &it.Answer, &it.Position, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it.ToDTO())
	}
	return items, rows.Err()
}

func (r *faqRepository) FindItem(ctx context.Context, id uint64) (*dto.FaqItemDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", faqItemFields, faqItemTable)
	row, err := scanFaqItem(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	d := row.ToDTO()
	return &d, nil
}

func (r *faqRepository) CreateItem(ctx context.Context, payload dto.CreateFaqItemDTO) (*dto.FaqItemDTO, error) {
	query := fmt.Sprintf("INSERT INTO %s (product_id, question, answer, position) VALUES ($1, $2, $3, $4) RETURNING %s",
		faqItemTable, faqItemFields)
	row, err := scanFaqItem(r.storage.QueryRow(ctx, query, payload.ProductID, payload.Question, payload.Answer, payload.Position))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	d := row.ToDTO()
	return &d, nil
}

func (r *faqRepository) UpdateItem(ctx context.Context, id uint64, question, answer *string, position *int) (*dto.FaqItemDTO, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if question != nil {
		setClauses = append(setClauses, fmt.Sprintf("question = $%d", argID))
		args = append(args, *question)
		argID++
	}
	if answer != nil {
		setClauses = append(setClauses, fmt.Sprintf("answer = $%d", argID))
		args = append(args, *answer)
		argID++
	}
	if position != nil {
		setClauses = append(setClauses, fmt.Sprintf("position = $%d", argID))
		args = append(args, *position)
		argID++
	}
	if len(setClauses) == 0 {
		return r.FindItem(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		faqItemTable, strings.Join(setClauses, ", "), argID, faqItemFields)
	args = append(args, id)

	row, err := scanFaqItem(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	d := row.ToDTO()
	return &d, nil
}

func (r *faqRepository) DeleteItem(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", faqItemTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *faqRepository) CountItems(ctx context.Context, productID uint64) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE product_id = $1", faqItemTable), productID,
	).Scan(&count)
	return count, err
}
