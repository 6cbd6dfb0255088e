package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación de AdjustmentRepository sobre PostgreSQL.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentColumns = `
	id, business_id, stock_product_id, product_id, warehouse_id, batch_id, category, delta, status,
	reference, notes, unit_cost_snapshot, quantity_before, quantity_after,
	created_by, approved_by, rejected_by, rejected_reason, completion_error,
	created_at, updated_at, approved_at, completed_at, rejected_at`

func scanAdjustment(row pgx.Row) (*entity.Adjustment, error) {
	var a entity.Adjustment
	err := row.Scan(
		&a.ID, &a.BusinessID, &a.StockProductID, &a.ProductID, &a.WarehouseID, &a.BatchID, &a.Category, &a.Delta, &a.Status,
		&a.Reference, &a.Notes, &a.UnitCostSnapshot, &a.QuantityBefore, &a.QuantityAfter,
		&a.CreatedBy, &a.ApprovedBy, &a.RejectedBy, &a.RejectedReason, &a.CompletionError,
		&a.CreatedAt, &a.UpdatedAt, &a.ApprovedAt, &a.CompletedAt, &a.RejectedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserta un ajuste.
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.Adjustment) error {
	query := `
		INSERT INTO adjustments (
			id, business_id, stock_product_id, product_id, warehouse_id, batch_id, category, delta, status,
			reference, notes, unit_cost_snapshot, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.BusinessID, a.StockProductID, a.ProductID, a.WarehouseID, a.BatchID, string(a.Category), a.Delta, string(a.Status),
		a.Reference, a.Notes, a.UnitCostSnapshot, a.CreatedBy, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}

// GetByID obtiene un ajuste. nil, nil si no existe.
func (r *AdjustmentRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Adjustment, error) {
	return r.get(ctx, businessID, id, "")
}

// GetForUpdate obtiene el ajuste bloqueando la fila.
func (r *AdjustmentRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.Adjustment, error) {
	return r.get(ctx, businessID, id, " FOR UPDATE")
}

func (r *AdjustmentRepo) get(ctx context.Context, businessID, id, lock string) (*entity.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE id = $1 AND business_id = $2` + lock
	a, err := scanAdjustment(r.q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	return a, nil
}

// Update persiste estado, cantidades y auditoría.
func (r *AdjustmentRepo) Update(ctx context.Context, a *entity.Adjustment) error {
	query := `
		UPDATE adjustments SET
			status = $3, quantity_before = $4, quantity_after = $5, approved_by = $6, rejected_by = $7,
			rejected_reason = $8, completion_error = $9, updated_at = $10, approved_at = $11,
			completed_at = $12, rejected_at = $13
		WHERE id = $1 AND business_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.BusinessID, string(a.Status), a.QuantityBefore, a.QuantityAfter, a.ApprovedBy, a.RejectedBy,
		a.RejectedReason, a.CompletionError, a.UpdatedAt, a.ApprovedAt, a.CompletedAt, a.RejectedAt,
	)
	if err != nil {
		return fmt.Errorf("update adjustment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ajustes del más reciente al más antiguo.
func (r *AdjustmentRepo) List(ctx context.Context, f repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	where := []string{"business_id = $1"}
	args := []any{f.BusinessID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		add("status = ANY($%d)", statuses)
	}
	if f.StockProductID != "" {
		add("stock_product_id = $%d", f.StockProductID)
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.BatchID != "" {
		add("batch_id = $%d", f.BatchID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var out []*entity.Adjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
