package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockProductRepository = (*StockProductRepo)(nil)

// StockProductRepo implementación de StockProductRepository sobre PostgreSQL (usable con pool o tx).
type StockProductRepo struct {
	q Querier
}

// NewStockProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockProductRepository(q Querier) *StockProductRepo {
	return &StockProductRepo{q: q}
}

const stockProductColumns = `
	id, business_id, product_id, warehouse_id, batch_id, supplier_id,
	COALESCE(origin_stock_product_id, ''), intake_quantity, working_quantity,
	unit_cost, tax, additional_cost, created_at, updated_at`

func scanStockProduct(row pgx.Row) (*entity.StockProduct, error) {
	var sp entity.StockProduct
	err := row.Scan(
		&sp.ID, &sp.BusinessID, &sp.ProductID, &sp.WarehouseID, &sp.BatchID, &sp.SupplierID,
		&sp.OriginStockProductID, &sp.IntakeQuantity, &sp.WorkingQuantity,
		&sp.UnitCost, &sp.Tax, &sp.AdditionalCost, &sp.CreatedAt, &sp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

// Create inserta un StockProduct.
func (r *StockProductRepo) Create(ctx context.Context, sp *entity.StockProduct) error {
	query := `
		INSERT INTO stock_products (
			id, business_id, product_id, warehouse_id, batch_id, supplier_id, origin_stock_product_id,
			intake_quantity, working_quantity, unit_cost, tax, additional_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		sp.ID, sp.BusinessID, sp.ProductID, sp.WarehouseID, sp.BatchID, sp.SupplierID,
		nullIfEmpty(sp.OriginStockProductID), sp.IntakeQuantity, sp.WorkingQuantity,
		sp.UnitCost, sp.Tax, sp.AdditionalCost, sp.CreatedAt, sp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert stock_product: %w", err)
	}
	return nil
}

// GetByID obtiene un StockProduct del negocio. nil, nil si no existe.
func (r *StockProductRepo) GetByID(ctx context.Context, businessID, id string) (*entity.StockProduct, error) {
	query := `SELECT ` + stockProductColumns + ` FROM stock_products WHERE id = $1 AND business_id = $2`
	sp, err := scanStockProduct(r.q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock_product: %w", err)
	}
	return sp, nil
}

// GetForUpdate obtiene el StockProduct y bloquea la fila (SELECT FOR UPDATE).
func (r *StockProductRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.StockProduct, error) {
	query := `SELECT ` + stockProductColumns + ` FROM stock_products WHERE id = $1 AND business_id = $2 FOR UPDATE`
	sp, err := scanStockProduct(r.q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock_product for update: %w", err)
	}
	return sp, nil
}

// LockMany bloquea las filas en orden ascendente de id (ORDER BY id FOR UPDATE).
func (r *StockProductRepo) LockMany(ctx context.Context, businessID string, ids []string) (map[string]*entity.StockProduct, error) {
	out := make(map[string]*entity.StockProduct, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT ` + stockProductColumns + `
		FROM stock_products WHERE business_id = $1 AND id = ANY($2)
		ORDER BY id FOR UPDATE`
	rows, err := r.q.Query(ctx, query, businessID, ids)
	if err != nil {
		return nil, fmt.Errorf("lock stock_products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		sp, err := scanStockProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock_product: %w", err)
		}
		out[sp.ID] = sp
	}
	return out, rows.Err()
}

// FindDestination busca el registro de la bodega creado a partir de originID.
func (r *StockProductRepo) FindDestination(ctx context.Context, businessID, warehouseID, originID string) (*entity.StockProduct, error) {
	query := `SELECT ` + stockProductColumns + `
		FROM stock_products
		WHERE business_id = $1 AND warehouse_id = $2 AND origin_stock_product_id = $3`
	sp, err := scanStockProduct(r.q.QueryRow(ctx, query, businessID, warehouseID, originID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find destination stock_product: %w", err)
	}
	return sp, nil
}

// List lista registros del negocio ordenados por fecha de creación.
func (r *StockProductRepo) List(ctx context.Context, f repository.StockProductFilter) ([]*entity.StockProduct, error) {
	where := []string{"business_id = $1"}
	args := []any{f.BusinessID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
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
	if len(f.IDs) > 0 {
		add("id = ANY($%d)", f.IDs)
	}
	query := `SELECT ` + stockProductColumns + ` FROM stock_products WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock_products: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockProduct
	for rows.Next() {
		sp, err := scanStockProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock_product: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// UpdateWorkingQuantity fija working_quantity. Solo la invoca el Ledger con la fila bloqueada.
func (r *StockProductRepo) UpdateWorkingQuantity(ctx context.Context, businessID, id string, quantity int64, at time.Time) error {
	query := `UPDATE stock_products SET working_quantity = $3, updated_at = $4 WHERE id = $1 AND business_id = $2`
	cmd, err := r.q.Exec(ctx, query, id, businessID, quantity, at)
	if err != nil {
		return fmt.Errorf("update working_quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
