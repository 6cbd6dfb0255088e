package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.SaleRepository             = (*SaleRepo)(nil)
	_ repository.LegacyAdjustmentRepository = (*LegacyAdjustmentRepo)(nil)
)

// movementWhere arma el WHERE común de las fuentes externas del Movement Tracker.
// cols mapea el campo del filtro a la columna de la consulta; un campo sin columna no se filtra en SQL.
func movementWhere(f entity.MovementFilter, cols map[string]string) (string, []any) {
	where := []string{cols["business"] + " = $1"}
	args := []any{f.BusinessID}
	add := func(key, op string, v any) {
		col, ok := cols[key]
		if !ok {
			return
		}
		args = append(args, v)
		where = append(where, fmt.Sprintf("%s %s $%d", col, op, len(args)))
	}
	if f.ProductID != "" {
		add("product", "=", f.ProductID)
	}
	if f.StockProductID != "" {
		add("stock_product", "=", f.StockProductID)
	}
	if f.BatchID != "" {
		add("batch", "=", f.BatchID)
	}
	if f.WarehouseID != "" {
		add("warehouse", "=", f.WarehouseID)
	}
	if f.From != nil {
		add("date", ">=", *f.From)
	}
	if f.To != nil {
		add("date", "<=", *f.To)
	}
	return strings.Join(where, " AND "), args
}

// SaleRepo lee las ventas del módulo de ventas (tablas sales / sale_items).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de solo lectura.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// ListLines lista líneas de venta. Si las tablas no existen devuelve domain.ErrSourceUnavailable.
func (r *SaleRepo) ListLines(ctx context.Context, f entity.MovementFilter) ([]entity.SaleLine, error) {
	where, args := movementWhere(f, map[string]string{
		"business":      "s.business_id",
		"product":       "si.product_id",
		"stock_product": "si.stock_product_id",
		"date":          "s.created_at",
	})
	query := `
		SELECT s.id, si.id, s.business_id, s.reference, si.product_id, si.stock_product_id,
		       s.warehouse_id, s.storefront_id, si.quantity, si.unit_price, s.sold_by, s.created_at
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE ` + where + `
		ORDER BY s.created_at, si.id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, sourceErr("list sales", err)
	}
	defer rows.Close()
	var out []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(
			&l.SaleID, &l.SaleItemID, &l.BusinessID, &l.Reference, &l.ProductID, &l.StockProductID,
			&l.WarehouseID, &l.StorefrontID, &l.Quantity, &l.UnitPrice, &l.SoldBy, &l.SoldAt,
		); err != nil {
			return nil, sourceErr("scan sale line", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, sourceErr("list sales", err)
	}
	return out, nil
}

// LegacyAdjustmentRepo lee el esquema anterior de ajustes (legacy_stock_adjustments).
type LegacyAdjustmentRepo struct {
	q Querier
}

// NewLegacyAdjustmentRepository construye el adaptador de solo lectura.
func NewLegacyAdjustmentRepository(q Querier) *LegacyAdjustmentRepo {
	return &LegacyAdjustmentRepo{q: q}
}

// List lista filas del esquema anterior. Si la tabla no existe devuelve domain.ErrSourceUnavailable.
func (r *LegacyAdjustmentRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.LegacyAdjustment, error) {
	where, args := movementWhere(f, map[string]string{
		"business":      "business_id",
		"product":       "product_id",
		"stock_product": "stock_product_id",
		"batch":         "batch_id",
		"date":          "created_at",
	})
	// Sin filtro de bodega en SQL: un traslado anterior tiene la bodega destino solo en la fila transfer_in.
	query := `
		SELECT id, business_id, stock_product_id, product_id, warehouse_id, batch_id, adjustment_type,
		       quantity, unit_cost, reference, status, created_by, created_at
		FROM legacy_stock_adjustments
		WHERE ` + where + `
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, sourceErr("list legacy adjustments", err)
	}
	defer rows.Close()
	var out []*entity.LegacyAdjustment
	for rows.Next() {
		var a entity.LegacyAdjustment
		if err := rows.Scan(
			&a.ID, &a.BusinessID, &a.StockProductID, &a.ProductID, &a.WarehouseID, &a.BatchID, &a.AdjustmentType,
			&a.Quantity, &a.UnitCost, &a.Reference, &a.Status, &a.CreatedBy, &a.CreatedAt,
		); err != nil {
			return nil, sourceErr("scan legacy adjustment", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, sourceErr("list legacy adjustments", err)
	}
	return out, nil
}
