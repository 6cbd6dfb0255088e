package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SaleConsumptionRepository = (*SaleConsumptionRepo)(nil)

// SaleConsumptionRepo auditoría de consumos por venta sobre PostgreSQL.
type SaleConsumptionRepo struct {
	q Querier
}

// NewSaleConsumptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleConsumptionRepository(q Querier) *SaleConsumptionRepo {
	return &SaleConsumptionRepo{q: q}
}

// Create inserta un consumo.
func (r *SaleConsumptionRepo) Create(ctx context.Context, c *entity.SaleConsumption) error {
	query := `
		INSERT INTO sale_consumptions (
			id, business_id, sale_reference, stock_product_id, storefront_holding_id, storefront_id,
			warehouse_id, product_id, batch_id, quantity, reservation_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.BusinessID, c.SaleReference, c.StockProductID, nullIfEmpty(c.StorefrontHoldingID), c.StorefrontID,
		c.WarehouseID, c.ProductID, c.BatchID, c.Quantity, c.ReservationID, c.CreatedBy, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale_consumption: %w", err)
	}
	return nil
}

// List lista consumos en orden de registro.
func (r *SaleConsumptionRepo) List(ctx context.Context, f repository.ConsumptionFilter) ([]*entity.SaleConsumption, error) {
	where := []string{"business_id = $1"}
	args := []any{f.BusinessID}
	if len(f.StockProductIDs) > 0 {
		args = append(args, f.StockProductIDs)
		where = append(where, fmt.Sprintf("stock_product_id = ANY($%d)", len(args)))
	}
	if f.WarehouseOnly {
		where = append(where, "storefront_holding_id IS NULL")
	}
	query := `
		SELECT id, business_id, sale_reference, stock_product_id, COALESCE(storefront_holding_id, ''),
		       storefront_id, warehouse_id, product_id, batch_id, quantity, reservation_id, created_by, created_at
		FROM sale_consumptions WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sale_consumptions: %w", err)
	}
	defer rows.Close()
	var out []*entity.SaleConsumption
	for rows.Next() {
		var c entity.SaleConsumption
		if err := rows.Scan(
			&c.ID, &c.BusinessID, &c.SaleReference, &c.StockProductID, &c.StorefrontHoldingID,
			&c.StorefrontID, &c.WarehouseID, &c.ProductID, &c.BatchID, &c.Quantity, &c.ReservationID, &c.CreatedBy, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale_consumption: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
