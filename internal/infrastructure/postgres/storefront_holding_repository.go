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

var _ repository.StorefrontHoldingRepository = (*StorefrontHoldingRepo)(nil)

// StorefrontHoldingRepo implementación de StorefrontHoldingRepository sobre PostgreSQL.
type StorefrontHoldingRepo struct {
	q Querier
}

// NewStorefrontHoldingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStorefrontHoldingRepository(q Querier) *StorefrontHoldingRepo {
	return &StorefrontHoldingRepo{q: q}
}

const holdingColumns = `id, business_id, storefront_id, product_id, stock_product_id, quantity, created_at, updated_at`

func scanHolding(row pgx.Row) (*entity.StorefrontHolding, error) {
	var h entity.StorefrontHolding
	if err := row.Scan(&h.ID, &h.BusinessID, &h.StorefrontID, &h.ProductID, &h.StockProductID, &h.Quantity, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

// Ensure inserta el lote si no existe (ON CONFLICT DO NOTHING) y devuelve el vigente.
func (r *StorefrontHoldingRepo) Ensure(ctx context.Context, h *entity.StorefrontHolding) (*entity.StorefrontHolding, error) {
	insert := `
		INSERT INTO storefront_holdings (id, business_id, storefront_id, product_id, stock_product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7)
		ON CONFLICT (business_id, storefront_id, stock_product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, h.ID, h.BusinessID, h.StorefrontID, h.ProductID, h.StockProductID, h.CreatedAt, h.UpdatedAt); err != nil {
		return nil, fmt.Errorf("ensure storefront_holding: %w", err)
	}
	query := `SELECT ` + holdingColumns + ` FROM storefront_holdings
		WHERE business_id = $1 AND storefront_id = $2 AND stock_product_id = $3`
	out, err := scanHolding(r.q.QueryRow(ctx, query, h.BusinessID, h.StorefrontID, h.StockProductID))
	if err != nil {
		return nil, fmt.Errorf("get storefront_holding: %w", err)
	}
	return out, nil
}

// GetForUpdate obtiene el lote y bloquea la fila.
func (r *StorefrontHoldingRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.StorefrontHolding, error) {
	query := `SELECT ` + holdingColumns + ` FROM storefront_holdings WHERE id = $1 AND business_id = $2 FOR UPDATE`
	h, err := scanHolding(r.q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get storefront_holding for update: %w", err)
	}
	return h, nil
}

// LockMany bloquea los lotes en orden ascendente de id.
func (r *StorefrontHoldingRepo) LockMany(ctx context.Context, businessID string, ids []string) (map[string]*entity.StorefrontHolding, error) {
	out := make(map[string]*entity.StorefrontHolding, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT ` + holdingColumns + ` FROM storefront_holdings
		WHERE business_id = $1 AND id = ANY($2) ORDER BY id FOR UPDATE`
	rows, err := r.q.Query(ctx, query, businessID, ids)
	if err != nil {
		return nil, fmt.Errorf("lock storefront_holdings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan storefront_holding: %w", err)
		}
		out[h.ID] = h
	}
	return out, rows.Err()
}

// List lista lotes del más antiguo al más reciente.
func (r *StorefrontHoldingRepo) List(ctx context.Context, f repository.HoldingFilter) ([]*entity.StorefrontHolding, error) {
	where := []string{"business_id = $1"}
	args := []any{f.BusinessID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.StorefrontID != "" {
		add("storefront_id = $%d", f.StorefrontID)
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if len(f.StockProductIDs) > 0 {
		add("stock_product_id = ANY($%d)", f.StockProductIDs)
	}
	query := `SELECT ` + holdingColumns + ` FROM storefront_holdings WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list storefront_holdings: %w", err)
	}
	defer rows.Close()
	var out []*entity.StorefrontHolding
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan storefront_holding: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// UpdateQuantity fija la cantidad del lote. Solo la invoca el Ledger con la fila bloqueada.
func (r *StorefrontHoldingRepo) UpdateQuantity(ctx context.Context, businessID, id string, quantity int64, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE storefront_holdings SET quantity = $3, updated_at = $4 WHERE id = $1 AND business_id = $2`,
		id, businessID, quantity, at)
	if err != nil {
		return fmt.Errorf("update storefront_holding: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
