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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (cabecera + transfer_items).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `
	id, business_id, type, status, reference, source_warehouse_id,
	COALESCE(destination_warehouse_id, ''), COALESCE(destination_storefront_id, ''),
	notes, created_by, completed_by, cancelled_by, cancel_reason,
	created_at, updated_at, completed_at, cancelled_at`

const transferItemColumns = `
	id, transfer_id, position, product_id, stock_product_id, batch_id, quantity, unit_cost_snapshot,
	COALESCE(destination_stock_product_id, ''), COALESCE(destination_holding_id, ''),
	received_quantity, reversed_quantity, reversal_shortfall`

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	err := row.Scan(
		&t.ID, &t.BusinessID, &t.Type, &t.Status, &t.Reference, &t.SourceWarehouseID,
		&t.DestinationWarehouseID, &t.DestinationStorefrontID,
		&t.Notes, &t.CreatedBy, &t.CompletedBy, &t.CancelledBy, &t.CancelReason,
		&t.CreatedAt, &t.UpdatedAt, &t.CompletedAt, &t.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTransferItem(row pgx.Row) (entity.TransferItem, error) {
	var it entity.TransferItem
	err := row.Scan(
		&it.ID, &it.TransferID, &it.Position, &it.ProductID, &it.StockProductID, &it.BatchID,
		&it.Quantity, &it.UnitCostSnapshot, &it.DestinationStockProductID, &it.DestinationHoldingID,
		&it.ReceivedQuantity, &it.ReversedQuantity, &it.ReversalShortfall,
	)
	return it, err
}

// Create inserta cabecera e ítems en un solo batch.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO transfers (
			id, business_id, type, status, reference, source_warehouse_id,
			destination_warehouse_id, destination_storefront_id, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.BusinessID, t.Type, string(t.Status), t.Reference, t.SourceWarehouseID,
		nullIfEmpty(t.DestinationWarehouseID), nullIfEmpty(t.DestinationStorefrontID),
		t.Notes, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	for _, it := range t.Items {
		b.Queue(`
			INSERT INTO transfer_items (
				id, transfer_id, position, product_id, stock_product_id, batch_id, quantity, unit_cost_snapshot)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, t.ID, it.Position, it.ProductID, it.StockProductID, it.BatchID, it.Quantity, it.UnitCostSnapshot,
		)
	}
	if err := r.q.SendBatch(ctx, b).Close(); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// GetByID obtiene el traslado con sus ítems. nil, nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Transfer, error) {
	return r.get(ctx, businessID, id, "")
}

// GetForUpdate obtiene el traslado bloqueando la cabecera.
func (r *TransferRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.Transfer, error) {
	return r.get(ctx, businessID, id, " FOR UPDATE")
}

func (r *TransferRepo) get(ctx context.Context, businessID, id, lock string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1 AND business_id = $2` + lock
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadItems(ctx, map[string]*entity.Transfer{t.ID: t}); err != nil {
		return nil, err
	}
	return t, nil
}

// Update persiste estado, auditoría e ítems.
func (r *TransferRepo) Update(ctx context.Context, t *entity.Transfer) error {
	b := &pgx.Batch{}
	b.Queue(`
		UPDATE transfers SET
			status = $3, completed_by = $4, cancelled_by = $5, cancel_reason = $6,
			updated_at = $7, completed_at = $8, cancelled_at = $9
		WHERE id = $1 AND business_id = $2`,
		t.ID, t.BusinessID, string(t.Status), t.CompletedBy, t.CancelledBy, t.CancelReason,
		t.UpdatedAt, t.CompletedAt, t.CancelledAt,
	)
	for _, it := range t.Items {
		b.Queue(`
			UPDATE transfer_items SET
				destination_stock_product_id = $3, destination_holding_id = $4,
				received_quantity = $5, reversed_quantity = $6, reversal_shortfall = $7
			WHERE id = $1 AND transfer_id = $2`,
			it.ID, t.ID, nullIfEmpty(it.DestinationStockProductID), nullIfEmpty(it.DestinationHoldingID),
			it.ReceivedQuantity, it.ReversedQuantity, it.ReversalShortfall,
		)
	}
	if err := r.q.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return nil
}

// List lista traslados del más reciente al más antiguo, con ítems.
func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
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
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	var out []*entity.Transfer
	byID := map[string]*entity.Transfer{}
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, t)
		byID[t.ID] = t
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	if err := r.loadItems(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TransferRepo) loadItems(ctx context.Context, byID map[string]*entity.Transfer) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+transferItemColumns+` FROM transfer_items WHERE transfer_id = ANY($1) ORDER BY transfer_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list transfer_items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanTransferItem(rows)
		if err != nil {
			return fmt.Errorf("scan transfer_item: %w", err)
		}
		if t := byID[it.TransferID]; t != nil {
			t.Items = append(t.Items, it)
		}
	}
	return rows.Err()
}
