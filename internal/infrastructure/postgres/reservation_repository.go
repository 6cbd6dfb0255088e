package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación de ReservationRepository sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `
	id, business_id, stock_product_id, quantity, session_id, status, sale_id,
	expires_at, created_at, updated_at, closed_at`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID, &res.BusinessID, &res.StockProductID, &res.Quantity, &res.SessionID, &res.Status, &res.SaleID,
		&res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt, &res.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Create inserta una reserva.
func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, business_id, stock_product_id, quantity, session_id, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		res.ID, res.BusinessID, res.StockProductID, res.Quantity, res.SessionID, string(res.Status),
		res.ExpiresAt, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva. nil, nil si no existe.
func (r *ReservationRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Reservation, error) {
	return r.get(ctx, businessID, id, "")
}

// GetForUpdate obtiene la reserva bloqueando la fila.
func (r *ReservationRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.Reservation, error) {
	return r.get(ctx, businessID, id, " FOR UPDATE")
}

func (r *ReservationRepo) get(ctx context.Context, businessID, id, lock string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 AND business_id = $2` + lock
	res, err := scanReservation(r.q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// Update persiste estado y vínculo con la venta.
func (r *ReservationRepo) Update(ctx context.Context, res *entity.Reservation) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE reservations SET status = $3, sale_id = $4, updated_at = $5, closed_at = $6
		WHERE id = $1 AND business_id = $2`,
		res.ID, res.BusinessID, string(res.Status), res.SaleID, res.UpdatedAt, res.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SumActive suma reservas activas con expires_at > now, agrupadas por registro.
func (r *ReservationRepo) SumActive(ctx context.Context, businessID string, stockProductIDs []string, now time.Time) (map[string]int64, error) {
	out := make(map[string]int64, len(stockProductIDs))
	if len(stockProductIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT stock_product_id, COALESCE(SUM(quantity), 0)::BIGINT
		FROM reservations
		WHERE business_id = $1 AND stock_product_id = ANY($2) AND status = $3 AND expires_at > $4
		GROUP BY stock_product_id`,
		businessID, stockProductIDs, string(inventory.ReservationActive), now,
	)
	if err != nil {
		return nil, fmt.Errorf("sum active reservations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var qty int64
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan reservation sum: %w", err)
		}
		out[id] = qty
	}
	return out, rows.Err()
}

// ExpireDue transición ACTIVE → EXPIRED de las reservas vencidas. La condición status = 'active'
// hace la operación idempotente frente a barridos concurrentes.
func (r *ReservationRepo) ExpireDue(ctx context.Context, businessID, stockProductID string, now time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE reservations SET status = $1, closed_at = $3, updated_at = $3
		WHERE status = $2 AND expires_at <= $3
		  AND ($4 = '' OR business_id = $4)
		  AND ($5 = '' OR stock_product_id = $5)`,
		string(inventory.ReservationExpired), string(inventory.ReservationActive), now, businessID, stockProductID,
	)
	if err != nil {
		return 0, fmt.Errorf("expire reservations: %w", err)
	}
	return cmd.RowsAffected(), nil
}
