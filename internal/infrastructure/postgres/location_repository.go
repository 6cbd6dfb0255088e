package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo consulta bodegas y puntos de venta del registro de ubicaciones.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de solo lectura.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// GetWarehouse obtiene una bodega del negocio. nil, nil si no existe.
func (r *LocationRepo) GetWarehouse(ctx context.Context, businessID, id string) (*entity.Warehouse, error) {
	query := `
		SELECT id, business_id, name, address, created_at, updated_at
		FROM warehouses WHERE id = $1 AND business_id = $2`
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, query, id, businessID).Scan(
		&w.ID, &w.BusinessID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// GetStorefront obtiene un punto de venta del negocio. nil, nil si no existe.
func (r *LocationRepo) GetStorefront(ctx context.Context, businessID, id string) (*entity.Storefront, error) {
	query := `
		SELECT id, business_id, name, address, created_at, updated_at
		FROM storefronts WHERE id = $1 AND business_id = $2`
	var s entity.Storefront
	err := r.q.QueryRow(ctx, query, id, businessID).Scan(
		&s.ID, &s.BusinessID, &s.Name, &s.Address, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get storefront: %w", err)
	}
	return &s, nil
}
