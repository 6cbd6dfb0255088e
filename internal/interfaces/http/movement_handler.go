package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementHandler expone el historial unificado de movimientos (protegido).
type MovementHandler struct {
	tracker *inventory.MovementTracker
	log     zerolog.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(tracker *inventory.MovementTracker, log zerolog.Logger) *MovementHandler {
	return &MovementHandler{tracker: tracker, log: log}
}

func (h *MovementHandler) filter(c *fiber.Ctx) (entity.MovementFilter, error) {
	from, err := queryTime(c, "from")
	if err != nil {
		return entity.MovementFilter{}, err
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return entity.MovementFilter{}, err
	}
	return entity.MovementFilter{
		BusinessID:     GetBusinessID(c),
		ProductID:      c.Query("product_id"),
		BatchID:        c.Query("batch_id"),
		WarehouseID:    c.Query("warehouse_id"),
		StorefrontID:   c.Query("storefront_id"),
		StockProductID: c.Query("stock_product_id"),
		Types:          queryList(c, "type"),
		From:           from,
		To:             to,
	}, nil
}

// List godoc
// @Summary      Historial de movimientos
// @Description  Ajustes, tramos de traslado (y sus reversiones), ventas y registros del esquema anterior,
//
//	del más reciente al más antiguo. Las fuentes no desplegadas se omiten.
//
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id        query  string  false  "Producto"
// @Param        batch_id          query  string  false  "Lote"
// @Param        warehouse_id      query  string  false  "Bodega"
// @Param        storefront_id     query  string  false  "Punto de venta"
// @Param        stock_product_id  query  string  false  "StockProduct"
// @Param        type              query  string  false  "Tipos separados por coma"
// @Param        from              query  string  false  "Desde (RFC3339)"
// @Param        to                query  string  false  "Hasta (RFC3339)"
// @Param        limit             query  int     false  "Límite (máx 100)"
// @Param        offset            query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	if GetBusinessID(c) == "" {
		return unauthorized(c)
	}
	f, err := h.filter(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	p := page(c)
	f.Limit, f.Offset = p.Limit, p.Offset
	list, err := h.tracker.GetMovements(c.Context(), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.MovementDTO, 0, len(list))
	for _, m := range list {
		items = append(items, inventory.ToMovementDTO(m))
	}
	return c.JSON(dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}})
}

// Summary godoc
// @Summary      Resumen de movimientos
// @Description  Entradas, salidas, merma, correcciones, ventas y traslados del alcance filtrado.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  false  "Producto"
// @Param        batch_id       query  string  false  "Lote"
// @Param        warehouse_id   query  string  false  "Bodega"
// @Param        storefront_id  query  string  false  "Punto de venta"
// @Param        from           query  string  false  "Desde (RFC3339)"
// @Param        to             query  string  false  "Hasta (RFC3339)"
// @Success      200  {object}  dto.MovementSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/summary [get]
func (h *MovementHandler) Summary(c *fiber.Ctx) error {
	if GetBusinessID(c) == "" {
		return unauthorized(c)
	}
	f, err := h.filter(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.tracker.GetSummary(c.Context(), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
