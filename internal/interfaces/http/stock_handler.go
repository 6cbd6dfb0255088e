package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// StockHandler maneja ingresos de mercancía y consultas de existencias (protegido).
type StockHandler struct {
	uc  *inventory.StockUseCase
	log zerolog.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase, log zerolog.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// Receive godoc
// @Summary      Registrar ingreso de mercancía
// @Description  Crea un StockProduct con cantidad de ingreso inmutable y cantidad operativa inicial igual al ingreso.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IntakeRequest  true  "product_id, warehouse_id, batch_id, quantity, costos"
// @Success      201   {object}  dto.StockProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-products [post]
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	businessID, userID := GetBusinessID(c), GetUserID(c)
	if businessID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.IntakeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	sp, err := h.uc.Receive(c.Context(), inventory.IntakeInput{
		BusinessID:     businessID,
		UserID:         userID,
		ProductID:      in.ProductID,
		WarehouseID:    in.WarehouseID,
		BatchID:        in.BatchID,
		SupplierID:     in.SupplierID,
		Quantity:       in.Quantity,
		UnitCost:       in.UnitCost,
		Tax:            in.Tax,
		AdditionalCost: in.AdditionalCost,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToStockProductResponse(inventory.StockAvailability{
		StockProduct: sp,
		Available:    sp.WorkingQuantity,
	}))
}

// GetByID godoc
// @Summary      Obtener StockProduct con disponibilidad
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del StockProduct"
// @Success      200  {object}  dto.StockProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-products/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToStockProductResponse(*out))
}

// List godoc
// @Summary      Listar StockProducts
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        batch_id      query  string  false  "Lote"
// @Success      200  {object}  dto.StockProductListResponse
// @Router       /api/stock-products [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.List(c.Context(), repository.StockProductFilter{
		BusinessID:  businessID,
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		BatchID:     c.Query("batch_id"),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.StockProductResponse, 0, len(list))
	for _, a := range list {
		items = append(items, inventory.ToStockProductResponse(a))
	}
	return c.JSON(dto.StockProductListResponse{Items: items})
}

// ListHoldings godoc
// @Summary      Existencias de un punto de venta
// @Description  Lotes del punto de venta (uno por registro de bodega origen) y total por producto.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id          path   string  true   "ID del punto de venta"
// @Param        product_id  query  string  false  "Producto"
// @Success      200  {object}  dto.HoldingListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/storefronts/{id}/holdings [get]
func (h *StockHandler) ListHoldings(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.ListHoldings(c.Context(), repository.HoldingFilter{
		BusinessID:   businessID,
		StorefrontID: c.Params("id"),
		ProductID:    c.Query("product_id"),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToHoldingListResponse(list))
}
