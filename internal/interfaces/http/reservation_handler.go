package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// ReservationHandler maneja reservas de checkout y el consumo de stock por ventas (protegido).
type ReservationHandler struct {
	reservations *inventory.ReservationUseCase
	sales        *inventory.SaleConsumptionUseCase
	log          zerolog.Logger
}

// NewReservationHandler construye el handler.
func NewReservationHandler(reservations *inventory.ReservationUseCase, sales *inventory.SaleConsumptionUseCase, log zerolog.Logger) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, sales: sales, log: log}
}

// Create godoc
// @Summary      Reservar unidades
// @Description  Retiene unidades disponibles (operativa - reservas activas) durante el checkout. No modifica el stock.
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReservationRequest  true  "stock_product_id, quantity, session_id, ttl_seconds"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations [post]
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	var in dto.CreateReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	r, err := h.reservations.Reserve(c.Context(), inventory.ReserveInput{
		BusinessID:     businessID,
		StockProductID: in.StockProductID,
		Quantity:       in.Quantity,
		SessionID:      in.SessionID,
		TTL:            time.Duration(in.TTLSeconds) * time.Second,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToReservationResponse(r))
}

// GetByID godoc
// @Summary      Obtener reserva
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id} [get]
func (h *ReservationHandler) GetByID(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	r, err := h.reservations.Get(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToReservationResponse(r))
}

// Release godoc
// @Summary      Liberar reserva
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/release [post]
func (h *ReservationHandler) Release(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	r, err := h.reservations.Release(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToReservationResponse(r))
}

// Link godoc
// @Summary      Vincular reserva a una venta
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la reserva"
// @Param        body  body  dto.LinkReservationRequest  true  "sale_id"
// @Success      200   {object}  dto.ReservationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/link [post]
func (h *ReservationHandler) Link(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	var in dto.LinkReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	r, err := h.reservations.LinkToSale(c.Context(), businessID, c.Params("id"), in.SaleID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToReservationResponse(r))
}

// Consume godoc
// @Summary      Consumir stock por una venta
// @Description  Descuenta la venta de un registro de bodega (stock_product_id) o de los lotes de un punto de
//
//	venta (storefront_id + product_id, lote más antiguo primero). Vincula la reserva si se indica.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeSaleRequest  true  "Venta a consumir"
// @Success      201   {object}  dto.ConsumeSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/consume [post]
func (h *ReservationHandler) Consume(c *fiber.Ctx) error {
	businessID, userID := GetBusinessID(c), GetUserID(c)
	if businessID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ConsumeSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	list, err := h.sales.Consume(c.Context(), inventory.ConsumeInput{
		BusinessID:     businessID,
		UserID:         userID,
		SaleReference:  in.SaleReference,
		StockProductID: in.StockProductID,
		StorefrontID:   in.StorefrontID,
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		ReservationID:  in.ReservationID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToSaleConsumptionResponse(list))
}
