package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// AdjustmentHandler maneja el flujo de ajustes (crear → aprobar → completar | rechazar).
type AdjustmentHandler struct {
	uc  *inventory.AdjustmentUseCase
	log zerolog.Logger
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *inventory.AdjustmentUseCase, log zerolog.Logger) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear ajuste
// @Description  Crea un ajuste PENDING. delta negativo para merma (theft, damage, expired, spoilage, loss,
//
//	write_off), positivo para found y customer_return, cualquier signo para recount.
//
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "stock_product_id, category, delta"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	businessID, userID := GetBusinessID(c), GetUserID(c)
	if businessID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	a, err := h.uc.Create(c.Context(), inventory.CreateAdjustmentInput{
		BusinessID:     businessID,
		UserID:         userID,
		StockProductID: in.StockProductID,
		Category:       domaininv.AdjustmentCategory(in.Category),
		Delta:          in.Delta,
		Reference:      in.Reference,
		Notes:          in.Notes,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToAdjustmentResponse(a))
}

// GetByID godoc
// @Summary      Obtener ajuste
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	a, err := h.uc.Get(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToAdjustmentResponse(a))
}

// List godoc
// @Summary      Listar ajustes
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        status            query  string  false  "Estados separados por coma"
// @Param        stock_product_id  query  string  false  "StockProduct"
// @Param        product_id        query  string  false  "Producto"
// @Param        warehouse_id      query  string  false  "Bodega"
// @Param        batch_id          query  string  false  "Lote"
// @Param        limit             query  int     false  "Límite (máx 100)"
// @Param        offset            query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.AdjustmentListResponse
// @Router       /api/adjustments [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	p := page(c)
	filter := repository.AdjustmentFilter{
		BusinessID:     businessID,
		StockProductID: c.Query("stock_product_id"),
		ProductID:      c.Query("product_id"),
		WarehouseID:    c.Query("warehouse_id"),
		BatchID:        c.Query("batch_id"),
		Limit:          p.Limit,
		Offset:         p.Offset,
	}
	for _, s := range queryList(c, "status") {
		filter.Statuses = append(filter.Statuses, domaininv.AdjustmentStatus(s))
	}
	list, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		items = append(items, inventory.ToAdjustmentResponse(a))
	}
	return c.JSON(dto.AdjustmentListResponse{Items: items, Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}})
}

// Approve godoc
// @Summary      Aprobar ajuste
// @Description  PENDING → APPROVED y, salvo modo diferido, aplica el delta (APPROVED → COMPLETED).
//
//	Si la aplicación falla por stock el ajuste queda APPROVED con completion_error.
//
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/approve [post]
func (h *AdjustmentHandler) Approve(c *fiber.Ctx) error {
	businessID, userID := GetBusinessID(c), GetUserID(c)
	if businessID == "" || userID == "" {
		return unauthorized(c)
	}
	a, err := h.uc.Approve(c.Context(), businessID, c.Params("id"), userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToAdjustmentResponse(a))
}

// Complete godoc
// @Summary      Aplicar ajuste aprobado
// @Description  Reintenta la aplicación de un ajuste APPROVED.
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/complete [post]
func (h *AdjustmentHandler) Complete(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	a, err := h.uc.Complete(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToAdjustmentResponse(a))
}

// Reject godoc
// @Summary      Rechazar ajuste
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true   "ID del ajuste"
// @Param        body  body  dto.RejectAdjustmentRequest  false  "Motivo"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/reject [post]
func (h *AdjustmentHandler) Reject(c *fiber.Ctx) error {
	businessID, userID := GetBusinessID(c), GetUserID(c)
	if businessID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.RejectAdjustmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	a, err := h.uc.Reject(c.Context(), businessID, c.Params("id"), userID, in.Reason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToAdjustmentResponse(a))
}
