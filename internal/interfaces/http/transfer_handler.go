package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// TransferHandler maneja traslados entre bodegas y hacia puntos de venta (protegido).
type TransferHandler struct {
	uc  *inventory.TransferUseCase
	log zerolog.Logger
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *inventory.TransferUseCase, log zerolog.Logger) *TransferHandler {
	return &TransferHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear traslado
// @Description  Crea un traslado PENDING. Indicar destination_warehouse_id o destination_storefront_id.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Origen, destino e ítems"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	businessID, userID := GetBusinessID(c), GetUserID(c)
	if businessID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	items := make([]inventory.TransferItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, inventory.TransferItemInput{StockProductID: it.StockProductID, Quantity: it.Quantity})
	}
	t, err := h.uc.Create(c.Context(), inventory.CreateTransferInput{
		BusinessID:              businessID,
		UserID:                  userID,
		SourceWarehouseID:       in.SourceWarehouseID,
		DestinationWarehouseID:  in.DestinationWarehouseID,
		DestinationStorefrontID: in.DestinationStorefrontID,
		Reference:               in.Reference,
		Notes:                   in.Notes,
		Items:                   items,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToTransferResponse(t))
}

// GetByID godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	t, err := h.uc.Get(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToTransferResponse(t))
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estados separados por coma (pending,completed,cancelled)"
// @Param        from    query  string  false  "Desde (RFC3339)"
// @Param        to      query  string  false  "Hasta (RFC3339)"
// @Param        limit   query  int     false  "Límite (máx 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	from, err := queryTime(c, "from")
	if err != nil {
		return writeError(c, h.log, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return writeError(c, h.log, err)
	}
	p := page(c)
	filter := repository.TransferFilter{BusinessID: businessID, From: from, To: to, Limit: p.Limit, Offset: p.Offset}
	for _, s := range queryList(c, "status") {
		filter.Statuses = append(filter.Statuses, domaininv.TransferStatus(s))
	}
	list, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, inventory.ToTransferResponse(t))
	}
	return c.JSON(dto.TransferListResponse{Items: items, Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}})
}

// Complete godoc
// @Summary      Completar traslado
// @Description  Aplica todos los ítems de forma atómica. Si un ítem no tiene stock disponible no se aplica ninguno.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK (con item_index) o INVALID_STATE"
// @Router       /api/transfers/{id}/complete [post]
func (h *TransferHandler) Complete(c *fiber.Ctx) error {
	businessID, userID := GetBusinessID(c), GetUserID(c)
	if businessID == "" || userID == "" {
		return unauthorized(c)
	}
	t, err := h.uc.Complete(c.Context(), businessID, c.Params("id"), userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToTransferResponse(t))
}

// Cancel godoc
// @Summary      Cancelar traslado
// @Description  PENDING → CANCELLED sin efecto en inventario. COMPLETED → CANCELLED revierte las cantidades
//
//	(requiere rol admin o bodeguero).
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true   "ID del traslado"
// @Param        body  body  dto.CancelTransferRequest  false  "Motivo"
// @Success      200   {object}  dto.TransferResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	businessID, userID := GetBusinessID(c), GetUserID(c)
	if businessID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CancelTransferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	allowReversal := hasRole(c, jwt.RoleAdmin, jwt.RoleBodeguero)
	t, err := h.uc.Cancel(c.Context(), businessID, c.Params("id"), userID, in.Reason, allowReversal)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToTransferResponse(t))
}
