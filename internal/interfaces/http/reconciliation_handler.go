package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// ReconciliationHandler verificación de conciliación y reporte de descuadres (protegido, solo lectura).
type ReconciliationHandler struct {
	checker *inventory.ReconciliationChecker
	report  *inventory.ReconciliationReportUseCase
	log     zerolog.Logger
}

// NewReconciliationHandler construye el handler.
func NewReconciliationHandler(checker *inventory.ReconciliationChecker, report *inventory.ReconciliationReportUseCase, log zerolog.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{checker: checker, report: report, log: log}
}

// Verify godoc
// @Summary      Verificar conciliación
// @Description  Compara la cantidad real (bodega + puntos de venta) con la esperada según ingreso,
//
//	merma, correcciones, ventas y traslados. Reporta descuadres, nunca los corrige.
//
// @Tags         reconciliation
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "Producto"
// @Param        batch_id      query  string  false  "Lote"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200  {object}  dto.ReconciliationResultDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reconciliation/verify [get]
func (h *ReconciliationHandler) Verify(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	out, err := h.checker.Verify(c.Context(), inventory.VerifyInput{
		BusinessID:  businessID,
		ProductID:   c.Query("product_id"),
		BatchID:     c.Query("batch_id"),
		WarehouseID: c.Query("warehouse_id"),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte de conciliación del negocio
// @Description  Verifica cada producto y cada combinación producto/lote/bodega. format=pdf devuelve el PDF.
// @Tags         reconciliation
// @Security     Bearer
// @Produce      json
// @Produce      application/pdf
// @Param        format  query  string  false  "json (defecto) o pdf"
// @Success      200  {object}  dto.ReconciliationReportDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reconciliation/report [get]
func (h *ReconciliationHandler) Report(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	if c.Query("format") == "pdf" {
		pdfBytes, err := h.report.RunPDF(c.Context(), businessID)
		if err != nil {
			return writeError(c, h.log, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="conciliacion.pdf"`)
		return c.Send(pdfBytes)
	}
	out, err := h.report.Run(c.Context(), businessID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
