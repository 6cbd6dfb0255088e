package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC         *inventory.StockUseCase
	TransferUC      *inventory.TransferUseCase
	AdjustmentUC    *inventory.AdjustmentUseCase
	ReservationUC   *inventory.ReservationUseCase
	SaleConsumption *inventory.SaleConsumptionUseCase
	MovementTracker *inventory.MovementTracker
	Reconciliation  *inventory.ReconciliationChecker
	ReconcileReport *inventory.ReconciliationReportUseCase
	JWTSecret       string
	JWTIssuer       string
	Log             zerolog.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	supervisors := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	// Existencias
	stockHandler := NewStockHandler(deps.StockUC, deps.Log)
	stock := api.Group("/stock-products")
	stock.Post("/", stockHandler.Receive)
	stock.Get("/", stockHandler.List)
	stock.Get("/:id", stockHandler.GetByID)
	api.Get("/storefronts/:id/holdings", stockHandler.ListHoldings)

	// Traslados
	transferHandler := NewTransferHandler(deps.TransferUC, deps.Log)
	transfers := api.Group("/transfers")
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/complete", transferHandler.Complete)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Ajustes (aprobar, aplicar y rechazar requieren admin o bodeguero)
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC, deps.Log)
	adjustments := api.Group("/adjustments")
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Post("/:id/approve", supervisors, adjustmentHandler.Approve)
	adjustments.Post("/:id/complete", supervisors, adjustmentHandler.Complete)
	adjustments.Post("/:id/reject", supervisors, adjustmentHandler.Reject)

	// Reservas y consumo por ventas
	reservationHandler := NewReservationHandler(deps.ReservationUC, deps.SaleConsumption, deps.Log)
	reservations := api.Group("/reservations")
	reservations.Post("/", reservationHandler.Create)
	reservations.Get("/:id", reservationHandler.GetByID)
	reservations.Post("/:id/release", reservationHandler.Release)
	reservations.Post("/:id/link", reservationHandler.Link)
	api.Post("/sales/consume", reservationHandler.Consume)

	// Historial de movimientos
	movementHandler := NewMovementHandler(deps.MovementTracker, deps.Log)
	api.Get("/movements/summary", movementHandler.Summary)
	api.Get("/movements", movementHandler.List)

	// Conciliación
	reconciliationHandler := NewReconciliationHandler(deps.Reconciliation, deps.ReconcileReport, deps.Log)
	api.Get("/reconciliation/verify", reconciliationHandler.Verify)
	api.Get("/reconciliation/report", reconciliationHandler.Report)
}
