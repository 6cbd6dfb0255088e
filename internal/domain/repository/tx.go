package repository

// Tx agrupa los repositorios atados a una misma transacción de base de datos.
type Tx struct {
	StockProducts StockProductRepository
	Holdings      StorefrontHoldingRepository
	Transfers     TransferRepository
	Adjustments   AdjustmentRepository
	Reservations  ReservationRepository
	Consumptions  SaleConsumptionRepository
}
