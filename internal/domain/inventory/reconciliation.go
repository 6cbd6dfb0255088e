package inventory

// ReconciliationTerms son los términos de la fórmula de conciliación para un alcance
// (producto, y opcionalmente lote y/o bodega). Todas las cantidades son unidades.
type ReconciliationTerms struct {
	IntakeQuantity    int64
	WarehouseWorking  int64
	StorefrontHolding int64
	ShrinkageUnits    int64 // positivo: unidades perdidas
	CorrectionUnits   int64 // con signo: neto de correcciones
	SoldUnits         int64
	TransfersIn       int64
	TransfersOut      int64
	ReservedUnits     int64 // informativo, no entra en el balance
}

// Actual cantidad física presente en el alcance.
func (t ReconciliationTerms) Actual() int64 {
	return t.WarehouseWorking + t.StorefrontHolding
}

// Expected cantidad que debería existir según ingreso y movimientos registrados.
//
//	esperado = ingreso - merma + correcciones - vendidas + entradas_traslado - salidas_traslado
func (t ReconciliationTerms) Expected() int64 {
	return t.IntakeQuantity - t.ShrinkageUnits + t.CorrectionUnits - t.SoldUnits + t.TransfersIn - t.TransfersOut
}

// Delta real - esperado. Distinto de cero es señal de defecto.
func (t ReconciliationTerms) Delta() int64 {
	return t.Actual() - t.Expected()
}

// Available cantidad disponible para reservar (real - reservas activas).
func (t ReconciliationTerms) Available() int64 {
	return t.Actual() - t.ReservedUnits
}
