package inventory

import "github.com/shopspring/decimal"

// LandedUnitCost calcula el costo unitario puesto en bodega (servicio de dominio).
// CostoPuesto = CostoUnitario + (Impuesto / CantIngreso) + (CostoAdicional / CantIngreso)
// tax y additionalCost son totales del ingreso; con ingreso cero se devuelve el costo unitario.
func LandedUnitCost(unitCost, tax, additionalCost decimal.Decimal, intakeQty int64) decimal.Decimal {
	if intakeQty <= 0 {
		return unitCost.Round(4)
	}
	qty := decimal.NewFromInt(intakeQty)
	return unitCost.Add(tax.Div(qty)).Add(additionalCost.Div(qty)).Round(4)
}

// LineValue devuelve |cantidad| * costo unitario.
func LineValue(quantity int64, unitCost decimal.Decimal) decimal.Decimal {
	if quantity < 0 {
		quantity = -quantity
	}
	return decimal.NewFromInt(quantity).Mul(unitCost).Round(2)
}
