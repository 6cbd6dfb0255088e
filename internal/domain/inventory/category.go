package inventory

import "github.com/jhoicas/inventario-ledger/internal/domain"

// AdjustmentCategory motivo de un ajuste que no es traslado ni venta.
type AdjustmentCategory string

// Merma (shrinkage): siempre resta.
const (
	CategoryTheft    AdjustmentCategory = "theft"
	CategoryDamage   AdjustmentCategory = "damage"
	CategoryExpired  AdjustmentCategory = "expired"
	CategorySpoilage AdjustmentCategory = "spoilage"
	CategoryLoss     AdjustmentCategory = "loss"
	CategoryWriteOff AdjustmentCategory = "write_off"
)

// Corrección: found y customer_return suman; recount admite ambos signos.
const (
	CategoryFound          AdjustmentCategory = "found"
	CategoryCustomerReturn AdjustmentCategory = "customer_return"
	CategoryRecount        AdjustmentCategory = "recount"
)

// IsShrinkage indica si la categoría es merma.
func (c AdjustmentCategory) IsShrinkage() bool {
	switch c {
	case CategoryTheft, CategoryDamage, CategoryExpired, CategorySpoilage, CategoryLoss, CategoryWriteOff:
		return true
	}
	return false
}

// IsCorrection indica si la categoría es corrección.
func (c AdjustmentCategory) IsCorrection() bool {
	switch c {
	case CategoryFound, CategoryCustomerReturn, CategoryRecount:
		return true
	}
	return false
}

// ValidateDelta comprueba que el signo del delta sea coherente con la categoría.
func (c AdjustmentCategory) ValidateDelta(delta int64) error {
	if !c.IsShrinkage() && !c.IsCorrection() {
		return domain.NewValidationError("category", "categoría desconocida: "+string(c))
	}
	if delta == 0 {
		return domain.NewValidationError("delta", "no puede ser cero")
	}
	if c.IsShrinkage() && delta > 0 {
		return domain.NewValidationError("delta", "una merma debe ser negativa")
	}
	if (c == CategoryFound || c == CategoryCustomerReturn) && delta < 0 {
		return domain.NewValidationError("delta", "una corrección de tipo "+string(c)+" debe ser positiva")
	}
	return nil
}
