package dto

import "time"

// ReconciliationTermsDTO términos de la fórmula de conciliación.
type ReconciliationTermsDTO struct {
	IntakeQuantity    int64 `json:"intake_quantity"`
	WarehouseWorking  int64 `json:"warehouse_working"`
	StorefrontHolding int64 `json:"storefront_holding"`
	ShrinkageUnits    int64 `json:"shrinkage_units"`
	CorrectionUnits   int64 `json:"correction_units"`
	SoldUnits         int64 `json:"sold_units"`
	TransfersIn       int64 `json:"transfers_in"`
	TransfersOut      int64 `json:"transfers_out"`
	ReservedUnits     int64 `json:"reserved_units"`
}

// DriftFindingDTO hallazgo de descuadre (imbalance o reversal_shortfall).
type DriftFindingDTO struct {
	Kind        string `json:"kind"`
	ProductID   string `json:"product_id"`
	BatchID     string `json:"batch_id,omitempty"`
	WarehouseID string `json:"warehouse_id,omitempty"`
	Expected    int64  `json:"expected"`
	Actual      int64  `json:"actual"`
	Delta       int64  `json:"delta"`
	Reference   string `json:"reference,omitempty"`
	Message     string `json:"message"`
}

// ReconciliationResultDTO resultado de verificar un alcance (producto, lote, bodega).
type ReconciliationResultDTO struct {
	ProductID   string                 `json:"product_id"`
	BatchID     string                 `json:"batch_id,omitempty"`
	WarehouseID string                 `json:"warehouse_id,omitempty"`
	Balanced    bool                   `json:"balanced"`
	Expected    int64                  `json:"expected"`
	Actual      int64                  `json:"actual"`
	Delta       int64                  `json:"delta"`
	Available   int64                  `json:"available"`
	Terms       ReconciliationTermsDTO `json:"terms"`
	Findings    []DriftFindingDTO      `json:"findings"`
	CheckedAt   time.Time              `json:"checked_at"`
}

// ReconciliationReportDTO reporte de conciliación de todo un negocio.
type ReconciliationReportDTO struct {
	BusinessID  string                    `json:"business_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Checked     int                       `json:"checked"`
	Imbalanced  int                       `json:"imbalanced"`
	Results     []ReconciliationResultDTO `json:"results"`
	Findings    []DriftFindingDTO         `json:"findings"`
}
