package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// InsufficientStockDetails detalle de un error INSUFFICIENT_STOCK.
type InsufficientStockDetails struct {
	StockProductID string `json:"stock_product_id,omitempty"`
	ProductID      string `json:"product_id,omitempty"`
	ItemIndex      *int   `json:"item_index,omitempty"`
	Requested      int64  `json:"requested"`
	Available      int64  `json:"available"`
}

// InvalidStateDetails detalle de un error INVALID_STATE.
type InvalidStateDetails struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
	From   string `json:"from"`
	Action string `json:"action"`
}
