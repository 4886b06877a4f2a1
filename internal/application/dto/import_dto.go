package dto

// ImportProductsRequest importación masiva de productos con saldo inicial opcional.
type ImportProductsRequest struct {
	Rows []ImportProductRow `json:"rows" validate:"required,min=1,max=5000"`
}

// ImportProductRow fila de importación. Se valida fila por fila en el caso de uso.
// Los valores numéricos se aceptan como número o texto;
// lo que no se pueda interpretar vale 0.
type ImportProductRow struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	LowStockThreshold any    `json:"low_stock_threshold"`
	OpeningQuantity   any    `json:"opening_quantity"`
	Location          string `json:"location"`
}

// Estados de una fila importada.
const (
	ImportStatusCreated   = "created"
	ImportStatusDuplicate = "duplicate"
	ImportStatusError     = "error"
)

// ImportRowResult resultado por fila (Row es 1-based).
type ImportRowResult struct {
	Row       int    `json:"row"`
	Code      string `json:"code"`
	Status    string `json:"status"`
	ProductID string `json:"product_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ImportProductsResponse resumen de la importación.
type ImportProductsResponse struct {
	Created int               `json:"created"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
	Results []ImportRowResult `json:"results"`
}
