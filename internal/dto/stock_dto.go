package dto

// ─── Ledger results ──────────────────────────────────────────────────────────

// DescuentoStock is the exact split a deduction took from the main store's two
// counters, returned so callers can log and reverse precisely. For a
// micro-tienda DeLocal carries the whole quantity and DeBodega is zero.
type DescuentoStock struct {
	ProductoID string `json:"producto_id"`
	Cantidad   int    `json:"cantidad"`
	DeBodega   int    `json:"de_bodega"`
	DeLocal    int    `json:"de_local"`
}

// StockDisponible answers "how much of product P is available here".
// Bodega is always zero for a micro-tienda.
type StockDisponible struct {
	ProductoID string `json:"producto_id"`
	Bodega     int    `json:"bodega"`
	Local      int    `json:"local"`
	Total      int    `json:"total"`
}

// ─── Batch return ────────────────────────────────────────────────────────────

// ItemDevolucion is one line of a batch stock return.
type ItemDevolucion struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// ResultadoItem reports the outcome of a single line of a batch operation.
type ResultadoItem struct {
	ProductoID string `json:"producto_id"`
	Exito      bool   `json:"exito"`
	Error      string `json:"error,omitempty"`
}

// ResultadoLote is the partial-success contract of batch returns: some lines
// may fail while others succeed, and the caller decides how to proceed.
type ResultadoLote struct {
	Exito      bool            `json:"exito"` // true only when every item succeeded
	Resultados []ResultadoItem `json:"resultados"`
}

// ─── Requests ────────────────────────────────────────────────────────────────

type AjustarStockRequest struct {
	Ubicacion     string `json:"ubicacion"      validate:"required,oneof=bodega local"`
	NuevaCantidad int    `json:"nueva_cantidad" validate:"min=0"`
	Motivo        string `json:"motivo"         validate:"required,min=3"`
}

type MoverStockRequest struct {
	Desde    string `json:"desde"    validate:"required,oneof=bodega local"`
	Hacia    string `json:"hacia"    validate:"required,oneof=bodega local"`
	Cantidad int    `json:"cantidad" validate:"required,min=1"`
}

// MovimientoFilter is bound from the query string of GET /v1/stock/movimientos.
type MovimientoFilter struct {
	ProductoID string `form:"producto_id"`
	Tipo       string `form:"tipo"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MovimientoResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"producto_id"`
	TiendaID      *string `json:"tienda_id,omitempty"`
	Ubicacion     string  `json:"ubicacion"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo"`
	CreatedAt     string  `json:"created_at"`
}
