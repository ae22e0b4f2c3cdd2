package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   int             `json:"cantidad"    validate:"required,min=1"`
	Descuento  decimal.Decimal `json:"descuento"   validate:"min=0"`
}

type PagoRequest struct {
	Metodo string          `json:"metodo" validate:"required,oneof=efectivo transferencia"`
	Monto  decimal.Decimal `json:"monto"  validate:"required"`
}

type CrearVentaRequest struct {
	ClienteID  *string            `json:"cliente_id"  validate:"omitempty,uuid"`
	Items      []ItemVentaRequest `json:"items"       validate:"required,min=1,dive"`
	MetodoPago string             `json:"metodo_pago" validate:"required,oneof=efectivo transferencia mixto credito"`
	// Pagos is required for efectivo/transferencia/mixto; empty for credito.
	Pagos []PagoRequest `json:"pagos" validate:"dive"`
	// Borrador defers stock deduction until the venta is completed.
	Borrador bool    `json:"borrador"`
	Notas    *string `json:"notas"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha  string `form:"fecha"`  // YYYY-MM-DD; empty = today
	Estado string `form:"estado"` // borrador | completada | anulada | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Referencia     string          `json:"referencia"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID             string              `json:"id"`
	NumeroFactura  int                 `json:"numero_factura"`
	TiendaID       string              `json:"tienda_id"`
	ClienteID      *string             `json:"cliente_id,omitempty"`
	TrasladoID     *string             `json:"traslado_id,omitempty"`
	Items          []ItemVentaResponse `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DescuentoTotal decimal.Decimal     `json:"descuento_total"`
	Total          decimal.Decimal     `json:"total"`
	MetodoPago     string              `json:"metodo_pago"`
	Pagos          []PagoRequest       `json:"pagos"`
	Estado         string              `json:"estado"`
	CreatedAt      string              `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// AnulacionVentaResponse summarizes what the cancellation managed to reverse.
// DevolucionStock carries the per-item outcome of the batch stock return;
// the cancellation proceeds even when individual lines fail.
type AnulacionVentaResponse struct {
	VentaID         string          `json:"venta_id"`
	TotalRevertido  decimal.Decimal `json:"total_revertido"`
	DevolucionStock *ResultadoLote  `json:"devolucion_stock"`
}
