package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type ItemTrasladoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
	// Origen selects the counter at the tienda principal; ignored for a
	// micro origin. Defaults to bodega.
	Origen string `json:"origen" validate:"omitempty,oneof=bodega local"`
	// PrecioUnitario overrides the catalog price when valuing the internal
	// invoice; zero means "use the catalog price".
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	Notas          *string         `json:"notas"`
}

// PagoTrasladoInfo describes how the receiving store "pays" the internal
// invoice that a main-store traslado generates.
type PagoTrasladoInfo struct {
	Metodo string `json:"metodo" validate:"required,oneof=efectivo transferencia mixto"`
	// MontoEfectivo/MontoTransferencia split the total when Metodo is mixto.
	MontoEfectivo      decimal.Decimal `json:"monto_efectivo"      validate:"min=0"`
	MontoTransferencia decimal.Decimal `json:"monto_transferencia" validate:"min=0"`
}

type CrearTrasladoRequest struct {
	DestinoTiendaID string                `json:"destino_tienda_id" validate:"required,uuid"`
	Items           []ItemTrasladoRequest `json:"items"             validate:"required,min=1,dive"`
	Descripcion     *string               `json:"descripcion"`
	Notas           *string               `json:"notas"`
	Pago            *PagoTrasladoInfo     `json:"pago"`
}

type ItemRecibidoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	// CantidadRecibida may be zero: a line can be explicitly received as
	// "none arrived" (damaged/short shipments).
	CantidadRecibida int `json:"cantidad_recibida" validate:"min=0"`
}

type RecibirTrasladoRequest struct {
	Items []ItemRecibidoRequest `json:"items" validate:"required,min=1,dive"`
}

type AnularTrasladoRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// TrasladoFilter is bound from the query string of GET /v1/traslados.
type TrasladoFilter struct {
	TiendaID string `form:"tienda_id"`
	Estado   string `form:"estado"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type ItemTrasladoResponse struct {
	ProductoID       string          `json:"producto_id"`
	Nombre           string          `json:"nombre"`
	Referencia       string          `json:"referencia"`
	Cantidad         int             `json:"cantidad"`
	CantidadRecibida *int            `json:"cantidad_recibida,omitempty"`
	Origen           string          `json:"origen"`
	DeBodega         int             `json:"de_bodega"`
	DeLocal          int             `json:"de_local"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario"`
}

type TrasladoResponse struct {
	ID              string                 `json:"id"`
	OrigenTiendaID  string                 `json:"origen_tienda_id"`
	DestinoTiendaID string                 `json:"destino_tienda_id"`
	Estado          string                 `json:"estado"`
	Descripcion     *string                `json:"descripcion,omitempty"`
	Notas           *string                `json:"notas,omitempty"`
	Items           []ItemTrasladoResponse `json:"items"`
	// FacturaVentaID is the auto-generated internal invoice, when one exists.
	FacturaVentaID *string `json:"factura_venta_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type TrasladoListResponse struct {
	Data  []TrasladoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type AnulacionTrasladoResponse struct {
	TrasladoID     string          `json:"traslado_id"`
	TotalReembolso decimal.Decimal `json:"total_reembolso"`
}
