package dto

import "github.com/shopspring/decimal"

type CrearTiendaRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
}

type TiendaResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Tipo      string  `json:"tipo"`
	Direccion *string `json:"direccion,omitempty"`
	Telefono  *string `json:"telefono,omitempty"`
	Activa    bool    `json:"activa"`
	CreatedAt string  `json:"created_at"`
}

// ActualizarPrecioTiendaRequest re-prices a product at one micro-tienda
// without touching the main catalog.
type ActualizarPrecioTiendaRequest struct {
	ProductoID string           `json:"producto_id" validate:"required,uuid"`
	Costo      *decimal.Decimal `json:"costo"`
	Precio     *decimal.Decimal `json:"precio"`
}

type TiendaStockResponse struct {
	ProductoID string           `json:"producto_id"`
	Nombre     string           `json:"nombre"`
	Referencia string           `json:"referencia"`
	Cantidad   int              `json:"cantidad"`
	Costo      *decimal.Decimal `json:"costo,omitempty"`
	Precio     *decimal.Decimal `json:"precio,omitempty"`
}

type TiendaStockListResponse struct {
	Data  []TiendaStockResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
