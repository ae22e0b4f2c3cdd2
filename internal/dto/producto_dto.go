package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Referencia  string          `json:"referencia"   validate:"required,min=2"`
	Nombre      string          `json:"nombre"       validate:"required,min=2"`
	Marca       string          `json:"marca"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"required"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"required"`
	StockBodega int             `json:"stock_bodega" validate:"min=0"`
	StockLocal  int             `json:"stock_local"  validate:"min=0"`
	StockMinimo int             `json:"stock_minimo" validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Nombre      string           `json:"nombre"`
	Marca       *string          `json:"marca"`
	PrecioVenta *decimal.Decimal `json:"precio_venta"`
	PrecioCosto *decimal.Decimal `json:"precio_costo"`
	StockMinimo *int             `json:"stock_minimo"`
}

// ProductoFilter is bound from the query string of GET /v1/productos.
type ProductoFilter struct {
	Referencia string `form:"referencia"`
	Nombre     string `form:"nombre"`
	Marca      string `form:"marca"`
	Activo     string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductoResponse struct {
	ID          string          `json:"id"`
	Referencia  string          `json:"referencia"`
	Nombre      string          `json:"nombre"`
	Marca       string          `json:"marca"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
	StockBodega int             `json:"stock_bodega"`
	StockLocal  int             `json:"stock_local"`
	StockTotal  int             `json:"stock_total"`
	StockMinimo int             `json:"stock_minimo"`
	Activo      bool            `json:"activo"`
	CreatedAt   string          `json:"created_at"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// PrecioResponse is the cached payload of the public price-check endpoint.
type PrecioResponse struct {
	Referencia  string          `json:"referencia"`
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
}
