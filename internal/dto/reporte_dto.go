package dto

import "github.com/shopspring/decimal"

// ReporteRentabilidadFilter bounds the profitability scan by date range.
type ReporteRentabilidadFilter struct {
	Desde string `form:"desde"` // YYYY-MM-DD inclusive
	Hasta string `form:"hasta"` // YYYY-MM-DD inclusive
}

// RentabilidadProducto aggregates sold quantity, revenue and cost per product
// over the requested window.
type RentabilidadProducto struct {
	ProductoID string          `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Referencia string          `json:"referencia"`
	Unidades   int             `json:"unidades"`
	Ingresos   decimal.Decimal `json:"ingresos"`
	Costos     decimal.Decimal `json:"costos"`
	Utilidad   decimal.Decimal `json:"utilidad"`
}

type ReporteRentabilidadResponse struct {
	Desde         string                 `json:"desde"`
	Hasta         string                 `json:"hasta"`
	VentasLeidas  int                    `json:"ventas_leidas"`
	TotalIngresos decimal.Decimal        `json:"total_ingresos"`
	TotalUtilidad decimal.Decimal        `json:"total_utilidad"`
	PorProducto   []RentabilidadProducto `json:"por_producto"`
}
