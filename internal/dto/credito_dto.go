package dto

import "github.com/shopspring/decimal"

type RegistrarAbonoRequest struct {
	Monto  decimal.Decimal `json:"monto"  validate:"required"`
	Metodo string          `json:"metodo" validate:"required,oneof=efectivo transferencia"`
	Notas  *string         `json:"notas"`
}

// CreditoFilter is bound from the query string of GET /v1/creditos.
type CreditoFilter struct {
	ClienteID string `form:"cliente_id"`
	Estado    string `form:"estado"` // pendiente | parcial | completado | anulado | all
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type AbonoResponse struct {
	ID        string          `json:"id"`
	Monto     decimal.Decimal `json:"monto"`
	Metodo    string          `json:"metodo"`
	Notas     *string         `json:"notas,omitempty"`
	Anulado   bool            `json:"anulado"`
	CreatedAt string          `json:"created_at"`
}

type CreditoResponse struct {
	ID             string          `json:"id"`
	VentaID        string          `json:"venta_id"`
	ClienteID      string          `json:"cliente_id"`
	MontoTotal     decimal.Decimal `json:"monto_total"`
	MontoPagado    decimal.Decimal `json:"monto_pagado"`
	MontoPendiente decimal.Decimal `json:"monto_pendiente"`
	Estado         string          `json:"estado"`
	Abonos         []AbonoResponse `json:"abonos"`
	CreatedAt      string          `json:"created_at"`
}

type CreditoListResponse struct {
	Data  []CreditoResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
