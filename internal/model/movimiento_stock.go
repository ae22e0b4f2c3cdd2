package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de movimiento de stock.
const (
	MovimientoVenta           = "venta"
	MovimientoAnulacion       = "anulacion"
	MovimientoAjuste          = "ajuste"
	MovimientoTrasladoSalida  = "traslado_salida"
	MovimientoTrasladoEntrada = "traslado_entrada"
	MovimientoTrasladoReversa = "traslado_reversa"
	MovimientoGarantia        = "garantia"
)

// MovimientoStock registra cada cambio de stock por producto y ubicacion.
// It is written in the same transaction as the stock mutation it documents,
// so the ledger and its paper trail cannot drift apart.
type MovimientoStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	// TiendaID is nil for movements on the tienda principal's counters.
	TiendaID      *uuid.UUID `gorm:"type:uuid;index"`
	Ubicacion     Ubicacion  `gorm:"type:varchar(10);not null"`
	Tipo          string     `gorm:"not null"`
	Cantidad      int        `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int        `gorm:"not null"`
	StockNuevo    int        `gorm:"not null"`
	Motivo        string
	// ReferenciaID links to the originating venta, traslado, or garantia.
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (MovimientoStock) TableName() string { return "movimientos_stock" }
