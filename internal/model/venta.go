package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de venta.
const (
	VentaBorrador   = "borrador"
	VentaCompletada = "completada"
	VentaAnulada    = "anulada"
)

// Metodos de pago.
const (
	PagoEfectivo      = "efectivo"
	PagoTransferencia = "transferencia"
	PagoMixto         = "mixto"
	PagoCredito       = "credito"
)

// Venta is a sale scoped to one tienda. Stock is deducted only on the
// borrador → completada transition; anulando a completed sale returns stock
// and reverses its payments/credit.
type Venta struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroFactura int       `gorm:"not null;index:idx_ventas_tienda_factura"`
	TiendaID      uuid.UUID `gorm:"type:uuid;not null;index:idx_ventas_tienda_factura"`
	ClienteID     *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID     uuid.UUID  `gorm:"type:uuid;not null"`
	// TrasladoID links a venta auto-generated by a traslado to its transfer,
	// so reconciliation is a plain FK lookup.
	TrasladoID     *uuid.UUID      `gorm:"type:uuid;index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago     string          `gorm:"type:varchar(20);not null"`
	Estado         string          `gorm:"type:varchar(20);not null;default:'borrador'"`
	Notas          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
	Items   []VentaItem `gorm:"foreignKey:VentaID"`
	Pagos   []VentaPago `gorm:"foreignKey:VentaID"`
}

// VentaItem is one product line. Nombre/Referencia are denormalized snapshots
// so the line survives catalog edits.
type VentaItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID `gorm:"type:uuid;not null"`
	Nombre         string    `gorm:"not null"`
	Referencia     string
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// VentaPago records one tender of a mixed payment (or the single tender of a
// simple one). Metodo here is efectivo|transferencia only; credito sales
// have no pagos until abonos arrive.
type VentaPago struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Metodo    string          `gorm:"type:varchar(20);not null"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}
