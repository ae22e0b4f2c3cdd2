package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de traslado. Terminal: recibido, recibido_parcial, anulado.
const (
	TrasladoPendiente       = "pendiente"
	TrasladoEnTransito      = "en_transito"
	TrasladoRecibido        = "recibido"
	TrasladoRecibidoParcial = "recibido_parcial"
	TrasladoAnulado         = "anulado"
)

// Traslado is a batch stock move between two tiendas. Creating one deducts
// every line from the origin in a single transaction; receiving credits the
// destination; anulando (only before receipt) returns exactly what was taken.
type Traslado struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrigenTiendaID  uuid.UUID `gorm:"type:uuid;not null;index"`
	DestinoTiendaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Estado          string    `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	Descripcion     *string
	Notas           *string
	CreadoPor       uuid.UUID `gorm:"type:uuid;not null"`
	RecibidoPor     *uuid.UUID `gorm:"type:uuid"`
	RecibidoAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Origen  *Tienda        `gorm:"foreignKey:OrigenTiendaID"`
	Destino *Tienda        `gorm:"foreignKey:DestinoTiendaID"`
	Items   []TrasladoItem `gorm:"foreignKey:TrasladoID"`
}

// EsAnulable reports whether the transfer can still be cancelled.
func (t *Traslado) EsAnulable() bool {
	return t.Estado == TrasladoPendiente || t.Estado == TrasladoEnTransito
}

// EsRecibible reports whether the transfer can still be received.
func (t *Traslado) EsRecibible() bool {
	return t.Estado == TrasladoPendiente || t.Estado == TrasladoEnTransito
}

// TrasladoItem is one product line of a traslado. Nombre/Referencia are
// snapshots taken at creation. DeBodega/DeLocal record the exact split the
// deduction took from the origin's two counters, so cancellation can return
// quantities to the location they actually came from (unlike sale returns,
// which always credit local).
type TrasladoItem struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TrasladoID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID       uuid.UUID `gorm:"type:uuid;not null"`
	Nombre           string    `gorm:"not null"`
	Referencia       string
	Cantidad         int  `gorm:"not null"`
	CantidadRecibida *int // nil until receipt; 0 is a valid "none arrived"
	// Origen is the counter the line draws from when the origin is the
	// tienda principal; micro origins always draw from their single counter.
	Origen         Ubicacion       `gorm:"type:varchar(10);not null;default:'bodega'"`
	DeBodega       int             `gorm:"not null;default:0"`
	DeLocal        int             `gorm:"not null;default:0"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notas          *string
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
