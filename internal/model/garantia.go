package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados de garantia.
const (
	GarantiaAbierta   = "abierta"
	GarantiaAtendida  = "atendida"
	GarantiaRechazada = "rechazada"
)

// Garantia is a warranty claim. Atendiendo one deducts the replacement units
// from the acting store's ledger through the same guarded path as a sale.
type Garantia struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID    *uuid.UUID `gorm:"type:uuid;index"`
	ProductoID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClienteID  *uuid.UUID `gorm:"type:uuid"`
	// TiendaID is nil when the claim belongs to the tienda principal.
	TiendaID    *uuid.UUID `gorm:"type:uuid;index"`
	Cantidad    int        `gorm:"not null"`
	Motivo      string     `gorm:"not null"`
	Estado      string     `gorm:"type:varchar(20);not null;default:'abierta'"`
	AtendidaPor *uuid.UUID `gorm:"type:uuid"`
	Resolucion  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
