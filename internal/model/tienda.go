package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de tienda.
const (
	TiendaPrincipal = "principal"
	TiendaMicro     = "micro"
)

// Tienda is a physical location: the single tienda principal (warehouse +
// front counter) or one of the satellite micro-tiendas it supplies.
type Tienda struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Tipo      string    `gorm:"type:varchar(20);not null;default:'micro'"`
	Direccion *string
	Telefono  *string
	// ConsecutivoFactura is the per-store invoice sequence; incremented
	// atomically when a venta is completed.
	ConsecutivoFactura int  `gorm:"not null;default:0"`
	Activa             bool `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TiendaStock is a product's quantity at a specific micro-tienda (one row per
// tienda×producto). Rows are created lazily on the first adjustment or
// receipt; a missing row means zero stock, not an error. Costo/Precio are
// captured at receipt time so a micro-tienda can re-price independently of
// the main catalog.
type TiendaStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TiendaID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tienda_producto"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tienda_producto"`
	Cantidad   int       `gorm:"not null;default:0"`
	Costo      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Precio     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Tienda   *Tienda   `gorm:"foreignKey:TiendaID"`
	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
