package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is the main-store catalog entry. It owns the two stock counters of
// the tienda principal: bodega (back room) and local (front counter); the
// sellable total is always bodega + local. Micro-tienda quantities live in
// TiendaStock, never here.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Referencia  string    `gorm:"uniqueIndex;not null"`
	Nombre      string    `gorm:"index;not null"`
	Marca       string
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioCosto decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockBodega int             `gorm:"not null;default:0"`
	StockLocal  int             `gorm:"not null;default:0"`
	StockMinimo int             `gorm:"not null;default:0"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StockTotal is the sellable quantity at the tienda principal.
func (p *Producto) StockTotal() int { return p.StockBodega + p.StockLocal }
