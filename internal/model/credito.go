package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de credito.
const (
	CreditoPendiente  = "pendiente"
	CreditoParcial    = "parcial"
	CreditoCompletado = "completado"
	CreditoAnulado    = "anulado"
)

// Credito tracks an installment balance derived from a venta whose metodo_pago
// is "credito". MontoPendiente = MontoTotal - MontoPagado at all times;
// abonos move it toward completado, anulando the venta writes it down.
type Credito struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	ClienteID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	TiendaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoPagado    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoPendiente decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado         string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
	Abonos  []Abono  `gorm:"foreignKey:CreditoID"`
}

// Abono is one installment payment against a credito. Immutable; reversals
// create compensating records, never edits.
type Abono struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreditoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null"`
	Metodo    string          `gorm:"type:varchar(20);not null"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notas     *string
	Anulado   bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}
