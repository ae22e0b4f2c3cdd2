package model

import (
	"time"

	"github.com/google/uuid"
)

// Bitacora is the append-only activity log. Entries carry a structured JSON
// detalle (product, quantities, before/after) sufficient to reconstruct the
// change for audit. Writes are fire-and-forget through the job queue.
type Bitacora struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null;index"`
	Modulo    string    `gorm:"type:varchar(40);not null;index"`
	Accion    string    `gorm:"type:varchar(40);not null"`
	Detalles  string    `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt time.Time
}

// TableName keeps the singular table name the rest of the system expects.
func (Bitacora) TableName() string { return "bitacora" }
