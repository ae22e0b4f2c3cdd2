package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a customer of the tienda principal. A micro-tienda buying stock
// through a traslado is represented as a cliente too (TiendaID set), so the
// auto-generated internal invoice lands on a real client account.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Documento *string   `gorm:"uniqueIndex"`
	Telefono  *string
	Email     *string
	Direccion *string
	// TiendaID links the cliente that represents a micro-tienda on the main
	// store's books. Nil for regular customers.
	TiendaID  *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Activo    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
