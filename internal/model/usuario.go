package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles de usuario.
const (
	RolAdmin      = "admin"
	RolSupervisor = "supervisor"
	RolVendedor   = "vendedor"
)

// Usuario stores system users with role-based access.
// TiendaID is the assigned store; nil means the tienda principal.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string     `gorm:"not null"`
	Rol          string     `gorm:"type:varchar(20);not null"`
	TiendaID     *uuid.UUID `gorm:"type:uuid;index"`
	Activo       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
