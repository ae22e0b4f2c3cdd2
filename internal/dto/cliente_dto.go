package dto

type CrearClienteRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2"`
	Documento *string `json:"documento"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
}

type ClienteResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Documento *string `json:"documento,omitempty"`
	Telefono  *string `json:"telefono,omitempty"`
	Email     *string `json:"email,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
	TiendaID  *string `json:"tienda_id,omitempty"`
	Activo    bool    `json:"activo"`
	CreatedAt string  `json:"created_at"`
}
