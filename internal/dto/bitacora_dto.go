package dto

// BitacoraFilter is bound from the query string of GET /v1/bitacora.
type BitacoraFilter struct {
	UsuarioID string `form:"usuario_id"`
	Modulo    string `form:"modulo"`
	Page      int    `form:"page,default=1"    validate:"min=1"`
	Limit     int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type BitacoraResponse struct {
	ID        string `json:"id"`
	UsuarioID string `json:"usuario_id"`
	Modulo    string `json:"modulo"`
	Accion    string `json:"accion"`
	Detalles  string `json:"detalles"`
	CreatedAt string `json:"created_at"`
}
