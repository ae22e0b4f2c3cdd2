package dto

type CrearGarantiaRequest struct {
	VentaID    *string `json:"venta_id"    validate:"omitempty,uuid"`
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	ClienteID  *string `json:"cliente_id"  validate:"omitempty,uuid"`
	Cantidad   int     `json:"cantidad"    validate:"required,min=1"`
	Motivo     string  `json:"motivo"      validate:"required,min=5"`
}

type ResolverGarantiaRequest struct {
	Resolucion string `json:"resolucion" validate:"required,min=3"`
}

type GarantiaResponse struct {
	ID         string  `json:"id"`
	VentaID    *string `json:"venta_id,omitempty"`
	ProductoID string  `json:"producto_id"`
	Producto   string  `json:"producto"`
	Cantidad   int     `json:"cantidad"`
	Motivo     string  `json:"motivo"`
	Estado     string  `json:"estado"`
	Resolucion *string `json:"resolucion,omitempty"`
	CreatedAt  string  `json:"created_at"`
}
