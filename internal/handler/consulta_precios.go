package handler

import (
	"net/http"

	"github.com/programamos-tech/zonat-sub000/internal/apierror"
	"github.com/programamos-tech/zonat-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// ConsultaPreciosHandler serves the public price check endpoint.
// No authentication required, no side effects whatsoever.
type ConsultaPreciosHandler struct{ svc service.ProductoService }

func NewConsultaPreciosHandler(svc service.ProductoService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

// GetPrecio godoc
// @Summary Consulta de precio por referencia (sin autenticacion)
// @Tags precio
// @Produce json
// @Param referencia path string true "Referencia del producto"
// @Success 200 {object} dto.PrecioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{referencia} [get]
func (h *ConsultaPreciosHandler) GetPrecio(c *gin.Context) {
	referencia := c.Param("referencia")
	resp, err := h.svc.ConsultarPrecio(c.Request.Context(), referencia)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
