package handler

import (
	"net/http"

	"github.com/programamos-tech/zonat-sub000/internal/apierror"
	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/middleware"
	"github.com/programamos-tech/zonat-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Crear godoc
// @Summary      Registrar una venta
// @Description  Crea una venta ACID: descuenta stock local primero y derrama a bodega, asigna numero de factura y abre credito si aplica. Con estado=borrador no toca stock.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) Crear(c *gin.Context) {
	var req dto.CrearVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearVenta(c.Request.Context(), middleware.StoreContext(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Completar godoc
// @Summary      Completar una venta en borrador
// @Description  Descuenta stock y asigna numero de factura. Solo valida desde el estado borrador.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/ventas/{id}/completar [post]
func (h *VentasHandler) Completar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.CompletarVenta(c.Request.Context(), middleware.StoreContext(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary      Anular venta
// @Description  Anula la venta y devuelve cada unidad al mostrador de su tienda. La respuesta detalla el resultado por producto.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID de la venta"
// @Param        body body dto.AnularVentaRequest true "Motivo de anulacion"
// @Success      200  {object} dto.AnulacionVentaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) Anular(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.AnularVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AnularVenta(c.Request.Context(), middleware.StoreContext(c), id, req.Motivo)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Venta no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar ventas
// @Description  Lista paginada filtrada por fecha y estado. Usuarios de micro-tienda solo ven sus propias ventas.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        fecha  query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        estado query string false "completada | anulada | borrador | all"
// @Param        page   query int    false "Pagina (default 1)"
// @Param        limit  query int    false "Registros por pagina (default 50)"
// @Success      200    {object} dto.VentaListResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListVentas(c.Request.Context(), middleware.StoreContext(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ventas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
