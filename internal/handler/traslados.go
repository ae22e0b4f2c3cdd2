package handler

import (
	"net/http"

	"github.com/programamos-tech/zonat-sub000/internal/apierror"
	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/middleware"
	"github.com/programamos-tech/zonat-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type TrasladosHandler struct{ svc service.TrasladoService }

func NewTrasladosHandler(svc service.TrasladoService) *TrasladosHandler {
	return &TrasladosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear traslado entre tiendas
// @Description  Descuenta el stock del origen linea por linea registrando el reparto exacto bodega/local. Un traslado de la principal hacia una micro-tienda genera ademas la factura interna.
// @Tags         traslados
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearTrasladoRequest true "Detalle del traslado"
// @Success      201  {object} dto.TrasladoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/traslados [post]
func (h *TrasladosHandler) Crear(c *gin.Context) {
	var req dto.CrearTrasladoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.StoreContext(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Despachar godoc
// @Summary      Despachar traslado
// @Description  Marca un traslado pendiente como en transito. Solo el personal de la tienda origen puede despacharlo.
// @Tags         traslados
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del traslado"
// @Success      200  {object} dto.TrasladoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/traslados/{id}/despachar [post]
func (h *TrasladosHandler) Despachar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Despachar(c.Request.Context(), middleware.StoreContext(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recibir godoc
// @Summary      Confirmar recepcion de un traslado
// @Description  Acredita las unidades recibidas en el destino. Las lineas omitidas cuentan como recibidas completas; los faltantes regresan al origen, bodega primero.
// @Tags         traslados
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "UUID del traslado"
// @Param        body body dto.RecibirTrasladoRequest true "Cantidades recibidas"
// @Success      200  {object} dto.TrasladoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/traslados/{id}/recibir [post]
func (h *TrasladosHandler) Recibir(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.RecibirTrasladoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Recibir(c.Request.Context(), middleware.StoreContext(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary      Anular traslado
// @Description  Restaura el reparto exacto que salio de cada ubicacion del origen y anula la factura interna si existia.
// @Tags         traslados
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID del traslado"
// @Param        body body dto.AnularTrasladoRequest true "Motivo"
// @Success      200  {object} dto.AnulacionTrasladoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/traslados/{id} [delete]
func (h *TrasladosHandler) Anular(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.AnularTrasladoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Anular(c.Request.Context(), middleware.StoreContext(c), id, req.Motivo)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TrasladosHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Traslado no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TrasladosHandler) Listar(c *gin.Context) {
	var filter dto.TrasladoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar traslados"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
