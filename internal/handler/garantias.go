package handler

import (
	"net/http"

	"github.com/programamos-tech/zonat-sub000/internal/apierror"
	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/middleware"
	"github.com/programamos-tech/zonat-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type GarantiasHandler struct{ svc service.GarantiaService }

func NewGarantiasHandler(svc service.GarantiaService) *GarantiasHandler {
	return &GarantiasHandler{svc: svc}
}

func (h *GarantiasHandler) Crear(c *gin.Context) {
	var req dto.CrearGarantiaRequest
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

// Atender godoc
// @Summary      Atender garantia entregando reposicion
// @Description  Descuenta las unidades de reposicion del inventario de la tienda que registro el reclamo.
// @Tags         garantias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                      true "UUID de la garantia"
// @Param        body body dto.ResolverGarantiaRequest true "Resolucion"
// @Success      200  {object} dto.GarantiaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/garantias/{id}/atender [post]
func (h *GarantiasHandler) Atender(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ResolverGarantiaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atender(c.Request.Context(), middleware.StoreContext(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GarantiasHandler) Rechazar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ResolverGarantiaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Rechazar(c.Request.Context(), middleware.StoreContext(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GarantiasHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Garantia no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GarantiasHandler) Listar(c *gin.Context) {
	estado := c.Query("estado")
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)

	garantias, total, err := h.svc.List(c.Request.Context(), estado, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar garantias"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"garantias": garantias,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}
