package handler

import (
	"net/http"

	"github.com/programamos-tech/zonat-sub000/internal/apierror"
	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Cliente no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar matches by name fragment or exact document number.
func (h *ClientesHandler) Listar(c *gin.Context) {
	buscar := c.Query("buscar")
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)

	clientes, total, err := h.svc.Listar(c.Request.Context(), buscar, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar clientes"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"clientes": clientes,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Desactivar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
