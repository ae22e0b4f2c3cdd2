package handler

import (
	"net/http"

	"github.com/programamos-tech/zonat-sub000/internal/apierror"
	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/middleware"
	"github.com/programamos-tech/zonat-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type TiendasHandler struct{ svc service.TiendaService }

func NewTiendasHandler(svc service.TiendaService) *TiendasHandler {
	return &TiendasHandler{svc: svc}
}

func (h *TiendasHandler) Crear(c *gin.Context) {
	var req dto.CrearTiendaRequest
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

func (h *TiendasHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Tienda no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TiendasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar tiendas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TiendasHandler) Desactivar(c *gin.Context) {
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

// ListarStock godoc
// @Summary      Inventario de una micro-tienda
// @Tags         tiendas
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "UUID de la tienda"
// @Param        page  query int    false "Pagina (default 1)"
// @Param        limit query int    false "Registros por pagina (default 50)"
// @Success      200   {object} dto.TiendaStockListResponse
// @Router       /v1/tiendas/{id}/stock [get]
func (h *TiendasHandler) ListarStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)

	resp, err := h.svc.ListarStock(c.Request.Context(), id, page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarPrecio godoc
// @Summary      Reprecio local de un producto
// @Description  Una micro-tienda solo puede repreciar productos de su propio mostrador.
// @Tags         tiendas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                            true "UUID de la tienda"
// @Param        body body dto.ActualizarPrecioTiendaRequest true "Nuevo precio"
// @Success      204
// @Failure      403  {object} apierror.APIError
// @Router       /v1/tiendas/{id}/precios [put]
func (h *TiendasHandler) ActualizarPrecio(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ActualizarPrecioTiendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ActualizarPrecio(c.Request.Context(), middleware.StoreContext(c), id, req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
