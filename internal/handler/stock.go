package handler

import (
	"net/http"

	"github.com/programamos-tech/zonat-sub000/internal/apierror"
	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/middleware"
	"github.com/programamos-tech/zonat-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// StockHandler exposes the ledger: availability, manual adjustments, moves
// between bodega and local, and the movement history.
type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// Disponible godoc
// @Summary      Stock disponible de un producto
// @Description  Para usuarios de la tienda principal reporta bodega y local por separado; para micro-tiendas el contador unico.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {object} dto.StockDisponible
// @Failure      404 {object} apierror.APIError
// @Router       /v1/stock/{id} [get]
func (h *StockHandler) Disponible(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.StockDisponible(c.Request.Context(), middleware.StoreContext(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ajustar godoc
// @Summary      Ajuste manual de inventario
// @Description  Fija la cantidad de una ubicacion a un valor absoluto y registra el movimiento con su motivo.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID del producto"
// @Param        body body dto.AjustarStockRequest true "Ajuste"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/stock/{id}/ajuste [post]
func (h *StockHandler) Ajustar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AjustarStock(c.Request.Context(), middleware.StoreContext(c), id, req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Mover godoc
// @Summary      Mover stock entre bodega y local
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string               true "UUID del producto"
// @Param        body body dto.MoverStockRequest true "Movimiento"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/stock/{id}/mover [post]
func (h *StockHandler) Mover(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.MoverStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.MoverEntreUbicaciones(c.Request.Context(), middleware.StoreContext(c), id, req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StockHandler) Movimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	movimientos, total, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"movimientos": movimientos,
		"total":       total,
		"page":        filter.Page,
		"limit":       filter.Limit,
	})
}
