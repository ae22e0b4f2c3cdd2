package handler

import (
	"net/http"

	"github.com/programamos-tech/zonat-sub000/internal/apierror"
	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type BitacoraHandler struct{ svc service.BitacoraService }

func NewBitacoraHandler(svc service.BitacoraService) *BitacoraHandler {
	return &BitacoraHandler{svc: svc}
}

// Listar returns the audit trail filtered by user and module.
func (h *BitacoraHandler) Listar(c *gin.Context) {
	var filter dto.BitacoraFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	entradas, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar bitacora"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entradas": entradas,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}
