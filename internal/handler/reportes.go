package handler

import (
	"net/http"

	"github.com/programamos-tech/zonat-sub000/internal/apierror"
	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Rentabilidad godoc
// @Summary      Reporte de rentabilidad por producto
// @Description  Agrega unidades, ingresos y utilidad sobre las ventas completadas del rango. Sin rango reporta los ultimos 30 dias.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string false "YYYY-MM-DD inclusive"
// @Param        hasta query string false "YYYY-MM-DD inclusive"
// @Success      200   {object} dto.ReporteRentabilidadResponse
// @Failure      400   {object} apierror.APIError
// @Router       /v1/reportes/rentabilidad [get]
func (h *ReportesHandler) Rentabilidad(c *gin.Context) {
	var filter dto.ReporteRentabilidadFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Rentabilidad(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
