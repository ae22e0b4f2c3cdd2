package handler

import (
	"net/http"

	"github.com/programamos-tech/zonat-sub000/internal/apierror"
	"github.com/programamos-tech/zonat-sub000/internal/dto"
	"github.com/programamos-tech/zonat-sub000/internal/middleware"
	"github.com/programamos-tech/zonat-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CreditosHandler struct{ svc service.CreditoService }

func NewCreditosHandler(svc service.CreditoService) *CreditosHandler {
	return &CreditosHandler{svc: svc}
}

// RegistrarAbono godoc
// @Summary      Registrar abono a un credito
// @Description  Aplica un abono al saldo pendiente. Un abono mayor al saldo se rechaza con 409, nunca se trunca.
// @Tags         creditos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "UUID del credito"
// @Param        body body dto.RegistrarAbonoRequest true "Monto y metodo"
// @Success      200  {object} dto.CreditoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/creditos/{id}/abonos [post]
func (h *CreditosHandler) RegistrarAbono(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.RegistrarAbonoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarAbono(c.Request.Context(), middleware.StoreContext(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CreditosHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Credito no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorVenta resolves the credit attached to a sale. The :id segment is
// the venta id, not the credito id.
func (h *CreditosHandler) ObtenerPorVenta(c *gin.Context) {
	ventaID, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorVenta(c.Request.Context(), ventaID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Credito no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CreditosHandler) Listar(c *gin.Context) {
	var filter dto.CreditoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar creditos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
