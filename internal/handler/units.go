package handler

import (
	"net/http"

	"stocktrack/internal/service"

	"github.com/gin-gonic/gin"
)

type UnitsHandler struct{ svc service.UnitService }

func NewUnitsHandler(svc service.UnitService) *UnitsHandler {
	return &UnitsHandler{svc: svc}
}

func (h *UnitsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
