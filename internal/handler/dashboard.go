package handler

import (
	"net/http"

	"agrocrm/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Metrics(c *gin.Context) {
	resp, err := h.svc.Metrics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) LeadsByStatus(c *gin.Context) {
	resp, err := h.svc.LeadsByStatus(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) LeadsByCity(c *gin.Context) {
	resp, err := h.svc.LeadsByCity(c.Request.Context(), intQuery(c, "limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) AreaByCropType(c *gin.Context) {
	resp, err := h.svc.AreaByCropType(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
