package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"agrocrm/internal/apierror"
	"agrocrm/internal/dto"
	"agrocrm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LeadsHandler struct{ svc service.LeadService }

func NewLeadsHandler(svc service.LeadService) *LeadsHandler {
	return &LeadsHandler{svc: svc}
}

func (h *LeadsHandler) List(c *gin.Context) {
	var filter dto.LeadFilter
	if !bindQueryFilter(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LeadsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LeadsHandler) Create(c *gin.Context) {
	var req dto.CreateLeadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LeadsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateLeadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LeadsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LeadsHandler) Stats(c *gin.Context) {
	resp, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LeadsHandler) StatsTotal(c *gin.Context) {
	total, err := h.svc.TotalCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

func (h *LeadsHandler) StatsByStatus(c *gin.Context) {
	resp, err := h.svc.StatsByStatus(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LeadsHandler) StatsByCity(c *gin.Context) {
	resp, err := h.svc.StatsByCity(c.Request.Context(), intQuery(c, "limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LeadsHandler) Priority(c *gin.Context) {
	resp, err := h.svc.Priority(c.Request.Context(), intQuery(c, "limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LeadsHandler) Recent(c *gin.Context) {
	resp, err := h.svc.Recent(c.Request.Context(), intQuery(c, "days", 7))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LeadsHandler) WithoutContact(c *gin.Context) {
	resp, err := h.svc.WithoutContact(c.Request.Context(), intQuery(c, "days", 30))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LeadsHandler) Export(c *gin.Context) {
	data, contentType, filename, err := h.svc.Export(c.Request.Context(), c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}

// intQuery parses an optional positive integer query parameter.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
