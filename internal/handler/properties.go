package handler

import (
	"net/http"

	"agrocrm/internal/apierror"
	"agrocrm/internal/dto"
	"agrocrm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PropertiesHandler struct{ svc service.PropertyService }

func NewPropertiesHandler(svc service.PropertyService) *PropertiesHandler {
	return &PropertiesHandler{svc: svc}
}

func (h *PropertiesHandler) List(c *gin.Context) {
	var filter dto.PropertyFilter
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

func (h *PropertiesHandler) GetByID(c *gin.Context) {
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

func (h *PropertiesHandler) GetByLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid lead ID"))
		return
	}
	resp, err := h.svc.GetByLeadID(c.Request.Context(), leadID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PropertiesHandler) Create(c *gin.Context) {
	var req dto.CreatePropertyRequest
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

func (h *PropertiesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdatePropertyRequest
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

func (h *PropertiesHandler) Delete(c *gin.Context) {
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

func (h *PropertiesHandler) Large(c *gin.Context) {
	resp, err := h.svc.Large(c.Request.Context(), intQuery(c, "limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Map serves every locatable property for pin/polygon rendering, unpaginated.
func (h *PropertiesHandler) Map(c *gin.Context) {
	var filter dto.PropertyFilter
	if !bindQueryFilter(c, &filter) {
		return
	}
	resp, err := h.svc.Map(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
