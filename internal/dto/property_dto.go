package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreatePropertyRequest struct {
	Name         *string          `json:"name"`
	LeadID       string           `json:"leadId"       validate:"required,uuid"`
	CropType     string           `json:"cropType"     validate:"required,oneof=soja milho algodao outros"`
	AreaHectares decimal.Decimal  `json:"areaHectares" validate:"required,gt=0"`
	City         string           `json:"city"         validate:"required"`
	Latitude     *decimal.Decimal `json:"latitude"     validate:"omitempty,min=-90,max=90"`
	Longitude    *decimal.Decimal `json:"longitude"    validate:"omitempty,min=-180,max=180"`
	Geometry     json.RawMessage  `json:"geometry"`
	Notes        *string          `json:"notes"`
}

type UpdatePropertyRequest struct {
	Name         *string          `json:"name"`
	LeadID       *string          `json:"leadId"       validate:"omitempty,uuid"`
	CropType     *string          `json:"cropType"     validate:"omitempty,oneof=soja milho algodao outros"`
	AreaHectares *decimal.Decimal `json:"areaHectares" validate:"omitempty,gt=0"`
	City         *string          `json:"city"`
	Latitude     *decimal.Decimal `json:"latitude"     validate:"omitempty,min=-90,max=90"`
	Longitude    *decimal.Decimal `json:"longitude"    validate:"omitempty,min=-180,max=180"`
	Geometry     json.RawMessage  `json:"geometry"`
	Notes        *string          `json:"notes"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// PropertyFilter binds the query string of GET /properties. Unlike LeadFilter,
// the area bounds here match each property's own area.
type PropertyFilter struct {
	LeadID     string   `form:"leadId"   validate:"omitempty,uuid"`
	SearchTerm string   `form:"searchTerm"`
	CropType   []string `form:"cropType" validate:"dive,oneof=soja milho algodao outros"`
	City       []string `form:"city"`
	AreaMin    *float64 `form:"areaMin"`
	AreaMax    *float64 `form:"areaMax"`
	SortField  string   `form:"sortField,default=createdAt" validate:"omitempty,oneof=name city cropType areaHectares createdAt updatedAt"`
	SortOrder  string   `form:"sortOrder,default=desc"      validate:"omitempty,oneof=asc desc"`
	Page       int      `form:"page,default=0"              validate:"min=0"`
	PageSize   int      `form:"pageSize,default=10"         validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// LeadRef is the owning-lead summary embedded in property responses.
type LeadRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	CPF    string `json:"cpf"`
	City   string `json:"city"`
	Status string `json:"status"`
}

type PropertyResponse struct {
	ID           string           `json:"id"`
	Name         *string          `json:"name"`
	LeadID       string           `json:"leadId"`
	Lead         *LeadRef         `json:"lead,omitempty"`
	CropType     string           `json:"cropType"`
	AreaHectares decimal.Decimal  `json:"areaHectares"`
	City         string           `json:"city"`
	Latitude     *decimal.Decimal `json:"latitude"`
	Longitude    *decimal.Decimal `json:"longitude"`
	Geometry     json.RawMessage  `json:"geometry,omitempty"`
	Notes        *string          `json:"notes"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type PropertyListResponse struct {
	Data       []PropertyResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}
