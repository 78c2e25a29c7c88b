package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateLeadRequest struct {
	Name             string   `json:"name"             validate:"required,min=3,max=100"`
	CPF              string   `json:"cpf"              validate:"required,cpf"`
	Email            *string  `json:"email"            validate:"omitempty,email"`
	Phone            *string  `json:"phone"`
	City             string   `json:"city"             validate:"required"`
	Status           *string  `json:"status"           validate:"omitempty,oneof=new initial_contact in_negotiation converted lost"`
	FirstContactDate *string  `json:"firstContactDate" validate:"omitempty,datetime=2006-01-02"`
	Comments         *string  `json:"comments"`
	Tags             []string `json:"tags"`
}

// UpdateLeadRequest carries merge semantics: only non-nil fields overwrite.
type UpdateLeadRequest struct {
	Name             *string  `json:"name"             validate:"omitempty,min=3,max=100"`
	CPF              *string  `json:"cpf"              validate:"omitempty,cpf"`
	Email            *string  `json:"email"            validate:"omitempty,email"`
	Phone            *string  `json:"phone"`
	City             *string  `json:"city"`
	Status           *string  `json:"status"           validate:"omitempty,oneof=new initial_contact in_negotiation converted lost"`
	FirstContactDate *string  `json:"firstContactDate" validate:"omitempty,datetime=2006-01-02"`
	Comments         *string  `json:"comments"`
	Tags             []string `json:"tags"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// LeadFilter binds the query string of GET /leads. Status and City accept
// repeated query parameters (?status=new&status=lost). Area bounds apply to
// the summed area of each lead's live properties, not to any single row.
type LeadFilter struct {
	SearchTerm string   `form:"searchTerm"`
	Status     []string `form:"status"   validate:"dive,oneof=new initial_contact in_negotiation converted lost"`
	City       []string `form:"city"`
	CropType   string   `form:"cropType" validate:"omitempty,oneof=soja milho algodao outros"`
	AreaMin    *float64 `form:"areaMin"`
	AreaMax    *float64 `form:"areaMax"`
	SortField  string   `form:"sortField,default=createdAt" validate:"omitempty,oneof=name status city createdAt updatedAt totalAreaHectares"`
	SortOrder  string   `form:"sortOrder,default=desc"      validate:"omitempty,oneof=asc desc"`
	Page       int      `form:"page,default=0"              validate:"min=0"`
	PageSize   int      `form:"pageSize,default=10"         validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LeadResponse struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	CPF               string             `json:"cpf"`
	Email             *string            `json:"email"`
	Phone             *string            `json:"phone"`
	City              string             `json:"city"`
	Status            string             `json:"status"`
	FirstContactDate  *string            `json:"firstContactDate"`
	LastInteraction   *time.Time         `json:"lastInteraction"`
	Comments          *string            `json:"comments"`
	Tags              []string           `json:"tags"`
	TotalAreaHectares decimal.Decimal    `json:"totalAreaHectares"`
	Properties        []PropertyResponse `json:"properties,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

type LeadListResponse struct {
	Data       []LeadResponse `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type LeadStatsResponse struct {
	Total    int64         `json:"total"`
	ByStatus []StatusCount `json:"byStatus"`
	ByCity   []CityCount   `json:"byCity"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// DeleteResponse is the body of every successful DELETE.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
