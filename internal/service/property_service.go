package service

import (
	"context"
	"errors"
	"fmt"

	"agrocrm/internal/apierror"
	"agrocrm/internal/dto"
	"agrocrm/internal/model"
	"agrocrm/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PropertyService interface {
	Create(ctx context.Context, req dto.CreatePropertyRequest) (*dto.PropertyResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.PropertyResponse, error)
	GetByLeadID(ctx context.Context, leadID uuid.UUID) ([]dto.PropertyResponse, error)
	List(ctx context.Context, filter dto.PropertyFilter) (*dto.PropertyListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePropertyRequest) (*dto.PropertyResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteResponse, error)

	Large(ctx context.Context, limit int) ([]dto.PropertyResponse, error)
	Map(ctx context.Context, filter dto.PropertyFilter) ([]dto.PropertyResponse, error)
}

type propertyService struct {
	repo       repository.PropertyRepository
	leadRepo   repository.LeadRepository
	largeMinHa decimal.Decimal
}

func NewPropertyService(repo repository.PropertyRepository, leadRepo repository.LeadRepository, largeMinAreaHa int) PropertyService {
	return &propertyService{
		repo:       repo,
		leadRepo:   leadRepo,
		largeMinHa: decimal.NewFromInt(int64(largeMinAreaHa)),
	}
}

func (s *propertyService) Create(ctx context.Context, req dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		return nil, apierror.Validation("Invalid leadId")
	}

	// A missing lead is a client mistake on the request body, not a 404:
	// the property resource itself does not exist yet.
	if _, err := s.leadRepo.FindByID(ctx, leadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Validation(fmt.Sprintf("Lead with ID %s not found", leadID))
		}
		return nil, err
	}

	prop := &model.Property{
		Name:         req.Name,
		LeadID:       leadID,
		CropType:     model.CropType(req.CropType),
		AreaHectares: req.AreaHectares,
		City:         req.City,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Geometry:     datatypes.JSON(req.Geometry),
		Notes:        req.Notes,
	}

	if err := s.repo.Create(ctx, prop); err != nil {
		return nil, err
	}

	resp := propertyToResponse(prop, true)
	return &resp, nil
}

func (s *propertyService) GetByID(ctx context.Context, id uuid.UUID) (*dto.PropertyResponse, error) {
	prop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound(fmt.Sprintf("Property with ID %s not found", id))
		}
		return nil, err
	}
	resp := propertyToResponse(prop, true)
	return &resp, nil
}

func (s *propertyService) GetByLeadID(ctx context.Context, leadID uuid.UUID) ([]dto.PropertyResponse, error) {
	props, err := s.repo.FindByLeadID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return propertiesToResponses(props), nil
}

func (s *propertyService) List(ctx context.Context, filter dto.PropertyFilter) (*dto.PropertyListResponse, error) {
	props, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.PropertyListResponse{
		Data:       propertiesToResponses(props),
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

func (s *propertyService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePropertyRequest) (*dto.PropertyResponse, error) {
	prop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound(fmt.Sprintf("Property with ID %s not found", id))
		}
		return nil, err
	}

	// Re-parenting is permitted, but only onto a lead that exists.
	if req.LeadID != nil {
		newLeadID, err := uuid.Parse(*req.LeadID)
		if err != nil {
			return nil, apierror.Validation("Invalid leadId")
		}
		if newLeadID != prop.LeadID {
			if _, err := s.leadRepo.FindByID(ctx, newLeadID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apierror.Validation(fmt.Sprintf("Lead with ID %s not found", newLeadID))
				}
				return nil, err
			}
			prop.LeadID = newLeadID
			prop.Lead = nil
		}
	}

	if req.Name != nil {
		prop.Name = req.Name
	}
	if req.CropType != nil {
		prop.CropType = model.CropType(*req.CropType)
	}
	if req.AreaHectares != nil {
		prop.AreaHectares = *req.AreaHectares
	}
	if req.City != nil {
		prop.City = *req.City
	}
	if req.Latitude != nil {
		prop.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		prop.Longitude = req.Longitude
	}
	if req.Geometry != nil {
		prop.Geometry = datatypes.JSON(req.Geometry)
	}
	if req.Notes != nil {
		prop.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, prop); err != nil {
		return nil, err
	}

	resp := propertyToResponse(prop, true)
	return &resp, nil
}

func (s *propertyService) Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound(fmt.Sprintf("Property with ID %s not found", id))
		}
		return nil, err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return nil, err
	}
	return &dto.DeleteResponse{Success: true, Message: "Property deleted successfully"}, nil
}

func (s *propertyService) Large(ctx context.Context, limit int) ([]dto.PropertyResponse, error) {
	props, err := s.repo.FindLarge(ctx, s.largeMinHa, limit)
	if err != nil {
		return nil, err
	}
	return propertiesToResponses(props), nil
}

func (s *propertyService) Map(ctx context.Context, filter dto.PropertyFilter) ([]dto.PropertyResponse, error) {
	props, err := s.repo.FindWithLocation(ctx, filter)
	if err != nil {
		return nil, err
	}
	return propertiesToResponses(props), nil
}

// ─── Mapping helpers ─────────────────────────────────────────────────────────

func propertyToResponse(p *model.Property, includeLead bool) dto.PropertyResponse {
	resp := dto.PropertyResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		LeadID:       p.LeadID.String(),
		CropType:     string(p.CropType),
		AreaHectares: p.AreaHectares,
		City:         p.City,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Notes:        p.Notes,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if len(p.Geometry) > 0 {
		resp.Geometry = append([]byte(nil), p.Geometry...)
	}
	if includeLead && p.Lead != nil {
		resp.Lead = &dto.LeadRef{
			ID:     p.Lead.ID.String(),
			Name:   p.Lead.Name,
			CPF:    p.Lead.CPF,
			City:   p.Lead.City,
			Status: string(p.Lead.Status),
		}
	}
	return resp
}

func propertiesToResponses(props []model.Property) []dto.PropertyResponse {
	out := make([]dto.PropertyResponse, 0, len(props))
	for i := range props {
		out = append(out, propertyToResponse(&props[i], true))
	}
	return out
}
