package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agrocrm/internal/apierror"
	"agrocrm/internal/cpf"
	"agrocrm/internal/dto"
	"agrocrm/internal/model"
	"agrocrm/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConversionNotifier delivers a best-effort alert when a lead converts.
// Implemented by the worker dispatcher; nil disables notifications.
type ConversionNotifier interface {
	NotifyConversion(ctx context.Context, leadName, city string, totalArea decimal.Decimal) error
}

// LeadService defines the business logic contract for leads.
type LeadService interface {
	Create(ctx context.Context, req dto.CreateLeadRequest) (*dto.LeadResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.LeadResponse, error)
	List(ctx context.Context, filter dto.LeadFilter) (*dto.LeadListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateLeadRequest) (*dto.LeadResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteResponse, error)

	Stats(ctx context.Context) (*dto.LeadStatsResponse, error)
	TotalCount(ctx context.Context) (int64, error)
	StatsByStatus(ctx context.Context) ([]dto.StatusCount, error)
	StatsByCity(ctx context.Context, limit int) ([]dto.CityCount, error)
	Priority(ctx context.Context, limit int) ([]dto.LeadResponse, error)
	Recent(ctx context.Context, days int) ([]dto.LeadResponse, error)
	WithoutContact(ctx context.Context, days int) ([]dto.LeadResponse, error)

	// Export renders all non-deleted leads in the requested format and
	// returns (content, contentType, filename).
	Export(ctx context.Context, format string) ([]byte, string, string, error)
}

type leadService struct {
	repo            repository.LeadRepository
	notifier        ConversionNotifier
	priorityMinArea decimal.Decimal
}

func NewLeadService(repo repository.LeadRepository, notifier ConversionNotifier, priorityMinAreaHa int) LeadService {
	return &leadService{
		repo:            repo,
		notifier:        notifier,
		priorityMinArea: decimal.NewFromInt(int64(priorityMinAreaHa)),
	}
}

func (s *leadService) Create(ctx context.Context, req dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	normalized := cpf.Normalize(req.CPF)
	if !cpf.IsValid(normalized) {
		return nil, apierror.Validation("Invalid CPF")
	}

	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	// Advisory pre-check only — the partial unique index is the authority,
	// and its violation below also maps to a conflict.
	if _, err := s.repo.FindByCPF(ctx, normalized); err == nil {
		return nil, apierror.Conflict("CPF already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status := model.StatusNew
	if req.Status != nil {
		status = model.LeadStatus(*req.Status)
	}

	firstContact, err := parseDate(req.FirstContactDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	lead := &model.Lead{
		Name:             req.Name,
		CPF:              normalized,
		Email:            req.Email,
		Phone:            phone,
		City:             req.City,
		Status:           status,
		FirstContactDate: firstContact,
		LastInteraction:  &now,
		Comments:         req.Comments,
		Tags:             req.Tags,
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("CPF already registered")
		}
		return nil, err
	}

	resp := leadToResponse(lead, true)
	return &resp, nil
}

func (s *leadService) GetByID(ctx context.Context, id uuid.UUID) (*dto.LeadResponse, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound(fmt.Sprintf("Lead with ID %s not found", id))
		}
		return nil, err
	}
	lead.TotalAreaHectares = lead.SumPropertyAreas()
	resp := leadToResponse(lead, true)
	return &resp, nil
}

func (s *leadService) List(ctx context.Context, filter dto.LeadFilter) (*dto.LeadListResponse, error) {
	leads, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.LeadResponse, 0, len(leads))
	for i := range leads {
		data = append(data, leadToResponse(&leads[i], true))
	}

	return &dto.LeadListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

func (s *leadService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound(fmt.Sprintf("Lead with ID %s not found", id))
		}
		return nil, err
	}

	if req.CPF != nil {
		normalized := cpf.Normalize(*req.CPF)
		if normalized != lead.CPF {
			if !cpf.IsValid(normalized) {
				return nil, apierror.Validation("Invalid CPF")
			}
			if existing, err := s.repo.FindByCPF(ctx, normalized); err == nil && existing.ID != lead.ID {
				return nil, apierror.Conflict("CPF already registered")
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			lead.CPF = normalized
		}
	}

	if req.Name != nil {
		lead.Name = *req.Name
	}
	if req.Email != nil {
		lead.Email = req.Email
	}
	if req.Phone != nil {
		phone, err := normalizePhone(req.Phone)
		if err != nil {
			return nil, err
		}
		lead.Phone = phone
	}
	if req.City != nil {
		lead.City = *req.City
	}

	wasConverted := lead.Status == model.StatusConverted
	if req.Status != nil {
		lead.Status = model.LeadStatus(*req.Status)
	}
	if req.FirstContactDate != nil {
		firstContact, err := parseDate(req.FirstContactDate)
		if err != nil {
			return nil, err
		}
		lead.FirstContactDate = firstContact
	}
	if req.Comments != nil {
		lead.Comments = req.Comments
	}
	if req.Tags != nil {
		lead.Tags = req.Tags
	}

	now := time.Now()
	lead.LastInteraction = &now

	if err := s.repo.Update(ctx, lead); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("CPF already registered")
		}
		return nil, err
	}

	if s.notifier != nil && !wasConverted && lead.Status == model.StatusConverted {
		total := lead.SumPropertyAreas()
		if err := s.notifier.NotifyConversion(ctx, lead.Name, lead.City, total); err != nil {
			log.Warn().Err(err).Str("lead_id", lead.ID.String()).Msg("conversion notification enqueue failed")
		}
	}

	lead.TotalAreaHectares = lead.SumPropertyAreas()
	resp := leadToResponse(lead, true)
	return &resp, nil
}

func (s *leadService) Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound(fmt.Sprintf("Lead with ID %s not found", id))
		}
		return nil, err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return nil, err
	}
	return &dto.DeleteResponse{Success: true, Message: "Lead deleted successfully"}, nil
}

func (s *leadService) Stats(ctx context.Context) (*dto.LeadStatsResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.StatsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byCity, err := s.repo.StatsByCity(ctx, 10)
	if err != nil {
		return nil, err
	}
	return &dto.LeadStatsResponse{Total: total, ByStatus: byStatus, ByCity: byCity}, nil
}

func (s *leadService) TotalCount(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *leadService) StatsByStatus(ctx context.Context) ([]dto.StatusCount, error) {
	return s.repo.StatsByStatus(ctx)
}

func (s *leadService) StatsByCity(ctx context.Context, limit int) ([]dto.CityCount, error) {
	return s.repo.StatsByCity(ctx, limit)
}

func (s *leadService) Priority(ctx context.Context, limit int) ([]dto.LeadResponse, error) {
	leads, err := s.repo.FindPriority(ctx, s.priorityMinArea, limit)
	if err != nil {
		return nil, err
	}
	return leadsToResponses(leads, false), nil
}

func (s *leadService) Recent(ctx context.Context, days int) ([]dto.LeadResponse, error) {
	leads, err := s.repo.FindRecent(ctx, days)
	if err != nil {
		return nil, err
	}
	return leadsToResponses(leads, true), nil
}

func (s *leadService) WithoutContact(ctx context.Context, days int) ([]dto.LeadResponse, error) {
	leads, err := s.repo.FindWithoutContact(ctx, days)
	if err != nil {
		return nil, err
	}
	return leadsToResponses(leads, true), nil
}

// ─── Mapping helpers ─────────────────────────────────────────────────────────

func leadToResponse(l *model.Lead, includeProps bool) dto.LeadResponse {
	var firstContact *string
	if l.FirstContactDate != nil {
		d := l.FirstContactDate.Format("2006-01-02")
		firstContact = &d
	}

	resp := dto.LeadResponse{
		ID:                l.ID.String(),
		Name:              l.Name,
		CPF:               l.CPF,
		Email:             l.Email,
		Phone:             l.Phone,
		City:              l.City,
		Status:            string(l.Status),
		FirstContactDate:  firstContact,
		LastInteraction:   l.LastInteraction,
		Comments:          l.Comments,
		Tags:              l.Tags,
		TotalAreaHectares: l.TotalAreaHectares,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}

	if includeProps {
		for i := range l.Properties {
			resp.Properties = append(resp.Properties, propertyToResponse(&l.Properties[i], false))
		}
	}
	return resp
}

// leadsToResponses maps a repository result set. When sumFromProps is set the
// derived total is recomputed from the preloaded association (queries that do
// not join the aggregate).
func leadsToResponses(leads []model.Lead, sumFromProps bool) []dto.LeadResponse {
	out := make([]dto.LeadResponse, 0, len(leads))
	for i := range leads {
		if sumFromProps {
			leads[i].TotalAreaHectares = leads[i].SumPropertyAreas()
		}
		out = append(out, leadToResponse(&leads[i], true))
	}
	return out
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func normalizePhone(raw *string) (*string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	digits := cpf.Normalize(*raw)
	if len(digits) < 10 || len(digits) > 11 {
		return nil, apierror.Validation("Invalid phone number")
	}
	return &digits, nil
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, apierror.Validation("Invalid date, expected YYYY-MM-DD")
	}
	return &t, nil
}
