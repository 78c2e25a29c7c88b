package service

import (
	"context"

	"agrocrm/internal/dto"
	"agrocrm/internal/model"
	"agrocrm/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardService exposes read-only roll-ups over the two repositories.
// Every call recomputes from source rows — there is no cached state.
type DashboardService interface {
	Metrics(ctx context.Context) (*dto.DashboardMetrics, error)
	LeadsByStatus(ctx context.Context) (*dto.ChartData, error)
	LeadsByCity(ctx context.Context, limit int) (*dto.ChartData, error)
	AreaByCropType(ctx context.Context) (*dto.ChartData, error)
}

type dashboardService struct {
	leadRepo        repository.LeadRepository
	propertyRepo    repository.PropertyRepository
	priorityMinArea decimal.Decimal
	noContactDays   int
}

func NewDashboardService(leadRepo repository.LeadRepository, propertyRepo repository.PropertyRepository, priorityMinAreaHa, noContactDays int) DashboardService {
	return &dashboardService{
		leadRepo:        leadRepo,
		propertyRepo:    propertyRepo,
		priorityMinArea: decimal.NewFromInt(int64(priorityMinAreaHa)),
		noContactDays:   noContactDays,
	}
}

func (s *dashboardService) Metrics(ctx context.Context) (*dto.DashboardMetrics, error) {
	totalLeads, err := s.leadRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalProperties, err := s.propertyRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalArea, err := s.propertyRepo.TotalArea(ctx)
	if err != nil {
		return nil, err
	}
	newLeads, err := s.leadRepo.CountByStatus(ctx, model.StatusNew)
	if err != nil {
		return nil, err
	}
	inNegotiation, err := s.leadRepo.CountByStatus(ctx, model.StatusInNegotiation)
	if err != nil {
		return nil, err
	}
	converted, err := s.leadRepo.CountByStatus(ctx, model.StatusConverted)
	if err != nil {
		return nil, err
	}
	priority, err := s.leadRepo.CountPriority(ctx, s.priorityMinArea)
	if err != nil {
		return nil, err
	}
	withoutContact, err := s.leadRepo.CountWithoutContact(ctx, s.noContactDays)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardMetrics{
		TotalLeads:          totalLeads,
		TotalProperties:     totalProperties,
		TotalAreaHectares:   totalArea,
		NewLeads:            newLeads,
		LeadsInNegotiation:  inNegotiation,
		ConvertedLeads:      converted,
		PriorityLeads:       priority,
		LeadsWithoutContact: withoutContact,
	}, nil
}

// Fixed chart palette and Portuguese labels rendered by the frontend as-is.
var (
	statusLabels = map[model.LeadStatus]string{
		model.StatusNew:            "Novo",
		model.StatusInitialContact: "Contato Inicial",
		model.StatusInNegotiation:  "Em Negociação",
		model.StatusConverted:      "Convertido",
		model.StatusLost:           "Perdido",
	}
	statusColors = map[model.LeadStatus]string{
		model.StatusNew:            "#3B82F6",
		model.StatusInitialContact: "#10B981",
		model.StatusInNegotiation:  "#F59E0B",
		model.StatusConverted:      "#22C55E",
		model.StatusLost:           "#EF4444",
	}
	cropLabels = map[model.CropType]string{
		model.CropSoja:    "Soja",
		model.CropMilho:   "Milho",
		model.CropAlgodao: "Algodão",
		model.CropOutros:  "Outros",
	}
	cropColors = map[model.CropType]string{
		model.CropSoja:    "#10B981",
		model.CropMilho:   "#F59E0B",
		model.CropAlgodao: "#8B5CF6",
		model.CropOutros:  "#6B7280",
	}
)

const fallbackColor = "#6B7280"

func (s *dashboardService) LeadsByStatus(ctx context.Context) (*dto.ChartData, error) {
	rows, err := s.leadRepo.StatsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	chart := &dto.ChartData{Labels: []string{}}
	set := dto.ChartDataset{Label: "Leads por Status", Data: []float64{}, BackgroundColor: []string{}, BorderColor: []string{}}
	for _, row := range rows {
		status := model.LeadStatus(row.Status)
		label, ok := statusLabels[status]
		if !ok {
			label = row.Status
		}
		color, ok := statusColors[status]
		if !ok {
			color = fallbackColor
		}
		chart.Labels = append(chart.Labels, label)
		set.Data = append(set.Data, float64(row.Count))
		set.BackgroundColor = append(set.BackgroundColor, color)
		set.BorderColor = append(set.BorderColor, color)
	}
	chart.Datasets = []dto.ChartDataset{set}
	return chart, nil
}

func (s *dashboardService) LeadsByCity(ctx context.Context, limit int) (*dto.ChartData, error) {
	rows, err := s.leadRepo.StatsByCity(ctx, limit)
	if err != nil {
		return nil, err
	}

	chart := &dto.ChartData{Labels: []string{}}
	set := dto.ChartDataset{Label: "Leads por Cidade", Data: []float64{}, BackgroundColor: []string{"#3B82F6"}, BorderColor: []string{"#3B82F6"}}
	for _, row := range rows {
		chart.Labels = append(chart.Labels, row.City)
		set.Data = append(set.Data, float64(row.Count))
	}
	chart.Datasets = []dto.ChartDataset{set}
	return chart, nil
}

func (s *dashboardService) AreaByCropType(ctx context.Context) (*dto.ChartData, error) {
	rows, err := s.propertyRepo.StatsByCropType(ctx)
	if err != nil {
		return nil, err
	}

	chart := &dto.ChartData{Labels: []string{}}
	set := dto.ChartDataset{Label: "Área (hectares)", Data: []float64{}, BackgroundColor: []string{}, BorderColor: []string{}}
	for _, row := range rows {
		crop := model.CropType(row.CropType)
		label, ok := cropLabels[crop]
		if !ok {
			label = row.CropType
		}
		color, ok := cropColors[crop]
		if !ok {
			color = fallbackColor
		}
		chart.Labels = append(chart.Labels, label)
		set.Data = append(set.Data, row.TotalArea.InexactFloat64())
		set.BackgroundColor = append(set.BackgroundColor, color)
		set.BorderColor = append(set.BorderColor, color)
	}
	chart.Datasets = []dto.ChartDataset{set}
	return chart, nil
}
