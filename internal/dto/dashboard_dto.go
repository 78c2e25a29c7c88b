package dto

import "github.com/shopspring/decimal"

// DashboardMetrics is the headline-number feed for the dashboard cards.
type DashboardMetrics struct {
	TotalLeads          int64           `json:"totalLeads"`
	TotalProperties     int64           `json:"totalProperties"`
	TotalAreaHectares   decimal.Decimal `json:"totalAreaHectares"`
	NewLeads            int64           `json:"newLeads"`
	LeadsInNegotiation  int64           `json:"leadsInNegotiation"`
	ConvertedLeads      int64           `json:"convertedLeads"`
	PriorityLeads       int64           `json:"priorityLeads"`
	LeadsWithoutContact int64           `json:"leadsWithoutContact"`
}

// ChartData matches the chart.js dataset shape the frontend renders directly.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
	BorderColor     []string  `json:"borderColor"`
}

// CropAreaSum is one row of the per-crop-type area roll-up.
type CropAreaSum struct {
	CropType  string          `json:"cropType"`
	TotalArea decimal.Decimal `json:"totalArea"`
}
