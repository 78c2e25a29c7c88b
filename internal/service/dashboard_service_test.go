package service

import (
	"context"
	"testing"

	"agrocrm/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardFixture(t *testing.T) DashboardService {
	t.Helper()

	ctx := context.Background()
	leadRepo := newStubLeadRepo()
	propRepo := newStubPropertyRepo()

	big := &model.Lead{
		Name: "João Silva", CPF: "12345678909", City: "Sorriso", Status: model.StatusNew,
		Properties: []model.Property{
			{CropType: model.CropSoja, AreaHectares: decimal.NewFromInt(60)},
			{CropType: model.CropMilho, AreaHectares: decimal.NewFromInt(50)},
		},
	}
	require.NoError(t, leadRepo.Create(ctx, big))
	require.NoError(t, leadRepo.Create(ctx, &model.Lead{
		Name: "Maria Oliveira", CPF: "52998224725", City: "Sinop", Status: model.StatusConverted,
	}))
	require.NoError(t, leadRepo.Create(ctx, &model.Lead{
		Name: "Carlos Pereira", CPF: "11144477735", City: "Sinop", Status: model.StatusInNegotiation,
	}))

	require.NoError(t, propRepo.Create(ctx, &model.Property{
		LeadID: big.ID, CropType: model.CropSoja, AreaHectares: decimal.NewFromInt(60), City: "Sorriso",
	}))
	require.NoError(t, propRepo.Create(ctx, &model.Property{
		LeadID: big.ID, CropType: model.CropMilho, AreaHectares: decimal.NewFromInt(50), City: "Sorriso",
	}))

	return NewDashboardService(leadRepo, propRepo, 100, 30)
}

func TestDashboardMetrics(t *testing.T) {
	svc := dashboardFixture(t)

	m, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, m.TotalLeads)
	assert.EqualValues(t, 2, m.TotalProperties)
	assert.True(t, m.TotalAreaHectares.Equal(decimal.NewFromInt(110)))
	assert.EqualValues(t, 1, m.NewLeads)
	assert.EqualValues(t, 1, m.LeadsInNegotiation)
	assert.EqualValues(t, 1, m.ConvertedLeads)
	assert.EqualValues(t, 1, m.PriorityLeads)        // 110 ha >= 100 ha
	assert.EqualValues(t, 3, m.LeadsWithoutContact)  // nothing has an interaction yet
}

func TestDashboardLeadsByStatusChart(t *testing.T) {
	svc := dashboardFixture(t)

	chart, err := svc.LeadsByStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, chart.Datasets, 1)
	require.Len(t, chart.Labels, 3)
	assert.Len(t, chart.Datasets[0].Data, 3)

	labelColor := map[string]string{}
	for i, label := range chart.Labels {
		labelColor[label] = chart.Datasets[0].BackgroundColor[i]
	}
	assert.Equal(t, "#3B82F6", labelColor["Novo"])
	assert.Equal(t, "#22C55E", labelColor["Convertido"])
	assert.Equal(t, "#F59E0B", labelColor["Em Negociação"])
}

func TestDashboardLeadsByCityChart(t *testing.T) {
	svc := dashboardFixture(t)

	chart, err := svc.LeadsByCity(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, chart.Labels, 2)
	assert.Equal(t, "Sinop", chart.Labels[0]) // most leads first
	assert.Equal(t, []float64{2, 1}, chart.Datasets[0].Data)
}

func TestDashboardAreaByCropTypeChart(t *testing.T) {
	svc := dashboardFixture(t)

	chart, err := svc.AreaByCropType(context.Background())
	require.NoError(t, err)
	require.Len(t, chart.Labels, 2)
	assert.Equal(t, "Soja", chart.Labels[0]) // largest area first
	assert.Equal(t, "Milho", chart.Labels[1])
	assert.Equal(t, []float64{60, 50}, chart.Datasets[0].Data)
	assert.Equal(t, "#10B981", chart.Datasets[0].BackgroundColor[0])
}
