package repository

import (
	"context"
	"strings"
	"time"

	"agrocrm/internal/dto"
	"agrocrm/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LeadRepository defines the data access contract for leads.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type LeadRepository interface {
	Create(ctx context.Context, l *model.Lead) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error)
	FindByCPF(ctx context.Context, cpf string) (*model.Lead, error)
	FindAll(ctx context.Context) ([]model.Lead, error)
	List(ctx context.Context, filter dto.LeadFilter) ([]model.Lead, int64, error)
	Update(ctx context.Context, l *model.Lead) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.LeadStatus) (int64, error)
	StatsByStatus(ctx context.Context) ([]dto.StatusCount, error)
	StatsByCity(ctx context.Context, limit int) ([]dto.CityCount, error)

	FindPriority(ctx context.Context, minArea decimal.Decimal, limit int) ([]model.Lead, error)
	CountPriority(ctx context.Context, minArea decimal.Decimal) (int64, error)
	FindRecent(ctx context.Context, days int) ([]model.Lead, error)
	FindWithoutContact(ctx context.Context, days int) ([]model.Lead, error)
	CountWithoutContact(ctx context.Context, days int) (int64, error)
	TotalAreaByLead(ctx context.Context, leadID uuid.UUID) (decimal.Decimal, error)
}

type leadRepo struct{ db *gorm.DB }

func NewLeadRepository(db *gorm.DB) LeadRepository { return &leadRepo{db: db} }

func (r *leadRepo) Create(ctx context.Context, l *model.Lead) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *leadRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	var l model.Lead
	err := r.db.WithContext(ctx).Preload("Properties").First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leadRepo) FindByCPF(ctx context.Context, cpf string) (*model.Lead, error) {
	var l model.Lead
	err := r.db.WithContext(ctx).Where("cpf = ?", cpf).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leadRepo) FindAll(ctx context.Context) ([]model.Lead, error) {
	var leads []model.Lead
	err := r.db.WithContext(ctx).Preload("Properties").Find(&leads).Error
	return leads, err
}

// areaSumJoin left-joins a grouped sum of live property areas onto leads.
// The alias area_sum.total_area is the single source of the derived
// totalAreaHectares — there is no stored column to sort or filter on.
func (r *leadRepo) areaSumJoin(ctx context.Context) *gorm.DB {
	sub := r.db.Model(&model.Property{}).
		Select("lead_id, SUM(area_hectares) AS total_area").
		Group("lead_id")
	return r.db.WithContext(ctx).Model(&model.Lead{}).
		Joins("LEFT JOIN (?) AS area_sum ON area_sum.lead_id = leads.id", sub)
}

func applyLeadFilters(q *gorm.DB, f dto.LeadFilter) *gorm.DB {
	if f.SearchTerm != "" {
		pattern := "%" + strings.ToLower(f.SearchTerm) + "%"
		q = q.Where(
			"LOWER(leads.name) LIKE ? OR leads.cpf LIKE ? OR LOWER(leads.email) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if len(f.Status) > 0 {
		q = q.Where("leads.status IN ?", f.Status)
	}
	if len(f.City) > 0 {
		q = q.Where("leads.city IN ?", f.City)
	}
	if f.CropType != "" {
		// EXISTS instead of a join: a lead with three soy parcels must still
		// appear exactly once in the page.
		q = q.Where(
			"EXISTS (SELECT 1 FROM properties p WHERE p.lead_id = leads.id AND p.deleted_at IS NULL AND p.crop_type = ?)",
			f.CropType,
		)
	}
	if f.AreaMin != nil {
		q = q.Where("COALESCE(area_sum.total_area, 0) >= ?", *f.AreaMin)
	}
	if f.AreaMax != nil {
		q = q.Where("COALESCE(area_sum.total_area, 0) <= ?", *f.AreaMax)
	}
	return q
}

// leadSortColumns whitelists sortable fields. totalAreaHectares maps to the
// joined aggregate, everything else to a plain column.
var leadSortColumns = map[string]string{
	"name":              "leads.name",
	"status":            "leads.status",
	"city":              "leads.city",
	"createdAt":         "leads.created_at",
	"updatedAt":         "leads.updated_at",
	"totalAreaHectares": "COALESCE(area_sum.total_area, 0)",
}

func leadOrderClause(f dto.LeadFilter) string {
	col, ok := leadSortColumns[f.SortField]
	if !ok {
		col = "leads.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}

func (r *leadRepo) List(ctx context.Context, f dto.LeadFilter) ([]model.Lead, int64, error) {
	// Total matches are counted before pagination is applied.
	var total int64
	if err := applyLeadFilters(r.areaSumJoin(ctx), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leads []model.Lead
	err := applyLeadFilters(r.areaSumJoin(ctx), f).
		Select("leads.*, COALESCE(area_sum.total_area, 0) AS total_area_hectares").
		Order(leadOrderClause(f)).
		Limit(f.PageSize).
		Offset(f.Page * f.PageSize).
		Preload("Properties").
		Find(&leads).Error
	return leads, total, err
}

func (r *leadRepo) Update(ctx context.Context, l *model.Lead) error {
	return r.db.WithContext(ctx).Omit("Properties").Save(l).Error
}

func (r *leadRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Lead{}, "id = ?", id).Error
}

func (r *leadRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Lead{}).Count(&n).Error
	return n, err
}

func (r *leadRepo) CountByStatus(ctx context.Context, status model.LeadStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Lead{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *leadRepo) StatsByStatus(ctx context.Context) ([]dto.StatusCount, error) {
	var out []dto.StatusCount
	err := r.db.WithContext(ctx).Model(&model.Lead{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&out).Error
	return out, err
}

func (r *leadRepo) StatsByCity(ctx context.Context, limit int) ([]dto.CityCount, error) {
	var out []dto.CityCount
	err := r.db.WithContext(ctx).Model(&model.Lead{}).
		Select("city, COUNT(*) AS count").
		Group("city").
		Order("count DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// The aggregate alias has no column affinity, so the threshold is bound as a
// float rather than decimal's default text representation.
func (r *leadRepo) FindPriority(ctx context.Context, minArea decimal.Decimal, limit int) ([]model.Lead, error) {
	var leads []model.Lead
	err := r.areaSumJoin(ctx).
		Select("leads.*, area_sum.total_area AS total_area_hectares").
		Where("area_sum.total_area >= ?", minArea.InexactFloat64()).
		Order("area_sum.total_area DESC").
		Limit(limit).
		Preload("Properties").
		Find(&leads).Error
	return leads, err
}

func (r *leadRepo) CountPriority(ctx context.Context, minArea decimal.Decimal) (int64, error) {
	var n int64
	err := r.areaSumJoin(ctx).
		Where("area_sum.total_area >= ?", minArea.InexactFloat64()).
		Count(&n).Error
	return n, err
}

func (r *leadRepo) FindRecent(ctx context.Context, days int) ([]model.Lead, error) {
	threshold := time.Now().AddDate(0, 0, -days)
	var leads []model.Lead
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", threshold).
		Order("created_at DESC").
		Preload("Properties").
		Find(&leads).Error
	return leads, err
}

func (r *leadRepo) FindWithoutContact(ctx context.Context, days int) ([]model.Lead, error) {
	threshold := time.Now().AddDate(0, 0, -days)
	var leads []model.Lead
	err := r.db.WithContext(ctx).
		Where("last_interaction < ? OR last_interaction IS NULL", threshold).
		Order("last_interaction ASC").
		Preload("Properties").
		Find(&leads).Error
	return leads, err
}

func (r *leadRepo) CountWithoutContact(ctx context.Context, days int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -days)
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Lead{}).
		Where("last_interaction < ? OR last_interaction IS NULL", threshold).
		Count(&n).Error
	return n, err
}

func (r *leadRepo) TotalAreaByLead(ctx context.Context, leadID uuid.UUID) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Model(&model.Property{}).
		Select("COALESCE(SUM(area_hectares), 0) AS total").
		Where("lead_id = ?", leadID).
		Scan(&row).Error
	return row.Total, err
}
