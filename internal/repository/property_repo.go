package repository

import (
	"context"
	"strings"

	"agrocrm/internal/dto"
	"agrocrm/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PropertyRepository interface {
	Create(ctx context.Context, p *model.Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error)
	FindByLeadID(ctx context.Context, leadID uuid.UUID) ([]model.Property, error)
	List(ctx context.Context, filter dto.PropertyFilter) ([]model.Property, int64, error)
	Update(ctx context.Context, p *model.Property) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context) (int64, error)
	TotalArea(ctx context.Context) (decimal.Decimal, error)
	FindLarge(ctx context.Context, minArea decimal.Decimal, limit int) ([]model.Property, error)
	FindWithLocation(ctx context.Context, filter dto.PropertyFilter) ([]model.Property, error)
	StatsByCropType(ctx context.Context) ([]dto.CropAreaSum, error)
}

type propertyRepo struct{ db *gorm.DB }

func NewPropertyRepository(db *gorm.DB) PropertyRepository { return &propertyRepo{db: db} }

func (r *propertyRepo) Create(ctx context.Context, p *model.Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *propertyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	var p model.Property
	err := r.db.WithContext(ctx).Preload("Lead").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propertyRepo) FindByLeadID(ctx context.Context, leadID uuid.UUID) ([]model.Property, error) {
	var props []model.Property
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Preload("Lead").
		Find(&props).Error
	return props, err
}

func applyPropertyFilters(q *gorm.DB, f dto.PropertyFilter) *gorm.DB {
	if f.LeadID != "" {
		q = q.Where("lead_id = ?", f.LeadID)
	}
	if f.SearchTerm != "" {
		pattern := "%" + strings.ToLower(f.SearchTerm) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ?", pattern, pattern)
	}
	if len(f.CropType) > 0 {
		q = q.Where("crop_type IN ?", f.CropType)
	}
	if len(f.City) > 0 {
		q = q.Where("city IN ?", f.City)
	}
	if f.AreaMin != nil {
		q = q.Where("area_hectares >= ?", *f.AreaMin)
	}
	if f.AreaMax != nil {
		q = q.Where("area_hectares <= ?", *f.AreaMax)
	}
	return q
}

var propertySortColumns = map[string]string{
	"name":         "name",
	"city":         "city",
	"cropType":     "crop_type",
	"areaHectares": "area_hectares",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
}

func propertyOrderClause(f dto.PropertyFilter) string {
	col, ok := propertySortColumns[f.SortField]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}

func (r *propertyRepo) List(ctx context.Context, f dto.PropertyFilter) ([]model.Property, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Property{})

	var total int64
	if err := applyPropertyFilters(base, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var props []model.Property
	err := applyPropertyFilters(r.db.WithContext(ctx), f).
		Order(propertyOrderClause(f)).
		Limit(f.PageSize).
		Offset(f.Page * f.PageSize).
		Preload("Lead").
		Find(&props).Error
	return props, total, err
}

func (r *propertyRepo) Update(ctx context.Context, p *model.Property) error {
	return r.db.WithContext(ctx).Omit("Lead").Save(p).Error
}

func (r *propertyRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Property{}, "id = ?", id).Error
}

func (r *propertyRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Property{}).Count(&n).Error
	return n, err
}

func (r *propertyRepo) TotalArea(ctx context.Context) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Model(&model.Property{}).
		Select("COALESCE(SUM(area_hectares), 0) AS total").
		Scan(&row).Error
	return row.Total, err
}

func (r *propertyRepo) FindLarge(ctx context.Context, minArea decimal.Decimal, limit int) ([]model.Property, error) {
	var props []model.Property
	err := r.db.WithContext(ctx).
		Where("area_hectares >= ?", minArea).
		Order("area_hectares DESC").
		Limit(limit).
		Preload("Lead").
		Find(&props).Error
	return props, err
}

// FindWithLocation returns every property that can be placed on the map:
// either both coordinates set or a drawn geometry. Unpaginated — the map
// renders all visible pins and polygons at once.
func (r *propertyRepo) FindWithLocation(ctx context.Context, f dto.PropertyFilter) ([]model.Property, error) {
	q := r.db.WithContext(ctx).
		Where("(latitude IS NOT NULL AND longitude IS NOT NULL) OR geometry IS NOT NULL")
	if len(f.CropType) > 0 {
		q = q.Where("crop_type IN ?", f.CropType)
	}
	if len(f.City) > 0 {
		q = q.Where("city IN ?", f.City)
	}
	var props []model.Property
	err := q.Preload("Lead").Find(&props).Error
	return props, err
}

func (r *propertyRepo) StatsByCropType(ctx context.Context) ([]dto.CropAreaSum, error) {
	var out []dto.CropAreaSum
	err := r.db.WithContext(ctx).Model(&model.Property{}).
		Select("crop_type AS crop_type, SUM(area_hectares) AS total_area").
		Group("crop_type").
		Order("total_area DESC").
		Scan(&out).Error
	return out, err
}
