package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CropType string

const (
	CropSoja    CropType = "soja"
	CropMilho   CropType = "milho"
	CropAlgodao CropType = "algodao"
	CropOutros  CropType = "outros"
)

func (c CropType) Valid() bool {
	switch c {
	case CropSoja, CropMilho, CropAlgodao, CropOutros:
		return true
	}
	return false
}

// Property is a land parcel owned by a Lead. Latitude/longitude and the
// free-form geometry (polygon or point GeoJSON-ish blob drawn on the map)
// are all optional — a property without any of them simply never shows up
// on the map endpoint.
type Property struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         *string
	LeadID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	CropType     CropType        `gorm:"index;not null"`
	AreaHectares decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	City         string          `gorm:"index;not null"`
	Latitude     *decimal.Decimal `gorm:"type:decimal(10,8)"`
	Longitude    *decimal.Decimal `gorm:"type:decimal(11,8)"`
	Geometry     datatypes.JSON
	Notes        *string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`

	Lead *Lead `gorm:"foreignKey:LeadID"`
}

func (Property) TableName() string { return "properties" }

func (p *Property) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
