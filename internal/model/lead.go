package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LeadStatus is a plain pipeline label. No transition graph is enforced:
// any status may overwrite any other (matching observed CRM usage where
// sellers freely reclassify leads).
type LeadStatus string

const (
	StatusNew            LeadStatus = "new"
	StatusInitialContact LeadStatus = "initial_contact"
	StatusInNegotiation  LeadStatus = "in_negotiation"
	StatusConverted      LeadStatus = "converted"
	StatusLost           LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInitialContact, StatusInNegotiation, StatusConverted, StatusLost:
		return true
	}
	return false
}

// Lead is a prospective rural producer tracked through the sales pipeline.
type Lead struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"index;not null"`
	// CPF uniqueness is enforced by a partial unique index over live rows
	// (see infra schema patches) so a soft-deleted lead does not block
	// re-registration of the same CPF.
	CPF string `gorm:"column:cpf;index;not null"` // 11 normalized digits
	Email            *string
	Phone            *string
	City             string     `gorm:"index;not null"`
	Status           LeadStatus `gorm:"index;not null;default:'new'"`
	FirstContactDate *time.Time `gorm:"type:date"`
	LastInteraction  *time.Time
	Comments         *string  `gorm:"type:text"`
	Tags             []string `gorm:"serializer:json"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`

	Properties []Property `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`

	// TotalAreaHectares is derived from the grouped sum of live property
	// areas. It is never persisted — repositories populate it via a
	// subquery alias, services via in-memory summation.
	TotalAreaHectares decimal.Decimal `gorm:"->;-:migration"`
}

func (Lead) TableName() string { return "leads" }

func (l *Lead) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// SumPropertyAreas recomputes the derived total from the loaded (non-deleted)
// properties association.
func (l *Lead) SumPropertyAreas() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Properties {
		total = total.Add(p.AreaHectares)
	}
	return total
}
