package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Jurisdiction represents a court system or territory whose calendar and
// procedural rules govern deadline calculation
type Jurisdiction struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name string `gorm:"not null" json:"name"`
	Code string `gorm:"not null;uniqueIndex" json:"code"` // e.g., "US-FED", "US-CA"

	// Relationships
	Holidays   []Holiday   `gorm:"foreignKey:JurisdictionID" json:"holidays,omitempty"`
	CourtRules []CourtRule `gorm:"foreignKey:JurisdictionID" json:"court_rules,omitempty"`
}

// BeforeCreate hook to generate UUID
func (j *Jurisdiction) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Jurisdiction model
func (Jurisdiction) TableName() string {
	return "jurisdictions"
}
