package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseRef is the minimal projection of a case that deadline generation
// needs. Case lifecycle management lives in an external collaborator; this
// table is the locally persisted view used to resolve a case's jurisdiction.
type CaseRef struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CaseNumber string `gorm:"not null;uniqueIndex" json:"case_number"`
	Title      string `json:"title"`

	JurisdictionID string       `gorm:"type:uuid;not null;index" json:"jurisdiction_id"`
	Jurisdiction   Jurisdiction `gorm:"foreignKey:JurisdictionID" json:"jurisdiction,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *CaseRef) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CaseRef model
func (CaseRef) TableName() string {
	return "case_refs"
}
