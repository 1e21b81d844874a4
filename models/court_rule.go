package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourtRule is a statutory or procedural rule reference. Templates cite
// rules for defensibility; the system never interprets rule text.
type CourtRule struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	JurisdictionID string       `gorm:"type:uuid;not null;index" json:"jurisdiction_id"`
	Jurisdiction   Jurisdiction `gorm:"foreignKey:JurisdictionID" json:"jurisdiction,omitempty"`

	RuleNumber string  `gorm:"not null" json:"rule_number"` // e.g., "FRCP 12(a)(1)(A)"
	Title      string  `gorm:"not null" json:"title"`
	Citation   *string `json:"citation,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *CourtRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CourtRule model
func (CourtRule) TableName() string {
	return "court_rules"
}
