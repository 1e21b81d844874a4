package models

import "time"

// Counter names
const (
	CounterCalculationSeq = "deadline_calculation_seq"
)

// SequenceCounter backs serialized sequence allocation. The value is bumped
// with a transactional UPDATE so concurrent generation runs never observe
// the same number.
type SequenceCounter struct {
	Name      string    `gorm:"primarykey" json:"name"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for SequenceCounter model
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}
