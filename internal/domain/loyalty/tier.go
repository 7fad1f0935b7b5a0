package loyalty

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tier is static reference data. Ranges must be contiguous and
// non-overlapping, starting at zero; a nil MaxPoints marks the open-ended top
// bracket.
type Tier struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null;column:name" json:"name"`
	MinPoints int64          `gorm:"not null;column:min_points" json:"min_points"`
	MaxPoints *int64         `gorm:"column:max_points" json:"max_points,omitempty"`
	Benefits  datatypes.JSON `gorm:"column:benefits" json:"benefits,omitempty"`
}

func (Tier) TableName() string { return "tiers" }

func (t *Tier) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Contains reports whether balance falls inside this tier's bracket.
func (t *Tier) Contains(balance int64) bool {
	if balance < t.MinPoints {
		return false
	}
	return t.MaxPoints == nil || balance <= *t.MaxPoints
}
