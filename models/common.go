package models

import (
	"strings"
	"time"

	"github.com/gosimple/unidecode"
	"gorm.io/gorm"
)

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// SearchFold normalizes a name for matching: ascii-folded, lowercased.
// Stored search columns and incoming queries must both go through it so
// accented names match their plain-ASCII spellings and vice versa.
func SearchFold(name string) string {
	return strings.ToLower(unidecode.Unidecode(name))
}
