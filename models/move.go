package models

// Move is one catalog entry of the freestyle move library.
type Move struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	SearchName  string `json:"-" gorm:"index"` // ascii-folded, lowercased name for search
	CategoryID  string `json:"category_id" gorm:"not null;index"`
	Difficulty  int    `json:"difficulty" gorm:"default:1"` // 1..5
	Description string `json:"description" gorm:"type:text"`
	VideoURL    string `json:"video_url" gorm:"type:text"`
	ImageURL    string `json:"image_url" gorm:"type:text"`
	IsPublished bool   `json:"is_published" gorm:"default:false;index"`

	// Relationships
	Category MoveCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Tags     []MoveTag    `json:"tags,omitempty" gorm:"many2many:move_tag_links"`

	Timestamps
}

// MoveCategory groups moves (lowers, uppers, sit-downs, ...).
type MoveCategory struct {
	ID        string `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string `json:"name" gorm:"not null"`
	Slug      string `json:"slug" gorm:"uniqueIndex;not null"`
	SortOrder int    `json:"sort_order" gorm:"column:sort_order;default:0"`
	ImageURL  string `json:"image_url" gorm:"type:text"`

	Timestamps
}

type MoveTag struct {
	ID   string `json:"id" gorm:"primaryKey;type:uuid"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	Timestamps
}
