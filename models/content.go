package models

import (
	"time"
)

// Moderation statuses shared by community submissions.
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

// TipVideo is staff-authored tutorial content with a publish flow.
type TipVideo struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"type:text"`
	VideoURL    string     `json:"video_url" gorm:"type:text;not null"`
	ThumbURL    string     `json:"thumb_url" gorm:"type:text"`
	MoveID      *string    `json:"move_id,omitempty" gorm:"type:uuid;index"` // optional link to a move
	Status      string     `json:"status" gorm:"type:varchar(16);default:'draft';index"` // draft, published, archived
	PublishedAt *time.Time `json:"published_at,omitempty"`

	Timestamps
}

// Tip video statuses.
const (
	TipDraft     = "draft"
	TipPublished = "published"
	TipArchived  = "archived"
)

// CommunityVideo is a user-submitted clip awaiting moderation.
type CommunityVideo struct {
	ID             string     `json:"id" gorm:"primaryKey;type:uuid"`
	ExternalUserID string     `json:"external_user_id" gorm:"not null;index"`
	Title          string     `json:"title"`
	VideoURL       string     `json:"video_url" gorm:"type:text;not null"`
	Status         string     `json:"status" gorm:"type:varchar(16);default:'pending';index"`
	ReviewerID     string     `json:"reviewer_id,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote     string     `json:"review_note,omitempty" gorm:"type:text"`

	Timestamps
}
