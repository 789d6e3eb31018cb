package models

import (
	"time"
)

// Notification statuses.
const (
	NotificationDraft = "draft"
	NotificationSent  = "sent"
)

// Notification is a broadcast message authored by an admin and pushed
// to the external relay when sent. Rows keep an audit of what went out.
type Notification struct {
	ID       string     `json:"id" gorm:"primaryKey;type:uuid"`
	Title    string     `json:"title" gorm:"not null"`
	Body     string     `json:"body" gorm:"type:text"`
	ImageURL string     `json:"image_url" gorm:"type:text"`
	Audience string     `json:"audience" gorm:"type:varchar(32);default:'all'"` // all, season_participants
	Status   string     `json:"status" gorm:"type:varchar(16);default:'draft';index"`
	SentAt   *time.Time `json:"sent_at,omitempty"`
	SentByID string     `json:"sent_by_id,omitempty"`

	Timestamps
}

// ReviewDigest is one run of the scheduled pending-review counter.
// The job is fire-and-forget; rows are its only durable output.
type ReviewDigest struct {
	ID                    string    `json:"id" gorm:"primaryKey;type:uuid"`
	PendingParticipations int64     `json:"pending_participations"`
	PendingSuggestions    int64     `json:"pending_suggestions"`
	PendingCommunityClips int64     `json:"pending_community_clips"`
	Delivered             bool      `json:"delivered" gorm:"default:false"`
	GeneratedAt           time.Time `json:"generated_at" gorm:"autoCreateTime"`
}
