package models

import (
	"time"

	"gorm.io/gorm"
)

// PlatformUser is a local snapshot of user data needed by the
// back-office. Owned solely by this service and populated via the sync
// worker from the hosted auth provider's profile service.
type PlatformUser struct {
	ID                string  `json:"id" gorm:"primaryKey;type:uuid"`
	ExternalUserID    string  `json:"external_user_id" gorm:"uniqueIndex;not null"` // auth provider's UUID
	Username          string  `json:"username" gorm:"index;not null"`
	SearchName        string  `json:"-" gorm:"index"` // ascii-folded, lowercased username for search
	Email             string  `json:"email,omitempty"`
	AvatarURL         *string `json:"avatar_url,omitempty"`
	CountryCode       string  `json:"country_code,omitempty" gorm:"size:2"`
	UnlockedMoveCount int64   `json:"unlocked_move_count" gorm:"default:0"`
	IsBanned          bool    `json:"is_banned" gorm:"default:false"` // local moderation ban

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	LastSeen  *time.Time     `json:"last_seen,omitempty"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
