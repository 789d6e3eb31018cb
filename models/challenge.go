package models

import (
	"time"
)

// Challenge statuses.
const (
	ChallengeDraft  = "draft"
	ChallengeActive = "active"
	ChallengeEnded  = "ended"
)

// Mode types — each challenge carries at most one of each.
const (
	ModeSimple = "simple"
	ModeHard   = "hard"
)

// WeeklyChallenge is a single week's themed task inside a season.
// It can only be reopened while its parent season is still active.
type WeeklyChallenge struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid"`
	SeasonID         string    `json:"season_id" gorm:"not null;index"`
	Title            string    `json:"title" gorm:"not null"`
	Description      string    `json:"description" gorm:"type:text"`
	WeekNumber       int       `json:"week_number" gorm:"not null"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Status           string    `json:"status" gorm:"type:varchar(16);default:'draft';index"`
	OfficialVideoURL string    `json:"official_video_url" gorm:"type:text"`

	// Relationships
	Season Season          `json:"season,omitempty" gorm:"foreignKey:SeasonID"`
	Modes  []ChallengeMode `json:"modes,omitempty" gorm:"foreignKey:ChallengeID"`

	Timestamps
}

// ChallengeMode is a difficulty variant of a challenge with its own
// required moves and point reward. Unique per (challenge, mode_type);
// the service checks before writing and the index backs it up.
type ChallengeMode struct {
	ID            string `json:"id" gorm:"primaryKey;type:uuid"`
	ChallengeID   string `json:"challenge_id" gorm:"not null;index;uniqueIndex:idx_challenge_mode_type"`
	ModeType      string `json:"mode_type" gorm:"type:varchar(16);not null;uniqueIndex:idx_challenge_mode_type"`
	RequiredMoves string `json:"required_moves" gorm:"type:text"`
	PointReward   int64  `json:"point_reward" gorm:"default:0"`
	DemoVideoURL  string `json:"demo_video_url" gorm:"type:text"`

	Timestamps
}

// UserSuggestion is a user-submitted challenge idea tied to a season.
// Adopting one creates a draft challenge and links it back.
type UserSuggestion struct {
	ID                 string  `json:"id" gorm:"primaryKey;type:uuid"`
	SeasonID           string  `json:"season_id" gorm:"not null;index"`
	ExternalUserID     string  `json:"external_user_id" gorm:"not null;index"`
	Title              string  `json:"title" gorm:"not null"`
	Description        string  `json:"description" gorm:"type:text"`
	Status             string  `json:"status" gorm:"type:varchar(16);default:'pending';index"` // pending, adopted, rejected
	AdoptedChallengeID *string `json:"adopted_challenge_id,omitempty" gorm:"type:uuid"`

	Timestamps
}

// Suggestion statuses.
const (
	SuggestionPending  = "pending"
	SuggestionAdopted  = "adopted"
	SuggestionRejected = "rejected"
)
