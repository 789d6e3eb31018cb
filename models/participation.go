package models

import (
	"time"
)

// Participation review statuses.
const (
	ParticipationPending  = "pending"
	ParticipationApproved = "approved"
	ParticipationRejected = "rejected"
)

// UserParticipation is a user's video submission against one challenge
// mode, reviewed by an admin. Only approved participations accrue
// points (written to the ledger at review time).
type UserParticipation struct {
	ID             string `json:"id" gorm:"primaryKey;type:uuid"`
	ExternalUserID string `json:"external_user_id" gorm:"not null;index"`
	ChallengeID    string `json:"challenge_id" gorm:"not null;index"`
	ModeID         string `json:"mode_id" gorm:"not null;index"`
	SeasonID       string `json:"season_id" gorm:"not null;index"`

	VideoURL string `json:"video_url" gorm:"type:text;not null"`
	Note     string `json:"note" gorm:"type:text"`

	Status     string     `json:"status" gorm:"type:varchar(16);default:'pending';index"`
	ReviewerID string     `json:"reviewer_id,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote string     `json:"review_note,omitempty" gorm:"type:text"`

	// Relationships
	Mode ChallengeMode `json:"mode,omitempty" gorm:"foreignKey:ModeID"`

	Timestamps
}

// Point entry types.
const (
	PointChallengeCompletion = "challenge_completion"
	PointBonus               = "bonus"
)

// PointEntry is one row of the season point ledger. Settlement only
// ever reads these in aggregate, grouped by user.
type PointEntry struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid"`
	ExternalUserID  string    `json:"external_user_id" gorm:"not null;index"`
	SeasonID        string    `json:"season_id" gorm:"not null;index"`
	ChallengeID     string    `json:"challenge_id" gorm:"index"`
	ParticipationID string    `json:"participation_id" gorm:"index"`
	ModeType        string    `json:"mode_type" gorm:"type:varchar(16)"`
	PointType       string    `json:"point_type" gorm:"type:varchar(32);not null"`
	Points          int64     `json:"points" gorm:"not null"`
	EarnedAt        time.Time `json:"earned_at" gorm:"not null;index"`
}
