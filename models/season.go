package models

import (
	"time"
)

// Season statuses. At most one season may be active at any time —
// SeasonService re-checks this on create and on reopen.
const (
	SeasonActive  = "active"
	SeasonEnded   = "ended"
	SeasonSettled = "settled"
)

// Season is a fixed-duration competitive period containing weekly challenges.
type Season struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name             string    `json:"name" gorm:"not null"`
	Year             int       `json:"year" gorm:"not null;index"`
	Quarter          int       `json:"quarter" gorm:"not null"`
	StartDate        time.Time `json:"start_date" gorm:"not null"`
	EndDate          time.Time `json:"end_date"`
	Status           string    `json:"status" gorm:"type:varchar(16);default:'active';index"`
	PrizeDescription string    `json:"prize_description" gorm:"type:text"`

	// Relationships
	Challenges []WeeklyChallenge `json:"challenges,omitempty" gorm:"foreignKey:SeasonID"`

	// Calculated fields (not stored in DB)
	ChallengeCount   int64 `json:"challenge_count,omitempty" gorm:"-"`
	ParticipantCount int64 `json:"participant_count,omitempty" gorm:"-"`

	Timestamps
}

// MiniSeason is a brief summary for listing screens.
type MiniSeason struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Year      int       `json:"year"`
	Quarter   int       `json:"quarter"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// SeasonLeaderboard holds one settled row per (season, user). The rows
// are derived by settlement and never edited directly; reopening a
// season deletes them.
type SeasonLeaderboard struct {
	ID             string `json:"id" gorm:"primaryKey;type:uuid"`
	SeasonID       string `json:"season_id" gorm:"not null;index;uniqueIndex:idx_season_user"`
	ExternalUserID string `json:"external_user_id" gorm:"not null;index;uniqueIndex:idx_season_user"`

	TotalPoints        int64 `json:"total_points" gorm:"default:0"`
	RankPosition       int   `json:"rank_position" gorm:"default:0"`
	ParticipationCount int64 `json:"participation_count" gorm:"default:0"`
	SimpleCompletions  int64 `json:"simple_completions" gorm:"default:0"`
	HardCompletions    int64 `json:"hard_completions" gorm:"default:0"`

	IsWinner    bool   `json:"is_winner" gorm:"default:false"`
	PrizeStatus string `json:"prize_status" gorm:"type:varchar(16);default:'none'"` // none, pending, delivered

	SettledAt time.Time `json:"settled_at" gorm:"autoUpdateTime"`
}

// Prize statuses on leaderboard rows.
const (
	PrizeNone      = "none"
	PrizePending   = "pending"
	PrizeDelivered = "delivered"
)
