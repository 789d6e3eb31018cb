package models

import (
	"time"
)

// Honor type codes for season podium finishes.
const (
	HonorSeason1st = "season_1st"
	HonorSeason2nd = "season_2nd"
	HonorSeason3rd = "season_3rd"
)

// MilestoneThresholds are unlocked-move counts that earn a milestone
// honor. A user who jumps past a threshold in one bulk unlock still
// collects every milestone at or below the new count.
var MilestoneThresholds = []int64{10, 50, 100, 250, 500, 1000}

// HonorType: static config for achievement badges (admin-editable)
type HonorType struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid"`
	Code        string `json:"code" gorm:"uniqueIndex;not null"` // e.g., "season_1st", "milestone_100"
	Name        string `json:"name" gorm:"not null"`             // "Season Champion", "Century Club"
	Description string `json:"description" gorm:"type:text"`
	IconURL     string `json:"icon_url" gorm:"type:text"`
	Rarity      string `json:"rarity" gorm:"type:varchar(16);default:'common'"` // common, rare, epic, legendary

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// UserHonor: awarded instance. The (user, honor_type, season) triple is
// unique; duplicate grants insert with conflict-ignore semantics so
// re-settlement never errors or double-awards.
type UserHonor struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid"`
	ExternalUserID string    `json:"external_user_id" gorm:"not null;index;uniqueIndex:idx_user_honor"`
	HonorCode      string    `json:"honor_code" gorm:"not null;uniqueIndex:idx_user_honor"`
	SeasonID       string    `json:"season_id" gorm:"uniqueIndex:idx_user_honor"` // empty for milestone honors
	Rank           int       `json:"rank,omitempty" gorm:"default:0"`             // 1..3 for season honors
	AwardedAt      time.Time `json:"awarded_at" gorm:"autoCreateTime"`
}

// SeasonRankHonorCode maps a podium rank to its honor code.
func SeasonRankHonorCode(rank int) string {
	switch rank {
	case 1:
		return HonorSeason1st
	case 2:
		return HonorSeason2nd
	case 3:
		return HonorSeason3rd
	}
	return ""
}

// Seeded honor types (created on startup if missing)
var DefaultHonorTypes = []HonorType{
	{Code: HonorSeason1st, Name: "Season Champion", Description: "Finished a season in 1st place", Rarity: "legendary"},
	{Code: HonorSeason2nd, Name: "Season Runner-Up", Description: "Finished a season in 2nd place", Rarity: "epic"},
	{Code: HonorSeason3rd, Name: "Season Podium", Description: "Finished a season in 3rd place", Rarity: "epic"},
	{Code: "milestone_10", Name: "First Steps", Description: "Unlocked 10 moves", Rarity: "common"},
	{Code: "milestone_50", Name: "Street Regular", Description: "Unlocked 50 moves", Rarity: "common"},
	{Code: "milestone_100", Name: "Century Club", Description: "Unlocked 100 moves", Rarity: "rare"},
	{Code: "milestone_250", Name: "Crowd Pleaser", Description: "Unlocked 250 moves", Rarity: "rare"},
	{Code: "milestone_500", Name: "Freestyle Scholar", Description: "Unlocked 500 moves", Rarity: "epic"},
	{Code: "milestone_1000", Name: "Living Legend", Description: "Unlocked 1000 moves", Rarity: "legendary"},
}
