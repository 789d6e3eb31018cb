package services

import (
	"log"
	"sort"
	"time"

	"freestyle-backoffice/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// seasonStanding is one user's folded ledger totals before ranking.
type seasonStanding struct {
	userID            string
	totalPoints       int64
	participations    int64
	simpleCompletions int64
	hardCompletions   int64
	firstEarnedAt     time.Time
}

// settleSeason recomputes the season's final standings from the point
// ledger and replaces the leaderboard rows, all on the caller's
// transaction. Deterministic and idempotent: re-running with an
// unchanged ledger reproduces the same ranks, and honor grants for the
// podium are conflict-ignored.
//
// Ranking: total points descending; ties broken by earliest first
// completion, then by user id ascending. Ranks are 1..N with no gaps.
func (s *SeasonService) settleSeason(tx *gorm.DB, seasonID string) error {
	var entries []models.PointEntry
	if err := tx.Where("season_id = ?", seasonID).Find(&entries).Error; err != nil {
		return err
	}

	byUser := map[string]*seasonStanding{}
	for _, e := range entries {
		st, ok := byUser[e.ExternalUserID]
		if !ok {
			st = &seasonStanding{userID: e.ExternalUserID, firstEarnedAt: e.EarnedAt}
			byUser[e.ExternalUserID] = st
		}
		st.totalPoints += e.Points
		if e.EarnedAt.Before(st.firstEarnedAt) {
			st.firstEarnedAt = e.EarnedAt
		}
		// Bonus entries add points but are not submissions.
		if e.PointType == models.PointChallengeCompletion {
			st.participations++
			switch e.ModeType {
			case models.ModeSimple:
				st.simpleCompletions++
			case models.ModeHard:
				st.hardCompletions++
			}
		}
	}

	standings := make([]*seasonStanding, 0, len(byUser))
	for _, st := range byUser {
		standings = append(standings, st)
	}
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.totalPoints != b.totalPoints {
			return a.totalPoints > b.totalPoints
		}
		if !a.firstEarnedAt.Equal(b.firstEarnedAt) {
			return a.firstEarnedAt.Before(b.firstEarnedAt)
		}
		return a.userID < b.userID
	})

	// Replace any prior leaderboard for this season.
	if err := tx.Where("season_id = ?", seasonID).Delete(&models.SeasonLeaderboard{}).Error; err != nil {
		return err
	}

	rows := make([]models.SeasonLeaderboard, 0, len(standings))
	for i, st := range standings {
		rank := i + 1
		row := models.SeasonLeaderboard{
			ID:                 uuid.NewString(),
			SeasonID:           seasonID,
			ExternalUserID:     st.userID,
			TotalPoints:        st.totalPoints,
			RankPosition:       rank,
			ParticipationCount: st.participations,
			SimpleCompletions:  st.simpleCompletions,
			HardCompletions:    st.hardCompletions,
			IsWinner:           rank <= 3,
			PrizeStatus:        models.PrizeNone,
		}
		if row.IsWinner {
			row.PrizeStatus = models.PrizePending
		}
		rows = append(rows, row)
	}
	if len(rows) > 0 {
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	for i := 0; i < len(standings) && i < 3; i++ {
		if err := s.Honors.GrantSeasonRankHonor(tx, standings[i].userID, seasonID, i+1); err != nil {
			return err
		}
	}

	log.Printf("📊 Settled season %s: %d ranked users", seasonID, len(rows))
	return nil
}
