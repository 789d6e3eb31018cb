package services

import (
	"testing"

	"freestyle-backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveParticipationWritesLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := NewParticipationService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)
	challenge := seedChallenge(t, db, season.ID, 1, models.ChallengeActive)
	mode := seedMode(t, db, challenge.ID, models.ModeHard, 30)
	participation := seedParticipation(t, db, "alice", challenge, mode)

	approved, err := svc.ApproveParticipation(participation.ID, "admin-1", "clean landing")
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationApproved, approved.Status)
	assert.Equal(t, "admin-1", approved.ReviewerID)
	require.NotNil(t, approved.ReviewedAt)

	var entries []models.PointEntry
	require.NoError(t, db.Where("participation_id = ?", participation.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].ExternalUserID)
	assert.Equal(t, season.ID, entries[0].SeasonID)
	assert.Equal(t, models.ModeHard, entries[0].ModeType)
	assert.Equal(t, models.PointChallengeCompletion, entries[0].PointType)
	assert.EqualValues(t, 30, entries[0].Points, "ledger points come from the mode's reward")
}

func TestRejectParticipationWritesNoPoints(t *testing.T) {
	db := setupTestDB(t)
	svc := NewParticipationService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)
	challenge := seedChallenge(t, db, season.ID, 1, models.ChallengeActive)
	mode := seedMode(t, db, challenge.ID, models.ModeSimple, 10)
	participation := seedParticipation(t, db, "alice", challenge, mode)

	rejected, err := svc.RejectParticipation(participation.ID, "admin-1", "wrong move set")
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationRejected, rejected.Status)
	assert.Equal(t, "wrong move set", rejected.ReviewNote)

	var count int64
	db.Model(&models.PointEntry{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestReviewIsSingleShot(t *testing.T) {
	db := setupTestDB(t)
	svc := NewParticipationService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)
	challenge := seedChallenge(t, db, season.ID, 1, models.ChallengeActive)
	mode := seedMode(t, db, challenge.ID, models.ModeSimple, 10)
	participation := seedParticipation(t, db, "alice", challenge, mode)

	_, err := svc.ApproveParticipation(participation.ID, "admin-1", "")
	require.NoError(t, err)

	// Second review of any kind is refused and writes no second entry.
	_, err = svc.ApproveParticipation(participation.ID, "admin-2", "")
	requireFiberStatus(t, err, 409)
	_, err = svc.RejectParticipation(participation.ID, "admin-2", "")
	requireFiberStatus(t, err, 409)

	var count int64
	db.Model(&models.PointEntry{}).Where("participation_id = ?", participation.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestReviewUnknownParticipation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewParticipationService(db)

	_, err := svc.ApproveParticipation("no-such-id", "admin-1", "")
	requireFiberStatus(t, err, 404)
	_, err = svc.RejectParticipation("no-such-id", "admin-1", "")
	requireFiberStatus(t, err, 404)
}

func TestGrantBonusPoints(t *testing.T) {
	db := setupTestDB(t)
	svc := NewParticipationService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)

	entry, err := svc.GrantBonusPoints(season.ID, "alice", 25)
	require.NoError(t, err)
	assert.Equal(t, models.PointBonus, entry.PointType)
	assert.EqualValues(t, 25, entry.Points)
	assert.Equal(t, season.ID, entry.SeasonID)

	_, err = svc.GrantBonusPoints(season.ID, "alice", 0)
	requireFiberStatus(t, err, 400)
	_, err = svc.GrantBonusPoints(season.ID, "", 10)
	requireFiberStatus(t, err, 400)
	_, err = svc.GrantBonusPoints("no-such-id", "alice", 10)
	requireFiberStatus(t, err, 404)
}

func TestGrantBonusPointsRefusedOnSettledSeason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewParticipationService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonSettled)

	_, err := svc.GrantBonusPoints(season.ID, "alice", 10)
	fe := requireFiberStatus(t, err, 409)
	assert.Contains(t, fe.Message, "Summer 2026")
}

func TestBonusPointsCountTowardSettlementButNotCompletions(t *testing.T) {
	db := setupTestDB(t)
	participations := NewParticipationService(db)
	seasons := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)
	challenge := seedChallenge(t, db, season.ID, 1, models.ChallengeActive)
	hard := seedMode(t, db, challenge.ID, models.ModeHard, 30)

	submission := seedParticipation(t, db, "bora", challenge, hard)
	_, err := participations.ApproveParticipation(submission.ID, "admin-1", "")
	require.NoError(t, err)

	// A bonus lifts alice past bora without any completed challenge.
	_, err = participations.GrantBonusPoints(season.ID, "alice", 50)
	require.NoError(t, err)

	require.NoError(t, seasons.EndSeason(season.ID))

	var rows []models.SeasonLeaderboard
	require.NoError(t, db.Where("season_id = ?", season.ID).Order("rank_position ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].ExternalUserID)
	assert.EqualValues(t, 50, rows[0].TotalPoints)
	assert.EqualValues(t, 0, rows[0].ParticipationCount)
	assert.EqualValues(t, 0, rows[0].HardCompletions)
	assert.EqualValues(t, 1, rows[1].ParticipationCount)
}

func TestApprovedParticipationFeedsSettlement(t *testing.T) {
	db := setupTestDB(t)
	participations := NewParticipationService(db)
	seasons := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)
	challenge := seedChallenge(t, db, season.ID, 1, models.ChallengeActive)
	simple := seedMode(t, db, challenge.ID, models.ModeSimple, 10)
	hard := seedMode(t, db, challenge.ID, models.ModeHard, 30)

	first := seedParticipation(t, db, "alice", challenge, hard)
	second := seedParticipation(t, db, "bora", challenge, simple)
	third := seedParticipation(t, db, "caio", challenge, simple)

	_, err := participations.ApproveParticipation(first.ID, "admin-1", "")
	require.NoError(t, err)
	_, err = participations.ApproveParticipation(second.ID, "admin-1", "")
	require.NoError(t, err)
	_, err = participations.RejectParticipation(third.ID, "admin-1", "off topic")
	require.NoError(t, err)

	require.NoError(t, seasons.EndSeason(season.ID))

	var rows []models.SeasonLeaderboard
	require.NoError(t, db.Where("season_id = ?", season.ID).Order("rank_position ASC").Find(&rows).Error)
	require.Len(t, rows, 2, "rejected submissions never reach the leaderboard")
	assert.Equal(t, "alice", rows[0].ExternalUserID)
	assert.EqualValues(t, 30, rows[0].TotalPoints)
	assert.Equal(t, "bora", rows[1].ExternalUserID)
}
