package services

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"freestyle-backoffice/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateSeasonRefusedWhileAnotherActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	seedSeason(t, db, "Summer 2026", models.SeasonActive)

	app := fiber.New()
	app.Post("/seasons", svc.CreateSeason)

	body := `{"name":"Autumn 2026","year":2026,"quarter":4,"start_date":"2026-10-01T00:00:00Z"}`
	req := httptest.NewRequest("POST", "/seasons", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)

	var count int64
	db.Model(&models.Season{}).Count(&count)
	assert.EqualValues(t, 1, count, "no second season should have been created")
}

func TestCreateSeasonAllowedAfterPreviousEnded(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	seedSeason(t, db, "Summer 2026", models.SeasonEnded)

	app := fiber.New()
	app.Post("/seasons", svc.CreateSeason)

	body := `{"name":"Autumn 2026","year":2026,"quarter":4,"start_date":"2026-10-01T00:00:00Z"}`
	req := httptest.NewRequest("POST", "/seasons", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestGetAllSeasonsBriefListing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	active := seedSeason(t, db, "Summer 2026", models.SeasonActive)
	seedChallenge(t, db, active.ID, 1, models.ChallengeActive)

	app := fiber.New()
	app.Get("/seasons", svc.GetAllSeasons)

	req := httptest.NewRequest("GET", "/seasons?brief=true", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var seasons []models.MiniSeason
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&seasons))
	require.Len(t, seasons, 1)
	assert.Equal(t, active.ID, seasons[0].ID)
	assert.Equal(t, "Summer 2026", seasons[0].Name)
	assert.Equal(t, models.SeasonActive, seasons[0].Status)
	assert.Equal(t, 2026, seasons[0].Year)
}

func TestEndSeasonRanksByPointsThenFirstCompletion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)

	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	// alice and bora are tied on 50 points; bora earned first.
	seedPoints(t, db, "alice", season.ID, models.ModeHard, 50, base.Add(2*time.Hour))
	seedPoints(t, db, "bora", season.ID, models.ModeHard, 50, base.Add(1*time.Hour))
	seedPoints(t, db, "caio", season.ID, models.ModeSimple, 30, base.Add(3*time.Hour))

	require.NoError(t, svc.EndSeason(season.ID))

	var updated models.Season
	require.NoError(t, db.First(&updated, "id = ?", season.ID).Error)
	assert.Equal(t, models.SeasonEnded, updated.Status)

	var rows []models.SeasonLeaderboard
	require.NoError(t, db.Where("season_id = ?", season.ID).Order("rank_position ASC").Find(&rows).Error)
	require.Len(t, rows, 3)

	assert.Equal(t, "bora", rows[0].ExternalUserID)
	assert.Equal(t, "alice", rows[1].ExternalUserID)
	assert.Equal(t, "caio", rows[2].ExternalUserID)
	for i, row := range rows {
		assert.Equal(t, i+1, row.RankPosition)
		assert.True(t, row.IsWinner)
		assert.Equal(t, models.PrizePending, row.PrizeStatus)
	}
	assert.EqualValues(t, 50, rows[0].TotalPoints)
	assert.EqualValues(t, 1, rows[0].HardCompletions)
	assert.EqualValues(t, 1, rows[2].SimpleCompletions)
}

func TestEndSeasonTieFallsBackToUserID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)

	earned := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	seedPoints(t, db, "zoe", season.ID, models.ModeSimple, 20, earned)
	seedPoints(t, db, "amir", season.ID, models.ModeSimple, 20, earned)

	require.NoError(t, svc.EndSeason(season.ID))

	var rows []models.SeasonLeaderboard
	require.NoError(t, db.Where("season_id = ?", season.ID).Order("rank_position ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "amir", rows[0].ExternalUserID)
	assert.Equal(t, "zoe", rows[1].ExternalUserID)
}

func TestEndSeasonRanksBeyondPodium(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)

	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	users := []string{"u1", "u2", "u3", "u4", "u5"}
	for i, u := range users {
		seedPoints(t, db, u, season.ID, models.ModeSimple, int64(100-i*10), base.Add(time.Duration(i)*time.Minute))
	}

	require.NoError(t, svc.EndSeason(season.ID))

	var rows []models.SeasonLeaderboard
	require.NoError(t, db.Where("season_id = ?", season.ID).Order("rank_position ASC").Find(&rows).Error)
	require.Len(t, rows, 5)
	for i, row := range rows {
		assert.Equal(t, i+1, row.RankPosition, "ranks must be consecutive with no gaps")
	}
	assert.True(t, rows[2].IsWinner)
	assert.False(t, rows[3].IsWinner)
	assert.Equal(t, models.PrizeNone, rows[3].PrizeStatus)
	assert.False(t, rows[4].IsWinner)
}

func TestEndSeasonWithEmptyLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Quiet Season", models.SeasonActive)

	require.NoError(t, svc.EndSeason(season.ID))

	var updated models.Season
	require.NoError(t, db.First(&updated, "id = ?", season.ID).Error)
	assert.Equal(t, models.SeasonEnded, updated.Status)

	var count int64
	db.Model(&models.SeasonLeaderboard{}).Where("season_id = ?", season.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestEndSeasonRefusedWhenNotActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonEnded)

	fe := requireFiberStatus(t, svc.EndSeason(season.ID), 409)
	assert.Contains(t, fe.Message, "Summer 2026")
	assert.Contains(t, fe.Message, models.SeasonEnded)
}

func TestEndSeasonNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	requireFiberStatus(t, svc.EndSeason("no-such-id"), 404)
}

func TestEndSeasonGrantsPodiumHonors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)

	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	seedPoints(t, db, "alice", season.ID, models.ModeHard, 90, base)
	seedPoints(t, db, "bora", season.ID, models.ModeHard, 60, base)
	seedPoints(t, db, "caio", season.ID, models.ModeSimple, 30, base)
	seedPoints(t, db, "dina", season.ID, models.ModeSimple, 10, base)

	require.NoError(t, svc.EndSeason(season.ID))

	var honors []models.UserHonor
	require.NoError(t, db.Where("season_id = ?", season.ID).Order("rank ASC").Find(&honors).Error)
	require.Len(t, honors, 3, "only the podium gets season honors")
	assert.Equal(t, models.HonorSeason1st, honors[0].HonorCode)
	assert.Equal(t, "alice", honors[0].ExternalUserID)
	assert.Equal(t, models.HonorSeason3rd, honors[2].HonorCode)
	assert.Equal(t, "caio", honors[2].ExternalUserID)
}

func TestReopenSeasonClearsLeaderboard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)
	seedPoints(t, db, "alice", season.ID, models.ModeHard, 50, time.Now())

	require.NoError(t, svc.EndSeason(season.ID))
	require.NoError(t, svc.ReopenSeason(season.ID))

	var updated models.Season
	require.NoError(t, db.First(&updated, "id = ?", season.ID).Error)
	assert.Equal(t, models.SeasonActive, updated.Status)

	var count int64
	db.Model(&models.SeasonLeaderboard{}).Where("season_id = ?", season.ID).Count(&count)
	assert.EqualValues(t, 0, count, "reopening must clear the settled leaderboard")
}

func TestReopenSeasonBlockedByAnotherActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	old := seedSeason(t, db, "Spring 2026", models.SeasonEnded)
	seedSeason(t, db, "Summer 2026", models.SeasonActive)

	fe := requireFiberStatus(t, svc.ReopenSeason(old.ID), 409)
	assert.Contains(t, fe.Message, "Summer 2026", "refusal should name the blocking season")

	var unchanged models.Season
	require.NoError(t, db.First(&unchanged, "id = ?", old.ID).Error)
	assert.Equal(t, models.SeasonEnded, unchanged.Status)
}

func TestReopenSeasonRequiresEndedOrSettled(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)
	requireFiberStatus(t, svc.ReopenSeason(season.ID), 409)
}

func TestEndReopenEndIsDeterministic(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)

	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	seedPoints(t, db, "alice", season.ID, models.ModeHard, 50, base.Add(2*time.Hour))
	seedPoints(t, db, "bora", season.ID, models.ModeHard, 50, base.Add(1*time.Hour))
	seedPoints(t, db, "caio", season.ID, models.ModeSimple, 30, base.Add(3*time.Hour))

	require.NoError(t, svc.EndSeason(season.ID))
	var first []models.SeasonLeaderboard
	require.NoError(t, db.Where("season_id = ?", season.ID).Order("rank_position ASC").Find(&first).Error)

	require.NoError(t, svc.ReopenSeason(season.ID))
	require.NoError(t, svc.EndSeason(season.ID))
	var second []models.SeasonLeaderboard
	require.NoError(t, db.Where("season_id = ?", season.ID).Order("rank_position ASC").Find(&second).Error)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ExternalUserID, second[i].ExternalUserID)
		assert.Equal(t, first[i].RankPosition, second[i].RankPosition)
		assert.Equal(t, first[i].TotalPoints, second[i].TotalPoints)
	}
}

func TestEndSeasonRollsBackWhenSettlementFails(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)
	seedPoints(t, db, "alice", season.ID, models.ModeHard, 50, time.Now())

	// Sabotage settlement: without the leaderboard table the replace
	// step fails, and the status flip must roll back with it.
	require.NoError(t, db.Migrator().DropTable(&models.SeasonLeaderboard{}))

	err := svc.EndSeason(season.ID)
	require.Error(t, err)

	var unchanged models.Season
	require.NoError(t, db.First(&unchanged, "id = ?", season.ID).Error)
	assert.Equal(t, models.SeasonActive, unchanged.Status, "a season must never be left ended without its leaderboard")
}

func TestFinalizeSeason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonEnded)

	require.NoError(t, svc.FinalizeSeason(season.ID))

	var updated models.Season
	require.NoError(t, db.First(&updated, "id = ?", season.ID).Error)
	assert.Equal(t, models.SeasonSettled, updated.Status)

	requireFiberStatus(t, svc.FinalizeSeason(season.ID), 409)
}

func TestFinalizeSeasonRequiresEnded(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)
	requireFiberStatus(t, svc.FinalizeSeason(season.ID), 409)
	requireFiberStatus(t, svc.FinalizeSeason("no-such-id"), 404)
}

func TestResettleSeasonPicksUpLedgerCorrections(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)

	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	seedPoints(t, db, "alice", season.ID, models.ModeHard, 50, base)
	seedPoints(t, db, "bora", season.ID, models.ModeHard, 40, base)

	require.NoError(t, svc.EndSeason(season.ID))

	// A late correction puts bora ahead; resettlement must reflect it.
	seedPoints(t, db, "bora", season.ID, models.ModeSimple, 30, base.Add(time.Hour))
	require.NoError(t, svc.ResettleSeason(season.ID))

	var rows []models.SeasonLeaderboard
	require.NoError(t, db.Where("season_id = ?", season.ID).Order("rank_position ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "bora", rows[0].ExternalUserID)
	assert.EqualValues(t, 70, rows[0].TotalPoints)
}

func TestResettleSeasonRequiresEndedOrSettled(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)
	requireFiberStatus(t, svc.ResettleSeason(season.ID), 409)
}

// Season honors from a prior settlement survive a resettle with an
// unchanged podium: the grant is conflict-ignored, not duplicated.
func TestResettleDoesNotDuplicateHonors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonActive)
	seedPoints(t, db, "alice", season.ID, models.ModeHard, 50, time.Now())

	require.NoError(t, svc.EndSeason(season.ID))
	require.NoError(t, svc.ResettleSeason(season.ID))
	require.NoError(t, svc.ResettleSeason(season.ID))

	var count int64
	db.Model(&models.UserHonor{}).
		Where("external_user_id = ? AND season_id = ?", "alice", season.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteSeasonCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	season := seedSeason(t, db, "Summer 2026", models.SeasonEnded)
	challenge := seedChallenge(t, db, season.ID, 1, models.ChallengeEnded)
	mode := seedMode(t, db, challenge.ID, models.ModeSimple, 10)
	seedParticipation(t, db, "alice", challenge, mode)
	seedPoints(t, db, "alice", season.ID, models.ModeSimple, 10, time.Now())

	app := fiber.New()
	app.Delete("/seasons/:id", svc.DeleteSeason)
	req := httptest.NewRequest("DELETE", "/seasons/"+season.ID, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	assert.ErrorIs(t, db.First(&models.Season{}, "id = ?", season.ID).Error, gorm.ErrRecordNotFound)
	for table, model := range map[string]interface{}{
		"challenges":     &models.WeeklyChallenge{},
		"modes":          &models.ChallengeMode{},
		"participations": &models.UserParticipation{},
		"point entries":  &models.PointEntry{},
	} {
		var count int64
		db.Model(model).Count(&count)
		assert.EqualValues(t, 0, count, "expected no orphaned %s", table)
	}
}
