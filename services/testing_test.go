package services

import (
	"testing"
	"time"

	"freestyle-backoffice/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory DB")

	// A plain :memory: DSN gives every pooled connection its own empty
	// database, so pin the pool to a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Season{},
		&models.SeasonLeaderboard{},
		&models.WeeklyChallenge{},
		&models.ChallengeMode{},
		&models.UserSuggestion{},
		&models.UserParticipation{},
		&models.PointEntry{},
		&models.HonorType{},
		&models.UserHonor{},
		&models.Move{},
		&models.MoveCategory{},
		&models.MoveTag{},
		&models.PlatformUser{},
	)
	require.NoError(t, err, "failed to migrate schema")

	return db
}

// requireFiberStatus asserts err carries the given HTTP status and
// returns it for message checks.
func requireFiberStatus(t *testing.T, err error, code int) *fiber.Error {
	t.Helper()
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, code, fe.Code, "unexpected status in %v", fe)
	return fe
}

func seedSeason(t *testing.T, db *gorm.DB, name, status string) *models.Season {
	t.Helper()
	season := &models.Season{
		ID:        uuid.NewString(),
		Name:      name,
		Year:      2026,
		Quarter:   3,
		StartDate: time.Now().AddDate(0, -1, 0),
		EndDate:   time.Now().AddDate(0, 2, 0),
		Status:    status,
	}
	require.NoError(t, db.Create(season).Error)
	return season
}

func seedChallenge(t *testing.T, db *gorm.DB, seasonID string, week int, status string) *models.WeeklyChallenge {
	t.Helper()
	challenge := &models.WeeklyChallenge{
		ID:         uuid.NewString(),
		SeasonID:   seasonID,
		Title:      "Week " + uuid.NewString()[:8],
		WeekNumber: week,
		StartDate:  time.Now(),
		EndDate:    time.Now().AddDate(0, 0, 7),
		Status:     status,
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func seedMode(t *testing.T, db *gorm.DB, challengeID, modeType string, points int64) *models.ChallengeMode {
	t.Helper()
	mode := &models.ChallengeMode{
		ID:          uuid.NewString(),
		ChallengeID: challengeID,
		ModeType:    modeType,
		PointReward: points,
	}
	require.NoError(t, db.Create(mode).Error)
	return mode
}

func seedParticipation(t *testing.T, db *gorm.DB, userID string, challenge *models.WeeklyChallenge, mode *models.ChallengeMode) *models.UserParticipation {
	t.Helper()
	participation := &models.UserParticipation{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		ChallengeID:    challenge.ID,
		ModeID:         mode.ID,
		SeasonID:       challenge.SeasonID,
		VideoURL:       "https://cdn.example.com/clips/" + uuid.NewString() + ".mp4",
		Status:         models.ParticipationPending,
	}
	require.NoError(t, db.Create(participation).Error)
	return participation
}

func seedPoints(t *testing.T, db *gorm.DB, userID, seasonID, modeType string, points int64, earnedAt time.Time) *models.PointEntry {
	t.Helper()
	entry := &models.PointEntry{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		SeasonID:       seasonID,
		ModeType:       modeType,
		PointType:      models.PointChallengeCompletion,
		Points:         points,
		EarnedAt:       earnedAt,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}
