package services

import (
	"fmt"
	"log"
	"time"

	"freestyle-backoffice/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SeasonService struct {
	DB     *gorm.DB
	Honors *HonorService
}

func NewSeasonService(db *gorm.DB) *SeasonService {
	return &SeasonService{DB: db, Honors: NewHonorService(db)}
}

// CreateSeason creates a new active season. Refused while any other
// season is active — at most one season may be running system-wide.
func (s *SeasonService) CreateSeason(c *fiber.Ctx) error {
	type Req struct {
		Name             string    `json:"name"`
		Year             int       `json:"year"`
		Quarter          int       `json:"quarter"`
		StartDate        time.Time `json:"start_date"`
		EndDate          time.Time `json:"end_date"`
		PrizeDescription string    `json:"prize_description"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Name == "" || req.Year == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "name and year are required"})
	}
	if req.Quarter < 1 || req.Quarter > 4 {
		return c.Status(400).JSON(fiber.Map{"error": "quarter must be 1..4"})
	}

	var active models.Season
	err := s.DB.Where("status = ?", models.SeasonActive).First(&active).Error
	if err == nil {
		return c.Status(409).JSON(fiber.Map{
			"error": fmt.Sprintf("season %q is already active — end it before creating a new one", active.Name),
		})
	}
	if err != gorm.ErrRecordNotFound {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	season := models.Season{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Year:             req.Year,
		Quarter:          req.Quarter,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Status:           models.SeasonActive,
		PrizeDescription: req.PrizeDescription,
	}
	if err := s.DB.Create(&season).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	log.Printf("🆕 Season created: %s (%d Q%d)", season.Name, season.Year, season.Quarter)
	return c.Status(201).JSON(season)
}

func (s *SeasonService) GetAllSeasons(c *fiber.Ctx) error {
	// brief=true returns the lightweight shape for picker dropdowns —
	// no challenge preloads.
	if c.QueryBool("brief") {
		var seasons []models.MiniSeason
		err := s.DB.Model(&models.Season{}).
			Order("year DESC, quarter DESC").
			Find(&seasons).Error
		if err != nil {
			log.Printf("ERROR fetching seasons: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch seasons"})
		}
		return c.JSON(seasons)
	}

	var seasons []models.Season
	err := s.DB.
		Preload("Challenges", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_number ASC")
		}).
		Order("year DESC, quarter DESC").
		Find(&seasons).Error
	if err != nil {
		log.Printf("ERROR fetching seasons: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch seasons"})
	}
	return c.JSON(seasons)
}

func (s *SeasonService) GetSeasonByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var season models.Season
	err := s.DB.
		Preload("Challenges", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_number ASC")
		}).
		Preload("Challenges.Modes").
		First(&season, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "season not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	s.DB.Model(&models.WeeklyChallenge{}).Where("season_id = ?", id).Count(&season.ChallengeCount)
	s.DB.Model(&models.UserParticipation{}).
		Where("season_id = ?", id).
		Distinct("external_user_id").
		Count(&season.ParticipantCount)
	return c.JSON(season)
}

// UpdateSeason edits descriptive fields only. Status moves through the
// lifecycle endpoints, never through a plain update.
func (s *SeasonService) UpdateSeason(c *fiber.Ctx) error {
	id := c.Params("id")
	type Req struct {
		Name             *string    `json:"name"`
		StartDate        *time.Time `json:"start_date"`
		EndDate          *time.Time `json:"end_date"`
		PrizeDescription *string    `json:"prize_description"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return c.Status(400).JSON(fiber.Map{"error": "name cannot be empty"})
		}
		updates["name"] = *req.Name
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.PrizeDescription != nil {
		updates["prize_description"] = *req.PrizeDescription
	}
	if len(updates) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "no fields to update"})
	}
	result := s.DB.Model(&models.Season{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "season not found"})
	}
	var updated models.Season
	s.DB.First(&updated, "id = ?", id)
	return c.JSON(updated)
}

// EndSeason flips an active season to ended and settles its
// leaderboard inside one transaction. If settlement fails partway the
// status flip rolls back with it — a season is never left ended
// without its leaderboard.
func (s *SeasonService) EndSeason(seasonID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var season models.Season
		if err := tx.First(&season, "id = ?", seasonID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(404, "season not found")
			}
			return err
		}

		// Conditional flip guards against a racing second request:
		// only one caller sees RowsAffected == 1.
		result := tx.Model(&models.Season{}).
			Where("id = ? AND status = ?", seasonID, models.SeasonActive).
			Update("status", models.SeasonEnded)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(409, fmt.Sprintf("season %q is not active (status: %s)", season.Name, season.Status))
		}

		if err := s.settleSeason(tx, seasonID); err != nil {
			return err
		}
		log.Printf("🏁 Season ended and settled: %s", season.Name)
		return nil
	})
}

// ReopenSeason puts an ended or settled season back to active and
// clears its leaderboard. Refused while another season is active.
func (s *SeasonService) ReopenSeason(seasonID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var season models.Season
		if err := tx.First(&season, "id = ?", seasonID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(404, "season not found")
			}
			return err
		}
		if season.Status != models.SeasonEnded && season.Status != models.SeasonSettled {
			return fiber.NewError(409, fmt.Sprintf("season %q is not ended or settled (status: %s)", season.Name, season.Status))
		}

		var blocking models.Season
		err := tx.Where("status = ? AND id <> ?", models.SeasonActive, seasonID).First(&blocking).Error
		if err == nil {
			return fiber.NewError(409, fmt.Sprintf("season %q is currently active — end it first", blocking.Name))
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := tx.Where("season_id = ?", seasonID).Delete(&models.SeasonLeaderboard{}).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Season{}).
			Where("id = ? AND status IN ?", seasonID, []string{models.SeasonEnded, models.SeasonSettled}).
			Update("status", models.SeasonActive)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(409, "season status changed concurrently, try again")
		}
		log.Printf("🔄 Season reopened: %s (leaderboard cleared)", season.Name)
		return nil
	})
}

// FinalizeSeason marks an ended season as settled once prizes are
// handled. Record-keeping only — the leaderboard is already in place.
func (s *SeasonService) FinalizeSeason(seasonID string) error {
	result := s.DB.Model(&models.Season{}).
		Where("id = ? AND status = ?", seasonID, models.SeasonEnded).
		Update("status", models.SeasonSettled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var season models.Season
		if err := s.DB.First(&season, "id = ?", seasonID).Error; err != nil {
			return fiber.NewError(404, "season not found")
		}
		return fiber.NewError(409, fmt.Sprintf("season %q is not ended (status: %s)", season.Name, season.Status))
	}
	return nil
}

// ResettleSeason recomputes the leaderboard of an already ended or
// settled season from the current ledger. Safe to repeat — it
// overwrites the prior rows and honor grants are conflict-ignored.
func (s *SeasonService) ResettleSeason(seasonID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var season models.Season
		if err := tx.First(&season, "id = ?", seasonID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(404, "season not found")
			}
			return err
		}
		if season.Status != models.SeasonEnded && season.Status != models.SeasonSettled {
			return fiber.NewError(409, fmt.Sprintf("season %q has not ended yet (status: %s)", season.Name, season.Status))
		}
		return s.settleSeason(tx, seasonID)
	})
}

// DeleteSeason removes the season and everything owned by it.
// Destructive and irreversible.
func (s *SeasonService) DeleteSeason(c *fiber.Ctx) error {
	id := c.Params("id")
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Children first to respect foreign keys: ledger and
		// participations, then modes, then challenges.
		if err := tx.Where("season_id = ?", id).Delete(&models.PointEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("season_id = ?", id).Delete(&models.UserParticipation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id IN (?)",
			tx.Model(&models.WeeklyChallenge{}).Select("id").Where("season_id = ?", id),
		).Delete(&models.ChallengeMode{}).Error; err != nil {
			return err
		}
		if err := tx.Where("season_id = ?", id).Delete(&models.WeeklyChallenge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("season_id = ?", id).Delete(&models.SeasonLeaderboard{}).Error; err != nil {
			return err
		}
		if err := tx.Where("season_id = ?", id).Delete(&models.UserSuggestion{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Season{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(404, "season not found")
		}
		return nil
	})
	if err != nil {
		return respondError(c, err, "failed to delete season")
	}
	return c.SendStatus(204)
}

// GetSeasonLeaderboard returns the settled standings, best rank first.
func (s *SeasonService) GetSeasonLeaderboard(c *fiber.Ctx) error {
	id := c.Params("id")
	var rows []models.SeasonLeaderboard
	err := s.DB.Where("season_id = ?", id).
		Order("rank_position ASC").
		Find(&rows).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch leaderboard"})
	}
	return c.JSON(rows)
}

// --- Lifecycle endpoints (thin wrappers over the plain methods) ---

func (s *SeasonService) EndSeasonEndpoint(c *fiber.Ctx) error {
	if err := s.EndSeason(c.Params("id")); err != nil {
		return respondError(c, err, "failed to end season")
	}
	var season models.Season
	s.DB.First(&season, "id = ?", c.Params("id"))
	return c.JSON(season)
}

func (s *SeasonService) ReopenSeasonEndpoint(c *fiber.Ctx) error {
	if err := s.ReopenSeason(c.Params("id")); err != nil {
		return respondError(c, err, "failed to reopen season")
	}
	var season models.Season
	s.DB.First(&season, "id = ?", c.Params("id"))
	return c.JSON(season)
}

func (s *SeasonService) FinalizeSeasonEndpoint(c *fiber.Ctx) error {
	if err := s.FinalizeSeason(c.Params("id")); err != nil {
		return respondError(c, err, "failed to finalize season")
	}
	var season models.Season
	s.DB.First(&season, "id = ?", c.Params("id"))
	return c.JSON(season)
}

func (s *SeasonService) ResettleSeasonEndpoint(c *fiber.Ctx) error {
	if err := s.ResettleSeason(c.Params("id")); err != nil {
		return respondError(c, err, "failed to resettle season")
	}
	return s.GetSeasonLeaderboard(c)
}
