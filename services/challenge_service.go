package services

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"freestyle-backoffice/models"
	"freestyle-backoffice/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChallengeService struct {
	DB *gorm.DB
}

func NewChallengeService(db *gorm.DB) *ChallengeService {
	return &ChallengeService{DB: db}
}

func (s *ChallengeService) CreateChallenge(c *fiber.Ctx) error {
	type Req struct {
		SeasonID    string    `json:"season_id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		WeekNumber  int       `json:"week_number"`
		StartDate   time.Time `json:"start_date"`
		EndDate     time.Time `json:"end_date"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.SeasonID == "" || req.Title == "" || req.WeekNumber < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "season_id, title, and week_number are required"})
	}

	var season models.Season
	if err := s.DB.First(&season, "id = ?", req.SeasonID).Error; err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "season_id not found"})
	}

	challenge := models.WeeklyChallenge{
		ID:          uuid.NewString(),
		SeasonID:    req.SeasonID,
		Title:       req.Title,
		Description: req.Description,
		WeekNumber:  req.WeekNumber,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.ChallengeDraft,
	}
	if err := s.DB.Create(&challenge).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(challenge)
}

func (s *ChallengeService) GetChallengesForSeason(c *fiber.Ctx) error {
	seasonID := c.Params("id")
	var challenges []models.WeeklyChallenge
	err := s.DB.Where("season_id = ?", seasonID).
		Preload("Modes").
		Order("week_number ASC").
		Find(&challenges).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch challenges"})
	}
	return c.JSON(challenges)
}

func (s *ChallengeService) GetChallengeByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var challenge models.WeeklyChallenge
	err := s.DB.Preload("Season").Preload("Modes").First(&challenge, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "challenge not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(challenge)
}

func (s *ChallengeService) UpdateChallenge(c *fiber.Ctx) error {
	id := c.Params("id")
	type Req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		WeekNumber  *int       `json:"week_number"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.WeekNumber != nil {
		updates["week_number"] = *req.WeekNumber
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if len(updates) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "no fields to update"})
	}
	result := s.DB.Model(&models.WeeklyChallenge{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "challenge not found"})
	}
	var updated models.WeeklyChallenge
	s.DB.Preload("Modes").First(&updated, "id = ?", id)
	return c.JSON(updated)
}

func (s *ChallengeService) DeleteChallenge(c *fiber.Ctx) error {
	id := c.Params("id")
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("challenge_id = ?", id).Delete(&models.PointEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id = ?", id).Delete(&models.UserParticipation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id = ?", id).Delete(&models.ChallengeMode{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.WeeklyChallenge{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(404, "challenge not found")
		}
		return nil
	})
	if err != nil {
		return respondError(c, err, "failed to delete challenge")
	}
	return c.SendStatus(204)
}

// UploadOfficialVideo stores the challenge's official video in object
// storage and records its URL.
func (s *ChallengeService) UploadOfficialVideo(c *fiber.Ctx) error {
	id := c.Params("id")
	var challenge models.WeeklyChallenge
	if err := s.DB.First(&challenge, "id = ?", id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "challenge not found"})
	}
	video, err := c.FormFile("video")
	if err != nil || video.Size == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "video file is required"})
	}
	ext := filepath.Ext(video.Filename)
	if ext == "" {
		ext = ".mp4"
	}
	key := "challenges/official/" + uuid.NewString() + ext
	url, err := utils.UploadFileToStorage(video, key)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to upload video"})
	}
	if err := s.DB.Model(&challenge).Update("official_video_url", url).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	challenge.OfficialVideoURL = url
	return c.JSON(challenge)
}

// --- Lifecycle ---

// ActivateChallenge moves a draft challenge to active.
func (s *ChallengeService) ActivateChallenge(challengeID string) error {
	result := s.DB.Model(&models.WeeklyChallenge{}).
		Where("id = ? AND status = ?", challengeID, models.ChallengeDraft).
		Update("status", models.ChallengeActive)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return s.transitionRefusal(challengeID, models.ChallengeDraft)
	}
	return nil
}

// EndChallenge moves an active challenge to ended. Challenge-level end
// is independent of season settlement.
func (s *ChallengeService) EndChallenge(challengeID string) error {
	result := s.DB.Model(&models.WeeklyChallenge{}).
		Where("id = ? AND status = ?", challengeID, models.ChallengeActive).
		Update("status", models.ChallengeEnded)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return s.transitionRefusal(challengeID, models.ChallengeActive)
	}
	return nil
}

// ReopenChallenge moves an ended challenge back to active. Only allowed
// while the parent season is still active; the refusal names the
// blocking season so the operator knows what to reopen first.
func (s *ChallengeService) ReopenChallenge(challengeID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var challenge models.WeeklyChallenge
		if err := tx.First(&challenge, "id = ?", challengeID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(404, "challenge not found")
			}
			return err
		}
		if challenge.Status != models.ChallengeEnded {
			return fiber.NewError(409, fmt.Sprintf("challenge %q is not ended (status: %s)", challenge.Title, challenge.Status))
		}

		var season models.Season
		if err := tx.First(&season, "id = ?", challenge.SeasonID).Error; err != nil {
			return err
		}
		if season.Status != models.SeasonActive {
			return fiber.NewError(409, fmt.Sprintf(
				"cannot reopen challenge %q: season %q is %s — reopen the season first",
				challenge.Title, season.Name, season.Status))
		}

		result := tx.Model(&models.WeeklyChallenge{}).
			Where("id = ? AND status = ?", challengeID, models.ChallengeEnded).
			Update("status", models.ChallengeActive)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(409, "challenge status changed concurrently, try again")
		}
		log.Printf("🔄 Challenge reopened: %s", challenge.Title)
		return nil
	})
}

// transitionRefusal builds the 404/409 for a conditional update that
// matched no row.
func (s *ChallengeService) transitionRefusal(challengeID, wantStatus string) error {
	var challenge models.WeeklyChallenge
	if err := s.DB.First(&challenge, "id = ?", challengeID).Error; err != nil {
		return fiber.NewError(404, "challenge not found")
	}
	return fiber.NewError(409, fmt.Sprintf("challenge %q is not %s (status: %s)", challenge.Title, wantStatus, challenge.Status))
}

func (s *ChallengeService) ActivateChallengeEndpoint(c *fiber.Ctx) error {
	if err := s.ActivateChallenge(c.Params("id")); err != nil {
		return respondError(c, err, "failed to activate challenge")
	}
	return s.GetChallengeByID(c)
}

func (s *ChallengeService) EndChallengeEndpoint(c *fiber.Ctx) error {
	if err := s.EndChallenge(c.Params("id")); err != nil {
		return respondError(c, err, "failed to end challenge")
	}
	return s.GetChallengeByID(c)
}

func (s *ChallengeService) ReopenChallengeEndpoint(c *fiber.Ctx) error {
	if err := s.ReopenChallenge(c.Params("id")); err != nil {
		return respondError(c, err, "failed to reopen challenge")
	}
	return s.GetChallengeByID(c)
}

// --- Modes ---

// CreateMode adds a difficulty variant. Each challenge carries at most
// one simple and one hard mode.
func (s *ChallengeService) CreateMode(challengeID, modeType, requiredMoves string, pointReward int64) (*models.ChallengeMode, error) {
	if modeType != models.ModeSimple && modeType != models.ModeHard {
		return nil, fiber.NewError(400, "mode_type must be 'simple' or 'hard'")
	}
	var challenge models.WeeklyChallenge
	if err := s.DB.First(&challenge, "id = ?", challengeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(404, "challenge not found")
		}
		return nil, err
	}

	var existing int64
	s.DB.Model(&models.ChallengeMode{}).
		Where("challenge_id = ? AND mode_type = ?", challengeID, modeType).
		Count(&existing)
	if existing > 0 {
		return nil, fiber.NewError(409, fmt.Sprintf("challenge %q already has a %s mode", challenge.Title, modeType))
	}

	mode := models.ChallengeMode{
		ID:            uuid.NewString(),
		ChallengeID:   challengeID,
		ModeType:      modeType,
		RequiredMoves: requiredMoves,
		PointReward:   pointReward,
	}
	if err := s.DB.Create(&mode).Error; err != nil {
		return nil, err
	}
	return &mode, nil
}

// UpdateMode edits a mode. Changing mode_type to one already present on
// the challenge is refused, but keeping its own current type is fine.
func (s *ChallengeService) UpdateMode(modeID string, modeType *string, requiredMoves *string, pointReward *int64) (*models.ChallengeMode, error) {
	var mode models.ChallengeMode
	if err := s.DB.First(&mode, "id = ?", modeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(404, "mode not found")
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if modeType != nil && *modeType != mode.ModeType {
		if *modeType != models.ModeSimple && *modeType != models.ModeHard {
			return nil, fiber.NewError(400, "mode_type must be 'simple' or 'hard'")
		}
		var existing int64
		s.DB.Model(&models.ChallengeMode{}).
			Where("challenge_id = ? AND mode_type = ? AND id <> ?", mode.ChallengeID, *modeType, modeID).
			Count(&existing)
		if existing > 0 {
			return nil, fiber.NewError(409, fmt.Sprintf("challenge already has a %s mode", *modeType))
		}
		updates["mode_type"] = *modeType
	}
	if requiredMoves != nil {
		updates["required_moves"] = *requiredMoves
	}
	if pointReward != nil {
		updates["point_reward"] = *pointReward
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&mode).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	s.DB.First(&mode, "id = ?", modeID)
	return &mode, nil
}

func (s *ChallengeService) CreateModeEndpoint(c *fiber.Ctx) error {
	type Req struct {
		ModeType      string `json:"mode_type"`
		RequiredMoves string `json:"required_moves"`
		PointReward   int64  `json:"point_reward"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	mode, err := s.CreateMode(c.Params("id"), req.ModeType, req.RequiredMoves, req.PointReward)
	if err != nil {
		return respondError(c, err, "failed to create mode")
	}
	return c.Status(201).JSON(mode)
}

func (s *ChallengeService) UpdateModeEndpoint(c *fiber.Ctx) error {
	type Req struct {
		ModeType      *string `json:"mode_type"`
		RequiredMoves *string `json:"required_moves"`
		PointReward   *int64  `json:"point_reward"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	mode, err := s.UpdateMode(c.Params("mode_id"), req.ModeType, req.RequiredMoves, req.PointReward)
	if err != nil {
		return respondError(c, err, "failed to update mode")
	}
	return c.JSON(mode)
}

func (s *ChallengeService) DeleteMode(c *fiber.Ctx) error {
	id := c.Params("mode_id")
	result := s.DB.Delete(&models.ChallengeMode{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB delete failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "mode not found"})
	}
	return c.SendStatus(204)
}

// UploadModeDemoVideo stores a mode demo clip and records its URL.
func (s *ChallengeService) UploadModeDemoVideo(c *fiber.Ctx) error {
	id := c.Params("mode_id")
	var mode models.ChallengeMode
	if err := s.DB.First(&mode, "id = ?", id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "mode not found"})
	}
	video, err := c.FormFile("video")
	if err != nil || video.Size == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "video file is required"})
	}
	ext := filepath.Ext(video.Filename)
	if ext == "" {
		ext = ".mp4"
	}
	key := "challenges/modes/" + uuid.NewString() + ext
	url, err := utils.UploadFileToStorage(video, key)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to upload video"})
	}
	if err := s.DB.Model(&mode).Update("demo_video_url", url).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	mode.DemoVideoURL = url
	return c.JSON(mode)
}
