package services

import (
	"fmt"
	"log"

	"freestyle-backoffice/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HonorService struct {
	DB *gorm.DB
}

func NewHonorService(db *gorm.DB) *HonorService {
	return &HonorService{DB: db}
}

// EnsureDefaultHonorTypes seeds the built-in honor type rows (idempotent).
func (s *HonorService) EnsureDefaultHonorTypes() error {
	for _, ht := range models.DefaultHonorTypes {
		ht.ID = uuid.NewString()
		err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&ht).Error
		if err != nil {
			return fmt.Errorf("failed to seed honor type %s: %w", ht.Code, err)
		}
	}
	return nil
}

// GrantSeasonRankHonor records a podium honor for the given season.
// The insert is conflict-ignored on (user, honor_code, season), so
// re-settlement can call this again with identical arguments safely.
func (s *HonorService) GrantSeasonRankHonor(tx *gorm.DB, externalUserID, seasonID string, rank int) error {
	code := models.SeasonRankHonorCode(rank)
	if code == "" {
		return fmt.Errorf("invalid season rank %d (want 1..3)", rank)
	}
	honor := models.UserHonor{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		HonorCode:      code,
		SeasonID:       seasonID,
		Rank:           rank,
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_user_id"}, {Name: "honor_code"}, {Name: "season_id"}},
		DoNothing: true,
	}).Create(&honor)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("🏅 Honor granted: %s → %s (season %s)", code, externalUserID, seasonID)
	}
	return nil
}

// GrantMilestoneHonors grants every milestone honor at or below the
// user's current unlocked-move count. Counts that jump past a threshold
// in one bulk unlock therefore still collect the skipped milestones.
// Returns the codes newly awarded.
func (s *HonorService) GrantMilestoneHonors(externalUserID string, unlockCount int64) ([]string, error) {
	var awarded []string
	for _, threshold := range models.MilestoneThresholds {
		if unlockCount < threshold {
			break // thresholds are ascending
		}
		honor := models.UserHonor{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			HonorCode:      fmt.Sprintf("milestone_%d", threshold),
			SeasonID:       "",
		}
		res := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}, {Name: "honor_code"}, {Name: "season_id"}},
			DoNothing: true,
		}).Create(&honor)
		if res.Error != nil {
			return awarded, res.Error
		}
		if res.RowsAffected > 0 {
			awarded = append(awarded, honor.HonorCode)
			log.Printf("🏅 Milestone honor: %s → %s (count=%d)", honor.HonorCode, externalUserID, unlockCount)
		}
	}
	return awarded, nil
}

// --- Honor type CRUD (achievements screens) ---

func (s *HonorService) GetAllHonorTypes(c *fiber.Ctx) error {
	var types []models.HonorType
	if err := s.DB.Order("code ASC").Find(&types).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch honor types"})
	}
	return c.JSON(types)
}

func (s *HonorService) CreateHonorType(c *fiber.Ctx) error {
	var req models.HonorType
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Code == "" || req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "code and name are required"})
	}
	req.ID = uuid.NewString()
	if req.Rarity == "" {
		req.Rarity = "common"
	}
	var existing int64
	s.DB.Model(&models.HonorType{}).Where("code = ?", req.Code).Count(&existing)
	if existing > 0 {
		return c.Status(409).JSON(fiber.Map{"error": fmt.Sprintf("honor type %q already exists", req.Code)})
	}
	if err := s.DB.Create(&req).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(req)
}

func (s *HonorService) UpdateHonorType(c *fiber.Ctx) error {
	id := c.Params("id")
	var ht models.HonorType
	if err := s.DB.First(&ht, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "honor type not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	type Req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IconURL     *string `json:"icon_url"`
		Rarity      *string `json:"rarity"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IconURL != nil {
		updates["icon_url"] = *req.IconURL
	}
	if req.Rarity != nil {
		updates["rarity"] = *req.Rarity
	}
	if len(updates) == 0 {
		return c.JSON(ht)
	}
	if err := s.DB.Model(&ht).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	return c.JSON(ht)
}

func (s *HonorService) DeleteHonorType(c *fiber.Ctx) error {
	id := c.Params("id")
	result := s.DB.Delete(&models.HonorType{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB delete failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "honor type not found"})
	}
	return c.SendStatus(204)
}

// GetUserHonors lists a user's honors, newest first.
func (s *HonorService) GetUserHonors(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	var honors []models.UserHonor
	err := s.DB.Where("external_user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&honors).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch honors"})
	}
	return c.JSON(honors)
}

// GetHonorsForSeason lists podium honors granted for one season.
func (s *HonorService) GetHonorsForSeason(c *fiber.Ctx) error {
	seasonID := c.Params("id")
	var honors []models.UserHonor
	err := s.DB.Where("season_id = ?", seasonID).
		Order("rank ASC").
		Find(&honors).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch honors"})
	}
	return c.JSON(honors)
}
