package services

import (
	"fmt"
	"log"

	"freestyle-backoffice/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Suggestion handling lives on ChallengeService: adopted suggestions
// turn into draft challenges, so both sides share one service.

func (s *ChallengeService) GetSuggestions(c *fiber.Ctx) error {
	query := s.DB.Model(&models.UserSuggestion{})
	if seasonID := c.Query("season_id"); seasonID != "" {
		query = query.Where("season_id = ?", seasonID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var suggestions []models.UserSuggestion
	if err := query.Order("created_at DESC").Find(&suggestions).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch suggestions"})
	}
	return c.JSON(suggestions)
}

// AdoptSuggestion turns a pending suggestion into a draft challenge in
// its season and links the two, in one transaction.
func (s *ChallengeService) AdoptSuggestion(suggestionID string, weekNumber int) (*models.WeeklyChallenge, error) {
	var challenge models.WeeklyChallenge
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var suggestion models.UserSuggestion
		if err := tx.First(&suggestion, "id = ?", suggestionID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(404, "suggestion not found")
			}
			return err
		}
		if suggestion.Status != models.SuggestionPending {
			return fiber.NewError(409, fmt.Sprintf("suggestion already processed (status: %s)", suggestion.Status))
		}

		challenge = models.WeeklyChallenge{
			ID:          uuid.NewString(),
			SeasonID:    suggestion.SeasonID,
			Title:       suggestion.Title,
			Description: suggestion.Description,
			WeekNumber:  weekNumber,
			Status:      models.ChallengeDraft,
		}
		if err := tx.Create(&challenge).Error; err != nil {
			return err
		}

		result := tx.Model(&models.UserSuggestion{}).
			Where("id = ? AND status = ?", suggestionID, models.SuggestionPending).
			Updates(map[string]interface{}{
				"status":               models.SuggestionAdopted,
				"adopted_challenge_id": challenge.ID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(409, "suggestion processed concurrently, refresh and retry")
		}
		log.Printf("💡 Suggestion adopted: %q → challenge week %d", suggestion.Title, weekNumber)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (s *ChallengeService) AdoptSuggestionEndpoint(c *fiber.Ctx) error {
	type Req struct {
		WeekNumber int `json:"week_number"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.WeekNumber < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "week_number is required"})
	}
	challenge, err := s.AdoptSuggestion(c.Params("id"), req.WeekNumber)
	if err != nil {
		return respondError(c, err, "failed to adopt suggestion")
	}
	return c.Status(201).JSON(challenge)
}

func (s *ChallengeService) RejectSuggestion(c *fiber.Ctx) error {
	id := c.Params("id")
	var suggestion models.UserSuggestion
	if err := s.DB.First(&suggestion, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "suggestion not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if suggestion.Status != models.SuggestionPending {
		return c.Status(409).JSON(fiber.Map{"error": fmt.Sprintf("suggestion already processed (status: %s)", suggestion.Status)})
	}
	if err := s.DB.Model(&suggestion).Update("status", models.SuggestionRejected).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	suggestion.Status = models.SuggestionRejected
	return c.JSON(suggestion)
}

// CreateSuggestion records a user-submitted challenge idea (forwarded
// from the community app through the gateway).
func (s *ChallengeService) CreateSuggestion(c *fiber.Ctx) error {
	type Req struct {
		SeasonID       string `json:"season_id"`
		ExternalUserID string `json:"external_user_id"`
		Title          string `json:"title"`
		Description    string `json:"description"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.SeasonID == "" || req.ExternalUserID == "" || req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "season_id, external_user_id, and title are required"})
	}
	var season models.Season
	if err := s.DB.First(&season, "id = ?", req.SeasonID).Error; err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "season_id not found"})
	}
	suggestion := models.UserSuggestion{
		ID:             uuid.NewString(),
		SeasonID:       req.SeasonID,
		ExternalUserID: req.ExternalUserID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         models.SuggestionPending,
	}
	if err := s.DB.Create(&suggestion).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(suggestion)
}
