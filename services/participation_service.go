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

type ParticipationService struct {
	DB *gorm.DB
}

func NewParticipationService(db *gorm.DB) *ParticipationService {
	return &ParticipationService{DB: db}
}

// GetParticipations lists submissions with status/season/challenge
// filters, newest first, paginated.
func (s *ParticipationService) GetParticipations(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	size := c.QueryInt("size", 20)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	query := s.DB.Model(&models.UserParticipation{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if seasonID := c.Query("season_id"); seasonID != "" {
		query = query.Where("season_id = ?", seasonID)
	}
	if challengeID := c.Query("challenge_id"); challengeID != "" {
		query = query.Where("challenge_id = ?", challengeID)
	}

	var total int64
	query.Count(&total)

	var participations []models.UserParticipation
	err := query.Preload("Mode").
		Order("created_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&participations).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch participations"})
	}

	return c.JSON(fiber.Map{
		"participations": participations,
		"total":          total,
		"page":           page,
		"size":           size,
	})
}

// ApproveParticipation marks a pending submission approved and writes
// its points to the season ledger in the same transaction. Approval is
// what gates point accrual — rejected and pending submissions never
// reach settlement.
func (s *ParticipationService) ApproveParticipation(participationID, reviewerID, note string) (*models.UserParticipation, error) {
	var participation models.UserParticipation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Mode").First(&participation, "id = ?", participationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(404, "participation not found")
			}
			return err
		}
		if participation.Status != models.ParticipationPending {
			return fiber.NewError(409, fmt.Sprintf("participation already reviewed (status: %s)", participation.Status))
		}

		now := time.Now()
		result := tx.Model(&models.UserParticipation{}).
			Where("id = ? AND status = ?", participationID, models.ParticipationPending).
			Updates(map[string]interface{}{
				"status":      models.ParticipationApproved,
				"reviewer_id": reviewerID,
				"reviewed_at": now,
				"review_note": note,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(409, "participation reviewed concurrently, refresh and retry")
		}

		entry := models.PointEntry{
			ID:              uuid.NewString(),
			ExternalUserID:  participation.ExternalUserID,
			SeasonID:        participation.SeasonID,
			ChallengeID:     participation.ChallengeID,
			ParticipationID: participation.ID,
			ModeType:        participation.Mode.ModeType,
			PointType:       models.PointChallengeCompletion,
			Points:          participation.Mode.PointReward,
			EarnedAt:        now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		participation.Status = models.ParticipationApproved
		participation.ReviewerID = reviewerID
		participation.ReviewedAt = &now
		participation.ReviewNote = note
		log.Printf("✅ Participation approved: %s (+%d pts for %s)",
			participation.ID, entry.Points, participation.ExternalUserID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &participation, nil
}

// RejectParticipation marks a pending submission rejected. No points.
func (s *ParticipationService) RejectParticipation(participationID, reviewerID, note string) (*models.UserParticipation, error) {
	var participation models.UserParticipation
	if err := s.DB.First(&participation, "id = ?", participationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(404, "participation not found")
		}
		return nil, err
	}
	if participation.Status != models.ParticipationPending {
		return nil, fiber.NewError(409, fmt.Sprintf("participation already reviewed (status: %s)", participation.Status))
	}

	now := time.Now()
	result := s.DB.Model(&models.UserParticipation{}).
		Where("id = ? AND status = ?", participationID, models.ParticipationPending).
		Updates(map[string]interface{}{
			"status":      models.ParticipationRejected,
			"reviewer_id": reviewerID,
			"reviewed_at": now,
			"review_note": note,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fiber.NewError(409, "participation reviewed concurrently, refresh and retry")
	}

	participation.Status = models.ParticipationRejected
	participation.ReviewerID = reviewerID
	participation.ReviewedAt = &now
	participation.ReviewNote = note
	return &participation, nil
}

// GrantBonusPoints writes a discretionary bonus entry to the season
// ledger. Settlement folds it into the user's total like any other
// points, but it never counts as a challenge completion. Refused once
// the season is settled — prize decisions are final at that point.
func (s *ParticipationService) GrantBonusPoints(seasonID, externalUserID string, points int64) (*models.PointEntry, error) {
	if externalUserID == "" {
		return nil, fiber.NewError(400, "external_user_id is required")
	}
	if points <= 0 {
		return nil, fiber.NewError(400, "points must be positive")
	}
	var season models.Season
	if err := s.DB.First(&season, "id = ?", seasonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(404, "season not found")
		}
		return nil, err
	}
	if season.Status == models.SeasonSettled {
		return nil, fiber.NewError(409, fmt.Sprintf("season %q is settled — bonus points can no longer be granted", season.Name))
	}

	entry := models.PointEntry{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		SeasonID:       seasonID,
		PointType:      models.PointBonus,
		Points:         points,
		EarnedAt:       time.Now(),
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return nil, err
	}
	log.Printf("🎁 Bonus points: +%d → %s (season %s)", points, externalUserID, season.Name)
	return &entry, nil
}

func (s *ParticipationService) GrantBonusPointsEndpoint(c *fiber.Ctx) error {
	type Req struct {
		ExternalUserID string `json:"external_user_id"`
		Points         int64  `json:"points"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	entry, err := s.GrantBonusPoints(c.Params("id"), req.ExternalUserID, req.Points)
	if err != nil {
		return respondError(c, err, "failed to grant bonus points")
	}
	return c.Status(201).JSON(entry)
}

func (s *ParticipationService) ApproveParticipationEndpoint(c *fiber.Ctx) error {
	type Req struct {
		Note string `json:"note"`
	}
	var req Req
	_ = c.BodyParser(&req) // note is optional
	reviewerID, _ := c.Locals("user_id").(string)

	participation, err := s.ApproveParticipation(c.Params("id"), reviewerID, req.Note)
	if err != nil {
		return respondError(c, err, "failed to approve participation")
	}
	return c.JSON(participation)
}

func (s *ParticipationService) RejectParticipationEndpoint(c *fiber.Ctx) error {
	type Req struct {
		Note string `json:"note"`
	}
	var req Req
	_ = c.BodyParser(&req)
	reviewerID, _ := c.Locals("user_id").(string)

	participation, err := s.RejectParticipation(c.Params("id"), reviewerID, req.Note)
	if err != nil {
		return respondError(c, err, "failed to reject participation")
	}
	return c.JSON(participation)
}

// GetPendingReviewCounts reports the moderation backlog (also consumed
// by the digest job).
func (s *ParticipationService) GetPendingReviewCounts(c *fiber.Ctx) error {
	var participations, suggestions, clips int64
	s.DB.Model(&models.UserParticipation{}).Where("status = ?", models.ParticipationPending).Count(&participations)
	s.DB.Model(&models.UserSuggestion{}).Where("status = ?", models.SuggestionPending).Count(&suggestions)
	s.DB.Model(&models.CommunityVideo{}).Where("status = ?", models.ModerationPending).Count(&clips)
	return c.JSON(fiber.Map{
		"pending_participations":  participations,
		"pending_suggestions":     suggestions,
		"pending_community_clips": clips,
	})
}
