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

type ModerationService struct {
	DB *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{DB: db}
}

// --- Tip videos (staff content) ---

func (s *ModerationService) CreateTipVideo(c *fiber.Ctx) error {
	title := c.FormValue("title")
	description := c.FormValue("description")
	moveID := c.FormValue("move_id")
	if title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title is required"})
	}

	video, err := c.FormFile("video")
	if err != nil || video.Size == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "video file is required"})
	}
	ext := filepath.Ext(video.Filename)
	if ext == "" {
		ext = ".mp4"
	}
	videoURL, err := utils.UploadFileToStorage(video, "tips/videos/"+uuid.NewString()+ext)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to upload video"})
	}

	tip := models.TipVideo{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		VideoURL:    videoURL,
		Status:      models.TipDraft,
	}
	if moveID != "" {
		var move models.Move
		if err := s.DB.First(&move, "id = ?", moveID).Error; err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "move_id not found"})
		}
		tip.MoveID = &moveID
	}
	if thumb, err := c.FormFile("thumbnail"); err == nil && thumb.Size > 0 {
		ext := filepath.Ext(thumb.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.UploadFileToStorage(thumb, "tips/thumbs/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload thumbnail"})
		}
		tip.ThumbURL = url
	}

	if err := s.DB.Create(&tip).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(tip)
}

func (s *ModerationService) GetTipVideos(c *fiber.Ctx) error {
	query := s.DB.Model(&models.TipVideo{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var tips []models.TipVideo
	if err := query.Order("created_at DESC").Find(&tips).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tip videos"})
	}
	return c.JSON(tips)
}

func (s *ModerationService) UpdateTipVideoStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	type Req struct {
		Status string `json:"status"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	var updates map[string]interface{}
	switch req.Status {
	case models.TipPublished:
		updates = map[string]interface{}{"status": models.TipPublished, "published_at": time.Now()}
	case models.TipDraft:
		updates = map[string]interface{}{"status": models.TipDraft, "published_at": nil}
	case models.TipArchived:
		updates = map[string]interface{}{"status": models.TipArchived}
	default:
		return c.Status(400).JSON(fiber.Map{"error": "status must be draft, published, or archived"})
	}

	result := s.DB.Model(&models.TipVideo{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "tip video not found"})
	}
	var updated models.TipVideo
	s.DB.First(&updated, "id = ?", id)
	return c.JSON(updated)
}

func (s *ModerationService) DeleteTipVideo(c *fiber.Ctx) error {
	id := c.Params("id")
	var tip models.TipVideo
	if err := s.DB.First(&tip, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "tip video not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if err := s.DB.Delete(&tip).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB delete failed"})
	}
	// best-effort media cleanup
	if key := utils.StorageKeyFromURL(tip.VideoURL); key != "" {
		if err := utils.DeleteFromStorage(key); err != nil {
			log.Printf("⚠️  failed to delete tip video object %s: %v", key, err)
		}
	}
	if key := utils.StorageKeyFromURL(tip.ThumbURL); key != "" {
		_ = utils.DeleteFromStorage(key)
	}
	return c.SendStatus(204)
}

// --- Community videos (user submissions) ---

func (s *ModerationService) GetCommunityVideos(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	size := c.QueryInt("size", 20)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	query := s.DB.Model(&models.CommunityVideo{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var videos []models.CommunityVideo
	err := query.Order("created_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&videos).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch community videos"})
	}
	return c.JSON(fiber.Map{"videos": videos, "total": total, "page": page, "size": size})
}

// reviewCommunityVideo applies one moderation decision to a pending clip.
func (s *ModerationService) reviewCommunityVideo(id, reviewerID, note, decision string) (*models.CommunityVideo, error) {
	var clip models.CommunityVideo
	if err := s.DB.First(&clip, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(404, "community video not found")
		}
		return nil, err
	}
	if clip.Status != models.ModerationPending {
		return nil, fiber.NewError(409, fmt.Sprintf("video already reviewed (status: %s)", clip.Status))
	}

	now := time.Now()
	result := s.DB.Model(&models.CommunityVideo{}).
		Where("id = ? AND status = ?", id, models.ModerationPending).
		Updates(map[string]interface{}{
			"status":      decision,
			"reviewer_id": reviewerID,
			"reviewed_at": now,
			"review_note": note,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fiber.NewError(409, "video reviewed concurrently, refresh and retry")
	}

	clip.Status = decision
	clip.ReviewerID = reviewerID
	clip.ReviewedAt = &now
	clip.ReviewNote = note
	return &clip, nil
}

func (s *ModerationService) ApproveCommunityVideo(c *fiber.Ctx) error {
	type Req struct {
		Note string `json:"note"`
	}
	var req Req
	_ = c.BodyParser(&req)
	reviewerID, _ := c.Locals("user_id").(string)

	clip, err := s.reviewCommunityVideo(c.Params("id"), reviewerID, req.Note, models.ModerationApproved)
	if err != nil {
		return respondError(c, err, "failed to approve video")
	}
	return c.JSON(clip)
}

func (s *ModerationService) RejectCommunityVideo(c *fiber.Ctx) error {
	type Req struct {
		Note string `json:"note"`
	}
	var req Req
	_ = c.BodyParser(&req)
	reviewerID, _ := c.Locals("user_id").(string)

	clip, err := s.reviewCommunityVideo(c.Params("id"), reviewerID, req.Note, models.ModerationRejected)
	if err != nil {
		return respondError(c, err, "failed to reject video")
	}
	return c.JSON(clip)
}
