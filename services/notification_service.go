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

type NotificationService struct {
	DB    *gorm.DB
	Relay *PushRelayClient
}

func NewNotificationService(db *gorm.DB, relay *PushRelayClient) *NotificationService {
	return &NotificationService{DB: db, Relay: relay}
}

func (s *NotificationService) CreateNotification(c *fiber.Ctx) error {
	title := c.FormValue("title")
	body := c.FormValue("body")
	audience := c.FormValue("audience")
	if title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title is required"})
	}
	if audience == "" {
		audience = "all"
	}

	notification := models.Notification{
		ID:       uuid.NewString(),
		Title:    title,
		Body:     body,
		Audience: audience,
		Status:   models.NotificationDraft,
	}
	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.UploadFileToStorage(image, "notifications/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload image"})
		}
		notification.ImageURL = url
	}

	if err := s.DB.Create(&notification).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(notification)
}

func (s *NotificationService) GetNotifications(c *fiber.Ctx) error {
	query := s.DB.Model(&models.Notification{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch notifications"})
	}
	return c.JSON(notifications)
}

func (s *NotificationService) UpdateNotification(c *fiber.Ctx) error {
	id := c.Params("id")
	var notification models.Notification
	if err := s.DB.First(&notification, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "notification not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if notification.Status == models.NotificationSent {
		return c.Status(409).JSON(fiber.Map{"error": "notification already sent"})
	}

	type Req struct {
		Title    *string `json:"title"`
		Body     *string `json:"body"`
		Audience *string `json:"audience"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	updates := map[string]interface{}{}
	if req.Title != nil && *req.Title != "" {
		updates["title"] = *req.Title
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.Audience != nil {
		updates["audience"] = *req.Audience
	}
	if len(updates) == 0 {
		return c.JSON(notification)
	}
	if err := s.DB.Model(&notification).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	return c.JSON(notification)
}

// SendNotification marks a draft as sent and hands it to the push
// relay. A relay failure rolls the send back so the operator can retry
// deliberately — broadcasts are never double-fired by automation.
func (s *NotificationService) SendNotification(c *fiber.Ctx) error {
	id := c.Params("id")
	senderID, _ := c.Locals("user_id").(string)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var notification models.Notification
		if err := tx.First(&notification, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(404, "notification not found")
			}
			return err
		}
		if notification.Status == models.NotificationSent {
			return fiber.NewError(409, "notification already sent")
		}

		now := time.Now()
		result := tx.Model(&models.Notification{}).
			Where("id = ? AND status = ?", id, models.NotificationDraft).
			Updates(map[string]interface{}{
				"status":     models.NotificationSent,
				"sent_at":    now,
				"sent_by_id": senderID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(409, "notification sent concurrently")
		}

		if s.Relay.Enabled() {
			err := s.Relay.Push(map[string]interface{}{
				"title":     notification.Title,
				"body":      notification.Body,
				"image_url": notification.ImageURL,
				"audience":  notification.Audience,
			})
			if err != nil {
				return fmt.Errorf("push relay delivery failed: %w", err)
			}
		} else {
			log.Printf("⚠️  PUSH_RELAY_URL not configured — notification %s recorded but not delivered", id)
		}
		return nil
	})
	if err != nil {
		return respondError(c, err, "failed to send notification")
	}

	var sent models.Notification
	s.DB.First(&sent, "id = ?", id)
	log.Printf("📣 Notification sent: %q → %s", sent.Title, sent.Audience)
	return c.JSON(sent)
}

func (s *NotificationService) DeleteNotification(c *fiber.Ctx) error {
	id := c.Params("id")
	result := s.DB.Where("status = ?", models.NotificationDraft).Delete(&models.Notification{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB delete failed"})
	}
	if result.RowsAffected == 0 {
		var count int64
		s.DB.Model(&models.Notification{}).Where("id = ?", id).Count(&count)
		if count > 0 {
			return c.Status(409).JSON(fiber.Map{"error": "sent notifications cannot be deleted"})
		}
		return c.Status(404).JSON(fiber.Map{"error": "notification not found"})
	}
	return c.SendStatus(204)
}
