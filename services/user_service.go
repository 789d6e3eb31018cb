package services

import (
	"strings"

	"freestyle-backoffice/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserService struct {
	DB     *gorm.DB
	Honors *HonorService
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db, Honors: NewHonorService(db)}
}

// GetUsers lists mirrored platform users, paginated.
func (s *UserService) GetUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	size := c.QueryInt("size", 50)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 50
	}

	query := s.DB.Model(&models.PlatformUser{})
	if banned := c.Query("banned"); banned != "" {
		query = query.Where("is_banned = ?", strings.ToLower(banned) == "true")
	}

	var total int64
	query.Count(&total)

	var users []models.PlatformUser
	err := query.Order("username ASC").
		Limit(size).Offset((page - 1) * size).
		Find(&users).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch users"})
	}
	return c.JSON(fiber.Map{"users": users, "total": total, "page": page, "size": size})
}

// SearchUsers matches on username, ascii-folded and case-insensitive.
// Both sides of the comparison are folded: the query here, the stored
// search_name column at sync time.
func (s *UserService) SearchUsers(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.Status(400).JSON(fiber.Map{"error": "q parameter is required"})
	}
	folded := models.SearchFold(q)
	var users []models.PlatformUser
	err := s.DB.Where("search_name LIKE ?", "%"+folded+"%").
		Order("username ASC").
		Limit(25).
		Find(&users).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "search failed"})
	}
	return c.JSON(users)
}

func (s *UserService) GetUserByID(c *fiber.Ctx) error {
	id := c.Params("user_id")
	var user models.PlatformUser
	err := s.DB.First(&user, "external_user_id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(user)
}

// SetUserBanned toggles the local moderation ban flag.
func (s *UserService) SetUserBanned(c *fiber.Ctx) error {
	id := c.Params("user_id")
	type Req struct {
		Banned bool `json:"banned"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	result := s.DB.Model(&models.PlatformUser{}).
		Where("external_user_id = ?", id).
		Update("is_banned", req.Banned)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}
	var user models.PlatformUser
	s.DB.First(&user, "external_user_id = ?", id)
	return c.JSON(user)
}

// SetUnlockCount records a user's unlocked-move count (normally kept
// fresh by the sync worker) and grants any milestone honors the new
// count has reached.
func (s *UserService) SetUnlockCount(externalUserID string, count int64) ([]string, error) {
	result := s.DB.Model(&models.PlatformUser{}).
		Where("external_user_id = ?", externalUserID).
		Update("unlocked_move_count", count)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fiber.NewError(404, "user not found")
	}
	return s.Honors.GrantMilestoneHonors(externalUserID, count)
}

func (s *UserService) SetUnlockCountEndpoint(c *fiber.Ctx) error {
	type Req struct {
		Count int64 `json:"count"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Count < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "count must be non-negative"})
	}
	awarded, err := s.SetUnlockCount(c.Params("user_id"), req.Count)
	if err != nil {
		return respondError(c, err, "failed to update unlock count")
	}
	return c.JSON(fiber.Map{"unlocked_move_count": req.Count, "honors_awarded": awarded})
}
