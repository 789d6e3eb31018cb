package services

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"freestyle-backoffice/models"
	"freestyle-backoffice/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type MoveService struct {
	DB *gorm.DB
}

func NewMoveService(db *gorm.DB) *MoveService {
	return &MoveService{DB: db}
}

var titleCaser = cases.Title(language.English)

// uniqueSlug returns a slug for name that no row of the given model
// currently uses, suffixing -2, -3, ... on collision.
func (s *MoveService) uniqueSlug(model interface{}, name string) string {
	base := slug.Make(name)
	candidate := base
	for i := 2; ; i++ {
		var count int64
		s.DB.Model(model).Where("slug = ?", candidate).Count(&count)
		if count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// CreateMove adds a move to the catalog. Media arrives as multipart
// files and goes straight to object storage.
func (s *MoveService) CreateMove(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	categoryID := c.FormValue("category_id")
	description := c.FormValue("description")
	if name == "" || categoryID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name and category_id are required"})
	}
	difficulty := 1
	if v := c.FormValue("difficulty"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 5 {
			difficulty = n
		} else {
			return c.Status(400).JSON(fiber.Map{"error": "difficulty must be 1..5"})
		}
	}

	var category models.MoveCategory
	if err := s.DB.First(&category, "id = ?", categoryID).Error; err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "category_id not found"})
	}

	move := models.Move{
		ID:          uuid.NewString(),
		Name:        titleCaser.String(name),
		Slug:        s.uniqueSlug(&models.Move{}, name),
		SearchName:  models.SearchFold(name),
		CategoryID:  categoryID,
		Difficulty:  difficulty,
		Description: description,
	}

	if video, err := c.FormFile("video"); err == nil && video.Size > 0 {
		ext := filepath.Ext(video.Filename)
		if ext == "" {
			ext = ".mp4"
		}
		url, err := utils.UploadFileToStorage(video, "moves/videos/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload move video"})
		}
		move.VideoURL = url
	}
	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.UploadFileToStorage(image, "moves/images/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload move image"})
		}
		move.ImageURL = url
	}

	tagIDs := parseIDList(c.FormValue("tag_ids"))
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&move).Error; err != nil {
			return err
		}
		if len(tagIDs) > 0 {
			var tags []models.MoveTag
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if err := tx.Model(&move).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}

	s.DB.Preload("Category").Preload("Tags").First(&move, "id = ?", move.ID)
	return c.Status(201).JSON(move)
}

func parseIDList(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// GetMoves lists moves with optional category/tag/difficulty filters
// and free-text search over the folded name.
func (s *MoveService) GetMoves(c *fiber.Ctx) error {
	query := s.DB.Model(&models.Move{})
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if d := c.QueryInt("difficulty", 0); d > 0 {
		query = query.Where("difficulty = ?", d)
	}
	if q := c.Query("q"); q != "" {
		query = query.Where("search_name LIKE ?", "%"+models.SearchFold(q)+"%")
	}
	if published := c.Query("published"); published != "" {
		query = query.Where("is_published = ?", strings.ToLower(published) == "true")
	}

	var moves []models.Move
	err := query.Preload("Category").Preload("Tags").
		Order("name ASC").
		Find(&moves).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch moves"})
	}
	return c.JSON(moves)
}

func (s *MoveService) GetMoveByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var move models.Move
	err := s.DB.Preload("Category").Preload("Tags").First(&move, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "move not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(move)
}

func (s *MoveService) UpdateMove(c *fiber.Ctx) error {
	id := c.Params("id")
	var move models.Move
	if err := s.DB.First(&move, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "move not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	type Req struct {
		Name        *string  `json:"name"`
		CategoryID  *string  `json:"category_id"`
		Difficulty  *int     `json:"difficulty"`
		Description *string  `json:"description"`
		IsPublished *bool    `json:"is_published"`
		TagIDs      []string `json:"tag_ids"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil && *req.Name != "" {
		updates["name"] = titleCaser.String(*req.Name)
		updates["search_name"] = models.SearchFold(*req.Name)
	}
	if req.CategoryID != nil {
		var category models.MoveCategory
		if err := s.DB.First(&category, "id = ?", *req.CategoryID).Error; err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "category_id not found"})
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Difficulty != nil {
		if *req.Difficulty < 1 || *req.Difficulty > 5 {
			return c.Status(400).JSON(fiber.Map{"error": "difficulty must be 1..5"})
		}
		updates["difficulty"] = *req.Difficulty
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&move).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.TagIDs != nil {
			var tags []models.MoveTag
			if err := tx.Where("id IN ?", req.TagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if err := tx.Model(&move).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}

	s.DB.Preload("Category").Preload("Tags").First(&move, "id = ?", id)
	return c.JSON(move)
}

func (s *MoveService) DeleteMove(c *fiber.Ctx) error {
	id := c.Params("id")
	result := s.DB.Select("Tags").Delete(&models.Move{ID: id})
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB delete failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "move not found"})
	}
	return c.SendStatus(204)
}

// --- Categories ---

func (s *MoveService) CreateCategory(c *fiber.Ctx) error {
	type Req struct {
		Name      string `json:"name"`
		SortOrder int    `json:"sort_order"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}
	category := models.MoveCategory{
		ID:        uuid.NewString(),
		Name:      titleCaser.String(req.Name),
		Slug:      s.uniqueSlug(&models.MoveCategory{}, req.Name),
		SortOrder: req.SortOrder,
	}
	if err := s.DB.Create(&category).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(category)
}

func (s *MoveService) GetCategories(c *fiber.Ctx) error {
	var categories []models.MoveCategory
	if err := s.DB.Order("\"sort_order\" ASC").Find(&categories).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch categories"})
	}
	return c.JSON(categories)
}

func (s *MoveService) UpdateCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	type Req struct {
		Name      *string `json:"name"`
		SortOrder *int    `json:"sort_order"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	updates := map[string]interface{}{}
	if req.Name != nil && *req.Name != "" {
		updates["name"] = titleCaser.String(*req.Name)
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if len(updates) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "no fields to update"})
	}
	result := s.DB.Model(&models.MoveCategory{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "category not found"})
	}
	var updated models.MoveCategory
	s.DB.First(&updated, "id = ?", id)
	return c.JSON(updated)
}

func (s *MoveService) DeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	var inUse int64
	s.DB.Model(&models.Move{}).Where("category_id = ?", id).Count(&inUse)
	if inUse > 0 {
		return c.Status(409).JSON(fiber.Map{"error": fmt.Sprintf("category still has %d moves", inUse)})
	}
	result := s.DB.Delete(&models.MoveCategory{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB delete failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "category not found"})
	}
	return c.SendStatus(204)
}

// --- Tags ---

func (s *MoveService) CreateTag(c *fiber.Ctx) error {
	type Req struct {
		Name string `json:"name"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}
	var existing int64
	s.DB.Model(&models.MoveTag{}).Where("name = ?", name).Count(&existing)
	if existing > 0 {
		return c.Status(409).JSON(fiber.Map{"error": fmt.Sprintf("tag %q already exists", name)})
	}
	tag := models.MoveTag{ID: uuid.NewString(), Name: name}
	if err := s.DB.Create(&tag).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(tag)
}

func (s *MoveService) GetTags(c *fiber.Ctx) error {
	var tags []models.MoveTag
	if err := s.DB.Order("name ASC").Find(&tags).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tags"})
	}
	return c.JSON(tags)
}

func (s *MoveService) DeleteTag(c *fiber.Ctx) error {
	id := c.Params("id")
	result := s.DB.Delete(&models.MoveTag{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB delete failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "tag not found"})
	}
	return c.SendStatus(204)
}
