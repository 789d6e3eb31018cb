package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto JSON responses. Lifecycle
// methods return *fiber.Error for expected refusals (bad transition,
// missing row, lost race); anything else is a storage failure reported
// generically — the operator decides whether to retry.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return c.Status(500).JSON(fiber.Map{"error": fallback})
}
