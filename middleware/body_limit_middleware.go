package middleware

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	apimodels "hrms-backend/models/api"
)

// WithBodyLimit rejects requests whose declared Content-Length exceeds limit.
func WithBodyLimit(limit int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		contentLength := c.Get(fiber.HeaderContentLength)
		if contentLength == "" || contentLength == "0" {
			return c.Next()
		}
		size, err := strconv.ParseInt(contentLength, 10, 64)
		if err == nil && size > limit {
			return c.Status(fiber.StatusRequestEntityTooLarge).
				JSON(apimodels.NewError(fmt.Sprintf("request body too large, maximum allowed: %d bytes", limit)))
		}
		return c.Next()
	}
}
