package middleware

import (
	"github.com/gofiber/fiber/v2"
	authutils "hrms-backend/lib/utils/auth-utils"
	"hrms-backend/models"
	apimodels "hrms-backend/models/api"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, ok := claims["role"].(string); ok && role != "" {
		return models.UserRole(role)
	}
	return ""
}

func GetActor(ctx *fiber.Ctx) models.Actor {
	return models.Actor{
		UserID: GetUserID(ctx),
		Role:   GetUserRole(ctx),
	}
}

// GetOptionalActor is nil for anonymous requests.
func GetOptionalActor(ctx *fiber.Ctx) *models.Actor {
	actor := GetActor(ctx)
	if actor.UserID == "" {
		return nil
	}
	return &actor
}

func AdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !GetUserRole(ctx).IsAdmin() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation is not allowed"))
		}
		return ctx.Next()
	}
}
