package middleware

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"hrms-backend/lib/rbac"
	apimodels "hrms-backend/models/api"
)

const rbacForbidden = "RBAC_FORBIDDEN"

func RbacMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := GetUserID(ctx)
		userRole := GetUserRole(ctx)
		if userID == "" || !userRole.IsValid() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(rbacForbidden))
		}

		check, found := rbac.Instance.GetRuleFunc(ctx.Method(), ctx.Path())
		if !found {
			return ctx.Next()
		}
		if !check(userID, userRole, ctx.Path()) {
			log.WithField("user_id", userID).
				WithField("role", userRole).
				WithField("path", ctx.Path()).
				Warn("rbac check failed")
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(rbacForbidden))
		}
		return ctx.Next()
	}
}
