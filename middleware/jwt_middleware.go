package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"hrms-backend/config"
	apimodels "hrms-backend/models/api"
)

// UserIDLocal carries the caller id for the request logger.
const UserIDLocal = "user_id"

func jwtConfig() jwtware.Config {
	return jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		SuccessHandler: func(ctx *fiber.Ctx) error {
			ctx.Locals(UserIDLocal, GetUserID(ctx))
			return ctx.Next()
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("unauthorized"))
		},
	}
}

func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtConfig())
}

// OptionalAuthorization validates the token when one is sent and lets anonymous requests through.
func OptionalAuthorization() fiber.Handler {
	cfg := jwtConfig()
	cfg.Filter = func(ctx *fiber.Ctx) bool {
		return ctx.Get(fiber.HeaderAuthorization) == ""
	}
	return jwtware.New(cfg)
}
