package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hrms-backend/fiberlog"
	"hrms-backend/middleware"
	"hrms-backend/models"
	apimodels "hrms-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("request body parse failed")
		return errors.New("unable to read request data")
	}
	return nil
}

func (c *BaseAPIController) QueryParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.QueryParser(out); err != nil {
		log.WithError(err).Error("request query parse failed")
		return errors.New("unable to read request parameters")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("id is required")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("request_id", string(ctx.Response().Header.Peek(fiberlog.RequestIDHeader)))
}

// SendError writes err with the status of its sentinel, unknown errors are logged and become 500.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	status := ErrorStatus(err)
	if status == fiber.StatusInternalServerError {
		logger.WithError(err).Error(msg)
		return ctx.Status(status).JSON(apimodels.NewError(msg))
	}
	return ctx.Status(status).JSON(apimodels.NewError(PublicMessage(err)))
}

var sentinels = []error{
	models.ErrNotFound,
	models.ErrForbidden,
	models.ErrConflict,
	models.ErrBadRequest,
	models.ErrInvalidCredentials,
}

// PublicMessage drops the wrapped sentinel text, "email already exists: bad request" becomes "email already exists".
func PublicMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range sentinels {
		if trimmed, ok := strings.CutSuffix(msg, ": "+sentinel.Error()); ok {
			return trimmed
		}
	}
	return msg
}

func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrBadRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	}
	return fiber.StatusInternalServerError
}
