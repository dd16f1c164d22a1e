package apiv1

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"hrms-backend/controllers"
	filestorage "hrms-backend/lib/file-storage"
	usershandler "hrms-backend/lib/users"
	"hrms-backend/middleware"
	apimodels "hrms-backend/models/api"
	usersapimodels "hrms-backend/models/api/users"
)

const maxAvatarSize = 5 * 1024 * 1024

type usersApiController struct {
	controllers.BaseAPIController
}

func InitUsersApiRouters(app *fiber.App) {
	controller := usersApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(middleware.RbacMiddleware())
		router.Get("", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Post("avatar", controller.uploadAvatar)
			idRoute.Get("avatar", controller.getAvatar)
		})
	})
}

// @Summary Employee directory
// @Tags Users
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]usersapimodels.User}
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [get]
func (c *usersApiController) list(ctx *fiber.Ctx) error {
	list, err := usershandler.Instance.List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "user list load failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Update a user
// @Tags Users
// @Description Admins update anyone, employees update their own profile except role and salary
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"user ID"
// @Param	body				body		usersapimodels.UpdateUser	true	"request body"
// @Success 200 {object} apimodels.Response{data=usersapimodels.User}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [put]
func (c *usersApiController) update(ctx *fiber.Ctx) error {
	userID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload usersapimodels.UpdateUser
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	user, err := usershandler.Instance.Update(middleware.GetActor(ctx), userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "user update failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(user))
}

// @Summary Delete a user
// @Tags Users
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"user ID"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [delete]
func (c *usersApiController) delete(ctx *fiber.Ctx) error {
	userID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if userID == middleware.GetUserID(ctx) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("own account can not be deleted"))
	}
	if err := usershandler.Instance.Delete(userID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "user delete failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Upload avatar
// @Tags Users
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"user ID"
// @Param   avatar			formData	file	true	"image file"
// @Success 200 {object} apimodels.Response{data=usersapimodels.User}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/v1/users/{id}/avatar [post]
func (c *usersApiController) uploadAvatar(ctx *fiber.Ctx) error {
	userID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, err := ctx.FormFile("avatar")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("avatar file is required"))
	}
	if file.Size > maxAvatarSize {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("avatar file is too large"))
	}
	contentType := file.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("avatar must be an image"))
	}
	buffer, err := file.Open()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "avatar read failed")
	}
	defer buffer.Close()
	body, err := io.ReadAll(buffer)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "avatar read failed")
	}

	user, err := usershandler.Instance.UploadAvatar(ctx.UserContext(), middleware.GetActor(ctx), userID, body, contentType)
	if err != nil {
		if errors.Is(err, filestorage.ErrNotConfigured) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "avatar upload failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(user))
}

// @Summary Download avatar
// @Tags Users
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"user ID"
// @Success 200
// @Failure 404 {object} apimodels.Response
// @router /api/v1/users/{id}/avatar [get]
func (c *usersApiController) getAvatar(ctx *fiber.Ctx) error {
	userID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, contentType, err := usershandler.Instance.GetAvatar(ctx.UserContext(), userID)
	if err != nil {
		if errors.Is(err, filestorage.ErrNotConfigured) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "avatar download failed")
	}
	if contentType != "" {
		ctx.Set(fiber.HeaderContentType, contentType)
	}
	ctx.Set(fiber.HeaderContentDisposition, `inline; filename="avatar"`)
	return ctx.Send(body)
}
