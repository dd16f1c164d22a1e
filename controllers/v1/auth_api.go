package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hrms-backend/config"
	"hrms-backend/controllers"
	authhandler "hrms-backend/lib/auth"
	"hrms-backend/lib/rbac"
	"hrms-backend/middleware"
	apimodels "hrms-backend/models/api"
	authapimodels "hrms-backend/models/api/auth"
)

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(app *fiber.App) {
	controller := authApiController{}
	app.Get("init", controller.initAdmin)
	app.Post("login", controller.login)
	app.Post("register", middleware.OptionalAuthorization(), controller.register)
	app.Get("me", middleware.AuthorizationRequired(), controller.me)
	app.Get("permissions", middleware.AuthorizationRequired(), controller.permissions)
}

// @Summary Seed the default administrator
// @Tags Auth
// @Description Creates the default administrator account when it does not exist yet
// @Success 200 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/init [get]
func (c *authApiController) initAdmin(ctx *fiber.Ctx) error {
	created, err := authhandler.Instance.InitAdmin(config.Conf.Admin.Email, config.Conf.Admin.Password)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "admin initialization failed")
	}
	if !created {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.Response{Status: apimodels.StatusSuccess, Message: "admin already exists"})
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.Response{Status: apimodels.StatusSuccess, Message: "admin created"})
}

// @Summary Login
// @Tags Auth
// @Description Checks credentials and issues an access token
// @Param	body				body		authapimodels.LoginRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.LoginResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/login [post]
func (c *authApiController) login(ctx *fiber.Ctx) error {
	var payload authapimodels.LoginRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := authhandler.Instance.Login(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "login failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Register a user
// @Tags Auth
// @Description Creates an account, ADMIN accounts can be created by an administrator only
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body				body		authapimodels.RegisterRequest	true	"request body"
// @Success 201 {object} apimodels.Response{data=usersapimodels.User}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/register [post]
func (c *authApiController) register(ctx *fiber.Ctx) error {
	var payload authapimodels.RegisterRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	user, err := authhandler.Instance.Register(middleware.GetOptionalActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "registration failed")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(user))
}

// @Summary Current user
// @Tags Auth
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=usersapimodels.User}
// @Failure 401 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/me [get]
func (c *authApiController) me(ctx *fiber.Ctx) error {
	user, err := authhandler.Instance.Me(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "current user load failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(user))
}

// @Summary Permissions of the current role
// @Tags Auth
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @router /api/v1/permissions [get]
func (c *authApiController) permissions(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(rbac.Instance.GetPermissions(middleware.GetUserRole(ctx))))
}
