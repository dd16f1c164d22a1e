package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hrms-backend/controllers"
	leavehandler "hrms-backend/lib/leave"
	"hrms-backend/middleware"
	apimodels "hrms-backend/models/api"
	leaveapimodels "hrms-backend/models/api/leave"
)

type leaveApiController struct {
	controllers.BaseAPIController
}

func InitLeaveApiRouters(app *fiber.App) {
	controller := leaveApiController{}
	app.Route("leaves", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(middleware.RbacMiddleware())
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Put(":id", controller.updateStatus)
		router.Put(":id/status", controller.updateStatus)
	})
}

// @Summary Leave requests
// @Tags Leaves
// @Description Admins see all requests, employees only their own
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   userId			query		string	false	"user ID"
// @Success 200 {object} apimodels.Response{data=[]leaveapimodels.LeaveRequest}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leaves [get]
func (c *leaveApiController) list(ctx *fiber.Ctx) error {
	var filter leaveapimodels.Filter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := leavehandler.Instance.List(middleware.GetActor(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "leave list load failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Apply for leave
// @Tags Leaves
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		leaveapimodels.CreateLeave	true	"request body"
// @Success 201 {object} apimodels.Response{data=leaveapimodels.LeaveRequest}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leaves [post]
func (c *leaveApiController) create(ctx *fiber.Ctx) error {
	var payload leaveapimodels.CreateLeave
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := leavehandler.Instance.Create(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "leave request create failed")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(rec))
}

// @Summary Approve or reject a leave request
// @Tags Leaves
// @Description Only PENDING requests can be reviewed, the employee is notified
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"leave request ID"
// @Param	body				body		leaveapimodels.StatusUpdate	true	"request body"
// @Success 200 {object} apimodels.Response{data=leaveapimodels.LeaveRequest}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leaves/{id}/status [put]
func (c *leaveApiController) updateStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload leaveapimodels.StatusUpdate
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := leavehandler.Instance.UpdateStatus(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "leave status update failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(rec))
}
