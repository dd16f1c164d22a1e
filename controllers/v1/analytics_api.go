package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hrms-backend/controllers"
	"hrms-backend/lib/analytics"
	"hrms-backend/middleware"
	apimodels "hrms-backend/models/api"
)

type analyticsApiController struct {
	controllers.BaseAPIController
}

func InitAnalyticsApiRouters(app *fiber.App) {
	controller := analyticsApiController{}
	app.Get("stats", middleware.AuthorizationRequired(), middleware.RbacMiddleware(), controller.stats)
	app.Route("analytics", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(middleware.AdminRequired())
		router.Get("burnout", controller.burnout)
		router.Get("happiness", controller.happiness)
	})
}

// @Summary Burnout risks
// @Tags Analytics
// @Description Users working over 9h a day or reporting negative moods in the last 14 days
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]analyticsapimodels.BurnoutRisk}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/analytics/burnout [get]
func (c *analyticsApiController) burnout(ctx *fiber.Ctx) error {
	data, err := analytics.Instance.BurnoutRisks()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "burnout analytics failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}

// @Summary Mood distribution
// @Tags Analytics
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]analyticsapimodels.HappinessBucket}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/analytics/happiness [get]
func (c *analyticsApiController) happiness(ctx *fiber.Ctx) error {
	data, err := analytics.Instance.Happiness()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "happiness analytics failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}

// @Summary Dashboard totals
// @Tags Analytics
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=analyticsapimodels.Stats}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/stats [get]
func (c *analyticsApiController) stats(ctx *fiber.Ctx) error {
	data, err := analytics.Instance.Stats()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "stats load failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}
