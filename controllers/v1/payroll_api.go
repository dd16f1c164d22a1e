package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hrms-backend/controllers"
	payrollhandler "hrms-backend/lib/payroll"
	"hrms-backend/middleware"
	apimodels "hrms-backend/models/api"
	payrollapimodels "hrms-backend/models/api/payroll"
)

type payrollApiController struct {
	controllers.BaseAPIController
}

func InitPayrollApiRouters(app *fiber.App) {
	controller := payrollApiController{}
	app.Route("payroll", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(middleware.RbacMiddleware())
		router.Get("", controller.list)
		router.Post("generate", controller.generate)
		router.Get("export", controller.export)
		router.Put(":id/pay", controller.pay)
		router.Get(":id/slip", controller.slip)
	})
}

// @Summary Payroll records
// @Tags Payroll
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   userId			query		string	false	"user ID"
// @Param   month			query		string	false	"YYYY-MM"
// @Success 200 {object} apimodels.Response{data=[]payrollapimodels.PayrollRecord}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/payroll [get]
func (c *payrollApiController) list(ctx *fiber.Ctx) error {
	var filter payrollapimodels.Filter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if filter.Month != "" {
		if err := payrollapimodels.ValidateMonth(filter.Month); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	list, err := payrollhandler.Instance.List(middleware.GetActor(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "payroll load failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Generate payroll for a month
// @Tags Payroll
// @Description Creates PENDING records for every user with a salary, existing records are kept
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		payrollapimodels.GenerateRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]payrollapimodels.PayrollRecord}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/payroll/generate [post]
func (c *payrollApiController) generate(ctx *fiber.Ctx) error {
	var payload payrollapimodels.GenerateRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := payrollhandler.Instance.Generate(ctx.UserContext(), middleware.GetActor(ctx), payload.Month)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "payroll generation failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Mark payroll record as paid
// @Tags Payroll
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"payroll record ID"
// @Success 200 {object} apimodels.Response{data=payrollapimodels.PayrollRecord}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/payroll/{id}/pay [put]
func (c *payrollApiController) pay(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := payrollhandler.Instance.Pay(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "payroll payment failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(rec))
}

// @Summary Download payslip
// @Tags Payroll
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"payroll record ID"
// @Success 200
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/payroll/{id}/slip [get]
func (c *payrollApiController) slip(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, err := payrollhandler.Instance.Slip(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "payslip generation failed")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="payslip_`+id+`.pdf"`)
	return ctx.Send(body)
}

// @Summary Export payroll to Excel
// @Tags Payroll
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   month			query		string	false	"YYYY-MM"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/payroll/export [get]
func (c *payrollApiController) export(ctx *fiber.Ctx) error {
	month := ctx.Query("month")
	if month != "" {
		if err := payrollapimodels.ValidateMonth(month); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	data, err := payrollhandler.Instance.Export(month)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "payroll export failed")
	}
	fileName := "payroll.xlsx"
	if month != "" {
		fileName = "payroll_" + month + ".xlsx"
	}
	ctx.Set(fiber.HeaderContentType, xlsxContentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
