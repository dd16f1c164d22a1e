package apiv1

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"hrms-backend/controllers"
	attendancehandler "hrms-backend/lib/attendance"
	"hrms-backend/middleware"
	apimodels "hrms-backend/models/api"
	attendanceapimodels "hrms-backend/models/api/attendance"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type attendanceApiController struct {
	controllers.BaseAPIController
}

func InitAttendanceApiRouters(app *fiber.App) {
	controller := attendanceApiController{}
	app.Route("attendance", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(middleware.RbacMiddleware())
		router.Get("", controller.list)
		router.Post("", controller.save)
		router.Post("checkin", controller.checkIn)
		router.Post("checkout", controller.checkOut)
		router.Get("export", controller.export)
	})
}

// @Summary Attendance records
// @Tags Attendance
// @Description Admins see all records, employees only their own
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   userId			query		string	false	"user ID"
// @Param   date			query		string	false	"YYYY-MM-DD"
// @Success 200 {object} apimodels.Response{data=[]attendanceapimodels.AttendanceRecord}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance [get]
func (c *attendanceApiController) list(ctx *fiber.Ctx) error {
	var filter attendanceapimodels.Filter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := filter.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := attendancehandler.Instance.List(middleware.GetActor(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "attendance load failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Save attendance
// @Tags Attendance
// @Description Creates the record of the day or updates checkOut and status of the existing one
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		attendanceapimodels.SaveRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=attendanceapimodels.AttendanceRecord}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance [post]
func (c *attendanceApiController) save(ctx *fiber.Ctx) error {
	var payload attendanceapimodels.SaveRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := attendancehandler.Instance.Save(ctx.UserContext(), middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "attendance save failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(rec))
}

// @Summary Check in
// @Tags Attendance
// @Description Returns the existing record when the user already checked in today
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		attendanceapimodels.CheckInRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=attendanceapimodels.AttendanceRecord}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/checkin [post]
func (c *attendanceApiController) checkIn(ctx *fiber.Ctx) error {
	var payload attendanceapimodels.CheckInRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := attendancehandler.Instance.CheckIn(ctx.UserContext(), middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "check-in failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(rec))
}

// @Summary Check out
// @Tags Attendance
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		attendanceapimodels.CheckOutRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=attendanceapimodels.AttendanceRecord}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/checkout [post]
func (c *attendanceApiController) checkOut(ctx *fiber.Ctx) error {
	var payload attendanceapimodels.CheckOutRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := attendancehandler.Instance.CheckOut(ctx.UserContext(), middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "check-out failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(rec))
}

// @Summary Export attendance to Excel
// @Tags Attendance
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   from			query		string	false	"YYYY-MM-DD"
// @Param   to				query		string	false	"YYYY-MM-DD"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/export [get]
func (c *attendanceApiController) export(ctx *fiber.Ctx) error {
	var filter attendanceapimodels.Filter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := filter.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := attendancehandler.Instance.Export(filter.From, filter.To)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "attendance export failed")
	}
	fileName := fmt.Sprintf("attendance_%s_%s.xlsx", filter.From, filter.To)
	ctx.Set(fiber.HeaderContentType, xlsxContentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
