package ws

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	wsclient "hrms-backend/lib/ws/client"
	connectionhub "hrms-backend/lib/ws/hub/connection-hub"
	"hrms-backend/middleware"
)

func InitWs(app fiber.Router) {
	app.Use("", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		ctx.Locals("userID", middleware.GetUserID(ctx))
		return ctx.Next()
	})
	app.Get("", websocket.New(pushHandler))
}

// @Summary User events
// @Tags Websocket
// @Description Leave and payroll events of the current user
// @Param   Authorization		header		string		true		"Authorization token"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 403
// @router /api/v1/ws [get]
func pushHandler(c *websocket.Conn) {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		_ = c.Close()
		return
	}
	client := wsclient.NewClient(userID, c)
	connectionhub.Instance.AddClient(userID, c)
	defer connectionhub.Instance.DeleteClient(userID, c)
	client.Dispatch()
}
