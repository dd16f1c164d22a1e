package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"hrms-backend/config"
	apiv1 "hrms-backend/controllers/v1"
	"hrms-backend/docs"
	"hrms-backend/fiberlog"
	"hrms-backend/initializers"
	"hrms-backend/lib/ws"
	"hrms-backend/middleware"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: config.Conf.App.BodyLimit,
	})
	app.Use(fiberRecover.New())

	swaggerCfg := swagger.Config{
		Path:        "/swagger",
		FilePath:    "./docs/swagger.json",
		FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
	}
	app.Use(swagger.New(swaggerCfg))

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiV1.Use(middleware.WithBodyLimit(int64(config.Conf.App.BodyLimit)))
	apiv1.InitAuthApiRouters(apiV1)
	apiv1.InitUsersApiRouters(apiV1)
	apiv1.InitAttendanceApiRouters(apiV1)
	apiv1.InitLeaveApiRouters(apiV1)
	apiv1.InitPayrollApiRouters(apiV1)
	apiv1.InitAnalyticsApiRouters(apiV1)

	//ws
	wsApp := fiber.New()
	apiV1.Mount("/ws", wsApp)
	wsApp.Use(middleware.AuthorizationRequired())
	ws.InitWs(wsApp)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-c:
		case <-ctx.Done():
			return
		}
		log.Info("gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
		time.Sleep(time.Second)
		log.Info("graceful shutdown finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
