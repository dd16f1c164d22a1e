package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TagPid       = "pid"
	TagStatus    = "status"
	TagLatency   = "latency"
	TagMethod    = "method"
	TagPath      = "path"
	TagIP        = "ip"
	TagRequestID = "request_id"
	TagUserID    = "user_id"
	TagBody      = "body"
	TagResBody   = "res_body"
)

const RequestIDHeader = "X-Request-ID"

// FuncTag produces the value of a log field.
type FuncTag func(c *fiber.Ctx, d *data) interface{}

// data is collected per request.
type data struct {
	pid       int
	start     time.Time
	end       time.Time
	requestID string
}

var tagFuncs = map[string]FuncTag{
	TagPid: func(c *fiber.Ctx, d *data) interface{} {
		return d.pid
	},
	TagStatus: func(c *fiber.Ctx, d *data) interface{} {
		return c.Response().StatusCode()
	},
	TagLatency: func(c *fiber.Ctx, d *data) interface{} {
		return d.end.Sub(d.start).String()
	},
	TagMethod: func(c *fiber.Ctx, d *data) interface{} {
		return c.Method()
	},
	TagPath: func(c *fiber.Ctx, d *data) interface{} {
		return c.Path()
	},
	TagIP: func(c *fiber.Ctx, d *data) interface{} {
		return c.IP()
	},
	TagRequestID: func(c *fiber.Ctx, d *data) interface{} {
		return d.requestID
	},
	TagUserID: func(c *fiber.Ctx, d *data) interface{} {
		if userID, ok := c.Locals(TagUserID).(string); ok {
			return userID
		}
		return ""
	},
	TagBody: func(c *fiber.Ctx, d *data) interface{} {
		return string(c.Body())
	},
	TagResBody: func(c *fiber.Ctx, d *data) interface{} {
		return string(c.Response().Body())
	},
}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	ftm := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := tagFuncs[tag]; ok {
			ftm[tag] = ft
		}
	}
	return ftm
}

// requestID reuses the incoming header or generates a new id.
func requestID(c *fiber.Ctx) string {
	if id := c.Get(RequestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}
