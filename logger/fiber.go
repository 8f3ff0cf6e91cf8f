package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// FiberMiddleware logs every request and attaches a request-scoped logger to
// the request's user context.
func FiberMiddleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDHeader, requestID)

		reqLogger := log.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)
		ctx := WithRequestID(c.UserContext(), requestID)
		c.SetUserContext(WithContext(ctx, reqLogger))

		chainErr := c.Next()
		if chainErr != nil {
			// Let the app's error handler write the response so the status is final.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.IP()),
		}
		if q := string(c.Request().URI().QueryString()); q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if chainErr != nil {
			fields = append(fields, zap.Error(chainErr))
		}

		const msg = "HTTP Request"
		switch {
		case status >= fiber.StatusInternalServerError:
			reqLogger.Error(msg, fields...)
		case status >= fiber.StatusBadRequest:
			reqLogger.Warn(msg, fields...)
		default:
			reqLogger.Info(msg, fields...)
		}
		return nil
	}
}

// FromFiber returns the request-scoped logger set by FiberMiddleware.
func FromFiber(c *fiber.Ctx) *zap.Logger {
	return FromContext(c.UserContext())
}
