package middlewares

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// CtxLogger holds the request-scoped logger set by RequestLogger.
const CtxLogger = "logger"

// Logger is the request-scoped logger, or the global zap logger outside
// RequestLogger.
func Logger(c echo.Context) *zap.Logger {
	if log, ok := c.Get(CtxLogger).(*zap.Logger); ok {
		return log
	}
	return zap.L()
}

// RequestLogger writes one structured access-log line per request and puts a
// logger tagged with the request id on the context.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		BeforeNextFunc: func(c echo.Context) {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			c.Set(CtxLogger, log.With(zap.String("request_id", rid)))
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if uid := CurrentUserID(c); uid != 0 {
				fields = append(fields, zap.Uint("user_id", uid))
			}
			switch {
			case v.Error != nil:
				log.Warn("request failed", append(fields, zap.Error(v.Error))...)
			case v.Status >= 500:
				log.Error("request", fields...)
			default:
				log.Info("request", fields...)
			}
			return nil
		},
	})
}
