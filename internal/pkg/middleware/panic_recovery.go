package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/myreprise/payflow/internal/pkg/logger"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// PanicRecoveryMiddleware creates a middleware that recovers from panics,
// logs them with stack traces, and returns a 500 to the caller
func PanicRecoveryMiddleware(zapLogger *logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					handlePanic(c, r, zapLogger)
				}
			}()

			return next(c)
		}
	}
}

// handlePanic handles panic recovery, logging, and the error response
func handlePanic(c echo.Context, r interface{}, zapLogger *logger.ZapLogger) {
	stackTrace := string(debug.Stack())

	requestID := c.Response().Header().Get(RequestIDHeader)
	if requestID == "" {
		requestID = c.Request().Header.Get(RequestIDHeader)
	}

	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.NoticeError(fmt.Errorf("panic recovered: %v", r))
	}

	zapLogger.Error("Panic recovered",
		logger.Any("panic_value", r),
		logger.String("panic_type", fmt.Sprintf("%T", r)),
		logger.String("stack_trace", stackTrace),
		logger.String("method", c.Request().Method),
		logger.String("path", c.Request().URL.Path),
		logger.String("client_ip", c.RealIP()),
		logger.String("request_id", requestID),
	)

	if !c.Response().Committed {
		_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Internal server error",
			"code":    http.StatusInternalServerError,
		})
	}
}
