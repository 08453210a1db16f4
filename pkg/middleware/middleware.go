package middleware

import (
	"net/http"

	"github.com/Astemirdum/library-circulation/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// AuthContext moves the identity headers set by the gateway into the request context.
func AuthContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		userName := req.Header.Get(auth.XUserNameHeader)
		if userName == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "user-name is empty")
		}
		userRole := req.Header.Get(auth.XUserRoleHeader)
		if userRole == "" {
			userRole = auth.RoleUser
		}
		ctx := auth.SetAuthContext(req.Context(), userName, userRole)
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

// StaffOnly rejects callers without a librarian or admin role. Must run after AuthContext.
func StaffOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.IsStaff(c.Request().Context()) {
			return echo.NewHTTPError(http.StatusForbidden, "librarian role required")
		}
		return next(c)
	}
}

func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

func RequestLoggerConfig(log *zap.Logger) middleware.RequestLoggerConfig {
	log = log.Named("echo")
	return middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
}
