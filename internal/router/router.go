package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/handler"
	"marketplace/internal/logger"
	"marketplace/internal/middleware"
	"marketplace/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	log logger.Logger,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	reviewHandler *handler.ReviewHandler,
) {
	e.HTTPErrorHandler = ErrorHandler(log)
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(RequestLogger(log))
	e.Use(middleware.Metrics())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")
	protect := authMiddleware.Protect()
	admin := middleware.RequireRoles(model.RoleAdmin)
	sellers := middleware.RequireRoles(model.RoleSeller, model.RoleAdmin)
	reviewers := middleware.RequireRoles(model.RoleUser, model.RoleAdmin)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/forgotpassword", authHandler.ForgotPassword)
	authGroup.PUT("/resetpassword/:resettoken", authHandler.ResetPassword)
	authGroup.GET("/logout", authHandler.Logout, protect)
	authGroup.GET("/me", authHandler.Me, protect)
	authGroup.PUT("/updateme", authHandler.UpdateMe, protect)
	authGroup.PUT("/updatemypassword", authHandler.UpdatePassword, protect)

	// User administration; updates are also open to the user themselves
	authGroup.PUT("/user/:id", userHandler.UpdateUser, protect)
	authGroup.GET("/users", userHandler.ListUsers, protect, admin)
	authGroup.POST("/user", userHandler.CreateUser, protect, admin)
	authGroup.GET("/user/:id", userHandler.GetUser, protect, admin)
	authGroup.DELETE("/user/:id", userHandler.DeleteUser, protect, admin)

	// Products
	api.GET("/products", productHandler.ListProducts)
	api.GET("/products/:id", productHandler.GetProduct)
	api.POST("/products", productHandler.CreateProduct, protect, sellers)
	api.PUT("/products/:id", productHandler.UpdateProduct, protect, sellers)
	api.DELETE("/products/:id", productHandler.DeleteProduct, protect, sellers)

	// Reviews
	api.GET("/products/:id/reviews", reviewHandler.ListProductReviews)
	api.POST("/products/:id/reviews", reviewHandler.CreateReview, protect, reviewers)
	api.GET("/reviews", reviewHandler.ListReviews)
	api.GET("/reviews/:id", reviewHandler.GetReview)
	api.PUT("/reviews/:id", reviewHandler.UpdateReview, protect, reviewers)
	api.DELETE("/reviews/:id", reviewHandler.DeleteReview, protect, reviewers)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ErrorHandler renders every error as the JSON error envelope.
func ErrorHandler(log logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var mapped *apperrors.HTTPError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			mapped = apperrors.NewHTTPError(he.Code, fmt.Sprint(he.Message), apperrors.KindForStatus(he.Code))
		} else {
			mapped = apperrors.MapErrorToHTTP(err)
		}

		if mapped.StatusCode >= http.StatusInternalServerError {
			log.Error("request failed", map[string]interface{}{
				"method": c.Request().Method,
				"route":  c.Path(),
				"kind":   mapped.Code,
				"error":  err,
			})
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(mapped.StatusCode)
		} else {
			err = c.JSON(mapped.StatusCode, mapped.ToErrorResponse())
		}
		if err != nil {
			log.Warn("write error response", map[string]interface{}{"error": err})
		}
	}
}

// RequestLogger logs one line per request through the application logger.
func RequestLogger(log logger.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomw.RequestLoggerValues) error {
			fields := map[string]interface{}{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"request_id": v.RequestID,
				"remote_ip":  v.RemoteIP,
			}
			if v.Error != nil {
				fields["error"] = v.Error
			}
			log.Info("request", fields)
			return nil
		},
	})
}
