package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"filmoteca/internal/auth"
	"filmoteca/internal/config"
	apperrors "filmoteca/internal/errors"
	"filmoteca/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	movieHandler *handler.MovieHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Movie routes, all behind the access guard
	movies := api.Group("/movies", AccessGuard(cfg.JWT.Secret))

	movies.GET("", movieHandler.List)
	movies.POST("", movieHandler.Create)
	movies.GET("/:id", movieHandler.Get)
	movies.PUT("/:id", movieHandler.Update)
	movies.DELETE("/:id", movieHandler.Delete)
	movies.PATCH("/:id/favorite", movieHandler.ToggleFavorite)
	movies.PATCH("/:id/rating", movieHandler.SetRating)
}

// AccessGuard rejects unauthenticated requests before they reach any movie
// logic. Every failure is a 401: a missing Authorization header gets its own
// message, while malformed, expired and badly signed tokens all collapse to
// one message with no further distinction.
func AccessGuard(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, echojwt.ErrJWTMissing) {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Error: "authorization token missing",
					Code:  "NO_TOKEN",
				})
			}
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "invalid or expired token",
				Code:  "INVALID_TOKEN",
			})
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			if claims, ok := token.Claims.(*auth.Claims); ok {
				c.Set(handler.ContextUserIDKey, claims.UserID)
			}
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
