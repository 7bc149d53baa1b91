package security

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	limiterpkg "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

var (
	Validate    *validator.Validate
	RateLimiter *limiterpkg.Limiter
)

func Init() {
	// Initialize validator
	Validate = validator.New()
	Validate.RegisterValidation("reviewflag", validateReviewFlag)

	// Initialize rate limiter
	// 120 requests per minute per IP, generous for a single reviewer but
	// keeps a runaway client from hammering the write endpoints
	rate := limiterpkg.Rate{
		Period: 1 * time.Minute,
		Limit:  120,
	}
	store := memory.NewStore()
	RateLimiter = limiterpkg.New(store, rate)
}

// validateReviewFlag accepts the priority flags a reviewer can set on a case.
func validateReviewFlag(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "none", "low", "medium", "high":
		return true
	}
	return false
}

func RateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()
		context, err := RateLimiter.Get(c.Request().Context(), ip)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "rate limit error",
			})
		}

		if context.Reached {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded",
			})
		}

		return next(c)
	}
}
