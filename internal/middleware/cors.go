package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows cross-origin requests from the given origins with any method and
// request header, credentials included. With no origins, cross-origin access is not granted.
func CORS(allowedOrigins []string) fiber.Handler {
	if len(allowedOrigins) == 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	return cors.New(cors.Config{
		AllowOrigins: strings.Join(allowedOrigins, ","),
		AllowMethods: strings.Join([]string{
			fiber.MethodGet,
			fiber.MethodPost,
			fiber.MethodHead,
			fiber.MethodPut,
			fiber.MethodDelete,
			fiber.MethodPatch,
			fiber.MethodOptions,
		}, ","),
		// Empty AllowHeaders reflects the preflight's requested headers.
		AllowHeaders:     "",
		AllowCredentials: true,
	})
}

// ErrorHandler renders errors that escape handlers, including recovered
// panics, as JSON with a "detail" field.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	detail := "Internal Server Error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		detail = e.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"detail": detail,
	})
}
