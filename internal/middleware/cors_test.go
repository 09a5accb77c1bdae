package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCORSApp(origins []string) *fiber.App {
	app := fiber.New()
	app.Use(middleware.CORS(origins))
	app.Get("/products", func(c *fiber.Ctx) error {
		return c.JSON([]string{})
	})
	return app
}

func TestCORS_AllowedOrigin(t *testing.T) {
	app := newCORSApp([]string{"http://localhost:3000", "http://127.0.0.1:3000"})

	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "http://127.0.0.1:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Custom")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://127.0.0.1:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "X-Custom")
}

func TestCORS_UnknownOrigin(t *testing.T) {
	app := newCORSApp([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Origin", "http://evil.example.com")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORS_NoOrigins(t *testing.T) {
	app := newCORSApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(recover.New())
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("database is gone")
	})

	testCases := []struct {
		path   string
		code   int
		detail string
	}{
		{path: "/panic", code: http.StatusInternalServerError, detail: "Internal Server Error"},
		{path: "/plain", code: http.StatusInternalServerError, detail: "Internal Server Error"},
		{path: "/missing", code: http.StatusNotFound, detail: "Cannot GET /missing"},
	}

	for _, test := range testCases {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, test.path, nil), -1)
		require.NoError(t, err)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, test.code, resp.StatusCode, test.path)
		assert.Equal(t, test.detail, body["detail"], test.path)
	}
}
