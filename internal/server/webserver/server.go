package webserver

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

//go:embed web
var webFS embed.FS

var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
}

// NewApp builds the fiber app serving the embedded board page
func NewApp(apiURL string) (*fiber.App, error) {
	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return nil, fmt.Errorf("failed to create web sub-filesystem: %w", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	})

	app.Use(logger.New(logger.Config{
		Format: "${time} WEB ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New())

	// Tells the page where the API lives
	app.Get("/config", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"apiUrl": apiURL,
		})
	})

	app.Get("*", func(c *fiber.Ctx) error {
		fsPath := path.Clean(c.Path())[1:]
		if fsPath == "" {
			fsPath = "index.html"
		}

		data, err := fs.ReadFile(webContent, fsPath)
		if err != nil {
			// Unknown paths get the page, which reads the game from the URL hash
			fsPath = "index.html"
			if data, err = fs.ReadFile(webContent, fsPath); err != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("index.html not found")
			}
		}

		contentType, ok := contentTypes[path.Ext(fsPath)]
		if !ok {
			contentType = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, contentType)
		return c.Send(data)
	})

	return app, nil
}

// Start serves the web UI until the listener fails
func Start(host string, port int, apiURL string) error {
	app, err := NewApp(apiURL)
	if err != nil {
		return err
	}
	return app.Listen(fmt.Sprintf("%s:%d", host, port))
}
