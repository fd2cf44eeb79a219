package webserver

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebServer(t *testing.T) {
	app, err := NewApp("http://localhost:8080")
	require.NoError(t, err)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html", `id="gameboard"`},
		{"/app.js", "application/javascript", "function showInfo"},
		{"/style.css", "text/css", "charcoal-grey"},
		{"/game/unknown", "text/html", `id="gameboard"`},
		{"/index.html", "text/html", `id="login-form"`},
		{"/app.js", "application/javascript", "'Authorization'"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), tt.contentType))

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.contains)
		})
	}
}

func TestConfigEndpoint(t *testing.T) {
	app, err := NewApp("http://api.example:8080")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/config", nil))
	require.NoError(t, err)

	var cfg map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.Equal(t, "http://api.example:8080", cfg["apiUrl"])
}
