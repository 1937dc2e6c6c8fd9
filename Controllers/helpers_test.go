package Controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"GroundCheck/Config"
	"GroundCheck/FiberConfig"
	"GroundCheck/Models"
	"GroundCheck/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// setupApp creates an in-memory database and a Fiber app with all API routes.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))
	Models.DB = db

	cfg := &Config.Config{
		JWTSecret:     testSecret,
		SessionCookie: "sgs_token",
		SessionDays:   7,
	}
	middleware.Setup(cfg)

	app := fiber.New()
	FiberConfig.SetupRoutes(app, db, cfg)
	return app, db
}

// request performs a JSON request against the app, attaching the session
// cookie when given.
func request(t *testing.T, app *fiber.App, method, path string, body interface{}, cookie string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decode parses the response body into a generic envelope.
func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

// seedAndLogin seeds the database and logs in as the given seeded account,
// returning the session cookie header value.
func seedAndLogin(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	resp := request(t, app, "POST", "/api/seed", nil, "")
	require.Equal(t, 200, resp.StatusCode)

	return login(t, app, username, password)
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	resp := request(t, app, "POST", "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, 200, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "sgs_token" {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatal("login response did not set a session cookie")
	return ""
}

// createTaskBody returns a minimal valid submission body.
func createTaskBody(points map[int]int) map[string]interface{} {
	attachments := []map[string]interface{}{}
	for point, photoCount := range points {
		photos := make([]string, photoCount)
		for i := range photos {
			photos[i] = "data:image/jpeg;base64,dGVzdA=="
		}
		attachments = append(attachments, map[string]interface{}{
			"pointNumber": point,
			"photos":      photos,
		})
	}
	return map[string]interface{}{
		"inspectorName": "Krani Uji",
		"divisionId":    1,
		"unitId":        1,
		"notes":         "routine check",
		"attachments":   attachments,
	}
}
