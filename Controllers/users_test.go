package Controllers_test

import (
	"fmt"
	"testing"

	"GroundCheck/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserManagement(t *testing.T) {
	app, db := setupApp(t)
	cookie := seedAndLogin(t, app, "admin", "admin123")

	// Create
	resp := request(t, app, "POST", "/api/users", map[string]interface{}{
		"username": "krani2",
		"password": "rahasia1",
		"nama":     "Krani Divisi 2",
		"role":     "user",
		"email":    "krani2@sgs.com",
	}, cookie)
	require.Equal(t, 200, resp.StatusCode)
	created := decode(t, resp)["data"].(map[string]interface{})
	id := int(created["ID"].(float64))
	assert.Equal(t, "krani2", created["username"])
	// The digest never leaks through the API
	assert.NotContains(t, created, "password")

	// Duplicate username rejected
	resp = request(t, app, "POST", "/api/users", map[string]interface{}{
		"username": "krani2",
		"password": "rahasia1",
		"nama":     "Duplikat",
		"role":     "user",
	}, cookie)
	assert.Equal(t, 400, resp.StatusCode)

	// The new account can log in
	login(t, app, "krani2", "rahasia1")

	// Update without password keeps the old digest
	var before Models.User
	require.NoError(t, db.First(&before, id).Error)
	resp = request(t, app, "PUT", "/api/users", map[string]interface{}{
		"id":   id,
		"nama": "Krani Dua",
	}, cookie)
	require.Equal(t, 200, resp.StatusCode)

	var after Models.User
	require.NoError(t, db.First(&after, id).Error)
	assert.Equal(t, "Krani Dua", after.Name)
	assert.Equal(t, before.Password, after.Password)

	// Update with password re-digests it
	resp = request(t, app, "PUT", "/api/users", map[string]interface{}{
		"id":       id,
		"password": "rahasia2",
	}, cookie)
	require.Equal(t, 200, resp.StatusCode)
	login(t, app, "krani2", "rahasia2")

	// Delete
	resp = request(t, app, "DELETE", fmt.Sprintf("/api/users?id=%d", id), nil, cookie)
	require.Equal(t, 200, resp.StatusCode)

	resp = request(t, app, "DELETE", "/api/users", nil, cookie)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUserCreateValidation(t *testing.T) {
	app, _ := setupApp(t)
	cookie := seedAndLogin(t, app, "admin", "admin123")

	resp := request(t, app, "POST", "/api/users", map[string]interface{}{
		"username": "incomplete",
	}, cookie)
	assert.Equal(t, 400, resp.StatusCode)

	resp = request(t, app, "POST", "/api/users", map[string]interface{}{
		"username": "badrole",
		"password": "rahasia1",
		"nama":     "Bad Role",
		"role":     "superuser",
	}, cookie)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUserListNewestFirst(t *testing.T) {
	app, _ := setupApp(t)
	cookie := seedAndLogin(t, app, "admin", "admin123")

	resp := request(t, app, "GET", "/api/users", nil, cookie)
	require.Equal(t, 200, resp.StatusCode)
	data := decode(t, resp)["data"].([]interface{})
	assert.Len(t, data, 2)
}
