package Controllers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivisionsOrderedByKode(t *testing.T) {
	app, _ := setupApp(t)
	cookie := seedAndLogin(t, app, "admin", "admin123")

	// Created out of order on purpose
	for _, kode := range []string{"C", "A", "B"} {
		resp := request(t, app, "POST", "/api/divisions", map[string]string{
			"kode": kode, "nama": "Divisi " + kode,
		}, cookie)
		require.Equal(t, 200, resp.StatusCode)
	}

	resp := request(t, app, "GET", "/api/divisions", nil, cookie)
	require.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp)
	data := body["data"].([]interface{})

	var kodes []string
	for _, item := range data {
		kodes = append(kodes, item.(map[string]interface{})["kode"].(string))
	}
	// Seed creates 1..3; the new ones must sort after them as A, B, C
	assert.Equal(t, []string{"1", "2", "3", "A", "B", "C"}, kodes)
}

func TestCreateDivisionRequiresFields(t *testing.T) {
	app, _ := setupApp(t)
	cookie := seedAndLogin(t, app, "admin", "admin123")

	resp := request(t, app, "POST", "/api/divisions", map[string]string{
		"nama": "No Kode",
	}, cookie)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestDivisionsIncludeLiveCounts(t *testing.T) {
	app, _ := setupApp(t)
	cookie := seedAndLogin(t, app, "admin", "admin123")

	resp := request(t, app, "GET", "/api/divisions", nil, cookie)
	require.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp)
	data := body["data"].([]interface{})
	require.NotEmpty(t, data)

	// Each seeded division has exactly one supervision unit
	first := data[0].(map[string]interface{})
	assert.EqualValues(t, 1, first["unitCount"])
	assert.EqualValues(t, 0, first["taskCount"])
}

func TestSupervisionUnitsFilteredByDivision(t *testing.T) {
	app, _ := setupApp(t)
	cookie := seedAndLogin(t, app, "admin", "admin123")

	resp := request(t, app, "GET", "/api/supervision-units", nil, cookie)
	require.Equal(t, 200, resp.StatusCode)
	assert.Len(t, decode(t, resp)["data"], 3)

	resp = request(t, app, "GET", "/api/supervision-units?divisionId=1", nil, cookie)
	require.Equal(t, 200, resp.StatusCode)

	data := decode(t, resp)["data"].([]interface{})
	require.Len(t, data, 1)
	unit := data[0].(map[string]interface{})
	assert.Equal(t, "A", unit["kode"])
	assert.NotNil(t, unit["division"])
}

func TestCreateUnitUnderUnknownDivision(t *testing.T) {
	app, _ := setupApp(t)
	cookie := seedAndLogin(t, app, "admin", "admin123")

	resp := request(t, app, "POST", "/api/supervision-units", map[string]interface{}{
		"kode": "Z", "nama": "Kemandoran Z", "divisionId": 999,
	}, cookie)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestCreateUnitRequiresFields(t *testing.T) {
	app, _ := setupApp(t)
	cookie := seedAndLogin(t, app, "admin", "admin123")

	resp := request(t, app, "POST", "/api/supervision-units", map[string]interface{}{
		"kode": "Z", "nama": "Kemandoran Z",
	}, cookie)
	assert.Equal(t, 400, resp.StatusCode)
}
