package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopmaster/storefront/internal/auth"
	"github.com/shopmaster/storefront/internal/models"
	"github.com/shopmaster/storefront/internal/transport"
)

func TestMeHandlers(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice@example.com", models.RoleUser)
	id := auth.Identity{UserID: alice.ID, Role: alice.Role}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/users/me", nil)
	auth.SetIdentity(c, id)
	require.NoError(t, env.U.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.Equal(t, "alice@example.com", me.Email)

	rec, c = env.doJSONRequest(http.MethodPut, "/api/v1/users/me", map[string]string{"name": "Alice Cooper"})
	auth.SetIdentity(c, id)
	require.NoError(t, env.U.UpdateMe(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.Equal(t, "Alice Cooper", me.Name)

	_, c = env.doJSONRequest(http.MethodPut, "/api/v1/users/me", map[string]string{"name": ""})
	auth.SetIdentity(c, id)
	requireHTTPError(t, env.U.UpdateMe(c), http.StatusBadRequest)
}

func TestMyActivitiesAndStatistics(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice@example.com", models.RoleUser)
	id := auth.Identity{UserID: alice.ID, Role: alice.Role}

	env.Recorder.RecordNow(context.Background(), alice.ID, models.ActionLogin, "user signed in", nil)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/users/me/activities", nil)
	auth.SetIdentity(c, id)
	require.NoError(t, env.U.MyActivities(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []models.ActivityLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, models.ActionLogin, entries[0].Action)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/users/me/statistics", nil)
	auth.SetIdentity(c, id)
	require.NoError(t, env.U.MyStatistics(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats transport.UserStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Zero(t, stats.TotalOrders)
}

func TestUserAdminHandlers(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice@example.com", models.RoleUser)
	admin := env.createUser("admin@example.com", models.RoleAdmin)
	adminID := auth.Identity{UserID: admin.ID, Role: admin.Role}
	aliceID := auth.Identity{UserID: alice.ID, Role: alice.Role}

	get := func(caller auth.Identity, target uint) error {
		_, c := env.doJSONRequest(http.MethodGet, "/api/v1/users/"+strconv.Itoa(int(target)), nil)
		c.SetParamNames("id")
		c.SetParamValues(strconv.Itoa(int(target)))
		auth.SetIdentity(c, caller)
		return env.U.GetUser(c)
	}

	require.NoError(t, get(aliceID, alice.ID))
	requireHTTPError(t, get(aliceID, admin.ID), http.StatusForbidden)
	require.NoError(t, get(adminID, alice.ID))

	// self-delete is refused
	_, c := env.doJSONRequest(http.MethodDelete, "/api/v1/users/"+strconv.Itoa(int(admin.ID)), nil)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(admin.ID)))
	auth.SetIdentity(c, adminID)
	requireHTTPError(t, env.U.DeleteUser(c), http.StatusBadRequest)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/users/"+strconv.Itoa(int(alice.ID)), nil)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(alice.ID)))
	auth.SetIdentity(c, adminID)
	require.NoError(t, env.U.DeleteUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestAdminLogsHandler(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice@example.com", models.RoleUser)

	env.Recorder.RecordNow(context.Background(), alice.ID, models.ActionLogin, "user signed in", nil)
	env.Recorder.RecordNow(context.Background(), alice.ID, models.ActionOrderCreated, "order placed", map[string]any{"orderId": 1})

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/logs", nil)
	require.NoError(t, env.Ad.Logs(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []models.ActivityLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].User)
	require.Equal(t, "alice@example.com", entries[0].User.Email)
}
