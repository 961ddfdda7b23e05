package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/isdelr/userhub-be/internal/auth"
	"github.com/isdelr/userhub-be/internal/chat"
	"github.com/isdelr/userhub-be/internal/database"
	"github.com/isdelr/userhub-be/internal/monitoring"
	"github.com/isdelr/userhub-be/internal/services"
	"github.com/isdelr/userhub-be/internal/storage/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv *httptest.Server
	hub *chat.Hub
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	store := sqlstore.New(db)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	events := services.NewEventService(store)

	ctx, cancel := context.WithCancel(context.Background())
	hub := chat.NewHub()
	go hub.Run(ctx)

	router := NewRouter(Deps{
		Hub:          hub,
		Guard:        NewGuard(auth.NewAuthenticator(tokens, store)),
		UserService:  services.NewUserService(store, store, tokens, events),
		EventService: events,
		Stats:        monitoring.NewStatUpdater(hub, time.Hour),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return &testEnv{srv: srv, hub: hub}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (e *testEnv) register(t *testing.T, name string, admin bool) int64 {
	t.Helper()
	status, env := e.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"username":     name,
		"email":        name + "@example.com",
		"password":     name + "-pass",
		"is_superuser": admin,
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var u struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &u))
	return u.ID
}

func (e *testEnv) login(t *testing.T, ident, password string) string {
	t.Helper()
	status, env := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username_or_email": ident,
		"password":          password,
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestAuthFlow(t *testing.T) {
	e := setupServer(t)

	status, env := e.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"username": "alice", "email": "alice@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User registered successfully", env.Message)
	assert.NotContains(t, string(env.Data), "password")
	assert.Contains(t, string(env.Data), `"is_superuser":true`)

	status, env = e.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"username": "novel", "email": "alice@example.com", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already registered", env.Message)
	assert.Equal(t, "null", string(env.Data))

	status, env = e.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"username": "alice", "email": "fresh@example.com", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Username already taken", env.Message)

	status, _ = e.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"username": "x", "email": "nope", "password": "pw",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	e.login(t, "alice", "pw")
	e.login(t, "alice@example.com", "pw")

	s1, wrong := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username_or_email": "alice", "password": "wrongpass"})
	s2, unknown := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username_or_email": "nonexistent", "password": "anything"})
	assert.Equal(t, http.StatusUnauthorized, s1)
	assert.Equal(t, s1, s2)
	assert.Equal(t, wrong, unknown)

	status, _ = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username_or_email": "alice"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, env = e.do(t, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User logged out successfully", env.Message)
	assert.Equal(t, "null", string(env.Data))
}

func TestAdminRoutes(t *testing.T) {
	e := setupServer(t)
	e.register(t, "root", true)
	bobID := e.register(t, "bob", false)
	admin := e.login(t, "root", "root-pass")
	user := e.login(t, "bob", "bob-pass")

	status, env := e.do(t, http.MethodGet, "/users/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Not authenticated", env.Message)

	status, _ = e.do(t, http.MethodGet, "/users/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = e.do(t, http.MethodGet, "/users/", user, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin privileges required", env.Message)

	status, env = e.do(t, http.MethodGet, "/users/", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "All users fetched", env.Message)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)

	path := fmt.Sprintf("/users/%d", bobID)
	status, env = e.do(t, http.MethodGet, path, admin, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User fetched", env.Message)

	status, _ = e.do(t, http.MethodGet, "/users/999", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = e.do(t, http.MethodGet, "/users/abc", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, env = e.do(t, http.MethodPut, path, admin, map[string]string{"email": "robert@example.com"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User updated successfully", env.Message)
	assert.Contains(t, string(env.Data), "robert@example.com")

	status, env = e.do(t, http.MethodPut, path, admin, map[string]string{"username": "root"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Username or email already in use", env.Message)

	status, env = e.do(t, http.MethodPost, path+"/notifications", admin, map[string]string{"message": "welcome"})
	assert.Equal(t, http.StatusCreated, status)
	assert.Contains(t, string(env.Data), "welcome")

	status, env = e.do(t, http.MethodGet, "/events?limit=5", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var events []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &events))
	assert.Len(t, events, 5)

	status, env = e.do(t, http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User deleted successfully", env.Message)

	// bob's token now names a missing user.
	status, env = e.do(t, http.MethodGet, "/users/profile/me", user, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "User not found", env.Message)

	status, _ = e.do(t, http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSelfServiceRoutes(t *testing.T) {
	e := setupServer(t)
	aliceID := e.register(t, "alice", false)
	bobID := e.register(t, "bob", false)
	alice := e.login(t, "alice", "alice-pass")

	status, env := e.do(t, http.MethodGet, "/users/profile/me", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Profile fetched", env.Message)
	assert.Equal(t, "null", string(env.Data))

	status, env = e.do(t, http.MethodPut, "/users/profile/me", alice, map[string]string{"full_name": "Alice A"})
	require.Equal(t, http.StatusOK, status)
	status, env = e.do(t, http.MethodGet, "/users/profile/me", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"full_name":"Alice A"`)
	assert.Contains(t, string(env.Data), `"bio":null`)

	status, env = e.do(t, http.MethodGet, "/users/notifications/me", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Notifications fetched", env.Message)
	assert.Equal(t, "[]", string(env.Data))

	status, env = e.do(t, http.MethodDelete, fmt.Sprintf("/users/soft/%d", bobID), alice, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Cannot delete other users", env.Message)

	for range 2 {
		status, env = e.do(t, http.MethodDelete, fmt.Sprintf("/users/soft/%d", aliceID), alice, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "User soft deleted", env.Message)
		assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"is_active":false}`, aliceID), string(env.Data))
	}
}

func TestHealth(t *testing.T) {
	e := setupServer(t)
	status, env := e.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	var stats monitoring.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, "ok", stats.Status)
	assert.Equal(t, 0, stats.ChatClients)
}

func dial(t *testing.T, e *testEnv, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/chat/ws/" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(data)
}

func expectNothing(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, data, err := conn.ReadMessage()
	require.Error(t, err, "unexpected message %q", data)
}

func TestChatBroadcast(t *testing.T) {
	e := setupServer(t)
	a, b, c := dial(t, e, "a"), dial(t, e, "b"), dial(t, e, "c")
	require.Eventually(t, func() bool { return e.hub.ClientCount() == 3 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("hi")))
	assert.Equal(t, "a: hi", readText(t, b))
	assert.Equal(t, "a: hi", readText(t, c))
	expectNothing(t, a)

	require.NoError(t, b.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.NoError(t, b.Close())
	require.Eventually(t, func() bool { return e.hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("yo")))
	assert.Equal(t, "a: yo", readText(t, c))
}

func TestPasswordLengthLimit(t *testing.T) {
	e := setupServer(t)
	long := strings.Repeat("p", 73)

	status, env := e.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"username": "erin", "email": "erin@example.com", "password": long,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "password must be at most 72 bytes", env.Message)

	e.register(t, "root", true)
	erinID := e.register(t, "erin", false)
	admin := e.login(t, "root", "root-pass")

	status, _ = e.do(t, http.MethodPut, fmt.Sprintf("/users/%d", erinID), admin, map[string]string{"password": long})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	e.login(t, "erin", "erin-pass")
}

func TestChatDecodesDisplayName(t *testing.T) {
	e := setupServer(t)
	slash, peer := dial(t, e, "a%2Fb"), dial(t, e, "peer")
	require.Eventually(t, func() bool { return e.hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, slash.WriteMessage(websocket.TextMessage, []byte("hi")))
	assert.Equal(t, "a/b: hi", readText(t, peer))
}
