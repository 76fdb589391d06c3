package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"poke_league/internal/app/service"
	"poke_league/internal/common/security"
	"poke_league/internal/domain/repository"
	"poke_league/internal/platform/config"
	"poke_league/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	security.InitJWT([]byte("router-secret"), time.Hour)

	log := logger.Discard()
	repo := repository.NewMemUserRepository()
	cfg := &config.Config{CORSAllowedOrigins: "*", MaxBodyBytes: 1 << 20}

	srv := httptest.NewServer(NewRouter(
		service.NewUserService(repo, log),
		service.NewAuthService(repo, log),
		service.NewLeaderboardService(repo, log),
		log,
		cfg,
	))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func decode(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m
}

type account struct {
	ID    string
	Token string
}

func signUp(t *testing.T, srv *httptest.Server, username string) account {
	t.Helper()
	email := username + "@x.com"
	resp, raw := do(t, srv, http.MethodPost, "/users", "", map[string]string{
		"username": username, "email": email, "password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	user := decode(t, raw)["user"].(map[string]interface{})

	resp, raw = do(t, srv, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	return account{ID: user["id"].(string), Token: decode(t, raw)["token"].(string)}
}

func TestRouter_RootAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := do(t, srv, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "🟢 Backend server is running!", string(raw))

	resp, raw = do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(raw))
}

func TestRouter_RegisterLoginMe(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := do(t, srv, http.MethodPost, "/users", "", map[string]string{
		"username": "ash", "email": "ash@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(t, raw)
	assert.Equal(t, "User registered", created["message"])
	user := created["user"].(map[string]interface{})
	assert.Equal(t, "ash", user["username"])
	assert.Equal(t, []interface{}{}, user["roster"])
	assert.EqualValues(t, 0, user["score"])
	assert.NotContains(t, user, "password")

	resp, raw = do(t, srv, http.MethodPost, "/auth/login", "", map[string]string{"email": "ash@x.com", "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode(t, raw)
	assert.Equal(t, "Login successful", login["message"])
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	resp, raw = do(t, srv, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{
		"id":       user["id"],
		"username": "ash",
		"email":    "ash@x.com",
	}, decode(t, raw))
}

func TestRouter_RegisterErrors(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "ash")

	resp, raw := do(t, srv, http.MethodPost, "/users", "", map[string]string{"username": "ash"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", decode(t, raw)["error"])

	resp, raw = do(t, srv, http.MethodPost, "/users", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", decode(t, raw)["error"])

	resp, raw = do(t, srv, http.MethodPost, "/users", "", map[string]string{
		"username": "other", "email": "ash@x.com", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email already registered", decode(t, raw)["error"])

	resp, raw = do(t, srv, http.MethodPost, "/users", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request payload", decode(t, raw)["error"])

	resp, raw = do(t, srv, http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &users))
	assert.Len(t, users, 1)
}

func TestRouter_LoginErrors(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "ash")

	resp, raw := do(t, srv, http.MethodPost, "/auth/login", "", map[string]string{"email": "ash@x.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing email or password", decode(t, raw)["error"])

	resp, raw = do(t, srv, http.MethodPost, "/auth/login", "", map[string]string{"email": "ash@x.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", decode(t, raw)["error"])
}

func TestRouter_MeRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Valid signature for a user that was never registered here.
	orphan, err := security.GenerateToken("ghost")
	require.NoError(t, err)
	resp, raw := do(t, srv, http.MethodGet, "/auth/me", orphan, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", decode(t, raw)["error"])
}

func TestRouter_UnknownIDIsNotFound(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/leaderboard/ghost"},
		{http.MethodGet, "/leaderboard/ghost/score"},
		{http.MethodPut, "/leaderboard/ghost/roster"},
	} {
		resp, raw := do(t, srv, tc.method, tc.path, "", map[string]interface{}{"action": "add", "pokemonId": 1})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, tc.path)
		assert.Equal(t, "User not found", decode(t, raw)["error"], tc.path)
	}
}

func TestRouter_RosterLifecycle(t *testing.T) {
	srv := newTestServer(t)
	ash := signUp(t, srv, "ash")
	path := "/leaderboard/" + ash.ID + "/roster"

	put := func(body interface{}) (int, map[string]interface{}) {
		resp, raw := do(t, srv, http.MethodPut, path, "", body)
		return resp.StatusCode, decode(t, raw)
	}

	code, body := put(map[string]interface{}{"action": "add", "pokemonId": 25})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Roster updated", body["message"])
	assert.Equal(t, []interface{}{float64(25)}, body["roster"])

	code, body = put(map[string]interface{}{"action": "add", "pokemonId": 25})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{float64(25)}, body["roster"])

	code, body = put(map[string]interface{}{"action": "bogus"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid action", body["error"])

	code, body = put(map[string]interface{}{"action": "remove"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing pokemonId", body["error"])

	resp, raw := do(t, srv, http.MethodGet, "/leaderboard/"+ash.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []interface{}{float64(25)}, decode(t, raw)["roster"], "failed actions leave the roster unchanged")

	code, body = put(map[string]interface{}{"action": "remove", "pokemonId": 4})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{float64(25)}, body["roster"])

	code, body = put(map[string]interface{}{"action": "reset"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{}, body["roster"])
}

func TestRouter_RosterOpaqueItems(t *testing.T) {
	srv := newTestServer(t)
	ash := signUp(t, srv, "ash")
	path := "/leaderboard/" + ash.ID + "/roster"

	resp, raw := do(t, srv, http.MethodPut, path, "", `{"action":"add","pokemonId":"pikachu"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, []interface{}{"pikachu"}, decode(t, raw)["roster"])

	resp, raw = do(t, srv, http.MethodPut, path, "", `{"action":"add","pokemonId":7}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, []interface{}{"pikachu", float64(7)}, decode(t, raw)["roster"])

	resp, raw = do(t, srv, http.MethodPut, path, "", `{"action":"remove","pokemonId":"7"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, []interface{}{"pikachu", float64(7)}, decode(t, raw)["roster"], "string and number ids are distinct")

	resp, raw = do(t, srv, http.MethodPut, path, "", `{"action":"reset","pokemonId":"x"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, []interface{}{}, decode(t, raw)["roster"])

	resp, raw = do(t, srv, http.MethodPut, path, "", `{"action":"add","pokemonId":{"id":1}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid pokemonId", decode(t, raw)["error"])

	for _, body := range []string{
		`{"action":"add","pokemonId":"25"}`,
		`{"action":"reset","pokemonId":"x"}`,
		`{"action":5,"pokemonId":[1]}`,
	} {
		resp, raw = do(t, srv, http.MethodPut, "/leaderboard/nope/roster", "", body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, body)
		assert.Equal(t, "User not found", decode(t, raw)["error"], body)
	}
}

func TestRouter_LongPassword(t *testing.T) {
	srv := newTestServer(t)
	long := strings.Repeat("p", 73)

	resp, raw := do(t, srv, http.MethodPost, "/users", "", map[string]string{
		"username": "ash", "email": "ash@x.com", "password": long,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = do(t, srv, http.MethodPost, "/auth/login", "", map[string]string{"email": "ash@x.com", "password": long})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.NotEmpty(t, decode(t, raw)["token"])

	resp, _ = do(t, srv, http.MethodPost, "/auth/login", "", map[string]string{"email": "ash@x.com", "password": long[:72]})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_ScoreAndLeaderboard(t *testing.T) {
	srv := newTestServer(t)
	ash := signUp(t, srv, "ash")
	misty := signUp(t, srv, "misty")
	brock := signUp(t, srv, "brock")

	patch := func(who account, target string, delta interface{}) (*http.Response, map[string]interface{}) {
		resp, raw := do(t, srv, http.MethodPatch, "/leaderboard/"+target+"/score", who.Token, map[string]interface{}{"delta": delta})
		return resp, decode(t, raw)
	}

	resp, body := patch(misty, misty.ID, 7)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Score updated", body["message"])
	assert.EqualValues(t, 7, body["score"])

	resp, body = patch(ash, misty.ID, 100)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Cannot modify another user's score", body["error"])

	resp, _ = patch(brock, brock.ID, 0)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = patch(brock, "ghost", 1)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = patch(account{}, misty.ID, 1)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw := do(t, srv, http.MethodGet, "/leaderboard/"+misty.ID+"/score", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 7, decode(t, raw)["score"])

	resp, raw = do(t, srv, http.MethodGet, "/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var board []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &board))
	require.Len(t, board, 3)
	got := make([]string, 0, len(board))
	for _, e := range board {
		got = append(got, fmt.Sprintf("%s:%v", e["username"], e["score"]))
	}
	assert.Equal(t, "misty:7,ash:0,brock:0", strings.Join(got, ","))
}

func TestRouter_EmptyLeaderboardIsEmptyArray(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := do(t, srv, http.MethodGet, "/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(raw))
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/users", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
