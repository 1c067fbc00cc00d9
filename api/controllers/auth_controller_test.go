package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hiakki/GhumaggerSnap/api/eventhub"
	"github.com/hiakki/GhumaggerSnap/api/middlewares"
	"github.com/hiakki/GhumaggerSnap/types"
	"github.com/hiakki/GhumaggerSnap/users"
)

// setupAuthRouter wires login plus the token-gated account endpoints
// over a fresh store, the way the server does.
func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store, err := users.Load(filepath.Join(t.TempDir(), "users.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	secret := []byte("test-secret")
	authCtrl := NewAuthController(store, secret, time.Hour, eventhub.New())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/auth/login", authCtrl.HandleLogin)

	authed := router.Group("/api", middlewares.TokenAuth(secret, store))
	{
		authed.GET("/auth/me", authCtrl.HandleMe)
		authed.POST("/auth/change-password", authCtrl.HandleChangePassword)

		admin := authed.Group("/auth/users", middlewares.RequireAdmin)
		{
			admin.GET("", authCtrl.HandleListUsers)
			admin.POST("", authCtrl.HandleCreateUser)
			admin.DELETE("/:id", authCtrl.HandleDeleteUser)
		}
	}
	return router
}

// authDo sends a request with an optional bearer token. The remote addr
// is fixed per test so the login throttle buckets stay independent.
func authDo(router *gin.Engine, method, target, token, remoteAddr string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine, remoteAddr, username, password string) types.TokenOut {
	t.Helper()
	w := authDo(router, "POST", "/api/auth/login", "", remoteAddr,
		types.LoginRequest{Username: username, Password: password})
	if w.Code != http.StatusOK {
		t.Fatalf("Login as %s failed with %d: %s", username, w.Code, w.Body.String())
	}
	var out types.TokenOut
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestLoginSeededAdmin(t *testing.T) {
	router := setupAuthRouter(t)

	out := login(t, router, "10.0.1.1:1000", "admin", "admin")
	if out.AccessToken == "" {
		t.Error("Expected a token")
	}
	if out.TokenType != "bearer" {
		t.Errorf("TokenType = %q", out.TokenType)
	}
	if out.User.Role != types.RoleAdmin {
		t.Errorf("Role = %q", out.User.Role)
	}
}

func TestLoginRejections(t *testing.T) {
	router := setupAuthRouter(t)

	cases := []types.LoginRequest{
		{Username: "admin", Password: "wrong"},
		{Username: "nobody", Password: "whatever"},
	}
	for _, req := range cases {
		if w := authDo(router, "POST", "/api/auth/login", "", "10.0.1.2:1000", req); w.Code != http.StatusUnauthorized {
			t.Errorf("Login %q: expected 401, got %d", req.Username, w.Code)
		}
	}
	if w := authDo(router, "POST", "/api/auth/login", "", "10.0.1.2:1000", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Empty body: expected 400, got %d", w.Code)
	}
}

func TestLoginThrottle(t *testing.T) {
	router := setupAuthRouter(t)

	var throttled bool
	for i := 0; i < 10; i++ {
		w := authDo(router, "POST", "/api/auth/login", "", "10.0.1.3:1000",
			types.LoginRequest{Username: "admin", Password: "wrong"})
		if w.Code == http.StatusTooManyRequests {
			throttled = true
			break
		}
	}
	if !throttled {
		t.Error("Expected rapid login attempts to hit 429")
	}
}

func TestTokenRequired(t *testing.T) {
	router := setupAuthRouter(t)

	if w := authDo(router, "GET", "/api/auth/me", "", "10.0.1.4:1000", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
	if w := authDo(router, "GET", "/api/auth/me", "garbage", "10.0.1.4:1000", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for garbage token, got %d", w.Code)
	}
}

func TestMeWithHeaderAndQueryToken(t *testing.T) {
	router := setupAuthRouter(t)
	out := login(t, router, "10.0.1.5:1000", "admin", "admin")

	w := authDo(router, "GET", "/api/auth/me", out.AccessToken, "10.0.1.5:1000", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var user types.UserOut
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatal(err)
	}
	if user.Username != "admin" {
		t.Errorf("Username = %q", user.Username)
	}

	// token query parameter works for media tags
	w = authDo(router, "GET", "/api/auth/me?token="+out.AccessToken, "", "10.0.1.5:1000", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 via query token, got %d", w.Code)
	}
}

func TestUserManagement(t *testing.T) {
	router := setupAuthRouter(t)
	admin := login(t, router, "10.0.1.6:1000", "admin", "admin")

	w := authDo(router, "POST", "/api/auth/users", admin.AccessToken, "10.0.1.6:1000",
		types.CreateUserRequest{Username: "bob", Password: "hunter2", Role: types.RoleViewer})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var bob types.UserOut
	if err := json.Unmarshal(w.Body.Bytes(), &bob); err != nil {
		t.Fatal(err)
	}

	if w := authDo(router, "POST", "/api/auth/users", admin.AccessToken, "10.0.1.6:1000",
		types.CreateUserRequest{Username: "bob", Password: "x", Role: types.RoleViewer}); w.Code != http.StatusConflict {
		t.Errorf("Duplicate: expected 409, got %d", w.Code)
	}
	if w := authDo(router, "POST", "/api/auth/users", admin.AccessToken, "10.0.1.6:1000",
		types.CreateUserRequest{Username: "eve", Password: "x", Role: "root"}); w.Code != http.StatusBadRequest {
		t.Errorf("Invalid role: expected 400, got %d", w.Code)
	}

	w = authDo(router, "GET", "/api/auth/users", admin.AccessToken, "10.0.1.6:1000", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("List: expected 200, got %d", w.Code)
	}
	var list []types.UserOut
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("Expected 2 users, got %d", len(list))
	}

	// viewers cannot manage accounts
	bobToken := login(t, router, "10.0.1.7:1000", "bob", "hunter2")
	if w := authDo(router, "GET", "/api/auth/users", bobToken.AccessToken, "10.0.1.7:1000", nil); w.Code != http.StatusForbidden {
		t.Errorf("Viewer list: expected 403, got %d", w.Code)
	}

	// admins cannot delete themselves
	if w := authDo(router, "DELETE", "/api/auth/users/"+admin.User.ID, admin.AccessToken, "10.0.1.6:1000", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Self delete: expected 400, got %d", w.Code)
	}

	if w := authDo(router, "DELETE", "/api/auth/users/"+bob.ID, admin.AccessToken, "10.0.1.6:1000", nil); w.Code != http.StatusOK {
		t.Errorf("Delete: expected 200, got %d", w.Code)
	}
	if w := authDo(router, "DELETE", "/api/auth/users/"+bob.ID, admin.AccessToken, "10.0.1.6:1000", nil); w.Code != http.StatusNotFound {
		t.Errorf("Delete again: expected 404, got %d", w.Code)
	}

	// deleted account's token is dead
	if w := authDo(router, "GET", "/api/auth/me", bobToken.AccessToken, "10.0.1.7:1000", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Deleted user token: expected 401, got %d", w.Code)
	}
}

func TestChangePasswordFlow(t *testing.T) {
	router := setupAuthRouter(t)
	admin := login(t, router, "10.0.1.8:1000", "admin", "admin")

	if w := authDo(router, "POST", "/api/auth/change-password", admin.AccessToken, "10.0.1.8:1000",
		types.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "next"}); w.Code != http.StatusBadRequest {
		t.Errorf("Wrong current password: expected 400, got %d", w.Code)
	}

	if w := authDo(router, "POST", "/api/auth/change-password", admin.AccessToken, "10.0.1.8:1000",
		types.ChangePasswordRequest{CurrentPassword: "admin", NewPassword: "s3cret"}); w.Code != http.StatusOK {
		t.Fatalf("Change password: expected 200, got %d", w.Code)
	}

	if w := authDo(router, "POST", "/api/auth/login", "", "10.0.1.9:1000",
		types.LoginRequest{Username: "admin", Password: "admin"}); w.Code != http.StatusUnauthorized {
		t.Errorf("Old password: expected 401, got %d", w.Code)
	}
	login(t, router, "10.0.1.9:1000", "admin", "s3cret")
}
