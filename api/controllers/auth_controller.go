package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/hiakki/GhumaggerSnap/api/eventhub"
	"github.com/hiakki/GhumaggerSnap/api/middlewares"
	"github.com/hiakki/GhumaggerSnap/auth"
	"github.com/hiakki/GhumaggerSnap/tool"
	"github.com/hiakki/GhumaggerSnap/types"
	"github.com/hiakki/GhumaggerSnap/users"
)

// loginLimiters throttles login attempts per client IP so password
// guessing stays slow. Idle entries expire on their own.
var loginLimiters = ttlworker.NewCache[string, *rate.Limiter](10 * time.Minute)

// AuthController serves login, self-service and admin account endpoints.
type AuthController struct {
	store  *users.Store
	secret []byte
	expire time.Duration
	hub    *eventhub.Hub
}

func NewAuthController(store *users.Store, secret []byte, expire time.Duration, hub *eventhub.Hub) *AuthController {
	return &AuthController{store: store, secret: secret, expire: expire, hub: hub}
}

// HandleLogin exchanges a username/password pair for a bearer token.
// POST /api/auth/login
func (a *AuthController) HandleLogin(c *gin.Context) {
	limiter := loginLimiters.Get(c.ClientIP())
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(time.Second), 5)
		loginLimiters.Set(c.ClientIP(), limiter)
	}
	if !limiter.Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, tool.FastReturnError("Too many login attempts, slow down"))
		return
	}

	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body"))
		return
	}

	user, ok := a.store.Authenticate(req.Username, req.Password)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, tool.FastReturnError("Incorrect username or password"))
		return
	}

	token, err := auth.CreateToken(a.secret, user.ID, user.Username, user.Role, a.expire)
	if err != nil {
		tool.DefaultLogger.Errorf("[Auth] Signing token for %s failed: %v", user.Username, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, tool.FastReturnError("Could not issue token"))
		return
	}

	a.hub.Broadcast(&types.Event{
		Type:    types.EventTypeLogin,
		Message: fmt.Sprintf("%s logged in", user.Username),
		Data:    map[string]any{"username": user.Username},
	})

	c.JSON(http.StatusOK, types.TokenOut{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.Out(),
	})
}

// HandleMe returns the account behind the presented token.
// GET /api/auth/me
func (a *AuthController) HandleMe(c *gin.Context) {
	claims := middlewares.ClaimsFrom(c)
	user, ok := a.store.ByID(claims.Subject)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, tool.FastReturnError("User not found"))
		return
	}
	c.JSON(http.StatusOK, user.Out())
}

// HandleChangePassword lets any account rotate its own password.
// POST /api/auth/change-password
func (a *AuthController) HandleChangePassword(c *gin.Context) {
	var req types.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body"))
		return
	}
	claims := middlewares.ClaimsFrom(c)
	if err := a.store.ChangePassword(claims.Subject, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, users.ErrWrongPassword), errors.Is(err, users.ErrEmptyCredential):
			c.AbortWithStatusJSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		case errors.Is(err, users.ErrUserNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, tool.FastReturnError("User not found"))
		default:
			tool.DefaultLogger.Errorf("[Auth] Password change failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, tool.FastReturnError("Could not update password"))
		}
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// HandleCreateUser adds an account. Admin only.
// POST /api/auth/users
func (a *AuthController) HandleCreateUser(c *gin.Context) {
	var req types.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body"))
		return
	}
	user, err := a.store.Create(req.Username, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUsernameTaken):
			c.AbortWithStatusJSON(http.StatusConflict, tool.FastReturnError(err.Error()))
		case errors.Is(err, users.ErrEmptyCredential), errors.Is(err, users.ErrInvalidRole):
			c.AbortWithStatusJSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		default:
			tool.DefaultLogger.Errorf("[Auth] Creating user failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, tool.FastReturnError("Could not create user"))
		}
		return
	}
	c.JSON(http.StatusCreated, user.Out())
}

// HandleListUsers returns all accounts. Admin only.
// GET /api/auth/users
func (a *AuthController) HandleListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, a.store.List())
}

// HandleDeleteUser removes an account by id. Admin only, and admins
// cannot delete themselves.
// DELETE /api/auth/users/:id
func (a *AuthController) HandleDeleteUser(c *gin.Context) {
	id := c.Param("id")
	if claims := middlewares.ClaimsFrom(c); claims != nil && claims.Subject == id {
		c.AbortWithStatusJSON(http.StatusBadRequest, tool.FastReturnError("Cannot delete your own account"))
		return
	}
	if err := a.store.Delete(id); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, tool.FastReturnError(err.Error()))
			return
		}
		tool.DefaultLogger.Errorf("[Auth] Deleting user failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, tool.FastReturnError("Could not delete user"))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
