package middlewares

import (
	"net/http"
	"strings"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/gin-gonic/gin"

	"github.com/hiakki/GhumaggerSnap/auth"
	"github.com/hiakki/GhumaggerSnap/tool"
	"github.com/hiakki/GhumaggerSnap/types"
	"github.com/hiakki/GhumaggerSnap/users"
)

const claimsKey = "ghumaggersnap.claims"

// verifiedTokens short-circuits signature checks for tokens seen
// recently. Expiry is still enforced on every request.
var verifiedTokens = ttlworker.NewCache[string, *auth.Claims](5 * time.Minute)

// TokenAuth validates the bearer token (Authorization header, or the
// token query parameter so <img>/<video> tags work) and rejects tokens
// whose account no longer exists.
func TokenAuth(secret []byte, store *users.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, tool.FastReturnError("Not authenticated"))
			return
		}

		claims := verifiedTokens.Get(token)
		if claims == nil {
			parsed, err := auth.ParseToken(secret, token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, tool.FastReturnError("Invalid or expired token"))
				return
			}
			claims = parsed
			verifiedTokens.Set(token, claims)
		}
		if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, tool.FastReturnError("Invalid or expired token"))
			return
		}
		if _, ok := store.ByID(claims.Subject); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, tool.FastReturnError("User not found"))
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin gates user management endpoints. Must run after TokenAuth.
func RequireAdmin(c *gin.Context) {
	claims := ClaimsFrom(c)
	if claims == nil || claims.Role != types.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, tool.FastReturnError("Admin access required"))
		return
	}
	c.Next()
}

// ClaimsFrom returns the authenticated claims set by TokenAuth, or nil.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Query("token")
}
