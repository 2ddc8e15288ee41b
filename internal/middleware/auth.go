package middleware

import (
	"strings"

	"math_arena_backend/internal/config"
	"math_arena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards every route behind a valid session token. This is
// the server-side counterpart of the client redirecting unauthenticated
// visitors to /login.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}
