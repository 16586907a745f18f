package api

import (
	"fmt"
	"net/http"

	defaults "github.com/brainrotbuster/buster-go/config"
	"github.com/brainrotbuster/buster-go/engine"
	"github.com/brainrotbuster/buster-go/utils"
	"github.com/gin-gonic/gin"
)

// getEngine resolves the global engine, failing the request when the server
// has not finished wiring.
func getEngine(c *gin.Context) (*engine.Engine, error) {
	eng := engine.GetGlobalEngine()
	if eng == nil {
		return nil, fmt.Errorf("engine not initialized")
	}
	return eng, nil
}

// RequireAuth guards the settings surface with the dashboard JWT cookie.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("auth_token")
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		if _, err := utils.ValidateJWT(token, defaults.JWTSecret); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Next()
	}
}
