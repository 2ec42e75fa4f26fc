// Package middleware contains the Gin middleware chain: API key auth,
// CORS, and per-key rate limiting.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// contextKeyAPIKey is where auth middleware stores the presented key for
// downstream middleware.
const contextKeyAPIKey = "api_key"

// APIKeyAuth returns middleware that validates API keys. The key is read
// from the X-API-Key header, falling back to the api_key query param so
// links can carry one.
func APIKeyAuth(validKeys []string) gin.HandlerFunc {
	keySet := make(map[string]struct{}, len(validKeys))
	for _, k := range validKeys {
		keySet[k] = struct{}{}
	}

	return func(c *gin.Context) {
		key := presentedKey(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing API key",
			})
			return
		}
		if _, ok := keySet[key]; !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid API key",
			})
			return
		}

		c.Set(contextKeyAPIKey, key)
		c.Next()
	}
}

// AdminKeyAuth returns middleware that validates admin keys for the
// mutating configuration and content endpoints. A recognized non-admin
// key gets 403 rather than 401.
func AdminKeyAuth(adminKeys []string) gin.HandlerFunc {
	keySet := make(map[string]struct{}, len(adminKeys))
	for _, k := range adminKeys {
		keySet[k] = struct{}{}
	}

	return func(c *gin.Context) {
		key := presentedKey(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing admin API key",
			})
			return
		}
		if _, ok := keySet[key]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "invalid admin API key",
			})
			return
		}

		c.Set(contextKeyAPIKey, key)
		c.Next()
	}
}

func presentedKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	return c.Query("api_key")
}
