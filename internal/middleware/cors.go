package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS answers preflights from the agency counter app. The API carries no
// cookies, auth travels in the Authorization header, so a wildcard origin is
// acceptable; tighten to the deployed frontend origin when it is fixed.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
