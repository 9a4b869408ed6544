package middleware

import (
	"github.com/gin-gonic/gin"
)

// RealIP sets the client IP into Gin context (key: "real_ip").
// Forwarding headers (X-Forwarded-For, X-Real-IP) and the trusted platform
// header are honored by c.ClientIP() only as configured on the engine via
// SetTrustedProxies and TrustedPlatform; otherwise the socket peer is used.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		c.Set("real_ip", ip)
		c.Next()
	}
}
