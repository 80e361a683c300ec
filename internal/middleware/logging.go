// internal/middleware/logging.go
package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs every request once it has been handled
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		clientInfo := GetClientInfoFromContext(c.Request.Context())
		if clientInfo.IPAddress == "" {
			clientInfo.IPAddress = c.ClientIP()
		}

		status := c.Writer.Status()
		logLevel := "INFO"
		if status >= 500 {
			logLevel = "ERROR"
		}
		log.Printf("[%s] %s %s %d completed in %v (user: %s, ip: %s)",
			logLevel, c.Request.Method, c.Request.URL.Path, status, duration, clientInfo.AccountID, clientInfo.IPAddress)

		for _, err := range c.Errors {
			log.Printf("[ERROR] %s error: %v", c.Request.URL.Path, err.Err)
		}
	}
}
