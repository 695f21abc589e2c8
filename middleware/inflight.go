package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// InFlight rejects a request while an identical one from the same manager is
// still running. Used on mutating routes so a double-submitted form cannot
// apply twice.
func InFlight() gin.HandlerFunc {
	var running sync.Map
	return func(c *gin.Context) {
		key := GetManagerID(c) + " " + c.Request.Method + " " + c.Request.URL.Path
		if _, busy := running.LoadOrStore(key, struct{}{}); busy {
			logrus.WithField("request", key).Warn("duplicate request rejected")
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "A previous request for this resource is still in progress", "kind": "conflict"})
			return
		}
		defer running.Delete(key)
		c.Next()
	}
}
