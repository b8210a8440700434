package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything the health check should reach
type Pinger interface {
	Ping(ctx context.Context) error
}

// @Summary Endpoint just pings the server
// @Description Returns a basic message
// @Tags test
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// @Summary Health check
// @Description Checks the server can reach its backing services
// @Tags test
// @Produce json
// @Success 200 {object} object{status=string}
// @Failure 503 {object} object{status=string,failing=[]string}
// @Router /health [get]
func Health(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		failing := []string{}
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				failing = append(failing, name)
			}
		}
		if len(failing) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "failing": failing})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
