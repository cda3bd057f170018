// Package api serves a small read-only HTTP status API.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gin-gonic/gin"
)

// PrefixResolver is implemented by *commands.PrefixResolver.
type PrefixResolver interface {
	ResolveDetailed(ctx context.Context, guildID string) (string, bool)
}

// NewRouter builds the gin engine with the health and prefix lookup routes.
func NewRouter(resolver PrefixResolver, uptime func() time.Duration) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": uptime().Round(time.Second).String(),
		})
	})

	r.GET("/guilds/:id/prefix", func(c *gin.Context) {
		id, err := snowflake.Parse(c.Param("id"))
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guild id"})
			return
		}
		prefix, custom := resolver.ResolveDetailed(c.Request.Context(), id.String())
		c.JSON(http.StatusOK, gin.H{
			"guild_id": id.String(),
			"prefix":   prefix,
			"custom":   custom,
		})
	})

	return r
}
