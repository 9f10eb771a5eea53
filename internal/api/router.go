package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"cookcart/internal/logger"
)

const (
	// ListIDHeader carries the id of a saved shopping list.
	ListIDHeader = "X-Shopping-List-ID"

	logKey = "logger"
)

// RequestLogger tags each request with an id and logs it once it completes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := logger.RequestID(c.Request)
		c.Header(logger.RequestIDHeader, reqID)

		entry := log.WithRequest(c.Request, reqID)
		c.Set(logKey, &logger.Logger{Entry: entry})

		c.Next()

		entry = entry.WithField("status", c.Writer.Status()).WithField("latency", time.Since(start).String())
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	}
}

// NewRouter registers every API route on a new engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.Log))

	origins := []string{"http://localhost:5173"}
	if h.Config != nil && len(h.Config.AllowOrigins) > 0 {
		origins = h.Config.AllowOrigins
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Location", ListIDHeader, logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	g := r.Group("/api")
	g.GET("/recipes", h.ListRecipes)
	g.GET("/recipes/*path", h.GetRecipe)
	g.GET("/search", h.Search)
	g.POST("/shopping_list", h.ShoppingList)
	g.GET("/shopping_lists/:id", h.GetShoppingList)
	g.POST("/convert", h.Convert)
	g.POST("/reload", h.Reload)
	g.GET("/static/*path", h.Static)
	g.GET("/thumbnails/*path", h.Thumbnail)
	return r
}
