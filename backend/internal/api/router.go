package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lingograph/backend/pkg/config"
)

// NewRouter assembles the gin engine with middleware and all routes
func NewRouter(h *Handler, cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger(log))
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", h.handleHealth)

	api := router.Group("/api")
	{
		recommendations := api.Group("/recommendations")
		{
			recommendations.GET("/struggles/:userId", ValidateUserID(), h.handleStruggles)
			recommendations.GET("/similar/:userId", ValidateUserID(), h.handleSimilar)
			recommendations.GET("/collaborative/:userId", ValidateUserID(), h.handleCollaborative)
			recommendations.GET("/social/:userId", ValidateUserID(), h.handleSocial)
		}

		api.GET("/network/:userId", ValidateUserID(), h.handleNetwork)
		api.GET("/users", h.handleListUsers)
		api.GET("/users/:userId", ValidateUserID(), h.handleGetUser)
		api.GET("/courses", h.handleListCourses)
		api.GET("/courses/:courseId/lessons", h.handleCourseLessons)
		api.GET("/stats", h.handleStats)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "endpoint not found",
			"availableEndpoints": gin.H{
				"recommendations": []string{
					"GET /api/recommendations/struggles/:userId",
					"GET /api/recommendations/similar/:userId",
					"GET /api/recommendations/collaborative/:userId",
					"GET /api/recommendations/social/:userId",
				},
				"data": []string{
					"GET /api/users",
					"GET /api/users/:userId",
					"GET /api/network/:userId",
					"GET /api/courses",
					"GET /api/courses/:courseId/lessons",
					"GET /api/stats",
				},
			},
		})
	})

	return router
}
