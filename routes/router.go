package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/bracket/config"
	"github.com/DhavalSuthar-24/bracket/internal/broadcast"
	mw "github.com/DhavalSuthar-24/bracket/internal/middleware"
	"github.com/DhavalSuthar-24/bracket/internal/tournament"
)

// SetupRoutes assembles the engine. A nil broadcaster disables /events and
// notifications are discarded.
func SetupRoutes(db *gorm.DB, appConfig *config.Config, broadcaster *broadcast.SSEBroadcaster, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestLogger(logger))
	r.Use(cors.New(corsConfig(appConfig)))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var publisher broadcast.Publisher = broadcast.Nop{}
	if broadcaster != nil {
		publisher = broadcaster
		// Viewers subscribe to /events/tournament.<code>
		r.GET("/events/:channel", gin.WrapH(broadcaster))
	}

	// API routes
	api := r.Group("/api")
	tournament.RegisterTournamentRoutes(api, db, appConfig, publisher, logger)

	return r
}

func corsConfig(appConfig *config.Config) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Last-Event-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}
	if appConfig.App.FrontendURL == "" || appConfig.App.FrontendURL == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{appConfig.App.FrontendURL}
	}
	return cfg
}
