package tournament

import (
	"github.com/DhavalSuthar-24/bracket/config"
	"github.com/DhavalSuthar-24/bracket/internal/broadcast"
	mw "github.com/DhavalSuthar-24/bracket/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RegisterTournamentRoutes sets up all tournament-related routes.
func RegisterTournamentRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, publisher broadcast.Publisher, logger *logrus.Logger) {
	repo := NewGormTournamentRepository(db)
	service := NewService(repo, publisher, logger)
	mountRoutes(router, NewTournamentController(service, appConfig, logger), appConfig)
}

func mountRoutes(router *gin.RouterGroup, controller *TournamentController, appConfig *config.Config) {
	tournamentRoutes := router.Group("/tournaments")
	{
		tournamentRoutes.POST("", controller.CreateTournament)
		tournamentRoutes.GET("", controller.ListTournaments)
		tournamentRoutes.GET("/:code", controller.GetTournament)

		// Organizer-only when ORGANIZER_TOKEN_REQUIRED is set
		tournamentRoutes.POST("/:code/matches/:matchId/winner",
			mw.OrganizerMiddleware(appConfig.Organizer.TokenSecret, appConfig.Organizer.TokenRequired),
			controller.SelectWinner,
		)
	}
}
