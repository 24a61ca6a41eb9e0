package tournament

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DhavalSuthar-24/bracket/config"
	mw "github.com/DhavalSuthar-24/bracket/internal/middleware"
	"github.com/DhavalSuthar-24/bracket/pkg/responses"
	"github.com/DhavalSuthar-24/bracket/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TournamentController handles tournament-related HTTP requests
type TournamentController struct {
	service   *Service
	appConfig *config.Config
	logger    *logrus.Logger
}

// NewTournamentController creates a new tournament controller
func NewTournamentController(service *Service, appConfig *config.Config, logger *logrus.Logger) *TournamentController {
	return &TournamentController{
		service:   service,
		appConfig: appConfig,
		logger:    logger,
	}
}

// --- DTOs for requests ---

// CreateTournamentRequest defines the request payload for creating a tournament
type CreateTournamentRequest struct {
	Players  []string `json:"players" binding:"required,min=2,max=256,dive,required,max=100"`
	TeamSize int      `json:"team_size,omitempty" binding:"omitempty,oneof=1 2"`
}

// SelectWinnerRequest defines the request payload for deciding a match
type SelectWinnerRequest struct {
	WinnerTeamID uint `json:"winner_team_id" binding:"required"`
}

// --- DTOs for responses ---

// CreateTournamentResponse is returned after a tournament is created
type CreateTournamentResponse struct {
	Code           string            `json:"code"`
	Tournament     TournamentPayload `json:"tournament"`
	OrganizerToken string            `json:"organizer_token,omitempty"`
}

// SelectWinnerResponse describes the recorded winner and any round change
type SelectWinnerResponse struct {
	Match               MatchPayload `json:"match"`
	RoundComplete       bool         `json:"round_complete"`
	NextRound           int          `json:"next_round,omitempty"`
	TournamentCompleted bool         `json:"tournament_completed"`
	ChampionTeamID      *uint        `json:"champion_team_id,omitempty"`
}

// --- Handlers ---

// CreateTournament godoc
// @Summary      Create a tournament
// @Description  Shuffle the players into teams and generate round 1 of a single-elimination bracket.
// @Tags         Tournaments
// @Accept       json
// @Produce      json
// @Param        tournament  body  CreateTournamentRequest  true  "Players and team size"
// @Success      201  {object}  CreateTournamentResponse  "Tournament created"
// @Failure      400  {object}  map[string]interface{}  "Validation error"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /tournaments [post]
func (tc *TournamentController) CreateTournament(c *gin.Context) {
	var req CreateTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	t, err := tc.service.CreateTournament(c.Request.Context(), CreateTournamentInput{
		Players:  req.Players,
		TeamSize: req.TeamSize,
	})
	if err != nil {
		tc.handleError(c, err, "Failed to create tournament")
		return
	}

	resp := CreateTournamentResponse{
		Code:       t.Code,
		Tournament: NewTournamentPayload(t),
	}
	if secret := tc.appConfig.Organizer.TokenSecret; secret != "" {
		signed, err := token.GenerateOrganizerToken(t.Code, secret, tc.appConfig.Organizer.TokenTTLHours)
		if err != nil {
			// The tournament exists already; report it without a token.
			tc.logger.WithError(err).WithField("tournament", t.Code).Error("organizer token not issued")
		} else {
			resp.OrganizerToken = signed
		}
	}

	responses.SuccessResponse(c, http.StatusCreated, resp)
}

// ListTournaments godoc
// @Summary      List tournaments
// @Description  Paginated list of tournaments, newest first.
// @Tags         Tournaments
// @Produce      json
// @Param        status     query  string  false  "Filter by status"  Enums(setup, in_progress, completed)
// @Param        page       query  int     false  "Page number"       default(1)
// @Param        page_size  query  int     false  "Items per page"    default(10)
// @Success      200  {object}  map[string]interface{}  "Page of tournament summaries"
// @Failure      400  {object}  map[string]interface{}  "Unknown status"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /tournaments [get]
func (tc *TournamentController) ListTournaments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	tournaments, total, err := tc.service.ListTournaments(c.Request.Context(), Status(c.Query("status")), page, pageSize)
	if err != nil {
		tc.handleError(c, err, "Failed to fetch tournaments")
		return
	}

	items := make([]TournamentSummary, 0, len(tournaments))
	for i := range tournaments {
		items = append(items, NewTournamentSummary(&tournaments[i]))
	}
	responses.PaginatedResponse(c, http.StatusOK, items, page, pageSize, total)
}

// GetTournament godoc
// @Summary      Get a tournament
// @Description  Tournament with teams and every match, ordered by round then position.
// @Tags         Tournaments
// @Produce      json
// @Param        code  path  string  true  "Tournament code"
// @Success      200  {object}  TournamentUpdated  "Tournament detail"
// @Failure      404  {object}  map[string]interface{}  "Tournament not found"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /tournaments/{code} [get]
func (tc *TournamentController) GetTournament(c *gin.Context) {
	t, err := tc.service.GetTournament(c.Request.Context(), c.Param("code"))
	if err != nil {
		tc.handleError(c, err, "Failed to fetch tournament")
		return
	}
	responses.SuccessResponse(c, http.StatusOK, TournamentUpdated{Tournament: NewTournamentPayload(t)})
}

// SelectWinner godoc
// @Summary      Record a match winner
// @Description  Decide a match. Completing a round builds the next one or finishes the tournament.
// @Tags         Tournaments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code     path  string               true  "Tournament code"
// @Param        matchId  path  int                  true  "Match ID"
// @Param        winner   body  SelectWinnerRequest  true  "Winning team"
// @Success      200  {object}  SelectWinnerResponse  "Winner recorded"
// @Failure      400  {object}  map[string]interface{}  "Validation error"
// @Failure      401  {object}  map[string]interface{}  "Missing or invalid organizer token"
// @Failure      403  {object}  map[string]interface{}  "Token issued for another tournament"
// @Failure      404  {object}  map[string]interface{}  "Tournament or match not found"
// @Failure      409  {object}  map[string]interface{}  "Match already decided or tournament completed"
// @Failure      422  {object}  map[string]interface{}  "Team is not playing in the match"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /tournaments/{code}/matches/{matchId}/winner [post]
func (tc *TournamentController) SelectWinner(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("matchId"), 10, 64)
	if err != nil || matchID == 0 {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid match ID")
		return
	}

	var req SelectWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	res, err := tc.service.RecordWinner(c.Request.Context(), c.Param("code"), uint(matchID), req.WinnerTeamID)
	if err != nil {
		tc.handleError(c, err, "Failed to record winner")
		return
	}

	if organizer, err := mw.GetOrganizerCodeFromContext(c); err == nil {
		tc.logger.WithFields(logrus.Fields{
			"tournament": organizer,
			"match_id":   matchID,
			"winner_id":  req.WinnerTeamID,
		}).Info("winner selected with organizer token")
	}

	responses.SuccessResponse(c, http.StatusOK, SelectWinnerResponse{
		Match:               NewMatchPayload(res.Match),
		RoundComplete:       res.RoundComplete,
		NextRound:           res.NextRound,
		TournamentCompleted: res.TournamentCompleted,
		ChampionTeamID:      res.ChampionTeamID,
	})
}

// --- Helpers ---

// handleError maps service errors onto HTTP statuses.
func (tc *TournamentController) handleError(c *gin.Context, err error, fallback string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		responses.FieldErrorResponse(c, ve.Field, ve.Message)
	case errors.Is(err, ErrNotFound):
		responses.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		responses.ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidArgument):
		responses.ErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
	default:
		_ = c.Error(err)
		responses.ErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}
