package tournament

import "time"

const (
	EventMatchUpdated      = "match.updated"
	EventTournamentUpdated = "tournament.updated"
)

// ChannelKey is the broadcast channel viewers of a tournament subscribe to.
func ChannelKey(code string) string {
	return "tournament." + code
}

// --- Wire payloads ---

type TeamPayload struct {
	ID           uint    `json:"id"`
	TournamentID uint    `json:"tournament_id"`
	Player1Name  string  `json:"player1_name"`
	Player2Name  *string `json:"player2_name"`
	Name         string  `json:"name"`
}

type MatchPayload struct {
	ID          uint         `json:"id"`
	RoundNumber int          `json:"round_number"`
	Team1       *TeamPayload `json:"team1"`
	Team2       *TeamPayload `json:"team2"`
	Winner      *TeamPayload `json:"winner"`
	Position    int          `json:"position"`
}

type TournamentPayload struct {
	ID        uint           `json:"id"`
	Code      string         `json:"code"`
	Status    Status         `json:"status"`
	Teams     []TeamPayload  `json:"teams"`
	Matches   []MatchPayload `json:"matches"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TournamentUpdated is broadcast after a tournament is created or a round completes.
type TournamentUpdated struct {
	Tournament TournamentPayload `json:"tournament"`
}

// MatchUpdated is broadcast after every recorded winner.
type MatchUpdated struct {
	Match MatchPayload `json:"match"`
}

// TournamentSummary is a list entry without teams or matches.
type TournamentSummary struct {
	ID        uint      `json:"id"`
	Code      string    `json:"code"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newTeamPayload(t *Team) *TeamPayload {
	if t == nil {
		return nil
	}
	return &TeamPayload{
		ID:           t.ID,
		TournamentID: t.TournamentID,
		Player1Name:  t.Player1Name,
		Player2Name:  t.Player2Name,
		Name:         t.Name,
	}
}

// NewMatchPayload expects Team1, Team2 and Winner to be preloaded.
func NewMatchPayload(m *Match) MatchPayload {
	return MatchPayload{
		ID:          m.ID,
		RoundNumber: m.RoundNumber,
		Team1:       newTeamPayload(m.Team1),
		Team2:       newTeamPayload(m.Team2),
		Winner:      newTeamPayload(m.Winner),
		Position:    m.Position,
	}
}

// NewTournamentPayload expects teams and matches (with their team references) to be preloaded.
func NewTournamentPayload(t *Tournament) TournamentPayload {
	teams := make([]TeamPayload, 0, len(t.Teams))
	for i := range t.Teams {
		teams = append(teams, *newTeamPayload(&t.Teams[i]))
	}
	matches := make([]MatchPayload, 0, len(t.Matches))
	for i := range t.Matches {
		matches = append(matches, NewMatchPayload(&t.Matches[i]))
	}
	return TournamentPayload{
		ID:        t.ID,
		Code:      t.Code,
		Status:    t.Status,
		Teams:     teams,
		Matches:   matches,
		UpdatedAt: t.UpdatedAt,
	}
}

func NewTournamentSummary(t *Tournament) TournamentSummary {
	return TournamentSummary{
		ID:        t.ID,
		Code:      t.Code,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
