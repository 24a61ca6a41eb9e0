package tournament

import (
	"gorm.io/gorm"
)

type Status string

const (
	StatusSetup      Status = "setup"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Tournament is a single-elimination bracket looked up externally by Code.
type Tournament struct {
	gorm.Model
	Code    string  `json:"code" gorm:"size:8;uniqueIndex;not null"`
	Status  Status  `json:"status" gorm:"size:20;index;not null;default:'setup'"`
	Teams   []Team  `json:"teams,omitempty" gorm:"foreignKey:TournamentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Matches []Match `json:"matches,omitempty" gorm:"foreignKey:TournamentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Team is one or two players entered together. Teams are never modified after creation.
type Team struct {
	gorm.Model
	TournamentID uint    `json:"tournament_id" gorm:"index;not null"`
	Player1Name  string  `json:"player1_name" gorm:"size:100;not null"`
	Player2Name  *string `json:"player2_name" gorm:"size:100"` // nil when the player has no partner
	Name         string  `json:"name" gorm:"size:210;not null"`
}

// Match is one pairing within a round. A nil team slot is a bye; a match with
// WinnerTeamID set is decided and never reopened.
type Match struct {
	gorm.Model
	TournamentID uint  `json:"tournament_id" gorm:"not null;uniqueIndex:idx_match_slot,priority:1"`
	RoundNumber  int   `json:"round_number" gorm:"not null;uniqueIndex:idx_match_slot,priority:2"`
	Position     int   `json:"position" gorm:"not null;uniqueIndex:idx_match_slot,priority:3"`
	Team1ID      *uint `json:"team1_id,omitempty" gorm:"index"`
	Team1        *Team `json:"team1,omitempty" gorm:"foreignKey:Team1ID"`
	Team2ID      *uint `json:"team2_id,omitempty" gorm:"index"`
	Team2        *Team `json:"team2,omitempty" gorm:"foreignKey:Team2ID"`
	WinnerTeamID *uint `json:"winner_team_id,omitempty" gorm:"index"`
	Winner       *Team `json:"winner,omitempty" gorm:"foreignKey:WinnerTeamID"`
}

// HasTeam reports whether teamID occupies one of the two slots.
func (m *Match) HasTeam(teamID uint) bool {
	return (m.Team1ID != nil && *m.Team1ID == teamID) ||
		(m.Team2ID != nil && *m.Team2ID == teamID)
}

func (m *Match) Decided() bool {
	return m.WinnerTeamID != nil
}
