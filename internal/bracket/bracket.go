// Package bracket pairs participants into the matches of a single-elimination round.
// It performs no randomness and no I/O; callers shuffle before calling BuildRound.
package bracket

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

var (
	ErrNoParticipants = errors.New("bracket: at least one participant is required")
	ErrInvalidRound   = errors.New("bracket: round number must be 1 or greater")
)

// MatchSpec describes one match of a round before it is persisted.
// A nil team slot is a bye.
type MatchSpec struct {
	RoundNumber int
	Position    int
	Team1ID     *uint
	Team2ID     *uint
}

// IsBye reports whether exactly one side of the match is filled.
func (m MatchSpec) IsBye() bool {
	return (m.Team1ID == nil) != (m.Team2ID == nil)
}

// ByeWinner returns the participant that advances without playing, or nil.
func (m MatchSpec) ByeWinner() *uint {
	if !m.IsBye() {
		return nil
	}
	if m.Team1ID != nil {
		return m.Team1ID
	}
	return m.Team2ID
}

// BuildRound pairs consecutive participants. Position i/2 holds (p[i], p[i+1]);
// an odd count leaves the second slot of the last match empty.
func BuildRound(participants []uint, roundNumber int) ([]MatchSpec, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if roundNumber < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRound, roundNumber)
	}

	slots := make([]*uint, 0, len(participants)+1)
	for i := range participants {
		id := participants[i]
		slots = append(slots, &id)
	}
	if len(slots)%2 != 0 {
		slots = append(slots, nil) // bye
	}

	specs := make([]MatchSpec, 0, len(slots)/2)
	for i := 0; i < len(slots); i += 2 {
		specs = append(specs, MatchSpec{
			RoundNumber: roundNumber,
			Position:    i / 2,
			Team1ID:     slots[i],
			Team2ID:     slots[i+1],
		})
	}
	return specs, nil
}

// --- Team formation (runs before BuildRound) ---

// TeamSpec is a team formed from submitted player names.
type TeamSpec struct {
	Player1Name string
	Player2Name *string
	Name        string
}

// Shuffle returns a shuffled copy of names. The input slice is left untouched.
func Shuffle(names []string, rng *rand.Rand) []string {
	out := make([]string, len(names))
	copy(out, names)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// PairPlayers groups names in order into teams of teamSize (1 or 2).
// With teamSize 2 a trailing odd player forms a team on their own.
func PairPlayers(names []string, teamSize int) ([]TeamSpec, error) {
	if teamSize != 1 && teamSize != 2 {
		return nil, fmt.Errorf("bracket: unsupported team size %d", teamSize)
	}

	teams := make([]TeamSpec, 0, (len(names)+teamSize-1)/teamSize)
	for i := 0; i < len(names); i += teamSize {
		p1 := strings.TrimSpace(names[i])
		if teamSize == 1 {
			teams = append(teams, TeamSpec{Player1Name: p1, Name: p1})
			continue
		}
		if i+1 >= len(names) {
			teams = append(teams, TeamSpec{Player1Name: p1, Name: p1 + " (no partner)"})
			continue
		}
		p2 := strings.TrimSpace(names[i+1])
		teams = append(teams, TeamSpec{
			Player1Name: p1,
			Player2Name: &p2,
			Name:        p1 + " & " + p2,
		})
	}
	return teams, nil
}
