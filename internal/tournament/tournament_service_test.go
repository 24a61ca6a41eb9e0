package tournament

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/DhavalSuthar-24/bracket/internal/broadcast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- CreateTournament ---

func TestCreateTournament_PairsPlayersAndBuildsRoundOne(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, 8, 2)

	assert.Equal(t, "CODE0001", tr.Code)
	assert.Equal(t, StatusInProgress, tr.Status)
	require.Len(t, tr.Teams, 4)
	require.Len(t, tr.Matches, 2)

	seen := make(map[string]bool)
	for _, team := range tr.Teams {
		require.NotNil(t, team.Player2Name)
		assert.Equal(t, team.Player1Name+" & "+*team.Player2Name, team.Name)
		seen[team.Player1Name] = true
		seen[*team.Player2Name] = true
	}
	assert.Len(t, seen, 8)

	for i, m := range tr.Matches {
		assert.Equal(t, 1, m.RoundNumber)
		assert.Equal(t, i, m.Position)
		assert.NotNil(t, m.Team1)
		assert.NotNil(t, m.Team2)
		assert.Nil(t, m.WinnerTeamID)
	}
}

func TestCreateTournament_OddPlayerHasNoPartner(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, 5, 2)

	require.Len(t, tr.Teams, 3)
	var solo int
	for _, team := range tr.Teams {
		if team.Player2Name == nil {
			solo++
			assert.Equal(t, team.Player1Name+" (no partner)", team.Name)
		}
	}
	assert.Equal(t, 1, solo)
}

func TestCreateTournament_ByeIsDecidedImmediately(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, 3, 1)

	require.Len(t, tr.Matches, 2)
	bye := tr.Matches[1]
	assert.Nil(t, bye.Team2ID)
	require.NotNil(t, bye.WinnerTeamID)
	assert.Equal(t, *bye.Team1ID, *bye.WinnerTeamID)
	assert.Nil(t, tr.Matches[0].WinnerTeamID)
}

func TestCreateTournament_ShuffleIsInjectable(t *testing.T) {
	names := func(tr *Tournament) []string {
		out := make([]string, 0, len(tr.Teams))
		for _, team := range tr.Teams {
			out = append(out, team.Name)
		}
		return out
	}

	a := newFixture(t)
	b := newFixture(t)
	first := a.create(t, 10, 2)
	second := b.create(t, 10, 2)

	assert.Equal(t, names(first), names(second))
}

func TestCreateTournament_PublishesTournamentUpdated(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, 4, 1)

	msgs := f.recorder.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "tournament."+tr.Code, msgs[0].Channel)
	assert.Equal(t, EventTournamentUpdated, msgs[0].Event)

	payload, ok := msgs[0].Payload.(TournamentUpdated)
	require.True(t, ok)
	assert.Equal(t, StatusInProgress, payload.Tournament.Status)
	assert.Len(t, payload.Tournament.Teams, 4)
	assert.Len(t, payload.Tournament.Matches, 2)
}

func TestCreateTournament_Validation(t *testing.T) {
	cases := []struct {
		name  string
		input CreateTournamentInput
		field string
	}{
		{"no players", CreateTournamentInput{}, "players"},
		{"one team of two", CreateTournamentInput{Players: []string{"Ana", "Bor"}}, "players"},
		{"single solo player", CreateTournamentInput{Players: []string{"Ana"}, TeamSize: 1}, "players"},
		{"blank name", CreateTournamentInput{Players: []string{"Ana", "  ", "Cene"}}, "players[1]"},
		{"bad team size", CreateTournamentInput{Players: players(4), TeamSize: 3}, "team_size"},
		{"long name", CreateTournamentInput{Players: []string{"Ana", strings.Repeat("x", 101)}, TeamSize: 1}, "players[1]"},
		{"long multibyte name", CreateTournamentInput{Players: []string{"Ana", strings.Repeat("Ž", 101)}, TeamSize: 1}, "players[1]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.service.CreateTournament(context.Background(), tc.input)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tc.field, ve.Field)
			assert.Empty(t, f.recorder.Messages())

			list, total, err := f.repo.ListTournaments(context.Background(), "", 1, 10)
			require.NoError(t, err)
			assert.Zero(t, total)
			assert.Empty(t, list)
		})
	}
}

func TestCreateTournament_NameLengthCountsCharacters(t *testing.T) {
	f := newFixture(t)
	long := strings.Repeat("Ž", MaxPlayerNameLen)
	require.Greater(t, len(long), MaxPlayerNameLen)

	tr, err := f.service.CreateTournament(context.Background(), CreateTournamentInput{
		Players:  []string{"Čeh", "Šimić", long},
		TeamSize: 1,
	})
	require.NoError(t, err)

	names := make([]string, 0, len(tr.Teams))
	for _, team := range tr.Teams {
		names = append(names, team.Player1Name)
	}
	assert.ElementsMatch(t, []string{"Čeh", "Šimić", long}, names)
}

func TestCreateTournament_RetriesTakenCodes(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTournamentRepository(db)
	codes := []string{"SAMECODE", "SAMECODE", "NEXTCODE"}
	i := 0
	svc := NewService(repo, nil, quietLogger(),
		WithRand(rand.New(rand.NewSource(1))),
		WithCodeGenerator(func() (string, error) {
			c := codes[i]
			i++
			return c, nil
		}),
	)

	first, err := svc.CreateTournament(context.Background(), CreateTournamentInput{Players: players(4)})
	require.NoError(t, err)
	second, err := svc.CreateTournament(context.Background(), CreateTournamentInput{Players: players(4)})
	require.NoError(t, err)

	assert.Equal(t, "SAMECODE", first.Code)
	assert.Equal(t, "NEXTCODE", second.Code)
}

// --- RecordWinner ---

func TestRecordWinner_RoundAdvance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, 4, 1)

	round1 := f.roundMatches(t, tr.ID, 1)
	require.Len(t, round1, 2)
	a, c := *round1[0].Team1ID, *round1[1].Team1ID

	res, err := f.service.RecordWinner(ctx, tr.Code, round1[0].ID, a)
	require.NoError(t, err)
	assert.False(t, res.RoundComplete)
	assert.Zero(t, res.NextRound)
	assert.Empty(t, f.roundMatches(t, tr.ID, 2))

	res, err = f.service.RecordWinner(ctx, tr.Code, round1[1].ID, c)
	require.NoError(t, err)
	assert.True(t, res.RoundComplete)
	assert.Equal(t, 2, res.NextRound)
	assert.False(t, res.TournamentCompleted)

	round2 := f.roundMatches(t, tr.ID, 2)
	require.Len(t, round2, 1)
	assert.Equal(t, 0, round2[0].Position)
	assert.Equal(t, a, *round2[0].Team1ID)
	assert.Equal(t, c, *round2[0].Team2ID)
	assert.Nil(t, round2[0].WinnerTeamID)

	assert.Equal(t, StatusInProgress, f.tournament(t, tr.Code).Status)
}

func TestRecordWinner_TwoTeamsCompletes(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, 2, 1)
	require.Len(t, tr.Matches, 1)

	winner := *tr.Matches[0].Team2ID
	res, err := f.service.RecordWinner(context.Background(), tr.Code, tr.Matches[0].ID, winner)
	require.NoError(t, err)

	assert.True(t, res.RoundComplete)
	assert.True(t, res.TournamentCompleted)
	require.NotNil(t, res.ChampionTeamID)
	assert.Equal(t, winner, *res.ChampionTeamID)
	assert.Zero(t, res.NextRound)

	assert.Equal(t, StatusCompleted, f.tournament(t, tr.Code).Status)
	assert.Empty(t, f.roundMatches(t, tr.ID, 2))
}

func TestRecordWinner_NotificationOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, 4, 1)
	round1 := f.roundMatches(t, tr.ID, 1)

	f.recorder.Reset()
	_, err := f.service.RecordWinner(ctx, tr.Code, round1[0].ID, *round1[0].Team1ID)
	require.NoError(t, err)

	msgs := f.recorder.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, EventMatchUpdated, msgs[0].Event)

	f.recorder.Reset()
	_, err = f.service.RecordWinner(ctx, tr.Code, round1[1].ID, *round1[1].Team2ID)
	require.NoError(t, err)

	msgs = f.recorder.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, EventMatchUpdated, msgs[0].Event)
	assert.Equal(t, EventTournamentUpdated, msgs[1].Event)
	for _, m := range msgs {
		assert.Equal(t, ChannelKey(tr.Code), m.Channel)
	}

	matchPayload := msgs[0].Payload.(MatchUpdated)
	require.NotNil(t, matchPayload.Match.Winner)
	assert.Equal(t, *round1[1].Team2ID, matchPayload.Match.Winner.ID)

	tournamentPayload := msgs[1].Payload.(TournamentUpdated)
	assert.Len(t, tournamentPayload.Tournament.Matches, 3)
	last := tournamentPayload.Tournament.Matches[2]
	assert.Equal(t, 2, last.RoundNumber)
	require.NotNil(t, last.Team1)
	require.NotNil(t, last.Team2)
}

func TestRecordWinner_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, 4, 1)
	other := f.create(t, 4, 1)
	round1 := f.roundMatches(t, tr.ID, 1)
	otherRound1 := f.roundMatches(t, other.ID, 1)

	_, err := f.service.RecordWinner(ctx, tr.Code, round1[0].ID, *round1[0].Team1ID)
	require.NoError(t, err)

	cases := []struct {
		name    string
		code    string
		matchID uint
		teamID  uint
		want    error
	}{
		{"unknown tournament", "NOPE0000", round1[1].ID, *round1[1].Team1ID, ErrNotFound},
		{"unknown match", tr.Code, 9999, *round1[1].Team1ID, ErrNotFound},
		{"match of another tournament", tr.Code, otherRound1[0].ID, *otherRound1[0].Team1ID, ErrNotFound},
		{"already decided", tr.Code, round1[0].ID, *round1[0].Team2ID, ErrConflict},
		{"not a competitor", tr.Code, round1[1].ID, *round1[0].Team1ID, ErrInvalidArgument},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f.recorder.Reset()
			_, err := f.service.RecordWinner(ctx, tc.code, tc.matchID, tc.teamID)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, f.recorder.Messages())
		})
	}
}

func TestRecordWinner_RejectedCallLeavesRowsUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, 4, 1)
	round1 := f.roundMatches(t, tr.ID, 1)

	_, err := f.service.RecordWinner(ctx, tr.Code, round1[0].ID, *round1[0].Team1ID)
	require.NoError(t, err)

	beforeTournament := f.tournament(t, tr.Code)
	beforeMatches := f.roundMatches(t, tr.ID, 1)

	_, err = f.service.RecordWinner(ctx, tr.Code, round1[0].ID, *round1[0].Team2ID)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.service.RecordWinner(ctx, tr.Code, round1[1].ID, *round1[0].Team2ID)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = f.service.RecordWinner(ctx, tr.Code, 4242, *round1[1].Team1ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, beforeTournament, f.tournament(t, tr.Code))
	assert.Equal(t, beforeMatches, f.roundMatches(t, tr.ID, 1))
	assert.Empty(t, f.roundMatches(t, tr.ID, 2))
}

func TestRecordWinner_CompletedTournamentRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, 2, 1)
	m := tr.Matches[0]

	_, err := f.service.RecordWinner(ctx, tr.Code, m.ID, *m.Team1ID)
	require.NoError(t, err)

	_, err = f.service.RecordWinner(ctx, tr.Code, m.ID, *m.Team2ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "already completed")
}

func TestRecordWinner_ConcurrentDoubleSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, 4, 1)
	m := f.roundMatches(t, tr.ID, 1)[0]
	candidates := []uint{*m.Team1ID, *m.Team2ID}

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, len(candidates))
	for i, teamID := range candidates {
		wg.Add(1)
		go func(i int, teamID uint) {
			defer wg.Done()
			<-start
			_, errs[i] = f.service.RecordWinner(ctx, tr.Code, m.ID, teamID)
		}(i, teamID)
	}
	close(start)
	wg.Wait()

	var winner uint
	successes := 0
	for i, err := range errs {
		if err == nil {
			successes++
			winner = candidates[i]
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	require.Equal(t, 1, successes)

	stored := f.roundMatches(t, tr.ID, 1)[0]
	require.NotNil(t, stored.WinnerTeamID)
	assert.Equal(t, winner, *stored.WinnerTeamID)
}

func TestRecordWinner_ConcurrentRoundCompletionAdvancesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, 4, 1)
	round1 := f.roundMatches(t, tr.ID, 1)

	var wg sync.WaitGroup
	start := make(chan struct{})
	results := make([]*RoundAdvanceResult, len(round1))
	for i, m := range round1 {
		wg.Add(1)
		go func(i int, m Match) {
			defer wg.Done()
			<-start
			res, err := f.service.RecordWinner(ctx, tr.Code, m.ID, *m.Team1ID)
			assert.NoError(t, err)
			results[i] = res
		}(i, m)
	}
	close(start)
	wg.Wait()

	completions := 0
	for _, res := range results {
		require.NotNil(t, res)
		if res.RoundComplete {
			completions++
		}
	}
	assert.Equal(t, 1, completions)
	assert.Len(t, f.roundMatches(t, tr.ID, 2), 1)
}

// playOut decides every open match for team1 until the tournament completes.
func playOut(t *testing.T, f *fixture, tr *Tournament) (rounds int, champion uint) {
	t.Helper()
	ctx := context.Background()
	for round := 1; ; round++ {
		matches := f.roundMatches(t, tr.ID, round)
		require.NotEmpty(t, matches, "round %d has no matches", round)
		for _, m := range matches {
			if m.Decided() {
				continue
			}
			res, err := f.service.RecordWinner(ctx, tr.Code, m.ID, *m.Team1ID)
			require.NoError(t, err)
			if res.TournamentCompleted {
				return round, *res.ChampionTeamID
			}
		}
	}
}

func TestRecordWinner_PlaysOutWithByes(t *testing.T) {
	for _, teams := range []int{2, 3, 5, 6, 7, 8, 11} {
		f := newFixture(t)
		tr := f.create(t, teams, 1)

		rounds, champion := playOut(t, f, tr)

		expectedRounds := 0
		for n := teams; n > 1; n = (n + 1) / 2 {
			expectedRounds++
		}
		assert.Equalf(t, expectedRounds, rounds, "%d teams", teams)
		assert.NotZero(t, champion)

		final := f.tournament(t, tr.Code)
		assert.Equal(t, StatusCompleted, final.Status)

		for round := 1; round <= rounds; round++ {
			seen := make(map[uint]bool)
			for _, m := range f.roundMatches(t, tr.ID, round) {
				for _, id := range []*uint{m.Team1ID, m.Team2ID} {
					if id == nil {
						continue
					}
					assert.Falsef(t, seen[*id], "team %d twice in round %d", *id, round)
					seen[*id] = true
				}
			}
		}
	}
}

// --- Queries ---

func TestGetTournament(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, 6, 2)

	got, err := f.service.GetTournament(context.Background(), tr.Code)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)
	assert.Len(t, got.Teams, 3)
	assert.Len(t, got.Matches, 2)

	_, err = f.service.GetTournament(context.Background(), "MISSING0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTournaments_RejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.service.ListTournaments(context.Background(), Status("archived"), 1, 10)

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestNewService_NilPublisherFallsBackToNop(t *testing.T) {
	svc := NewService(NewGormTournamentRepository(newTestDB(t)), nil, quietLogger())
	assert.IsType(t, broadcast.Nop{}, svc.publisher)
}

// reloadFailingRepo fails the detail lookups made after a commit.
type reloadFailingRepo struct {
	Repository
	failMatch      bool
	failTournament bool
}

var errReload = errors.New("connection reset")

func (r *reloadFailingRepo) GetMatchDetail(ctx context.Context, matchID uint) (*Match, error) {
	if r.failMatch {
		return nil, errReload
	}
	return r.Repository.GetMatchDetail(ctx, matchID)
}

func (r *reloadFailingRepo) GetTournamentDetail(ctx context.Context, code string) (*Tournament, error) {
	if r.failTournament {
		return nil, errReload
	}
	return r.Repository.GetTournamentDetail(ctx, code)
}

func TestRecordWinner_ReloadFailureKeepsCommittedResult(t *testing.T) {
	cases := []struct {
		name           string
		failMatch      bool
		failTournament bool
		events         []string
	}{
		{"match reload fails", true, false, []string{EventTournamentUpdated}},
		{"tournament reload fails", false, true, []string{EventMatchUpdated}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			tr := f.create(t, 2, 1)
			m := tr.Matches[0]

			repo := &reloadFailingRepo{Repository: f.repo}
			rec := &broadcast.Recorder{}
			svc := NewService(repo, rec, quietLogger())
			repo.failMatch, repo.failTournament = tc.failMatch, tc.failTournament

			res, err := svc.RecordWinner(ctx, tr.Code, m.ID, *m.Team1ID)
			require.NoError(t, err)
			assert.True(t, res.TournamentCompleted)
			require.NotNil(t, res.Match)
			require.NotNil(t, res.Match.WinnerTeamID)
			assert.Equal(t, *m.Team1ID, *res.Match.WinnerTeamID)

			var events []string
			for _, msg := range rec.Messages() {
				events = append(events, msg.Event)
			}
			assert.Equal(t, tc.events, events)
			assert.Equal(t, StatusCompleted, f.tournament(t, tr.Code).Status)
		})
	}
}
