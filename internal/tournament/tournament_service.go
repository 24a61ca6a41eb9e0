package tournament

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/DhavalSuthar-24/bracket/internal/bracket"
	"github.com/DhavalSuthar-24/bracket/internal/broadcast"
	"github.com/DhavalSuthar-24/bracket/pkg/utils"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTeamSize   = 2
	MaxPlayerNameLen  = 100
	codeGenerateTries = 5
)

// CreateTournamentInput is the organizer's submission.
type CreateTournamentInput struct {
	Players  []string
	TeamSize int // 1 or 2; zero means DefaultTeamSize
}

// RoundAdvanceResult describes what a recorded winner changed.
type RoundAdvanceResult struct {
	Match               *Match // team references are nil if the reload after commit failed
	RoundComplete       bool
	NextRound           int // zero unless a new round was created
	TournamentCompleted bool
	ChampionTeamID      *uint
}

// Service owns the tournament lifecycle: it builds round 1 on creation and
// advances the bracket as winners are recorded.
type Service struct {
	repo      Repository
	publisher broadcast.Publisher
	logger    *logrus.Logger

	rngMu   sync.Mutex
	rng     *rand.Rand
	newCode func() (string, error)
}

type Option func(*Service)

// WithRand fixes the source used to shuffle players into teams.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// WithCodeGenerator replaces the tournament code generator.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.newCode = gen }
}

func NewService(repo Repository, publisher broadcast.Publisher, logger *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		newCode:   utils.GenerateTournamentCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher == nil {
		s.publisher = broadcast.Nop{}
	}
	return s
}

// --- Commands ---

// CreateTournament shuffles the players into teams, persists round 1 and
// moves the tournament to in_progress.
func (s *Service) CreateTournament(ctx context.Context, in CreateTournamentInput) (*Tournament, error) {
	players, teamSize, err := validateCreate(in)
	if err != nil {
		return nil, err
	}

	s.rngMu.Lock()
	shuffled := bracket.Shuffle(players, s.rng)
	s.rngMu.Unlock()

	specs, err := bracket.PairPlayers(shuffled, teamSize)
	if err != nil {
		return nil, &ValidationError{Field: "team_size", Message: err.Error()}
	}

	var code string
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		code, err = s.uniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		t := &Tournament{Code: code, Status: StatusSetup}
		if err := tx.CreateTournament(ctx, t); err != nil {
			return fmt.Errorf("create tournament: %w", err)
		}

		teams := make([]Team, 0, len(specs))
		for _, spec := range specs {
			teams = append(teams, Team{
				TournamentID: t.ID,
				Player1Name:  spec.Player1Name,
				Player2Name:  spec.Player2Name,
				Name:         spec.Name,
			})
		}
		if err := tx.CreateTeams(ctx, teams); err != nil {
			return fmt.Errorf("create teams: %w", err)
		}

		teamIDs := make([]uint, 0, len(teams))
		for _, team := range teams {
			teamIDs = append(teamIDs, team.ID)
		}
		if err := createRound(ctx, tx, t.ID, teamIDs, 1); err != nil {
			return err
		}

		return tx.UpdateTournamentStatus(ctx, t.ID, StatusInProgress)
	})
	if err != nil {
		s.logger.WithError(err).Error("tournament: create failed")
		return nil, err
	}

	detail, err := s.repo.GetTournamentDetail(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("reload tournament %s: %w", code, err)
	}

	s.logger.WithFields(logrus.Fields{
		"tournament": code,
		"teams":      len(detail.Teams),
		"matches":    len(detail.Matches),
	}).Info("tournament created")

	s.publisher.Publish(ChannelKey(code), EventTournamentUpdated, TournamentUpdated{
		Tournament: NewTournamentPayload(detail),
	})
	return detail, nil
}

// RecordWinner decides a match and, when that completes its round, either
// builds the next round or finishes the tournament. Everything up to the
// status change commits atomically; notifications go out after the commit.
func (s *Service) RecordWinner(ctx context.Context, code string, matchID, winnerTeamID uint) (*RoundAdvanceResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"tournament": code,
		"match_id":   matchID,
		"winner_id":  winnerTeamID,
	})

	result := &RoundAdvanceResult{}
	err := s.repo.WithTransaction(ctx, func(tx Repository) error {
		// The row lock serializes winner selection per tournament so exactly one
		// caller sees its round complete.
		t, err := tx.GetTournamentByCode(ctx, code, true)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("tournament %s: %w", code, ErrNotFound)
		}
		if t.Status == StatusCompleted {
			return fmt.Errorf("tournament %s already completed: %w", code, ErrConflict)
		}

		m, err := tx.GetMatch(ctx, t.ID, matchID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("match %d: %w", matchID, ErrNotFound)
		}
		if m.Decided() {
			return fmt.Errorf("match %d already decided: %w", matchID, ErrConflict)
		}
		if !m.HasTeam(winnerTeamID) {
			return fmt.Errorf("team %d is not playing in match %d: %w", winnerTeamID, matchID, ErrInvalidArgument)
		}

		ok, err := tx.SetMatchWinner(ctx, m.ID, winnerTeamID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("match %d already decided: %w", matchID, ErrConflict)
		}
		m.WinnerTeamID = &winnerTeamID
		result.Match = m

		round, err := tx.GetRoundMatches(ctx, t.ID, m.RoundNumber)
		if err != nil {
			return err
		}
		winners := make([]uint, 0, len(round))
		for _, rm := range round {
			if !rm.Decided() {
				return nil
			}
			winners = append(winners, *rm.WinnerTeamID)
		}
		result.RoundComplete = true

		if len(winners) == 1 {
			result.TournamentCompleted = true
			result.ChampionTeamID = &winners[0]
			return tx.UpdateTournamentStatus(ctx, t.ID, StatusCompleted)
		}

		next := m.RoundNumber + 1
		if err := createRound(ctx, tx, t.ID, winners, next); err != nil {
			return err
		}
		result.NextRound = next
		return tx.UpdateTournamentStatus(ctx, t.ID, StatusInProgress)
	})
	if err != nil {
		if isClientError(err) {
			log.WithError(err).Info("winner rejected")
		} else {
			log.WithError(err).Error("winner selection failed")
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"round":          result.Match.RoundNumber,
		"round_complete": result.RoundComplete,
		"next_round":     result.NextRound,
		"completed":      result.TournamentCompleted,
	}).Info("winner recorded")

	// The write is committed from here on. A failed reload skips the matching
	// notification but never turns the call into an error.
	channel := ChannelKey(code)
	match, err := s.repo.GetMatchDetail(ctx, matchID)
	switch {
	case err != nil:
		log.WithError(err).Error("reload match after commit failed, match.updated not sent")
	case match == nil:
		log.Error("match missing after commit, match.updated not sent")
	default:
		result.Match = match
		s.publisher.Publish(channel, EventMatchUpdated, MatchUpdated{Match: NewMatchPayload(match)})
	}

	if result.RoundComplete {
		detail, err := s.repo.GetTournamentDetail(ctx, code)
		switch {
		case err != nil:
			log.WithError(err).Error("reload tournament after commit failed, tournament.updated not sent")
		case detail == nil:
			log.Error("tournament missing after commit, tournament.updated not sent")
		default:
			s.publisher.Publish(channel, EventTournamentUpdated, TournamentUpdated{
				Tournament: NewTournamentPayload(detail),
			})
		}
	}
	return result, nil
}

// --- Queries ---

// GetTournament returns the tournament with teams and matches resolved.
func (s *Service) GetTournament(ctx context.Context, code string) (*Tournament, error) {
	t, err := s.repo.GetTournamentDetail(ctx, code)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("tournament %s: %w", code, ErrNotFound)
	}
	return t, nil
}

// ListTournaments returns one page of tournaments, optionally filtered by status.
func (s *Service) ListTournaments(ctx context.Context, status Status, page, pageSize int) ([]Tournament, int64, error) {
	switch status {
	case "", StatusSetup, StatusInProgress, StatusCompleted:
	default:
		return nil, 0, &ValidationError{Field: "status", Message: "must be one of setup, in_progress, completed"}
	}
	return s.repo.ListTournaments(ctx, status, page, pageSize)
}

// --- Helpers ---

// createRound persists the matches BuildRound produces. A bye match is stored
// already decided in favour of its only participant.
func createRound(ctx context.Context, tx Repository, tournamentID uint, participants []uint, roundNumber int) error {
	specs, err := bracket.BuildRound(participants, roundNumber)
	if err != nil {
		return fmt.Errorf("build round %d: %w", roundNumber, err)
	}

	matches := make([]Match, 0, len(specs))
	for _, spec := range specs {
		matches = append(matches, Match{
			TournamentID: tournamentID,
			RoundNumber:  spec.RoundNumber,
			Position:     spec.Position,
			Team1ID:      spec.Team1ID,
			Team2ID:      spec.Team2ID,
			WinnerTeamID: spec.ByeWinner(),
		})
	}
	if err := tx.CreateMatches(ctx, matches); err != nil {
		return fmt.Errorf("create round %d matches: %w", roundNumber, err)
	}
	return nil
}

func (s *Service) uniqueCode(ctx context.Context, tx Repository) (string, error) {
	for i := 0; i < codeGenerateTries; i++ {
		code, err := s.newCode()
		if err != nil {
			return "", fmt.Errorf("generate tournament code: %w", err)
		}
		exists, err := tx.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("generate tournament code: no free code after %d attempts", codeGenerateTries)
}

func validateCreate(in CreateTournamentInput) ([]string, int, error) {
	teamSize := in.TeamSize
	if teamSize == 0 {
		teamSize = DefaultTeamSize
	}
	if teamSize != 1 && teamSize != 2 {
		return nil, 0, &ValidationError{Field: "team_size", Message: "must be 1 or 2"}
	}

	players := make([]string, 0, len(in.Players))
	for i, p := range in.Players {
		name := strings.TrimSpace(p)
		if name == "" {
			return nil, 0, &ValidationError{Field: fmt.Sprintf("players[%d]", i), Message: "must not be blank"}
		}
		if utf8.RuneCountInString(name) > MaxPlayerNameLen {
			return nil, 0, &ValidationError{
				Field:   fmt.Sprintf("players[%d]", i),
				Message: fmt.Sprintf("must be at most %d characters", MaxPlayerNameLen),
			}
		}
		players = append(players, name)
	}

	teams := (len(players) + teamSize - 1) / teamSize
	if teams < 2 {
		return nil, 0, &ValidationError{
			Field:   "players",
			Message: fmt.Sprintf("at least %d players are needed to form 2 teams", teamSize+1),
		}
	}
	return players, teamSize, nil
}

func isClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalidArgument)
}
