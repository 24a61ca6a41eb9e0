package tournament

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"testing"

	"github.com/DhavalSuthar-24/bracket/internal/broadcast"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database. A single connection keeps the
// database alive and serializes transactions the way row locks would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// sequentialCodes hands out CODE0001, CODE0002, ...
func sequentialCodes() func() (string, error) {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("CODE%04d", n), nil
	}
}

type fixture struct {
	db       *gorm.DB
	repo     *GormTournamentRepository
	recorder *broadcast.Recorder
	service  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	repo := NewGormTournamentRepository(db)
	rec := &broadcast.Recorder{}
	svc := NewService(repo, rec, quietLogger(),
		WithRand(rand.New(rand.NewSource(42))),
		WithCodeGenerator(sequentialCodes()),
	)
	return &fixture{db: db, repo: repo, recorder: rec, service: svc}
}

func players(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Player %d", i+1)
	}
	return out
}

func (f *fixture) create(t *testing.T, n, teamSize int) *Tournament {
	t.Helper()
	tr, err := f.service.CreateTournament(context.Background(), CreateTournamentInput{
		Players:  players(n),
		TeamSize: teamSize,
	})
	require.NoError(t, err)
	return tr
}

func (f *fixture) roundMatches(t *testing.T, tournamentID uint, round int) []Match {
	t.Helper()
	matches, err := f.repo.GetRoundMatches(context.Background(), tournamentID, round)
	require.NoError(t, err)
	return matches
}

func (f *fixture) tournament(t *testing.T, code string) *Tournament {
	t.Helper()
	tr, err := f.repo.GetTournamentByCode(context.Background(), code, false)
	require.NoError(t, err)
	require.NotNil(t, tr)
	return tr
}
