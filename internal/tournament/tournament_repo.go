package tournament

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the persistence operations the bracket service needs.
type Repository interface {
	// Tournament methods
	CreateTournament(ctx context.Context, t *Tournament) error
	CodeExists(ctx context.Context, code string) (bool, error)
	GetTournamentByCode(ctx context.Context, code string, forUpdate bool) (*Tournament, error)
	GetTournamentDetail(ctx context.Context, code string) (*Tournament, error)
	ListTournaments(ctx context.Context, status Status, page, pageSize int) ([]Tournament, int64, error)
	UpdateTournamentStatus(ctx context.Context, tournamentID uint, status Status) error

	// Team methods
	CreateTeams(ctx context.Context, teams []Team) error

	// Match methods
	CreateMatches(ctx context.Context, matches []Match) error
	GetMatch(ctx context.Context, tournamentID, matchID uint) (*Match, error)
	GetMatchDetail(ctx context.Context, matchID uint) (*Match, error)
	GetRoundMatches(ctx context.Context, tournamentID uint, roundNumber int) ([]Match, error)
	SetMatchWinner(ctx context.Context, matchID, winnerTeamID uint) (bool, error)

	// Transaction support
	WithTransaction(ctx context.Context, txFunc func(Repository) error) error
}

// GormTournamentRepository implements Repository using GORM.
// Lookups return (nil, nil) when the record does not exist.
type GormTournamentRepository struct {
	db *gorm.DB
}

var _ Repository = (*GormTournamentRepository)(nil)

// NewGormTournamentRepository creates a new GormTournamentRepository
func NewGormTournamentRepository(db *gorm.DB) *GormTournamentRepository {
	return &GormTournamentRepository{db: db}
}

// AutoMigrate creates or updates the tables backing the repository.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Tournament{}, &Team{}, &Match{})
}

// WithTransaction runs txFunc against a repository bound to one transaction.
// Any error returned by txFunc rolls the transaction back.
func (r *GormTournamentRepository) WithTransaction(ctx context.Context, txFunc func(Repository) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	txRepo := &GormTournamentRepository{db: tx}
	if err := txFunc(txRepo); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// --- Tournament Methods ---

func (r *GormTournamentRepository) CreateTournament(ctx context.Context, t *Tournament) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// CodeExists includes soft-deleted tournaments since the unique index covers them too.
func (r *GormTournamentRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&Tournament{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// GetTournamentByCode loads the bare tournament row. With forUpdate the row is
// locked until the surrounding transaction ends.
func (r *GormTournamentRepository) GetTournamentByCode(ctx context.Context, code string, forUpdate bool) (*Tournament, error) {
	var t Tournament
	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Where("code = ?", code).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// GetTournamentDetail loads the tournament with its teams and every match,
// matches ordered by round then position, team references resolved.
func (r *GormTournamentRepository) GetTournamentDetail(ctx context.Context, code string) (*Tournament, error) {
	var t Tournament
	err := r.db.WithContext(ctx).
		Preload("Teams", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Matches", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC, position ASC")
		}).
		Preload("Matches.Team1").
		Preload("Matches.Team2").
		Preload("Matches.Winner").
		Where("code = ?", code).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ListTournaments returns one page of tournaments, newest first. An empty status matches all.
func (r *GormTournamentRepository) ListTournaments(ctx context.Context, status Status, page, pageSize int) ([]Tournament, int64, error) {
	var tournaments []Tournament
	var total int64

	query := r.db.WithContext(ctx).Model(&Tournament{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at desc").Order("id desc").
		Offset(offset).Limit(pageSize).
		Find(&tournaments).Error
	if err != nil {
		return nil, 0, err
	}
	return tournaments, total, nil
}

// UpdateTournamentStatus also bumps updated_at, even when the status is unchanged.
func (r *GormTournamentRepository) UpdateTournamentStatus(ctx context.Context, tournamentID uint, status Status) error {
	return r.db.WithContext(ctx).Model(&Tournament{}).
		Where("id = ?", tournamentID).
		Update("status", status).Error
}

// --- Team Methods ---

func (r *GormTournamentRepository) CreateTeams(ctx context.Context, teams []Team) error {
	if len(teams) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&teams).Error
}

// --- Match Methods ---

func (r *GormTournamentRepository) CreateMatches(ctx context.Context, matches []Match) error {
	if len(matches) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&matches).Error
}

func (r *GormTournamentRepository) GetMatch(ctx context.Context, tournamentID, matchID uint) (*Match, error) {
	var m Match
	err := r.db.WithContext(ctx).
		Where("id = ? AND tournament_id = ?", matchID, tournamentID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// GetMatchDetail loads a match with its team references resolved.
func (r *GormTournamentRepository) GetMatchDetail(ctx context.Context, matchID uint) (*Match, error) {
	var m Match
	err := r.db.WithContext(ctx).
		Preload("Team1").
		Preload("Team2").
		Preload("Winner").
		First(&m, matchID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// GetRoundMatches returns every match of one round ordered by position.
func (r *GormTournamentRepository) GetRoundMatches(ctx context.Context, tournamentID uint, roundNumber int) ([]Match, error) {
	var matches []Match
	err := r.db.WithContext(ctx).
		Where("tournament_id = ? AND round_number = ?", tournamentID, roundNumber).
		Order("position ASC").
		Find(&matches).Error
	return matches, err
}

// SetMatchWinner sets the winner only if none is set yet. It reports false
// when another writer got there first.
func (r *GormTournamentRepository) SetMatchWinner(ctx context.Context, matchID, winnerTeamID uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Match{}).
		Where("id = ? AND winner_team_id IS NULL", matchID).
		Update("winner_team_id", winnerTeamID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
