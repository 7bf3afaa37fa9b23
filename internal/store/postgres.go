package store

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/db"
	"github.com/sells-group/prospect-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS searches (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	business_type  TEXT NOT NULL DEFAULT '',
	query          TEXT NOT NULL,
	location       TEXT NOT NULL,
	ads_count      INTEGER NOT NULL DEFAULT 0,
	maps_count     INTEGER NOT NULL DEFAULT 0,
	organic_count  INTEGER NOT NULL DEFAULT 0,
	prospect_count INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS prospects (
	id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	search_id         TEXT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
	ordinal           INTEGER NOT NULL,
	name              TEXT NOT NULL,
	domain            TEXT NOT NULL DEFAULT '',
	fit_score         INTEGER NOT NULL DEFAULT 0,
	opportunity_score INTEGER NOT NULL DEFAULT 0,
	priority_score    DOUBLE PRECISION NOT NULL DEFAULT 0,
	data              JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
CREATE INDEX IF NOT EXISTS idx_prospects_search_id ON prospects(search_id);
CREATE INDEX IF NOT EXISTS idx_prospects_domain ON prospects(domain);
CREATE INDEX IF NOT EXISTS idx_prospects_priority ON prospects(priority_score DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveSearch inserts the search row and bulk loads its prospects with COPY
// inside one transaction.
func (s *PostgresStore) SaveSearch(ctx context.Context, search model.Search, prospects []model.Prospect) (string, error) {
	if search.ID == "" {
		search.ID = uuid.New().String()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now()
	}
	search.CreatedAt = search.CreatedAt.UTC()
	search.ProspectCount = len(prospects)

	rows := make([][]any, 0, len(prospects))
	for i, p := range prospects {
		row, err := prospectRow(uuid.New().String(), search.ID, i, p)
		if err != nil {
			return "", err
		}
		rows = append(rows, row)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", eris.Wrap(err, "postgres: begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO searches (id, business_type, query, location, ads_count, maps_count, organic_count, prospect_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		search.ID, search.BusinessType, search.Query, search.Location,
		search.AdsCount, search.MapsCount, search.OrganicCount, search.ProspectCount, search.CreatedAt,
	)
	if err != nil {
		return "", eris.Wrapf(err, "postgres: insert search %s", search.ID)
	}

	n, err := db.CopyFrom(ctx, tx, "prospects", prospectColumns, rows)
	if err != nil {
		return "", eris.Wrap(err, "postgres: copy prospects")
	}

	if err := tx.Commit(ctx); err != nil {
		return "", eris.Wrap(err, "postgres: commit search")
	}

	zap.L().Debug("postgres: saved search",
		zap.String("search_id", search.ID),
		zap.Int64("prospects", n),
	)
	return search.ID, nil
}

func (s *PostgresStore) GetSearch(ctx context.Context, searchID string) (*model.Search, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+searchColumns+` FROM searches WHERE id = $1`,
		searchID,
	)
	search, err := scanSearch(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: get search %s", searchID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get search %s", searchID)
	}
	return search, nil
}

func (s *PostgresStore) ListSearches(ctx context.Context, limit int) ([]model.Search, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+searchColumns+` FROM searches ORDER BY created_at DESC LIMIT $1`,
		listLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list searches")
	}
	defer rows.Close()

	var searches []model.Search
	for rows.Next() {
		search, err := scanSearch(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan search")
		}
		searches = append(searches, *search)
	}
	return searches, eris.Wrap(rows.Err(), "postgres: list searches iterate")
}

func (s *PostgresStore) ListProspects(ctx context.Context, searchID string, filter ProspectFilter) ([]model.Prospect, error) {
	query, args, err := prospectQuery(searchID, filter, sq.Dollar)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list prospects")
	}
	defer rows.Close()

	var prospects []model.Prospect
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan prospect")
		}
		p, err := decodeProspect(data)
		if err != nil {
			return nil, err
		}
		prospects = append(prospects, p)
	}
	return prospects, eris.Wrap(rows.Err(), "postgres: list prospects iterate")
}
