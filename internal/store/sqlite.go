package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/prospect-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS searches (
	id             TEXT PRIMARY KEY,
	business_type  TEXT NOT NULL DEFAULT '',
	query          TEXT NOT NULL,
	location       TEXT NOT NULL,
	ads_count      INTEGER NOT NULL DEFAULT 0,
	maps_count     INTEGER NOT NULL DEFAULT 0,
	organic_count  INTEGER NOT NULL DEFAULT 0,
	prospect_count INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS prospects (
	id                TEXT PRIMARY KEY,
	search_id         TEXT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
	ordinal           INTEGER NOT NULL,
	name              TEXT NOT NULL,
	domain            TEXT NOT NULL DEFAULT '',
	fit_score         INTEGER NOT NULL DEFAULT 0,
	opportunity_score INTEGER NOT NULL DEFAULT 0,
	priority_score    REAL NOT NULL DEFAULT 0,
	data              TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
CREATE INDEX IF NOT EXISTS idx_prospects_search_id ON prospects(search_id);
CREATE INDEX IF NOT EXISTS idx_prospects_domain ON prospects(domain);
CREATE INDEX IF NOT EXISTS idx_prospects_priority ON prospects(priority_score);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSearch stores a search and its prospects in one transaction and
// returns the search ID. A blank ID is generated and a zero CreatedAt is
// set to now.
func (s *SQLiteStore) SaveSearch(ctx context.Context, search model.Search, prospects []model.Prospect) (string, error) {
	if search.ID == "" {
		search.ID = uuid.New().String()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now()
	}
	search.CreatedAt = search.CreatedAt.UTC()
	search.ProspectCount = len(prospects)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO searches (id, business_type, query, location, ads_count, maps_count, organic_count, prospect_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		search.ID, search.BusinessType, search.Query, search.Location,
		search.AdsCount, search.MapsCount, search.OrganicCount, search.ProspectCount, search.CreatedAt,
	)
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: insert search %s", search.ID)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO prospects (id, search_id, ordinal, name, domain, fit_score, opportunity_score, priority_score, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: prepare insert prospect")
	}
	defer stmt.Close() //nolint:errcheck

	for i, p := range prospects {
		row, err := prospectRow(uuid.New().String(), search.ID, i, p)
		if err != nil {
			return "", err
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return "", eris.Wrapf(err, "sqlite: insert prospect %q", p.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit search")
	}
	return search.ID, nil
}

const searchColumns = `id, business_type, query, location, ads_count, maps_count, organic_count, prospect_count, created_at`

func (s *SQLiteStore) GetSearch(ctx context.Context, searchID string) (*model.Search, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+searchColumns+` FROM searches WHERE id = ?`,
		searchID,
	)
	search, err := scanSearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get search %s", searchID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get search %s", searchID)
	}
	return search, nil
}

func (s *SQLiteStore) ListSearches(ctx context.Context, limit int) ([]model.Search, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+searchColumns+` FROM searches ORDER BY created_at DESC LIMIT ?`,
		listLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list searches")
	}
	defer rows.Close()

	var searches []model.Search
	for rows.Next() {
		search, err := scanSearch(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan search")
		}
		searches = append(searches, *search)
	}
	return searches, eris.Wrap(rows.Err(), "sqlite: list searches iterate")
}

func (s *SQLiteStore) ListProspects(ctx context.Context, searchID string, filter ProspectFilter) ([]model.Prospect, error) {
	query, args, err := prospectQuery(searchID, filter, sq.Question)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list prospects")
	}
	defer rows.Close()

	var prospects []model.Prospect
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan prospect")
		}
		p, err := decodeProspect(data)
		if err != nil {
			return nil, err
		}
		prospects = append(prospects, p)
	}
	return prospects, eris.Wrap(rows.Err(), "sqlite: list prospects iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSearch(row scannable) (*model.Search, error) {
	var s model.Search
	err := row.Scan(&s.ID, &s.BusinessType, &s.Query, &s.Location,
		&s.AdsCount, &s.MapsCount, &s.OrganicCount, &s.ProspectCount, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
