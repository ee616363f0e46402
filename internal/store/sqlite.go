package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/bettercollective/embedforge/internal/model"
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
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS publications (
	id         TEXT PRIMARY KEY,
	owner      TEXT NOT NULL,
	repo       TEXT NOT NULL,
	filename   TEXT NOT NULL,
	widget     TEXT NOT NULL,
	brand      TEXT NOT NULL,
	embed_url  TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_publications_repo ON publications(owner, repo);
CREATE INDEX IF NOT EXISTS idx_publications_brand ON publications(brand);
CREATE INDEX IF NOT EXISTS idx_publications_created_at ON publications(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordPublication inserts one publish record. ID and CreatedAt are
// assigned here; whatever the caller set is ignored.
func (s *SQLiteStore) RecordPublication(ctx context.Context, pub model.Publication) (*model.Publication, error) {
	pub.ID = uuid.New().String()
	pub.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO publications (id, owner, repo, filename, widget, brand, embed_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		pub.ID, pub.Owner, pub.Repo, pub.Filename, string(pub.Widget), pub.Brand, pub.EmbedURL, pub.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert publication")
	}
	return &pub, nil
}

func (s *SQLiteStore) GetPublication(ctx context.Context, id string) (*model.Publication, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner, repo, filename, widget, brand, embed_url, created_at
		 FROM publications WHERE id = ?`,
		id,
	)
	return scanPublication(row)
}

func (s *SQLiteStore) ListPublications(ctx context.Context, filter PublicationFilter) ([]model.Publication, error) {
	query := `SELECT id, owner, repo, filename, widget, brand, embed_url, created_at
	 FROM publications WHERE 1=1`
	var args []any

	if filter.Repo != "" {
		query += ` AND repo = ?`
		args = append(args, filter.Repo)
	}
	if filter.Brand != "" {
		query += ` AND brand = ?`
		args = append(args, filter.Brand)
	}
	if filter.Widget != "" {
		query += ` AND widget = ?`
		args = append(args, filter.Widget)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list publications")
	}
	defer rows.Close()

	var pubs []model.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, *p)
	}
	return pubs, eris.Wrap(rows.Err(), "sqlite: list publications iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPublication(row scannable) (*model.Publication, error) {
	var p model.Publication
	var widget string

	err := row.Scan(&p.ID, &p.Owner, &p.Repo, &p.Filename, &widget, &p.Brand, &p.EmbedURL, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("publication not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan publication")
	}
	p.Widget = model.WidgetKind(widget)
	return &p, nil
}
