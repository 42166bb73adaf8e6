package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/scholarstr/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
)

// Store is the SQLite paper cache.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in dataDir.
// If dataDir is empty, defaults to ~/.scholarstr/data/cache.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".scholarstr", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cache.db")

	// WAL lets the refresher write while the CLI or HTTP server reads.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// PaperStore returns a PaperStore interface backed by this store.
func (s *Store) PaperStore() driven.PaperStore {
	return &paperStore{store: s}
}

// RefreshStore returns a RefreshStore interface backed by this store.
func (s *Store) RefreshStore() driven.RefreshStore {
	return &refreshStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ==================== Paper Store ====================

// paperStore implements driven.PaperStore.
type paperStore struct {
	store *Store
}

var _ driven.PaperStore = (*paperStore)(nil)

const paperColumns = `address, id, author, slug, created_at, title, abstract, authors, keywords,
	doi, institution, funding, content, published_at, published_at_valid, zap_limit, price`

// SavePaper stores a paper unless a newer revision of its address is cached.
func (s *paperStore) SavePaper(ctx context.Context, paper *domain.Paper) error {
	keywordsJSON, err := json.Marshal(nonNil(paper.Keywords))
	if err != nil {
		return fmt.Errorf("marshalling keywords: %w", err)
	}
	addr := paper.Address()

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO papers (`+paperColumns+`, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			id = excluded.id,
			created_at = excluded.created_at,
			title = excluded.title,
			abstract = excluded.abstract,
			authors = excluded.authors,
			keywords = excluded.keywords,
			doi = excluded.doi,
			institution = excluded.institution,
			funding = excluded.funding,
			content = excluded.content,
			published_at = excluded.published_at,
			published_at_valid = excluded.published_at_valid,
			zap_limit = excluded.zap_limit,
			price = excluded.price,
			cached_at = excluded.cached_at
		WHERE excluded.created_at >= papers.created_at
	`, addr, paper.ID, paper.Author, paper.Slug, paper.CreatedAt.Unix(),
		paper.Title, paper.Abstract, paper.Authors, string(keywordsJSON),
		paper.DOI, paper.Institution, paper.Funding, paper.Content,
		paper.PublishedAt.Unix(), paper.PublishedAtValid, paper.ZapLimit, paper.Price,
		time.Now().Unix())
	if err != nil {
		return fmt.Errorf("saving paper: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// An older revision; the cached row stays.
		return nil
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM paper_topics WHERE address = ?", addr); err != nil {
		return fmt.Errorf("clearing topics: %w", err)
	}
	for i, topic := range paper.Topics {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO paper_topics (address, position, topic) VALUES (?, ?, ?)",
			addr, i, topic); err != nil {
			return fmt.Errorf("saving topic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing paper: %w", err)
	}
	return nil
}

// GetPaper retrieves the cached revision for author and slug.
func (s *paperStore) GetPaper(ctx context.Context, author, slug string) (*domain.Paper, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+paperColumns+" FROM papers WHERE address = ?",
		domain.Address(domain.KindLongForm, author, slug))
	return s.withTopics(ctx, row)
}

// GetPaperByID retrieves a cached paper by event id.
func (s *paperStore) GetPaperByID(ctx context.Context, id string) (*domain.Paper, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+paperColumns+" FROM papers WHERE id = ?", id)
	return s.withTopics(ctx, row)
}

// ListPapers returns cached papers newest first, optionally filtered by topic.
func (s *paperStore) ListPapers(ctx context.Context, topic string, limit int) ([]*domain.Paper, error) {
	query := "SELECT " + paperColumns + " FROM papers"
	var args []any
	if topic != "" {
		query += " WHERE address IN (SELECT address FROM paper_topics WHERE topic = ?)"
		args = append(args, topic)
	}
	query += " ORDER BY created_at DESC, id ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []*domain.Paper //nolint:prealloc // size unknown from query
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating papers: %w", err)
	}
	rows.Close()

	for _, p := range papers {
		if p.Topics, err = s.topics(ctx, p.Address()); err != nil {
			return nil, err
		}
	}
	return papers, nil
}

// DeletePaper removes a cached paper by event id.
func (s *paperStore) DeletePaper(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM papers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting paper: %w", err)
	}
	return nil
}

func (s *paperStore) withTopics(ctx context.Context, row *sql.Row) (*domain.Paper, error) {
	p, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Topics, err = s.topics(ctx, p.Address()); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *paperStore) topics(ctx context.Context, addr string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT topic FROM paper_topics WHERE address = ? ORDER BY position", addr)
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	defer rows.Close()

	topics := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(row scanner) (*domain.Paper, error) {
	var (
		p            domain.Paper
		addr         string
		created      int64
		published    int64
		keywordsJSON string
	)
	if err := row.Scan(&addr, &p.ID, &p.Author, &p.Slug, &created, &p.Title, &p.Abstract,
		&p.Authors, &keywordsJSON, &p.DOI, &p.Institution, &p.Funding, &p.Content,
		&published, &p.PublishedAtValid, &p.ZapLimit, &p.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning paper: %w", err)
	}
	p.CreatedAt = time.Unix(created, 0)
	p.PublishedAt = time.Unix(published, 0)

	if keywordsJSON != "" {
		if err := json.Unmarshal([]byte(keywordsJSON), &p.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshaling keywords: %w", err)
		}
		if len(p.Keywords) == 0 {
			p.Keywords = nil
		}
	}
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
