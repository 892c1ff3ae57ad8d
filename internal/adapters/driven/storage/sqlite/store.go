package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// Manifest keys.
const (
	keyGeneration = "generation"
	keyModel      = "model"
	keyDimensions = "dimensions"
	keyCount      = "count"
	keyChunkSize  = "chunk_size"
	keyOverlap    = "overlap"
	keyCreatedAt  = "created_at"
)

// Store is a chunk database for one index build.
type Store struct {
	db       *sql.DB
	path     string
	readOnly bool
}

// Create opens the database at path for writing, creating it if needed,
// and applies pending migrations.
func Create(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(DELETE)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Open opens an existing database read-only.
// Returns domain.ErrArtifactMissing if the file does not exist.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (run 'hiresense build' first)", domain.ErrArtifactMissing, path)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: chunk database unreadable: %v", domain.ErrArtifactMismatch, err)
	}

	return &Store{db: db, path: path, readOnly: true}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
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
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
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
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// WriteBuild replaces the manifest and all chunks in one transaction.
// Chunks must satisfy chunks[i].ID == i.
func (s *Store) WriteBuild(ctx context.Context, m domain.IndexManifest, chunks []domain.Chunk) error {
	if s.readOnly {
		return fmt.Errorf("%w: chunk database opened read-only", domain.ErrInvalidInput)
	}
	for i, c := range chunks {
		if c.ID != i {
			return fmt.Errorf("%w: chunk at position %d has id %d", domain.ErrInvalidInput, i, c.ID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range []string{"DELETE FROM manifest", "DELETE FROM chunks"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing previous build: %w", err)
		}
	}

	kv := map[string]string{
		keyGeneration: m.Generation,
		keyModel:      m.Model,
		keyDimensions: strconv.Itoa(m.Dimensions),
		keyCount:      strconv.Itoa(len(chunks)),
		keyChunkSize:  strconv.Itoa(m.ChunkSize),
		keyOverlap:    strconv.Itoa(m.Overlap),
		keyCreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	for k, v := range kv {
		if _, err := tx.ExecContext(ctx, "INSERT INTO manifest (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("saving manifest %s: %w", k, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, source, position, text)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Source, c.Position, c.Text); err != nil {
			return fmt.Errorf("saving chunk %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Manifest reads the stored build manifest.
func (s *Store) Manifest(ctx context.Context) (domain.IndexManifest, error) {
	var m domain.IndexManifest

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM manifest")
	if err != nil {
		return m, fmt.Errorf("%w: querying manifest: %v", domain.ErrArtifactMismatch, err)
	}
	defer rows.Close()

	kv := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return m, fmt.Errorf("scanning manifest: %w", err)
		}
		kv[k] = v
	}
	if err := rows.Err(); err != nil {
		return m, fmt.Errorf("iterating manifest: %w", err)
	}

	if kv[keyGeneration] == "" {
		return m, fmt.Errorf("%w: chunk database has no manifest", domain.ErrArtifactMismatch)
	}

	m.Generation = kv[keyGeneration]
	m.Model = kv[keyModel]
	m.Dimensions = atoi(kv[keyDimensions])
	m.Count = atoi(kv[keyCount])
	m.ChunkSize = atoi(kv[keyChunkSize])
	m.Overlap = atoi(kv[keyOverlap])
	if t, err := time.Parse(time.RFC3339Nano, kv[keyCreatedAt]); err == nil && !t.Equal(time.Time{}) {
		m.CreatedAt = t
	}

	return m, nil
}

// Chunks returns every chunk ordered by id.
func (s *Store) Chunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, position, text
		FROM chunks ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.ID, &c.Source, &c.Position, &c.Text); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// Chunk retrieves a single chunk by id.
func (s *Store) Chunk(ctx context.Context, id int) (*domain.Chunk, error) {
	var c domain.Chunk
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, position, text
		FROM chunks WHERE id = ?
	`, id).Scan(&c.ID, &c.Source, &c.Position, &c.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	return &c, nil
}

// SourceCounts returns the number of chunks per source.
func (s *Store) SourceCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT source, COUNT(*) FROM chunks GROUP BY source")
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var src string
		var n int
		if err := rows.Scan(&src, &n); err != nil {
			return nil, fmt.Errorf("scanning source count: %w", err)
		}
		counts[src] = n
	}
	return counts, rows.Err()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
