package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"studybuddy/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Store implements ports.Store using SQLite
type Store struct {
	db     *sql.DB
	dbPath string
}

// Ensure Store implements Store
var _ ports.Store = (*Store)(nil)

// Open opens (creating if needed) the cache at dbPath. An empty path uses
// DefaultPath.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = DefaultPath()
	}
	// Expand ~ in path
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db, dbPath: dbPath}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}
	return s, nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DefaultPath returns the cache location under the XDG data directory
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "studybuddy", "cache.db")
}

// migrate creates the schema. A cache written by another schema version is
// dropped and rebuilt, it only holds data that can be fetched again.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		return err
	}

	var version string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if version != "" && version != schemaVersion {
		if _, err := s.db.Exec(`
			DROP TABLE IF EXISTS cards;
			DROP TABLE IF EXISTS run_cluster_records;
			DROP TABLE IF EXISTS run_clusters;
			DROP TABLE IF EXISTS runs;
			DROP TABLE IF EXISTS subject_tree_numbers;
			DROP TABLE IF EXISTS subjects;
			DROP TABLE IF EXISTS record_subjects;
			DROP TABLE IF EXISTS records;
		`); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			abstract TEXT NOT NULL,
			authors TEXT NOT NULL,
			journal TEXT NOT NULL,
			volume TEXT NOT NULL,
			issue TEXT NOT NULL,
			pub_date TEXT NOT NULL,
			cited_by TEXT NOT NULL,
			impact_score REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS record_subjects (
			record_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			subject_id TEXT NOT NULL,
			PRIMARY KEY (record_id, position)
		);
		CREATE TABLE IF NOT EXISTS subjects (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			name TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS subject_tree_numbers (
			subject_seq INTEGER NOT NULL,
			position INTEGER NOT NULL,
			tree_number TEXT NOT NULL,
			PRIMARY KEY (subject_seq, position)
		);
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			min_cluster_size INTEGER NOT NULL,
			min_lineage_depth INTEGER NOT NULL,
			excluded_branches TEXT NOT NULL,
			stats TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS run_clusters (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			subject_id TEXT NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		);
		CREATE TABLE IF NOT EXISTS run_cluster_records (
			run_id TEXT NOT NULL,
			cluster_position INTEGER NOT NULL,
			position INTEGER NOT NULL,
			record_id TEXT NOT NULL,
			PRIMARY KEY (run_id, cluster_position, position)
		);
		CREATE TABLE IF NOT EXISTS cards (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			record_id TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
		CREATE INDEX IF NOT EXISTS idx_cards_record ON cards(record_id);
		CREATE INDEX IF NOT EXISTS idx_tree_numbers ON subject_tree_numbers(tree_number);

		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', '` + schemaVersion + `');
	`)
	return err
}
