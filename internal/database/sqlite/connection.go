/**
 * CONTEXT:   SQLite persistence for the task catalogue, week-master, and emitted schedules
 * INPUT:     Database path and connection pooling configuration
 * OUTPUT:    Production-ready SQLite connection with embedded schema migration
 * BUSINESS:  Engine runs are reproducible only if the inputs that produced them are kept
 * CHANGE:    Repurposed from the work-hour tracker's SQLite layer to the scheduling domain
 * RISK:      Low - standard database/sql package with SQLite, proper error handling
 */

package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteDB represents the SQLite database connection and operations.
type SQLiteDB struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// ConnectionConfig holds configuration for database connections.
type ConnectionConfig struct {
	DBPath          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns sensible defaults for SQLite connections.
func DefaultConnectionConfig(dbPath string) *ConnectionConfig {
	return &ConnectionConfig{
		DBPath:          dbPath,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

/**
 * CONTEXT:   Create new SQLite database connection with proper configuration
 * INPUT:     Connection configuration with paths and connection pooling settings
 * OUTPUT:    Configured SQLite database connection or error
 * BUSINESS:  Database is the durable record of task catalogues and generated schedules
 * CHANGE:    Initial SQLite connection implementation with production settings
 * RISK:      Medium - Database initialization critical for batch-run reproducibility
 */
func NewSQLiteDB(config *ConnectionConfig) (*SQLiteDB, error) {
	if config == nil {
		return nil, fmt.Errorf("connection config cannot be nil")
	}
	if config.DBPath == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if config.DBPath != ":memory:" {
		dbDir := filepath.Dir(config.DBPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	connectionString := config.DBPath +
		"?_foreign_keys=on" +
		"&_journal_mode=WAL" +
		"&_synchronous=NORMAL" +
		"&_timeout=5000"

	db, err := sql.Open("sqlite3", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	sqliteDB := &SQLiteDB{
		db:     db,
		dbPath: config.DBPath,
	}

	if err := sqliteDB.Initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	log.Printf("initialized scheduler database at %s", config.DBPath)

	return sqliteDB, nil
}

// Initialize applies the embedded schema and verifies connectivity.
func (db *SQLiteDB) Initialize() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	return nil
}

// WithTransaction executes fn inside a transaction, rolling back on any error.
func (db *SQLiteDB) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DB returns the underlying connection for repository implementations.
func (db *SQLiteDB) DB() *sql.DB {
	return db.db
}

func (db *SQLiteDB) DBPath() string {
	return db.dbPath
}

// Ping performs a basic connectivity check.
func (db *SQLiteDB) Ping(ctx context.Context) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if err := db.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Stats returns basic row counts for the catalogue, week-master, and schedule tables.
func (db *SQLiteDB) Stats(ctx context.Context) (map[string]int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	stats := make(map[string]int)
	tables := []string{"tasks", "week_master", "schedule_runs", "occurrences"}
	for _, table := range tables {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := db.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats[table] = count
	}
	return stats, nil
}

// Close closes the underlying database connection.
func (db *SQLiteDB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.db == nil {
		return nil
	}

	if err := db.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	db.db = nil
	return nil
}
