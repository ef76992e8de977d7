package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mindpilot-labs/mindpilot/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// cache and usage store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.mindpilot/data/mindpilot.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".mindpilot", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "mindpilot.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// ReportCacheStore returns a ReportCacheStore interface backed by this store.
func (s *Store) ReportCacheStore() driven.ReportCacheStore {
	return &cacheStore{store: s}
}

// UsageStore returns a UsageStore interface backed by this store.
func (s *Store) UsageStore() driven.UsageStore {
	return &usageStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
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
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
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

// ==================== Report Cache Store ====================

// cacheStore implements driven.ReportCacheStore.
type cacheStore struct {
	store *Store
}

var _ driven.ReportCacheStore = (*cacheStore)(nil)

// Get retrieves the cache entry for a key. Expired entries are returned
// as-is; expiry is the caller's concern.
func (c *cacheStore) Get(ctx context.Context, key domain.CacheKey) (*domain.CacheEntry, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT payload, payload_enriched, created_at, expires_at
		FROM analysis_cache
		WHERE kind = ? AND depth = ? AND enriched = ? AND source_ref = ?
	`, string(key.Kind), string(key.Depth), boolToInt(key.Enriched), key.SourceRef)

	entry := domain.CacheEntry{Key: key}
	var enriched int
	var createdAt, expiresAt time.Time
	if err := row.Scan(&entry.Payload, &enriched, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning cache entry: %w", err)
	}

	entry.Enriched = enriched != 0
	entry.CreatedAt = createdAt.UTC()
	entry.ExpiresAt = expiresAt.UTC()
	return &entry, nil
}

// Put stores an entry, replacing any existing entry for the key.
func (c *cacheStore) Put(ctx context.Context, entry *domain.CacheEntry) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO analysis_cache (kind, depth, enriched, source_ref, payload, payload_enriched, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, depth, enriched, source_ref) DO UPDATE SET
			payload = excluded.payload,
			payload_enriched = excluded.payload_enriched,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, string(entry.Key.Kind), string(entry.Key.Depth), boolToInt(entry.Key.Enriched), entry.Key.SourceRef,
		entry.Payload, boolToInt(entry.Enriched), entry.CreatedAt.UTC(), entry.ExpiresAt.UTC())

	if err != nil {
		return fmt.Errorf("saving cache entry: %w", err)
	}
	return nil
}

// ==================== Usage Store ====================

// usageStore implements driven.UsageStore.
type usageStore struct {
	store *Store
}

var _ driven.UsageStore = (*usageStore)(nil)

// Record appends a usage record.
func (u *usageStore) Record(ctx context.Context, rec *domain.UsageRecord) error {
	_, err := u.store.db.ExecContext(ctx, `
		INSERT INTO usage_records (id, identity_kind, identity_value, depth, success, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, string(rec.Identity.Kind), rec.Identity.Value, string(rec.Depth),
		boolToInt(rec.Success), rec.CreatedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving usage record: %w", err)
	}
	return nil
}

// CountSince counts successful records for an identity at a depth.
func (u *usageStore) CountSince(
	ctx context.Context, identity domain.IdentityRef, depth domain.AnalysisDepth, since time.Time,
) (int, error) {
	row := u.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM usage_records
		WHERE identity_kind = ? AND identity_value = ? AND depth = ? AND success = 1 AND created_at >= ?
	`, string(identity.Kind), identity.Value, string(depth), since.UTC())

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting usage records: %w", err)
	}
	return count, nil
}

// CountAllSince counts successful records for an identity across depths.
func (u *usageStore) CountAllSince(
	ctx context.Context, identity domain.IdentityRef, since time.Time,
) (int, error) {
	row := u.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM usage_records
		WHERE identity_kind = ? AND identity_value = ? AND success = 1 AND created_at >= ?
	`, string(identity.Kind), identity.Value, since.UTC())

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting usage records: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
