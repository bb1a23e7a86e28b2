package catalogindex

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"boxart/internal/catalog"
)

// Store manages the catalog index backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// SourceInfo identifies the catalog file an index was built from.
type SourceInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatSource captures SourceInfo for the given catalog file.
func StatSource(path string) (SourceInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SourceInfo{}, fmt.Errorf("stat catalog: %w", err)
	}
	return SourceInfo{Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Open initializes or connects to the index database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Fresh reports whether the index was built from the given source file state.
func (s *Store) Fresh(ctx context.Context, src SourceInfo) (bool, error) {
	var path string
	var size, mtime int64
	err := s.db.QueryRowContext(ctx,
		"SELECT path, size, mtime_unix FROM source_meta WHERE id = 1",
	).Scan(&path, &size, &mtime)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read source meta: %w", err)
	}
	return path == src.Path && size == src.Size && mtime == src.ModTime.Unix(), nil
}

// Rebuild replaces the indexed rows with the contents of cat in one
// transaction and records the source file state.
func (s *Store) Rebuild(ctx context.Context, cat *catalog.Catalog, src SourceInfo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM games", "DELETE FROM images", "DELETE FROM source_meta"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear index: %w", err)
		}
	}

	games, images := cat.Rows()

	insertGame, err := tx.PrepareContext(ctx,
		"INSERT INTO games (database_id, name, platform) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare game insert: %w", err)
	}
	defer insertGame.Close()
	for _, g := range games {
		if _, err := insertGame.ExecContext(ctx, g.DatabaseID, g.Name, g.Platform); err != nil {
			return fmt.Errorf("insert game %s: %w", g.DatabaseID, err)
		}
	}

	insertImage, err := tx.PrepareContext(ctx,
		"INSERT INTO images (database_id, region, type, file_name) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare image insert: %w", err)
	}
	defer insertImage.Close()
	for _, img := range images {
		if _, err := insertImage.ExecContext(ctx, img.DatabaseID, img.Region, img.Type, img.FileName); err != nil {
			return fmt.Errorf("insert image %s: %w", img.FileName, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO source_meta (id, path, size, mtime_unix, indexed_at) VALUES (1, ?, ?, ?, ?)",
		src.Path, src.Size, src.ModTime.Unix(), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("record source meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild tx: %w", err)
	}
	return nil
}

// Load reads the indexed rows back into a catalog.
func (s *Store) Load(ctx context.Context) (*catalog.Catalog, error) {
	gameRows, err := s.db.QueryContext(ctx, "SELECT database_id, name, platform FROM games")
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer gameRows.Close()

	var games []catalog.Game
	for gameRows.Next() {
		var g catalog.Game
		if err := gameRows.Scan(&g.DatabaseID, &g.Name, &g.Platform); err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}
		games = append(games, g)
	}
	if err := gameRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game rows: %w", err)
	}

	imageRows, err := s.db.QueryContext(ctx, "SELECT database_id, region, type, file_name FROM images")
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}
	defer imageRows.Close()

	var images []catalog.Image
	for imageRows.Next() {
		var img catalog.Image
		if err := imageRows.Scan(&img.DatabaseID, &img.Region, &img.Type, &img.FileName); err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		images = append(images, img)
	}
	if err := imageRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image rows: %w", err)
	}

	return catalog.New(games, images), nil
}

// Clear drops every indexed row and the source metadata.
func (s *Store) Clear(ctx context.Context) error {
	for _, stmt := range []string{"DELETE FROM games", "DELETE FROM images", "DELETE FROM source_meta"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear index: %w", err)
		}
	}
	return nil
}

// Counts returns the number of indexed games and images.
func (s *Store) Counts(ctx context.Context) (games int, images int, err error) {
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM games").Scan(&games); err != nil {
		return 0, 0, fmt.Errorf("count games: %w", err)
	}
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM images").Scan(&images); err != nil {
		return 0, 0, fmt.Errorf("count images: %w", err)
	}
	return games, images, nil
}
