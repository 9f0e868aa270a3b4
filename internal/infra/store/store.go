// Package store provides sqlite persistence for named playlists.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	zlog "github.com/rs/zerolog/log"

	"github.com/immortal-forest/Tune-V2/internal/domain/playlist"
	"github.com/immortal-forest/Tune-V2/internal/domain/track"
)

// Errors
var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrPlaylistExists   = errors.New("playlist already exists")
	ErrItemNotFound     = errors.New("item not found")
)

// itemTablePattern guards the dynamically built per-playlist table names.
// Each playlist keeps its items in its own table, named after the playlist
// ID with the dashes stripped.
var itemTablePattern = regexp.MustCompile(`^playlist_[0-9a-f]{32}$`)

// Store is the sqlite-backed playlist store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the playlist database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	db.SetMaxOpenConns(5)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(initCtx, p); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "failed to apply pragma %q", p)
		}
	}

	if _, err := db.ExecContext(initCtx, `CREATE TABLE IF NOT EXISTS playlists (
		playlist_id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		member_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		modified_at DATETIME NOT NULL
	)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create playlists table")
	}

	zlog.Debug().Msgf("store: database opened: path=%s", path)
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreatePlaylist creates an empty playlist owned by a member.
func (s *Store) CreatePlaylist(ctx context.Context, name, memberID string) (*playlist.Playlist, error) {
	if name == "" {
		return nil, errors.New("playlist name is required")
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO playlists (playlist_id, name, member_id, created_at, modified_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, memberID, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrPlaylistExists
		}
		return nil, errors.Wrap(err, "failed to insert playlist")
	}

	table, err := itemTable(id)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %s (
		idx INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL UNIQUE,
		source INTEGER NOT NULL
	)`, table))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create item table")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit")
	}

	zlog.Info().Msgf("store: playlist created: id=%s name=%s member=%s", id, name, memberID)
	return &playlist.Playlist{
		ID:         id,
		Name:       name,
		MemberID:   memberID,
		CreatedAt:  now,
		ModifiedAt: now,
	}, nil
}

// AddItem appends an item to a playlist, identified by ID or name.
func (s *Store) AddItem(ctx context.Context, idOrName string, item playlist.Item) error {
	p, err := s.findMeta(ctx, idOrName)
	if err != nil {
		return err
	}
	table, err := itemTable(p.ID)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (title, url, source) VALUES (?, ?, ?)`, table),
		item.Title, item.URL, int(item.Source))
	if err != nil {
		return errors.Wrap(err, "failed to insert item")
	}
	return s.touch(ctx, p.ID)
}

// RemoveItem deletes the item at the given index from a playlist.
func (s *Store) RemoveItem(ctx context.Context, idOrName string, index int) error {
	p, err := s.findMeta(ctx, idOrName)
	if err != nil {
		return err
	}
	table, err := itemTable(p.ID)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE idx = ?`, table), index)
	if err != nil {
		return errors.Wrap(err, "failed to delete item")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read rows affected")
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return s.touch(ctx, p.ID)
}

// Find returns a playlist with its items, identified by ID or name.
func (s *Store) Find(ctx context.Context, idOrName string) (*playlist.Playlist, error) {
	p, err := s.findMeta(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	table, err := itemTable(p.ID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT idx, title, url, source FROM %s ORDER BY idx`, table))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query items")
	}
	defer rows.Close()

	for rows.Next() {
		var item playlist.Item
		var source int
		if err := rows.Scan(&item.Index, &item.Title, &item.URL, &source); err != nil {
			return nil, errors.Wrap(err, "failed to scan item")
		}
		item.Source = track.Source(source)
		p.Items = append(p.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate items")
	}
	return p, nil
}

// List returns all playlists without their items.
func (s *Store) List(ctx context.Context) ([]playlist.Playlist, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT playlist_id, name, member_id, created_at, modified_at FROM playlists ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query playlists")
	}
	defer rows.Close()

	var out []playlist.Playlist
	for rows.Next() {
		var p playlist.Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.MemberID, &p.CreatedAt, &p.ModifiedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan playlist")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate playlists")
	}
	return out, nil
}

// DeletePlaylist drops a playlist and its item table.
func (s *Store) DeletePlaylist(ctx context.Context, idOrName string) error {
	p, err := s.findMeta(ctx, idOrName)
	if err != nil {
		return err
	}
	table, err := itemTable(p.ID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE playlist_id = ?`, p.ID); err != nil {
		return errors.Wrap(err, "failed to delete playlist")
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
		return errors.Wrap(err, "failed to drop item table")
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit")
	}

	zlog.Info().Msgf("store: playlist deleted: id=%s name=%s", p.ID, p.Name)
	return nil
}

// findMeta loads playlist metadata by ID or name.
func (s *Store) findMeta(ctx context.Context, idOrName string) (*playlist.Playlist, error) {
	var p playlist.Playlist
	err := s.db.QueryRowContext(ctx,
		`SELECT playlist_id, name, member_id, created_at, modified_at FROM playlists WHERE playlist_id = ? OR name = ?`,
		idOrName, idOrName).
		Scan(&p.ID, &p.Name, &p.MemberID, &p.CreatedAt, &p.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query playlist")
	}
	return &p, nil
}

// touch bumps a playlist's modification time.
func (s *Store) touch(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE playlists SET modified_at = ? WHERE playlist_id = ?`, time.Now().UTC(), id)
	if err != nil {
		return errors.Wrap(err, "failed to touch playlist")
	}
	return nil
}

// itemTable builds and validates the per-playlist item table name.
func itemTable(playlistID string) (string, error) {
	name := "playlist_" + strings.ReplaceAll(playlistID, "-", "")
	if !itemTablePattern.MatchString(name) {
		return "", errors.Newf("invalid playlist id: %s", playlistID)
	}
	return name, nil
}
