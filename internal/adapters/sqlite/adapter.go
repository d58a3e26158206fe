// Package sqlite provides a SQLite-backed implementation of the document
// store ports, used as the local-dev storage driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/ratify/internal/core/domain"
)

// Adapter implements the album and profile repository ports on SQLite.
// Every update runs in a serializable transaction; with SQLite's single
// writer that gives the per-document read-modify-write atomicity the
// upsert protocol requires.
type Adapter struct {
	db *sql.DB
}

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// querier is satisfied by both *sql.DB and *sql.Tx so the read helpers can
// run inside and outside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// GetAlbum loads an album aggregate with its reviews in insertion order.
func (a *Adapter) GetAlbum(ctx context.Context, albumID string) (domain.AlbumRatings, error) {
	return getAlbum(ctx, a.db, albumID)
}

// UpdateAlbum applies mutate to the aggregate inside one transaction.
// A missing document yields the zero aggregate to mutate.
func (a *Adapter) UpdateAlbum(ctx context.Context, albumID string, mutate func(domain.AlbumRatings) (domain.AlbumRatings, error)) (domain.AlbumRatings, error) {
	tx, err := a.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return domain.AlbumRatings{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safety net: auto-rollback if we error before commit

	cur, err := getAlbum(ctx, tx, albumID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.AlbumRatings{}, err
	}

	next, err := mutate(cur)
	if err != nil {
		return domain.AlbumRatings{}, err
	}

	if err := saveAlbum(ctx, tx, next); err != nil {
		return domain.AlbumRatings{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.AlbumRatings{}, fmt.Errorf("transaction commit failed: %w", err)
	}
	return next, nil
}

// ListTopAlbums returns up to limit aggregates ordered by average rating.
func (a *Adapter) ListTopAlbums(ctx context.Context, limit int) ([]domain.AlbumRatings, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT album_id FROM albums
		ORDER BY average_rating DESC, review_count DESC, album_id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top albums: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan album id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate top albums: %w", err)
	}

	albums := make([]domain.AlbumRatings, 0, len(ids))
	for _, id := range ids {
		album, err := getAlbum(ctx, a.db, id)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	return albums, nil
}

// GetProfile loads a user profile with its album entries in insertion order.
func (a *Adapter) GetProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	return getProfile(ctx, a.db, userID)
}

// UpdateProfile applies mutate to the profile inside one transaction.
func (a *Adapter) UpdateProfile(ctx context.Context, userID string, mutate func(domain.UserProfile) (domain.UserProfile, error)) (domain.UserProfile, error) {
	tx, err := a.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cur, err := getProfile(ctx, tx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.UserProfile{}, err
	}

	next, err := mutate(cur)
	if err != nil {
		return domain.UserProfile{}, err
	}

	if err := saveProfile(ctx, tx, next); err != nil {
		return domain.UserProfile{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.UserProfile{}, fmt.Errorf("transaction commit failed: %w", err)
	}
	return next, nil
}

func getAlbum(ctx context.Context, q querier, albumID string) (domain.AlbumRatings, error) {
	row := q.QueryRowContext(ctx, `
		SELECT album_id, album_name, artist_name, album_image,
			average_rating, review_count, created_at, last_updated_at
		FROM albums WHERE album_id = ?
	`, albumID)

	var album domain.AlbumRatings
	if err := row.Scan(
		&album.AlbumID,
		&album.AlbumName,
		&album.ArtistName,
		&album.AlbumImage,
		&album.AverageRating,
		&album.ReviewCount,
		&album.CreatedAt,
		&album.LastUpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AlbumRatings{}, domain.ErrNotFound
		}
		return domain.AlbumRatings{}, fmt.Errorf("failed to load album: %w", err)
	}
	album.Reviews = []domain.Review{}

	rows, err := q.QueryContext(ctx, `
		SELECT review_id, user_id, user_name, rating, comment, created_at, updated_at
		FROM reviews WHERE album_id = ?
		ORDER BY position ASC
	`, albumID)
	if err != nil {
		return domain.AlbumRatings{}, fmt.Errorf("failed to load reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ReviewID, &r.UserID, &r.UserName, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return domain.AlbumRatings{}, fmt.Errorf("failed to scan review: %w", err)
		}
		album.Reviews = append(album.Reviews, r)
	}
	if err := rows.Err(); err != nil {
		return domain.AlbumRatings{}, fmt.Errorf("failed to iterate reviews: %w", err)
	}

	return album, nil
}

func saveAlbum(ctx context.Context, tx *sql.Tx, album domain.AlbumRatings) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO albums (album_id, album_name, artist_name, album_image,
			average_rating, review_count, created_at, last_updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(album_id) DO UPDATE SET
			album_name=excluded.album_name,
			artist_name=excluded.artist_name,
			album_image=excluded.album_image,
			average_rating=excluded.average_rating,
			review_count=excluded.review_count,
			last_updated_at=excluded.last_updated_at;
	`, album.AlbumID, album.AlbumName, album.ArtistName, album.AlbumImage,
		album.AverageRating, album.ReviewCount, album.CreatedAt, album.LastUpdatedAt); err != nil {
		return fmt.Errorf("failed to save album: %w", err)
	}

	// Full replace of the review list, like a document write.
	if _, err := tx.ExecContext(ctx, "DELETE FROM reviews WHERE album_id = ?", album.AlbumID); err != nil {
		return fmt.Errorf("failed to clear old reviews: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reviews (review_id, album_id, user_id, user_name, rating, comment, created_at, updated_at, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range album.Reviews {
		if _, err := stmt.ExecContext(ctx, r.ReviewID, album.AlbumID, r.UserID, r.UserName,
			r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt, i); err != nil {
			return fmt.Errorf("failed to save review %s: %w", r.ReviewID, err)
		}
	}
	return nil
}

func getProfile(ctx context.Context, q querier, userID string) (domain.UserProfile, error) {
	row := q.QueryRowContext(ctx, "SELECT user_id, user_name FROM profiles WHERE user_id = ?", userID)

	var profile domain.UserProfile
	if err := row.Scan(&profile.UserID, &profile.UserName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UserProfile{}, domain.ErrNotFound
		}
		return domain.UserProfile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	profile.Albums = []domain.AlbumEntry{}

	rows, err := q.QueryContext(ctx, `
		SELECT album_id, album_name, artist_name, album_image, rating, comment, created_at, updated_at
		FROM profile_albums WHERE user_id = ?
		ORDER BY position ASC
	`, userID)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to load profile albums: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.AlbumEntry
		if err := rows.Scan(&e.AlbumID, &e.AlbumName, &e.ArtistName, &e.AlbumImage, &e.Rating, &e.Comment, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return domain.UserProfile{}, fmt.Errorf("failed to scan profile album: %w", err)
		}
		profile.Albums = append(profile.Albums, e)
	}
	if err := rows.Err(); err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to iterate profile albums: %w", err)
	}

	return profile, nil
}

func saveProfile(ctx context.Context, tx *sql.Tx, profile domain.UserProfile) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, user_name) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET user_name=excluded.user_name;
	`, profile.UserID, profile.UserName); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM profile_albums WHERE user_id = ?", profile.UserID); err != nil {
		return fmt.Errorf("failed to clear old profile albums: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO profile_albums (user_id, album_id, album_name, artist_name, album_image, rating, comment, created_at, updated_at, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range profile.Albums {
		if _, err := stmt.ExecContext(ctx, profile.UserID, e.AlbumID, e.AlbumName, e.ArtistName, e.AlbumImage,
			e.Rating, e.Comment, e.CreatedAt, e.UpdatedAt, i); err != nil {
			return fmt.Errorf("failed to save profile album %s: %w", e.AlbumID, err)
		}
	}
	return nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS albums (
		album_id TEXT PRIMARY KEY,
		album_name TEXT NOT NULL,
		artist_name TEXT NOT NULL,
		album_image TEXT NOT NULL DEFAULT '',
		average_rating REAL NOT NULL DEFAULT 0,
		review_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		last_updated_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS reviews (
		review_id TEXT PRIMARY KEY,
		album_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		created_at DATETIME,
		updated_at DATETIME,
		position INTEGER NOT NULL,
		FOREIGN KEY(album_id) REFERENCES albums(album_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		user_name TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS profile_albums (
		user_id TEXT NOT NULL,
		album_id TEXT NOT NULL,
		album_name TEXT NOT NULL DEFAULT '',
		artist_name TEXT NOT NULL DEFAULT '',
		album_image TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		created_at DATETIME,
		updated_at DATETIME,
		position INTEGER NOT NULL,
		PRIMARY KEY (user_id, album_id),
		FOREIGN KEY(user_id) REFERENCES profiles(user_id) ON DELETE CASCADE
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}
