package firestore

import (
	"context"
	"errors"
	"fmt"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ewilliams-labs/ratify/internal/core/domain"
	"github.com/ewilliams-labs/ratify/internal/core/ports"
)

const (
	ratingsCollection = "ratings"
	usersCollection   = "users"
)

// Adapter stores album aggregates and user profiles in Firestore, one
// document per album and one per user. Read-modify-write goes through
// Firestore transactions so concurrent submissions for the same document
// serialize instead of losing updates.
type Adapter struct {
	client *gfs.Client
}

var (
	_ ports.AlbumRepository   = (*Adapter)(nil)
	_ ports.ProfileRepository = (*Adapter)(nil)
)

// NewAdapter connects to the given Firestore project.
func NewAdapter(ctx context.Context, projectID string) (*Adapter, error) {
	client, err := gfs.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore adapter: connect: %w", err)
	}
	return &Adapter{client: client}, nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}

func (a *Adapter) GetAlbum(ctx context.Context, albumID string) (domain.AlbumRatings, error) {
	snap, err := a.client.Collection(ratingsCollection).Doc(albumID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.AlbumRatings{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.AlbumRatings{}, fmt.Errorf("firestore adapter: get album %q: %w", albumID, err)
	}
	var doc albumDoc
	if err := snap.DataTo(&doc); err != nil {
		return domain.AlbumRatings{}, fmt.Errorf("firestore adapter: decode album %q: %w", albumID, err)
	}
	return doc.toDomain(albumID), nil
}

func (a *Adapter) UpdateAlbum(ctx context.Context, albumID string, mutate func(domain.AlbumRatings) (domain.AlbumRatings, error)) (domain.AlbumRatings, error) {
	ref := a.client.Collection(ratingsCollection).Doc(albumID)
	var updated domain.AlbumRatings
	err := a.client.RunTransaction(ctx, func(ctx context.Context, tx *gfs.Transaction) error {
		var current domain.AlbumRatings
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
			// First review for this album creates the document.
		case err != nil:
			return err
		default:
			var doc albumDoc
			if err := snap.DataTo(&doc); err != nil {
				return err
			}
			current = doc.toDomain(albumID)
		}
		updated, err = mutate(current)
		if err != nil {
			return err
		}
		return tx.Set(ref, albumDocFromDomain(updated))
	})
	if err != nil {
		// Domain errors from mutate pass through unwrapped so callers
		// can match them with errors.Is.
		if isDomainErr(err) {
			return domain.AlbumRatings{}, err
		}
		return domain.AlbumRatings{}, fmt.Errorf("firestore adapter: update album %q: %w", albumID, err)
	}
	return updated, nil
}

func (a *Adapter) ListTopAlbums(ctx context.Context, limit int) ([]domain.AlbumRatings, error) {
	iter := a.client.Collection(ratingsCollection).
		OrderBy("averageRating", gfs.Desc).
		OrderBy("reviewCount", gfs.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var out []domain.AlbumRatings
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("firestore adapter: list top albums: %w", err)
		}
		var doc albumDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("firestore adapter: decode album %q: %w", snap.Ref.ID, err)
		}
		out = append(out, doc.toDomain(snap.Ref.ID))
	}
}

func (a *Adapter) GetProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	snap, err := a.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.UserProfile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("firestore adapter: get profile %q: %w", userID, err)
	}
	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return domain.UserProfile{}, fmt.Errorf("firestore adapter: decode profile %q: %w", userID, err)
	}
	return doc.toDomain(userID), nil
}

func (a *Adapter) UpdateProfile(ctx context.Context, userID string, mutate func(domain.UserProfile) (domain.UserProfile, error)) (domain.UserProfile, error) {
	ref := a.client.Collection(usersCollection).Doc(userID)
	var updated domain.UserProfile
	err := a.client.RunTransaction(ctx, func(ctx context.Context, tx *gfs.Transaction) error {
		var current domain.UserProfile
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			var doc profileDoc
			if err := snap.DataTo(&doc); err != nil {
				return err
			}
			current = doc.toDomain(userID)
		}
		updated, err = mutate(current)
		if err != nil {
			return err
		}
		return tx.Set(ref, profileDocFromDomain(updated))
	})
	if err != nil {
		if isDomainErr(err) {
			return domain.UserProfile{}, err
		}
		return domain.UserProfile{}, fmt.Errorf("firestore adapter: update profile %q: %w", userID, err)
	}
	return updated, nil
}

func isDomainErr(err error) bool {
	return errors.Is(err, domain.ErrInvalidRating) ||
		errors.Is(err, domain.ErrInvalidAlbum) ||
		errors.Is(err, domain.ErrUnauthenticated) ||
		errors.Is(err, domain.ErrNotFound)
}
