package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"movierec/backend/internal/model"
	"movierec/backend/pkg/apperrors"
	"movierec/backend/pkg/logger"
)

const (
	moviesCollection  = "movies"
	ratingsCollection = "ratings"

	// Movies are immutable in this scope, so cached lookups can be
	// generous without staleness concerns.
	lookupCacheTTL  = 5 * time.Minute
	searchCacheTTL  = 1 * time.Minute
	searchCacheSize = 512
)

// Store handles all MongoDB catalog operations: movie lookup/search
// and the append-only rating history.
type Store struct {
	client  *mongo.Client
	movies  *mongo.Collection
	ratings *mongo.Collection
	byID    *gocache.Cache
	search  *searchCache[[]model.Movie]
	logger  *zap.Logger
}

// NewStore creates a new catalog store. A nil client is accepted and
// leaves the store in a degraded state where every operation reports
// the catalog as unavailable.
func NewStore(client *mongo.Client, dbName string) *Store {
	s := &Store{
		client: client,
		byID:   gocache.New(lookupCacheTTL, 2*lookupCacheTTL),
		search: newSearchCache[[]model.Movie](searchCacheSize, searchCacheTTL),
		logger: logger.Get(),
	}
	if client != nil {
		db := client.Database(dbName)
		s.movies = db.Collection(moviesCollection)
		s.ratings = db.Collection(ratingsCollection)
	}
	return s
}

// Close disconnects the underlying client
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// GetMovieByID returns the movie with the given identifier, or a
// not-found error when no document matches. Hits are cached: this
// lookup sits on the rating critical path as the title resolution
// step, and movies never change once loaded.
func (s *Store) GetMovieByID(ctx context.Context, movieID string) (*model.Movie, error) {
	if cached, ok := s.byID.Get(movieID); ok {
		m := cached.(model.Movie)
		return &m, nil
	}
	if s.movies == nil {
		return nil, apperrors.NewStoreUnavailable("mongodb", nil)
	}

	var m model.Movie
	err := s.movies.FindOne(ctx, bson.M{"_id": movieID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewMovieNotFound(movieID)
		}
		return nil, apperrors.NewStoreUnavailable("mongodb", err)
	}

	s.byID.Set(movieID, m, gocache.DefaultExpiration)
	return &m, nil
}

// SearchByTitle runs a case-insensitive substring match over movie
// titles, capped at limit results. The result order carries no
// relevance semantics. A blank query is rejected before any store
// access.
func (s *Store) SearchByTitle(ctx context.Context, query string, limit int) ([]model.Movie, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.ErrBlankQuery
	}
	if s.movies == nil {
		return nil, apperrors.NewStoreUnavailable("mongodb", nil)
	}
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("%s|%d", query, limit)
	if cached, ok := s.search.Get(cacheKey); ok {
		return cached, nil
	}

	filter := bson.M{"title": primitive.Regex{Pattern: query, Options: "i"}}
	cursor, err := s.movies.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("mongodb", err)
	}
	defer cursor.Close(ctx)

	results := make([]model.Movie, 0, limit)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, apperrors.NewStoreUnavailable("mongodb", err)
	}

	s.search.Set(cacheKey, results)
	return results, nil
}

// InsertRating appends a rating event. Unknown movie identifiers are
// accepted; this layer enforces no referential integrity.
func (s *Store) InsertRating(ctx context.Context, userID, movieID string, rating int, ratedTimeMs int64) error {
	if s.ratings == nil {
		return apperrors.NewRatingWriteFailed(userID, movieID, apperrors.NewStoreUnavailable("mongodb", nil))
	}

	doc := model.Rating{
		ID:        uuid.NewString(),
		UserID:    userID,
		MovieID:   movieID,
		Rating:    rating,
		RatedTime: ratedTimeMs,
	}
	if _, err := s.ratings.InsertOne(ctx, doc); err != nil {
		s.logger.Error("Rating insert failed",
			zap.String("user_id", userID),
			zap.String("movie_id", movieID),
			zap.Error(err),
		)
		return apperrors.NewRatingWriteFailed(userID, movieID, err)
	}
	return nil
}

// Health reports store connectivity as "connected" or "disconnected"
func (s *Store) Health(ctx context.Context) string {
	if s.client == nil {
		return "disconnected"
	}
	if err := s.client.Ping(ctx, nil); err != nil {
		return "disconnected"
	}
	return "connected"
}
