package social

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"movierec/backend/internal/model"
	"movierec/backend/pkg/logger"
)

// Repository handles all Neo4j social graph operations: User and
// Movie nodes joined by LIKES edges, and the two-hop traversal that
// powers recommendations.
//
// The graph is an enrichment store. An unreachable driver degrades
// writes to no-ops and reads to empty results rather than surfacing
// errors to the caller.
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new social graph repository. A nil driver
// is accepted and leaves the repository permanently degraded.
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	if r.driver == nil {
		return nil
	}
	return r.driver.Close(context.Background())
}

// UpsertLike merges the User node, the Movie node and the LIKES edge
// between them. MERGE keys the movie on the (movie_id, title) pair
// and guarantees at most one edge per (user, movie), so repeated
// calls with identical arguments are no-ops.
func (r *Repository) UpsertLike(ctx context.Context, userID, movieID, title string) {
	if r.driver == nil {
		return
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (u:User {user_id: $userID})
		MERGE (m:Movie {movie_id: $movieID, title: $title})
		MERGE (u)-[:LIKES]->(m)
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"userID":  userID,
		"movieID": movieID,
		"title":   title,
	})
	if err != nil {
		r.logger.Warn("Like upsert failed",
			zap.String("user_id", userID),
			zap.String("movie_id", movieID),
			zap.Error(err),
		)
	}
}

// RecommendForUser runs the two-hop collaborative filtering
// traversal: movies liked by users who share at least one liked
// movie with userID, excluding movies userID already likes. freq
// counts traversal paths, so a user sharing two movies with userID
// contributes 2 to each of their other likes. Order between equal
// frequencies follows the store's secondary order and is not
// specified.
func (r *Repository) RecommendForUser(ctx context.Context, userID string, limit int) []model.Recommendation {
	if r.driver == nil || limit <= 0 {
		return []model.Recommendation{}
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {user_id: $userID})-[:LIKES]->(m:Movie)<-[:LIKES]-(other:User)-[:LIKES]->(rec:Movie)
		WHERE NOT (u)-[:LIKES]->(rec)
		RETURN rec.movie_id AS movie_id, rec.title AS title, count(*) AS freq
		ORDER BY freq DESC
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
		"limit":  limit,
	})
	if err != nil {
		r.logger.Warn("Recommendation query failed", zap.String("user_id", userID), zap.Error(err))
		return []model.Recommendation{}
	}

	recs := []model.Recommendation{}
	for result.Next(ctx) {
		record := result.Record()
		recs = append(recs, model.Recommendation{
			MovieID: getString(record, "movie_id", ""),
			Title:   getString(record, "title", ""),
			Freq:    getInt64(record, "freq", 0),
		})
	}
	if err := result.Err(); err != nil {
		r.logger.Warn("Recommendation result read failed", zap.String("user_id", userID), zap.Error(err))
		return []model.Recommendation{}
	}
	return recs
}

// Health reports store connectivity as "connected" or "disconnected"
func (r *Repository) Health(ctx context.Context) string {
	if r.driver == nil {
		return "disconnected"
	}
	if err := r.driver.VerifyConnectivity(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}

// Helper functions

func getString(record *neo4j.Record, key string, defaultValue string) string {
	val, ok := record.Get(key)
	if !ok {
		return defaultValue
	}
	if str, ok := val.(string); ok {
		return str
	}
	return defaultValue
}

func getInt64(record *neo4j.Record, key string, defaultValue int64) int64 {
	val, ok := record.Get(key)
	if !ok {
		return defaultValue
	}
	if n, ok := val.(int64); ok {
		return n
	}
	return defaultValue
}
