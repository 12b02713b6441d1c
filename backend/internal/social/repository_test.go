package social

import (
	"context"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func TestRepository_NilDriverDegrades(t *testing.T) {
	repo := NewRepository(nil)
	ctx := context.Background()

	// Must not panic; the graph is an enrichment store.
	repo.UpsertLike(ctx, "alice", "m1", "Inception")

	recs := repo.RecommendForUser(ctx, "alice", 5)
	if len(recs) != 0 {
		t.Errorf("expected empty recommendations from degraded repository, got %v", recs)
	}

	if status := repo.Health(ctx); status != "disconnected" {
		t.Errorf("expected disconnected, got %q", status)
	}
}

// Integration tests require a running Neo4j instance
// bolt://localhost:7687 with neo4j/password credentials

func createTestDriver() (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext("bolt://localhost:7687", neo4j.BasicAuth("neo4j", "password", ""))
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}
	return driver, nil
}

func cleanupTestData(ctx context.Context, driver neo4j.DriverWithContext, prefix string) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx,
		"MATCH (u:User) WHERE u.user_id STARTS WITH $prefix DETACH DELETE u",
		map[string]interface{}{"prefix": prefix})
	_, _ = session.Run(ctx,
		"MATCH (m:Movie) WHERE m.movie_id STARTS WITH $prefix DETACH DELETE m",
		map[string]interface{}{"prefix": prefix})
}

func TestRepository_UpsertLike_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Skipf("Neo4j not available: %v", err)
	}
	defer driver.Close(ctx)

	prefix := "test-" + time.Now().Format("20060102150405") + "-"
	defer cleanupTestData(ctx, driver, prefix)

	repo := NewRepository(driver)
	userID := prefix + "alice"
	movieID := prefix + "m1"

	repo.UpsertLike(ctx, userID, movieID, "Inception")
	repo.UpsertLike(ctx, userID, movieID, "Inception")

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (u:User {user_id: $userID})-[l:LIKES]->(m:Movie {movie_id: $movieID})
		RETURN count(l) AS edges
	`, map[string]interface{}{"userID": userID, "movieID": movieID})
	if err != nil {
		t.Fatalf("edge count query failed: %v", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		t.Fatalf("expected a single count row: %v", err)
	}
	if edges := getInt64(record, "edges", -1); edges != 1 {
		t.Errorf("expected exactly 1 edge after duplicate upserts, got %d", edges)
	}
}

func TestRepository_RecommendForUser_PathCounting(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Skipf("Neo4j not available: %v", err)
	}
	defer driver.Close(ctx)

	prefix := "test-" + time.Now().Format("20060102150405") + "-"
	defer cleanupTestData(ctx, driver, prefix)

	repo := NewRepository(driver)
	u := prefix + "u"
	u2 := prefix + "u2"
	u3 := prefix + "u3"
	a, b, cID, d := prefix+"A", prefix+"B", prefix+"C", prefix+"D"

	// u likes {A,B}; u2 likes {A,B,C}; u3 likes {A,D}.
	repo.UpsertLike(ctx, u, a, "Movie A")
	repo.UpsertLike(ctx, u, b, "Movie B")
	repo.UpsertLike(ctx, u2, a, "Movie A")
	repo.UpsertLike(ctx, u2, b, "Movie B")
	repo.UpsertLike(ctx, u2, cID, "Movie C")
	repo.UpsertLike(ctx, u3, a, "Movie A")
	repo.UpsertLike(ctx, u3, d, "Movie D")

	recs := repo.RecommendForUser(ctx, u, 5)
	if len(recs) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %v", len(recs), recs)
	}

	byID := make(map[string]int64)
	for _, rec := range recs {
		if rec.MovieID == a || rec.MovieID == b {
			t.Errorf("already-liked movie %s must be excluded", rec.MovieID)
		}
		byID[rec.MovieID] = rec.Freq
	}
	// u2 shares two movies with u, contributing two paths to C.
	if byID[cID] != 2 {
		t.Errorf("expected freq(C)=2, got %d", byID[cID])
	}
	if byID[d] != 1 {
		t.Errorf("expected freq(D)=1, got %d", byID[d])
	}
	if recs[0].MovieID != cID {
		t.Errorf("expected C ranked first by frequency, got %s", recs[0].MovieID)
	}
}

func TestRepository_RecommendForUser_NoLikes(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Skipf("Neo4j not available: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	recs := repo.RecommendForUser(ctx, "no-such-user-"+time.Now().Format("150405"), 5)
	if len(recs) != 0 {
		t.Errorf("expected empty recommendations for unknown user, got %v", recs)
	}
}
