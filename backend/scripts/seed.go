package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"movierec/backend/internal/model"
	"movierec/backend/pkg/config"
	"movierec/backend/pkg/logger"
)

var sampleMovies = []model.Movie{
	{ID: "m1", Title: "Inception", Genre: "Sci-Fi", Year: 2010, Director: "Christopher Nolan"},
	{ID: "m2", Title: "Avatar", Genre: "Adventure", Year: 2009, Director: "James Cameron"},
	{ID: "m3", Title: "The Matrix", Genre: "Sci-Fi", Year: 1999, Director: "Wachowski Brothers"},
	{ID: "m4", Title: "Interstellar", Genre: "Sci-Fi", Year: 2014, Director: "Christopher Nolan"},
	{ID: "m5", Title: "The Dark Knight", Genre: "Action", Year: 2008, Director: "Christopher Nolan"},
	{ID: "m6", Title: "Pulp Fiction", Genre: "Crime", Year: 1994, Director: "Quentin Tarantino"},
	{ID: "m7", Title: "The Godfather", Genre: "Crime", Year: 1972, Director: "Francis Ford Coppola"},
	{ID: "m8", Title: "Fight Club", Genre: "Drama", Year: 1999, Director: "David Fincher"},
	{ID: "m9", Title: "Forrest Gump", Genre: "Drama", Year: 1994, Director: "Robert Zemeckis"},
	{ID: "m10", Title: "The Shawshank Redemption", Genre: "Drama", Year: 1994, Director: "Frank Darabont"},
	{ID: "m11", Title: "Titanic", Genre: "Romance", Year: 1997, Director: "James Cameron"},
	{ID: "m12", Title: "The Avengers", Genre: "Action", Year: 2012, Director: "Joss Whedon"},
	{ID: "m13", Title: "Jurassic Park", Genre: "Adventure", Year: 1993, Director: "Steven Spielberg"},
	{ID: "m14", Title: "Star Wars", Genre: "Sci-Fi", Year: 1977, Director: "George Lucas"},
	{ID: "m15", Title: "The Lord of the Rings", Genre: "Fantasy", Year: 2001, Director: "Peter Jackson"},
}

var initialScores = map[string]float64{
	"Inception": 25, "The Matrix": 30, "The Dark Knight": 28, "Interstellar": 22,
	"Pulp Fiction": 35, "The Godfather": 40, "The Shawshank Redemption": 38,
	"Forrest Gump": 32, "Titanic": 20, "The Avengers": 18, "Jurassic Park": 26,
	"Star Wars": 42, "The Lord of the Rings": 36, "Avatar": 15, "Fight Club": 24,
}

var sampleUsers = []string{"alice", "bob", "charlie", "diana", "eve", "frank", "grace"}

var sampleLikes = [][2]string{
	{"alice", "m1"}, {"alice", "m3"}, {"alice", "m5"}, {"alice", "m6"},
	{"bob", "m2"}, {"bob", "m4"}, {"bob", "m7"}, {"bob", "m12"},
	{"charlie", "m1"}, {"charlie", "m5"}, {"charlie", "m8"}, {"charlie", "m14"},
	{"diana", "m9"}, {"diana", "m10"}, {"diana", "m11"}, {"diana", "m15"},
	{"eve", "m14"}, {"eve", "m15"}, {"eve", "m13"}, {"eve", "m3"},
	{"frank", "m7"}, {"frank", "m6"}, {"frank", "m5"}, {"frank", "m8"},
	{"grace", "m11"}, {"grace", "m9"}, {"grace", "m4"}, {"grace", "m15"},
}

// user, movie, rating triples turned into historical rating events
var sampleRatings = []struct {
	User   string
	Movie  string
	Rating int
}{
	{"alice", "m1", 5}, {"alice", "m3", 5}, {"alice", "m5", 4}, {"alice", "m6", 5},
	{"bob", "m2", 4}, {"bob", "m4", 5}, {"bob", "m7", 5}, {"bob", "m12", 4},
	{"charlie", "m1", 5}, {"charlie", "m5", 5}, {"charlie", "m8", 4},
	{"diana", "m9", 5}, {"diana", "m10", 5}, {"diana", "m11", 4},
	{"eve", "m14", 5}, {"eve", "m15", 5}, {"eve", "m13", 4},
}

func main() {
	wipe := flag.Bool("wipe", false, "Clear existing data before seeding")
	flag.Parse()

	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	seedMongo(ctx, cfg, log, *wipe)
	seedRedis(ctx, cfg, log, *wipe)
	seedNeo4j(ctx, cfg, log, *wipe)

	log.Info("Seeding complete",
		zap.Int("movies", len(sampleMovies)),
		zap.Int("users", len(sampleUsers)),
		zap.Int("likes", len(sampleLikes)),
		zap.Int("ratings", len(sampleRatings)),
	)
}

func seedMongo(ctx context.Context, cfg *config.Config, log *zap.Logger, wipe bool) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(ctx) }()

	db := client.Database(cfg.MongoDB)
	movies := db.Collection("movies")
	ratings := db.Collection("ratings")

	if wipe {
		if _, err := movies.DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatal("Failed to clear movies", zap.Error(err))
		}
		if _, err := ratings.DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatal("Failed to clear ratings", zap.Error(err))
		}
	}

	movieDocs := make([]interface{}, 0, len(sampleMovies))
	for _, m := range sampleMovies {
		movieDocs = append(movieDocs, m)
	}
	if _, err := movies.InsertMany(ctx, movieDocs); err != nil {
		log.Fatal("Failed to insert movies", zap.Error(err))
	}

	baseTS := time.Now().UnixMilli()
	ratingDocs := make([]interface{}, 0, len(sampleRatings))
	for i, r := range sampleRatings {
		ratingDocs = append(ratingDocs, model.Rating{
			UserID:    r.User,
			MovieID:   r.Movie,
			Rating:    r.Rating,
			RatedTime: baseTS - int64(len(sampleRatings)-i)*1000,
		})
	}
	if _, err := ratings.InsertMany(ctx, ratingDocs); err != nil {
		log.Fatal("Failed to insert ratings", zap.Error(err))
	}

	log.Info("MongoDB seeded", zap.Int("movies", len(sampleMovies)), zap.Int("ratings", len(sampleRatings)))
}

func seedRedis(ctx context.Context, cfg *config.Config, log *zap.Logger, wipe bool) {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() { _ = client.Close() }()

	if wipe {
		if err := client.Del(ctx, "top_movies").Err(); err != nil {
			log.Fatal("Failed to clear trend board", zap.Error(err))
		}
	}

	members := make([]redis.Z, 0, len(initialScores))
	for title, score := range initialScores {
		members = append(members, redis.Z{Score: score, Member: title})
	}
	if err := client.ZAdd(ctx, "top_movies", members...).Err(); err != nil {
		log.Fatal("Failed to seed trend board", zap.Error(err))
	}

	log.Info("Redis seeded", zap.Int("titles", len(initialScores)))
}

func seedNeo4j(ctx context.Context, cfg *config.Config, log *zap.Logger, wipe bool) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer func() { _ = driver.Close(ctx) }()

	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if wipe {
		if _, err := session.Run(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
			log.Fatal("Failed to clear graph", zap.Error(err))
		}
	}

	titles := make(map[string]string, len(sampleMovies))
	for _, m := range sampleMovies {
		titles[m.ID] = m.Title
	}

	for _, userID := range sampleUsers {
		if _, err := session.Run(ctx, "MERGE (u:User {user_id: $userID})",
			map[string]interface{}{"userID": userID}); err != nil {
			log.Fatal("Failed to create user node", zap.Error(err))
		}
	}

	for _, like := range sampleLikes {
		userID, movieID := like[0], like[1]
		_, err := session.Run(ctx, `
			MERGE (u:User {user_id: $userID})
			MERGE (m:Movie {movie_id: $movieID, title: $title})
			MERGE (u)-[:LIKES]->(m)
		`, map[string]interface{}{
			"userID":  userID,
			"movieID": movieID,
			"title":   titles[movieID],
		})
		if err != nil {
			log.Fatal("Failed to create like edge", zap.Error(err))
		}
	}

	log.Info("Neo4j seeded", zap.Int("users", len(sampleUsers)), zap.Int("likes", len(sampleLikes)))
}
