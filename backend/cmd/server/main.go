package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"movierec/backend/internal/catalog"
	"movierec/backend/internal/model"
	"movierec/backend/internal/rating"
	"movierec/backend/internal/social"
	"movierec/backend/internal/trend"
	"movierec/backend/pkg/apperrors"
	"movierec/backend/pkg/config"
	"movierec/backend/pkg/logger"
)

const (
	defaultRecommendLimit = 5
	defaultTopLimit       = 5
	defaultSearchLimit    = 10
	healthProbeTimeout    = 2 * time.Second
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting movie recommendation API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Connect the three stores. None of them is fatal at boot: a
	// store that cannot be reached leaves its adapter degraded and
	// the API comes up anyway, observable via /health.
	mongoClient := dialMongo(cfg, log)
	redisClient := dialRedis(cfg, log)
	neoDriver := dialNeo4j(cfg, log)

	catalogStore := catalog.NewStore(mongoClient, cfg.MongoDB)
	trendBoard := trend.NewBoard(redisClient)
	socialGraph := social.NewRepository(neoDriver)
	orchestrator := rating.NewOrchestrator(catalogStore, trendBoard, socialGraph)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreDialTimeout)
		defer cancel()
		_ = catalogStore.Close(ctx)
		_ = trendBoard.Close()
		_ = socialGraph.Close()
	}()

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(log, catalogStore, trendBoard, socialGraph, orchestrator)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// catalogAPI, trendAPI, socialAPI and ratingAPI are the handler-side
// views of the adapters, narrow enough to fake in tests.

type catalogAPI interface {
	GetMovieByID(ctx context.Context, movieID string) (*model.Movie, error)
	SearchByTitle(ctx context.Context, query string, limit int) ([]model.Movie, error)
	Health(ctx context.Context) string
}

type trendAPI interface {
	GetTop(ctx context.Context, limit int) []model.TrendEntry
	Health(ctx context.Context) string
}

type socialAPI interface {
	RecommendForUser(ctx context.Context, userID string, limit int) []model.Recommendation
	Health(ctx context.Context) string
}

type ratingAPI interface {
	SubmitRating(ctx context.Context, userID, movieID string, ratingValue int) error
}

// newRouter wires the HTTP surface over the adapters
func newRouter(log *zap.Logger, cat catalogAPI, board trendAPI, graph socialAPI, orch ratingAPI) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Movie Recommendation API", "docs": "/health"})
	})

	router.GET("/movie/:movie_id", func(c *gin.Context) {
		m, err := cat.GetMovieByID(c.Request.Context(), c.Param("movie_id"))
		if err != nil {
			if apperrors.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
				return
			}
			log.Error("Failed to fetch movie", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movie"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"movie": m})
	})

	router.GET("/movies/search", func(c *gin.Context) {
		q := c.Query("q")
		if strings.TrimSpace(q) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query 'q' is required"})
			return
		}
		limit := intQuery(c, "limit", defaultSearchLimit)

		movies, err := cat.SearchByTitle(c.Request.Context(), q, limit)
		if err != nil {
			if apperrors.IsValidation(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Error("Movie search failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"movies": movies})
	})

	router.GET("/top_movies", func(c *gin.Context) {
		limit := intQuery(c, "limit", defaultTopLimit)
		entries := board.GetTop(c.Request.Context(), limit)

		// Keep the [title, score] pair shape of the board rows
		pairs := make([][2]interface{}, 0, len(entries))
		for _, e := range entries {
			pairs = append(pairs, [2]interface{}{e.Title, e.Score})
		}
		c.JSON(http.StatusOK, gin.H{"top_movies": pairs})
	})

	router.POST("/rate", func(c *gin.Context) {
		var req struct {
			UserID  string `json:"user_id" binding:"required"`
			MovieID string `json:"movie_id" binding:"required"`
			Rating  int    `json:"rating" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := orch.SubmitRating(c.Request.Context(), req.UserID, req.MovieID, req.Rating); err != nil {
			if apperrors.IsValidation(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Error("Failed to submit rating", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store rating"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/recommend/:user_id", func(c *gin.Context) {
		limit := intQuery(c, "limit", defaultRecommendLimit)
		recs := graph.RecommendForUser(c.Request.Context(), c.Param("user_id"), limit)
		c.JSON(http.StatusOK, gin.H{"recommendations": recs})
	})

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
		defer cancel()

		var mongoStatus, redisStatus, neoStatus string
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { mongoStatus = cat.Health(gctx); return nil })
		g.Go(func() error { redisStatus = board.Health(gctx); return nil })
		g.Go(func() error { neoStatus = graph.Health(gctx); return nil })
		_ = g.Wait()

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"mongodb": mongoStatus,
			"redis":   redisStatus,
			"neo4j":   neoStatus,
		})
	})

	return router
}

func intQuery(c *gin.Context, key string, defaultValue int) int {
	if raw := c.Query(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// dialMongo connects the catalog store, returning nil on failure
func dialMongo(cfg *config.Config, log *zap.Logger) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreDialTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err == nil {
		err = client.Ping(ctx, nil)
	}
	if err != nil {
		log.Warn("MongoDB unreachable, catalog degraded", zap.String("uri", cfg.MongoURI), zap.Error(err))
		return nil
	}
	return client
}

// dialRedis connects the trend board, returning nil on failure
func dialRedis(cfg *config.Config, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		DialTimeout: cfg.StoreDialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, trend board degraded", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

// dialNeo4j connects the social graph, returning nil on failure
func dialNeo4j(cfg *config.Config, log *zap.Logger) neo4j.DriverWithContext {
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreDialTimeout)
		defer cancel()
		err = driver.VerifyConnectivity(ctx)
	}
	if err != nil {
		log.Warn("Neo4j unreachable, social graph degraded", zap.String("uri", cfg.Neo4jURI), zap.Error(err))
		return nil
	}
	return driver
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
