package rating

import (
	"context"
	"time"

	"go.uber.org/zap"

	"movierec/backend/internal/model"
	"movierec/backend/pkg/apperrors"
	"movierec/backend/pkg/logger"
)

// PlaceholderTitle labels trend and graph writes when the movie
// cannot be resolved in the catalog.
const PlaceholderTitle = "Unknown"

// CatalogStore is the durable store for movie metadata and the
// rating history.
type CatalogStore interface {
	GetMovieByID(ctx context.Context, movieID string) (*model.Movie, error)
	InsertRating(ctx context.Context, userID, movieID string, rating int, ratedTimeMs int64) error
}

// TrendBoard maintains the global popularity ranking. Writes are
// best-effort and must never return an error to the caller.
type TrendBoard interface {
	IncrementScore(ctx context.Context, title string, amount float64)
}

// SocialGraph maintains the LIKES graph. Writes are best-effort and
// must never return an error to the caller.
type SocialGraph interface {
	UpsertLike(ctx context.Context, userID, movieID, title string)
}

// Orchestrator fans a rating event out to the three stores. The
// catalog insert is the durable source of truth; the trend and graph
// writes are an ordered list of independent best-effort steps with
// no compensating transactions. The stores are injected so the core
// stays testable with fake adapters.
type Orchestrator struct {
	catalog CatalogStore
	trend   TrendBoard
	social  SocialGraph
	logger  *zap.Logger
	now     func() time.Time
}

// NewOrchestrator creates a new rating orchestrator
func NewOrchestrator(catalog CatalogStore, trend TrendBoard, social SocialGraph) *Orchestrator {
	return &Orchestrator{
		catalog: catalog,
		trend:   trend,
		social:  social,
		logger:  logger.Get(),
		now:     time.Now,
	}
}

// SubmitRating validates and persists one rating event.
//
// Order is fixed: catalog insert, then trend increment, then like
// upsert. The call succeeds once the catalog insert has succeeded;
// enrichment failures are logged and swallowed, and the three stores
// converge eventually (the trend score is a commutative sum, the
// graph merge is idempotent).
func (o *Orchestrator) SubmitRating(ctx context.Context, userID, movieID string, ratingValue int) error {
	if !model.ValidRating(ratingValue) {
		return apperrors.NewInvalidRating(ratingValue)
	}

	// Durable write first. A failure here is the only one surfaced.
	ratedTime := o.now().UnixMilli()
	if err := o.catalog.InsertRating(ctx, userID, movieID, ratingValue, ratedTime); err != nil {
		return err
	}

	// Best-effort title resolution. An unknown movie does not abort
	// the flow; enrichment writes fall back to a placeholder label.
	title := PlaceholderTitle
	if m, err := o.catalog.GetMovieByID(ctx, movieID); err == nil {
		title = m.Title
	} else if !apperrors.IsNotFound(err) {
		o.logger.Warn("Title resolution failed",
			zap.String("movie_id", movieID),
			zap.Error(err),
		)
	}

	o.trend.IncrementScore(ctx, title, float64(ratingValue))
	o.social.UpsertLike(ctx, userID, movieID, title)

	o.logger.Debug("Rating submitted",
		zap.String("user_id", userID),
		zap.String("movie_id", movieID),
		zap.Int("rating", ratingValue),
		zap.String("title", title),
	)
	return nil
}
