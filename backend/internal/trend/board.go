package trend

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"movierec/backend/internal/model"
	"movierec/backend/pkg/logger"
)

// topMoviesKey is the single global sorted set, keyed by title.
// Titles are the natural key here: the board is display oriented
// and join free.
const topMoviesKey = "top_movies"

// Board maintains the global trend ranking in a Redis sorted set.
// The board is best-effort: an unreachable store degrades every
// operation to a no-op or an empty result and never blocks the
// rating critical path.
type Board struct {
	client *redis.Client
	logger *zap.Logger
}

// NewBoard creates a new trend board. A nil client is accepted and
// leaves the board permanently degraded.
func NewBoard(client *redis.Client) *Board {
	return &Board{
		client: client,
		logger: logger.Get(),
	}
}

// Close closes the underlying client
func (b *Board) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

// IncrementScore adds amount to the entry keyed by title, creating it
// with that value if absent. The increment is atomic at the store
// level, so concurrent calls on one title sum commutatively.
func (b *Board) IncrementScore(ctx context.Context, title string, amount float64) {
	if b.client == nil {
		return
	}
	if err := b.client.ZIncrBy(ctx, topMoviesKey, amount, title).Err(); err != nil {
		b.logger.Warn("Trend score update failed",
			zap.String("title", title),
			zap.Float64("amount", amount),
			zap.Error(err),
		)
	}
}

// GetTop returns up to limit entries in descending score order.
// Tie order between equal scores is the store's secondary order and
// is not specified.
func (b *Board) GetTop(ctx context.Context, limit int) []model.TrendEntry {
	if b.client == nil || limit <= 0 {
		return []model.TrendEntry{}
	}

	rows, err := b.client.ZRevRangeWithScores(ctx, topMoviesKey, 0, int64(limit-1)).Result()
	if err != nil {
		b.logger.Warn("Trend board read failed", zap.Error(err))
		return []model.TrendEntry{}
	}

	entries := make([]model.TrendEntry, 0, len(rows))
	for _, z := range rows {
		title, _ := z.Member.(string)
		entries = append(entries, model.TrendEntry{Title: title, Score: z.Score})
	}
	return entries
}

// Health reports store connectivity as "connected" or "disconnected"
func (b *Board) Health(ctx context.Context) string {
	if b.client == nil {
		return "disconnected"
	}
	if err := b.client.Ping(ctx).Err(); err != nil {
		return "disconnected"
	}
	return "connected"
}
