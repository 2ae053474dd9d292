package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"jobboard-backend/internal/logger"
	"jobboard-backend/internal/metrics"
	"jobboard-backend/internal/models"
)

const (
	ActivityLogPattern   = "activity_logs:*"
	RecentActivityKeyFmt = "activity_logs:recent:%d"
)

// RecordStore is the uncached activity-log store.
type RecordStore interface {
	FetchRecords(ctx context.Context, limit int) ([]models.LogRecord, error)
	Create(ctx context.Context, req *models.CreateLogRequest) (*models.LogRecord, error)
}

// CachedSource is a read-through cache in front of a RecordStore.
// Redis failures fall back to the wrapped store.
type CachedSource struct {
	source RecordStore
	ttl    time.Duration
}

func NewCachedSource(source RecordStore, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, ttl: ttl}
}

func (c *CachedSource) FetchRecords(ctx context.Context, limit int) ([]models.LogRecord, error) {
	key := fmt.Sprintf(RecentActivityKeyFmt, limit)

	if data, ok := GetCached(ctx, key); ok {
		var records []models.LogRecord
		if err := json.Unmarshal(data, &records); err == nil {
			metrics.ActivityLogCacheResults.WithLabelValues("hit").Inc()
			return records, nil
		}
		metrics.ActivityLogCacheResults.WithLabelValues("error").Inc()
		logger.Named("cache").Warn("discarding undecodable cache entry", zap.String("key", key))
	} else {
		metrics.ActivityLogCacheResults.WithLabelValues("miss").Inc()
	}

	records, err := c.source.FetchRecords(ctx, limit)
	if err != nil {
		return nil, err
	}

	if c.ttl > 0 {
		if data, err := json.Marshal(records); err == nil {
			SetCached(ctx, key, data, c.ttl)
		}
	}
	return records, nil
}

// Create writes through to the store and drops every cached fetch.
func (c *CachedSource) Create(ctx context.Context, req *models.CreateLogRequest) (*models.LogRecord, error) {
	rec, err := c.source.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	InvalidateActivityLogCaches(ctx)
	return rec, nil
}

// InvalidateActivityLogCaches clears every cached activity-log fetch.
// Called when: a new entry is recorded
func InvalidateActivityLogCaches(ctx context.Context) {
	InvalidatePattern(ctx, ActivityLogPattern)
}
