package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/mentorlinq/mentorlinq-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// MentorDataSource defines the interface for mentor data fetching
type MentorDataSource interface {
	ListMentors(ctx context.Context) ([]*models.Mentor, error)
	GetMentorBySlug(ctx context.Context, slug string) (*models.Mentor, error)
}

const (
	mentorKeyPrefix  = "mentor:slug:"
	allMentorsKey    = "mentor:all"
	cacheCheckPeriod = 10 * time.Second
	maxRetries       = 3
	initialRetryWait = 2 * time.Second
)

// MentorCache serves the browse page from memory using slug-keyed
// storage. Individual entries never expire; the slug list carries the
// TTL, and a background refresher repopulates everything on that cadence.
type MentorCache struct {
	cache       *gocache.Cache
	dataSource  MentorDataSource
	mu          sync.RWMutex
	refreshing  bool
	ready       bool
	ttl         time.Duration
	lastRefresh time.Time
}

// NewMentorCache creates a new mentor cache
func NewMentorCache(dataSource MentorDataSource, ttlSeconds int) *MentorCache {
	return &MentorCache{
		cache:      gocache.New(gocache.NoExpiration, cacheCheckPeriod),
		dataSource: dataSource,
		ttl:        time.Duration(ttlSeconds) * time.Second,
	}
}

// Initialize performs the initial synchronous population and starts the
// periodic refresher. Call during startup before accepting requests.
func (mc *MentorCache) Initialize() error {
	logger.Info("Initializing mentor cache...")
	startTime := time.Now()

	if err := mc.refreshWithRetry(); err != nil {
		logger.Error("Failed to initialize mentor cache", zap.Error(err))
		return err
	}

	mc.mu.Lock()
	mc.ready = true
	mc.lastRefresh = time.Now()
	mc.mu.Unlock()

	logger.Info("Mentor cache initialized successfully",
		zap.Duration("duration", time.Since(startTime)))

	go mc.schedulePeriodicRefresh()

	return nil
}

// IsReady returns true if the cache has been successfully initialized
func (mc *MentorCache) IsReady() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.ready
}

// GetBySlug retrieves a single mentor by slug. Pure lookup, never
// touches the database on a miss.
func (mc *MentorCache) GetBySlug(slug string) (*models.Mentor, error) {
	if !mc.IsReady() {
		return nil, fmt.Errorf("cache not initialized")
	}

	data, found := mc.cache.Get(mentorKeyPrefix + slug)
	if !found {
		metrics.CacheMisses.WithLabelValues("mentor_by_slug").Inc()
		return nil, fmt.Errorf("mentor not found")
	}

	metrics.CacheHits.WithLabelValues("mentor_by_slug").Inc()

	mentor, ok := data.(*models.Mentor)
	if !ok {
		logger.Error("Invalid cache data type", zap.String("slug", slug))
		mc.cache.Delete(mentorKeyPrefix + slug)
		return nil, fmt.Errorf("invalid cache data")
	}

	return mentor, nil
}

// Get retrieves all cached mentors. Returns immediately; an expired
// slug list yields an empty result rather than a blocking fetch.
func (mc *MentorCache) Get() ([]*models.Mentor, error) {
	if !mc.IsReady() {
		return nil, fmt.Errorf("cache not initialized")
	}

	slugsData, found := mc.cache.Get(allMentorsKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("mentor_all").Inc()
		logger.Warn("All mentors list not in cache (expired), returning empty")
		return []*models.Mentor{}, nil
	}

	slugs, ok := slugsData.([]string)
	if !ok {
		logger.Error("Invalid cache data type for all mentors list")
		return []*models.Mentor{}, nil
	}

	metrics.CacheHits.WithLabelValues("mentor_all").Inc()

	mentors := make([]*models.Mentor, 0, len(slugs))
	for _, slug := range slugs {
		mentor, err := mc.GetBySlug(slug)
		if err != nil {
			// Skip missing mentors rather than failing the whole list
			continue
		}
		mentors = append(mentors, mentor)
	}

	return mentors, nil
}

// UpdateSingleMentor refreshes one cache entry from the database.
// Called after registration and profile picture uploads.
func (mc *MentorCache) UpdateSingleMentor(slug string) error {
	if !mc.IsReady() {
		return fmt.Errorf("cache not initialized")
	}

	mentor, err := mc.dataSource.GetMentorBySlug(context.Background(), slug)
	if err != nil {
		logger.Error("Failed to fetch mentor from data source",
			zap.String("slug", slug),
			zap.Error(err))
		return err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.cache.Set(mentorKeyPrefix+slug, mentor, gocache.NoExpiration)

	if err := mc.ensureMentorInListLocked(slug); err != nil {
		// Non-fatal, the entry itself is cached
		logger.Error("Failed to update all-mentors list", zap.Error(err))
	}

	logger.Info("Single mentor updated in cache", zap.String("slug", slug))
	return nil
}

// schedulePeriodicRefresh runs background refresh at TTL intervals
func (mc *MentorCache) schedulePeriodicRefresh() {
	ticker := time.NewTicker(mc.ttl)
	defer ticker.Stop()

	for range ticker.C {
		if err := mc.refreshInBackground(); err != nil {
			// Keep the scheduler alive, retry on next tick
			logger.Error("Scheduled cache refresh failed", zap.Error(err))
		}
	}
}

// refreshInBackground performs non-blocking background refresh
func (mc *MentorCache) refreshInBackground() error {
	mc.mu.Lock()
	if mc.refreshing {
		mc.mu.Unlock()
		logger.Debug("Refresh already in progress, skipping")
		return nil
	}
	mc.refreshing = true
	mc.mu.Unlock()

	defer func() {
		mc.mu.Lock()
		mc.refreshing = false
		mc.mu.Unlock()
	}()

	startTime := time.Now()

	mentors, err := mc.dataSource.ListMentors(context.Background())
	if err != nil {
		logger.Error("Failed to fetch mentors in background refresh", zap.Error(err))
		return err
	}

	mc.populateCache(mentors)

	mc.mu.Lock()
	mc.lastRefresh = time.Now()
	mc.mu.Unlock()

	logger.Info("Background refresh completed",
		zap.Int("count", len(mentors)),
		zap.Duration("duration", time.Since(startTime)))

	return nil
}

// refreshWithRetry performs a refresh with exponential backoff
func (mc *MentorCache) refreshWithRetry() error {
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			//nolint:gosec // G115: attempt bounded by maxRetries (3), no overflow possible
			waitTime := initialRetryWait * time.Duration(1<<uint(attempt-1))
			logger.Info("Retrying cache refresh",
				zap.Int("attempt", attempt+1),
				zap.Duration("wait_time", waitTime))
			time.Sleep(waitTime)
		}

		mentors, fetchErr := mc.dataSource.ListMentors(context.Background())
		if fetchErr != nil {
			err = fetchErr
			logger.Error("Cache refresh attempt failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}

		mc.populateCache(mentors)
		return nil
	}

	return fmt.Errorf("failed to refresh cache after %d attempts: %w", maxRetries, err)
}

// populateCache stores all mentors under individual slug keys. The slug
// list carries the TTL that drives expiry.
func (mc *MentorCache) populateCache(mentors []*models.Mentor) {
	slugs := make([]string, 0, len(mentors))

	for _, mentor := range mentors {
		mc.cache.Set(mentorKeyPrefix+mentor.Slug, mentor, gocache.NoExpiration)
		slugs = append(slugs, mentor.Slug)
	}

	mc.cache.Set(allMentorsKey, slugs, mc.ttl)

	metrics.CacheSize.WithLabelValues("mentors").Set(float64(len(mentors)))
}

// ensureMentorInListLocked adds the slug to the all-mentors list.
// MUST be called with mc.mu locked.
func (mc *MentorCache) ensureMentorInListLocked(slug string) error {
	slugsData, found := mc.cache.Get(allMentorsKey)
	if !found {
		// List expired, recreated on the next full refresh
		return nil
	}

	slugs, ok := slugsData.([]string)
	if !ok {
		return fmt.Errorf("invalid all-mentors list type")
	}

	for _, s := range slugs {
		if s == slug {
			return nil
		}
	}

	slugs = append(slugs, slug)
	mc.cache.Set(allMentorsKey, slugs, mc.ttl)

	return nil
}
