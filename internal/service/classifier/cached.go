package classifier

import (
	"context"
	"time"

	dservice "SentiPull/internal/domain/service"
	"SentiPull/pkg/cache"
	applogger "SentiPull/pkg/logger"
)

const cachePrefix = "clf"

// CachedClassifier wraps another classifier with a content-addressed cache.
// Identical texts score identically, so repeat runs over overlapping windows
// skip the model entirely for texts already seen.
type CachedClassifier struct {
	inner  dservice.Classifier
	cache  cache.Service
	ttl    time.Duration
	logger *applogger.Logger
}

// NewCached wraps inner with a cache.
func NewCached(inner dservice.Classifier, c cache.Service, ttl time.Duration, l *applogger.Logger) dservice.Classifier {
	return &CachedClassifier{
		inner:  inner,
		cache:  c,
		ttl:    ttl,
		logger: l,
	}
}

// ClassifyBatch resolves cached texts first, classifies only the misses, and
// reassembles results in input order.
func (c *CachedClassifier) ClassifyBatch(ctx context.Context, texts []string) ([]dservice.Classification, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = cache.GenerateKey(cachePrefix, cache.HashKey(text))
	}

	cached, err := cache.MGetTyped[dservice.Classification](ctx, c.cache, keys...)
	if err != nil {
		// cache trouble never blocks scoring
		c.logger.Warn("classifier cache read failed", applogger.Error(err))
		cached = map[string]dservice.Classification{}
	}

	out := make([]dservice.Classification, len(texts))
	var missTexts []string
	var missIdx []int
	for i, key := range keys {
		if v, ok := cached[key]; ok {
			out[i] = v
			continue
		}
		missTexts = append(missTexts, texts[i])
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	fresh, err := c.inner.ClassifyBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	toCache := make(map[string]interface{}, len(fresh))
	for j, v := range fresh {
		i := missIdx[j]
		out[i] = v
		toCache[keys[i]] = v
	}
	if err := c.cache.MSet(ctx, toCache, c.ttl); err != nil {
		c.logger.Warn("classifier cache write failed", applogger.Error(err))
	}

	return out, nil
}
