package usecase

import (
	"context"
	"strings"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	domsvc "SentiPull/internal/domain/service"
	applogger "SentiPull/pkg/logger"
)

// ScoreStats reports scoring progress for one call.
type ScoreStats struct {
	Scored        int
	Skipped       int
	BatchesFailed int
	LabelCounts   map[string]int
	AvgConfidence float64
}

// Scorer batches news text through the classifier boundary. Stateless per
// call; output is a set keyed by item id, order carries no meaning.
type Scorer struct {
	classifier domsvc.Classifier
	batchSize  int
	retryMax   int
	backoffMin time.Duration
	metrics    drepo.Metrics
	logger     *applogger.Logger
}

func NewScorer(classifier domsvc.Classifier, batchSize, retryMax int, backoffMin time.Duration, metrics drepo.Metrics, logger *applogger.Logger) *Scorer {
	if batchSize <= 0 {
		batchSize = 16
	}
	if retryMax <= 0 {
		retryMax = 1
	}
	return &Scorer{
		classifier: classifier,
		batchSize:  batchSize,
		retryMax:   retryMax,
		backoffMin: backoffMin,
		metrics:    metrics,
		logger:     logger,
	}
}

// Score classifies items batch by batch. A failing batch is skipped and
// counted, never fatal to the remaining batches. Cancellation is observed
// between batches: an in-flight call may finish but no new batch starts.
// The run-level ErrClassifierUnavailable is returned only when every batch
// failed.
func (s *Scorer) Score(ctx context.Context, items []models.NewsItem) ([]models.SentimentScore, ScoreStats, error) {
	stats := ScoreStats{LabelCounts: make(map[string]int)}
	scores := make([]models.SentimentScore, 0, len(items))
	confSum := 0.0

	for start := 0; start < len(items); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return scores, finishStats(stats, confSum), err
		}

		end := start + s.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		results, err := s.classifyWithRetry(ctx, batch)
		if err != nil {
			stats.Skipped += len(batch)
			stats.BatchesFailed++
			if s.metrics != nil {
				s.metrics.RecordSkipped(len(batch))
				s.metrics.RecordExternalError("classifier")
			}
			if s.logger != nil {
				s.logger.Warn("scoring batch skipped",
					applogger.Int("batch_start", start),
					applogger.Int("items", len(batch)),
					applogger.Error(err),
				)
			}
			continue
		}

		for i, c := range results {
			sc := toScore(batch[i].ID, c)
			scores = append(scores, sc)
			stats.Scored++
			stats.LabelCounts[sc.Label]++
			confSum += sc.Confidence
			if s.metrics != nil {
				s.metrics.RecordScored(sc.Label, 1)
			}
		}
	}

	if len(items) > 0 && stats.Scored == 0 {
		return nil, finishStats(stats, confSum), ErrClassifierUnavailable
	}
	return scores, finishStats(stats, confSum), nil
}

func (s *Scorer) classifyWithRetry(ctx context.Context, batch []models.NewsItem) ([]domsvc.Classification, error) {
	texts := make([]string, 0, len(batch))
	for _, it := range batch {
		texts = append(texts, it.Title+"\n"+it.Body)
	}

	var lastErr error
	for attempt := 1; attempt <= s.retryMax; attempt++ {
		results, err := s.classifier.ClassifyBatch(ctx, texts)
		if err == nil {
			if len(results) != len(batch) {
				return nil, &InvariantError{
					Stage:  "scorer",
					Detail: "classifier returned wrong result count",
				}
			}
			return results, nil
		}
		lastErr = err

		select {
		case <-time.After(time.Duration(attempt) * s.backoffMin):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// toScore maps a classifier verdict to the signed-polarity convention:
// score = probability * sign(label), neutral = 0.
func toScore(itemID string, c domsvc.Classification) models.SentimentScore {
	label := strings.ToLower(c.Label)
	prob := c.Probability
	if prob < 0 {
		prob = 0
	}
	if prob > 1 {
		prob = 1
	}

	var score float64
	switch label {
	case models.LabelPositive:
		score = prob
	case models.LabelNegative:
		score = -prob
	default:
		label = models.LabelNeutral
		score = 0
	}

	return models.SentimentScore{
		ItemID:     itemID,
		Label:      label,
		Score:      score,
		Confidence: prob,
	}
}

func finishStats(stats ScoreStats, confSum float64) ScoreStats {
	if stats.Scored > 0 {
		stats.AvgConfidence = confSum / float64(stats.Scored)
	}
	return stats
}
