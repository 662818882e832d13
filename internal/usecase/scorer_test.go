package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"SentiPull/internal/domain/models"
	domsvc "SentiPull/internal/domain/service"
)

// fakeClassifier classifies by keyword and fails any batch containing "boom".
type fakeClassifier struct {
	calls int
}

func (f *fakeClassifier) ClassifyBatch(_ context.Context, texts []string) ([]domsvc.Classification, error) {
	f.calls++
	out := make([]domsvc.Classification, len(texts))
	for i, text := range texts {
		switch {
		case strings.Contains(text, "boom"):
			return nil, errors.New("backend exploded")
		case strings.Contains(text, "good"):
			out[i] = domsvc.Classification{Label: "positive", Probability: 0.9}
		case strings.Contains(text, "bad"):
			out[i] = domsvc.Classification{Label: "negative", Probability: 0.8}
		default:
			out[i] = domsvc.Classification{Label: "neutral", Probability: 0.7}
		}
	}
	return out, nil
}

func newsItems(bodies ...string) []models.NewsItem {
	items := make([]models.NewsItem, len(bodies))
	for i, b := range bodies {
		items[i] = models.NewsItem{ID: string(rune('a' + i)), Body: b}
	}
	return items
}

func TestScorePartialFailure(t *testing.T) {
	clf := &fakeClassifier{}
	s := NewScorer(clf, 1, 1, time.Millisecond, nil, nil)

	items := newsItems("good news", "bad news", "boom", "plain", "good again")
	scores, stats, err := s.Score(context.Background(), items)
	if err != nil {
		t.Fatalf("partial failure must not be fatal: %v", err)
	}
	if stats.Scored != 4 || stats.Skipped != 1 || stats.BatchesFailed != 1 {
		t.Fatalf("expected 4 scored / 1 skipped, got %+v", stats)
	}
	if len(scores) != 4 {
		t.Fatalf("expected 4 scores, got %d", len(scores))
	}
}

func TestScoreSignedPolarity(t *testing.T) {
	s := NewScorer(&fakeClassifier{}, 16, 1, time.Millisecond, nil, nil)

	scores, _, err := s.Score(context.Background(), newsItems("good", "bad", "plain"))
	if err != nil {
		t.Fatal(err)
	}

	byID := map[string]models.SentimentScore{}
	for _, sc := range scores {
		byID[sc.ItemID] = sc
	}
	if got := byID["a"].Score; got != 0.9 {
		t.Errorf("positive score = %v, want 0.9", got)
	}
	if got := byID["b"].Score; got != -0.8 {
		t.Errorf("negative score = %v, want -0.8", got)
	}
	if got := byID["c"].Score; got != 0 {
		t.Errorf("neutral score = %v, want 0", got)
	}
	if got := byID["c"].Confidence; got != 0.7 {
		t.Errorf("neutral confidence = %v, want 0.7", got)
	}
}

func TestScoreAllBatchesFailed(t *testing.T) {
	s := NewScorer(&fakeClassifier{}, 2, 2, time.Millisecond, nil, nil)

	_, stats, err := s.Score(context.Background(), newsItems("boom one", "boom two", "boom three"))
	if !errors.Is(err, ErrClassifierUnavailable) {
		t.Fatalf("expected ErrClassifierUnavailable, got %v", err)
	}
	if stats.Skipped != 3 {
		t.Fatalf("expected all 3 skipped, got %+v", stats)
	}
}

func TestScoreRetrySucceeds(t *testing.T) {
	clf := &flakyClassifier{failFirst: 2}
	s := NewScorer(clf, 16, 3, time.Millisecond, nil, nil)

	scores, stats, err := s.Score(context.Background(), newsItems("good"))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Scored != 1 || len(scores) != 1 {
		t.Fatalf("expected 1 score after retries, got %+v", stats)
	}
	if clf.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", clf.calls)
	}
}

type flakyClassifier struct {
	failFirst int
	calls     int
}

func (f *flakyClassifier) ClassifyBatch(_ context.Context, texts []string) ([]domsvc.Classification, error) {
	f.calls++
	if f.calls <= f.failFirst {
		return nil, errors.New("transient")
	}
	out := make([]domsvc.Classification, len(texts))
	for i := range texts {
		out[i] = domsvc.Classification{Label: "positive", Probability: 0.5}
	}
	return out, nil
}

func TestScoreCancelledBetweenBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewScorer(&fakeClassifier{}, 1, 1, time.Millisecond, nil, nil)

	scores, _, err := s.Score(ctx, newsItems("good", "bad"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("no batch should start after cancellation, got %d scores", len(scores))
	}
}

func TestScoreClampsProbability(t *testing.T) {
	clf := &fixedClassifier{c: domsvc.Classification{Label: "positive", Probability: 1.7}}
	s := NewScorer(clf, 16, 1, time.Millisecond, nil, nil)

	scores, _, err := s.Score(context.Background(), newsItems("x"))
	if err != nil {
		t.Fatal(err)
	}
	if scores[0].Score != 1 || scores[0].Confidence != 1 {
		t.Fatalf("probability should clamp to [0,1], got %+v", scores[0])
	}
}

type fixedClassifier struct {
	c domsvc.Classification
}

func (f *fixedClassifier) ClassifyBatch(_ context.Context, texts []string) ([]domsvc.Classification, error) {
	out := make([]domsvc.Classification, len(texts))
	for i := range texts {
		out[i] = f.c
	}
	return out, nil
}
