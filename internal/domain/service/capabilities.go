package service

import "context"

// Classification is one classifier verdict for one text.
type Classification struct {
	Label       string  // positive, neutral, negative
	Probability float64 // [0, 1]
}

// Classifier is the sentiment model boundary. The concrete model is
// swappable as long as it honors this signature. ClassifyBatch returns one
// Classification per input text, in input order.
type Classifier interface {
	ClassifyBatch(ctx context.Context, texts []string) ([]Classification, error)
}

// SymbolMatcher decides which symbols a news text is relevant to. An empty
// result means the item takes part in no symbol's aggregation.
type SymbolMatcher interface {
	Match(title, body string) []string
}
