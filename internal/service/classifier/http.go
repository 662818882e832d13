package classifier

import (
	"context"
	"fmt"

	dservice "SentiPull/internal/domain/service"
	"SentiPull/internal/service/ratelimit"
	xhttp "SentiPull/pkg/http"
	applogger "SentiPull/pkg/logger"
)

// HTTPClassifier talks to a sentiment inference service over HTTP. The
// service accepts a batch of texts and returns one verdict per text in
// input order.
type HTTPClassifier struct {
	serviceURL string
	http       *xhttp.Client
	limiter    *ratelimit.Limiter
	maxRPS     float64
	logger     *applogger.Logger
}

// NewHTTP creates an HTTP-backed classifier.
func NewHTTP(serviceURL string, httpClient *xhttp.Client, limiter *ratelimit.Limiter, maxRPS float64, l *applogger.Logger) dservice.Classifier {
	return &HTTPClassifier{
		serviceURL: serviceURL,
		http:       httpClient,
		limiter:    limiter,
		maxRPS:     maxRPS,
		logger:     l,
	}
}

type classifyRequest struct {
	Texts []string `json:"texts"`
}

type classifyVerdict struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type classifyResponse struct {
	Results []classifyVerdict `json:"results"`
}

// ClassifyBatch sends one batch to the inference service.
func (c *HTTPClassifier) ClassifyBatch(ctx context.Context, texts []string) ([]dservice.Classification, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if c.limiter != nil && c.maxRPS > 0 {
		if err := c.limiter.Wait(ctx, "classifier", c.maxRPS, c.maxRPS); err != nil {
			return nil, err
		}
	}

	var resp classifyResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.serviceURL,
		Body:   classifyRequest{Texts: texts},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("classifier service: %w", err)
	}

	if len(resp.Results) != len(texts) {
		return nil, fmt.Errorf("classifier service: got %d results for %d texts", len(resp.Results), len(texts))
	}

	out := make([]dservice.Classification, len(resp.Results))
	for i, v := range resp.Results {
		out[i] = dservice.Classification{Label: v.Label, Probability: v.Score}
	}
	return out, nil
}
