package newsapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	xhttp "SentiPull/pkg/http"
	applogger "SentiPull/pkg/logger"
)

const defaultBaseURL = "https://newsapi.org/v2"

// Client implements a NewsSource backed by the NewsAPI "everything" endpoint.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	pageSize int
	maxPages int
	http     *xhttp.Client
	logger   *applogger.Logger
}

// New creates a new NewsAPI source.
func New(apiKey, baseURL, language string, pageSize, maxPages int, httpClient *xhttp.Client, l *applogger.Logger) drepo.NewsSource {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if language == "" {
		language = "en"
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	if maxPages <= 0 {
		maxPages = 5
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		language: language,
		pageSize: pageSize,
		maxPages: maxPages,
		http:     httpClient,
		logger:   l,
	}
}

type articleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type article struct {
	Source      articleSource `json:"source"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Content     string        `json:"content"`
	URL         string        `json:"url"`
	PublishedAt string        `json:"publishedAt"`
}

type everythingResponse struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

// Fetch pulls all pages of articles matching query inside [from, to].
// Pagination stops at the provider page cap; ctx is observed between pages.
func (c *Client) Fetch(ctx context.Context, query string, from, to time.Time) ([]models.RawNewsRecord, error) {
	var records []models.RawNewsRecord

	for page := 1; page <= c.maxPages; page++ {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		resp, err := c.fetchPage(ctx, query, from, to, page)
		if err != nil {
			return records, err
		}

		for _, a := range resp.Articles {
			body := a.Description
			if body == "" {
				body = a.Content
			}
			records = append(records, models.RawNewsRecord{
				ID:          a.URL,
				Source:      a.Source.Name,
				Title:       a.Title,
				Body:        body,
				Language:    c.language,
				PublishedAt: a.PublishedAt,
			})
		}

		if page*c.pageSize >= resp.TotalResults || len(resp.Articles) == 0 {
			break
		}
	}

	c.logger.Debug("newsapi: fetched articles",
		applogger.String("query", query),
		applogger.Int("count", len(records)))
	return records, nil
}

func (c *Client) fetchPage(ctx context.Context, query string, from, to time.Time, page int) (*everythingResponse, error) {
	var resp everythingResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/everything",
		Headers: map[string]string{
			"X-Api-Key": c.apiKey,
		},
		QueryParams: map[string][]string{
			"q":        {query},
			"from":     {from.UTC().Format(time.RFC3339)},
			"to":       {to.UTC().Format(time.RFC3339)},
			"language": {c.language},
			"sortBy":   {"publishedAt"},
			"pageSize": {strconv.Itoa(c.pageSize)},
			"page":     {strconv.Itoa(page)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("newsapi page %d: %w", page, err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi page %d: %s (%s)", page, resp.Message, resp.Code)
	}
	return &resp, nil
}
