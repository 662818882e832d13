package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	dservice "SentiPull/internal/domain/service"
	applogger "SentiPull/pkg/logger"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIClassifier uses a chat completion model as the sentiment backend.
// The whole batch goes out as one prompt and comes back as a JSON array, one
// verdict per text.
type OpenAIClassifier struct {
	client openai.Client
	model  string
	logger *applogger.Logger
}

// NewOpenAI creates an OpenAI-backed classifier.
func NewOpenAI(apiKey, model string, l *applogger.Logger) dservice.Classifier {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClassifier{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		logger: l,
	}
}

type openaiVerdict struct {
	Index       int     `json:"index"`
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

type openaiResponse struct {
	Results []openaiVerdict `json:"results"`
}

// ClassifyBatch scores one batch of texts.
func (c *OpenAIClassifier) ClassifyBatch(ctx context.Context, texts []string) ([]dservice.Classification, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String("You are a financial sentiment classifier. Score each text as positive, neutral, or negative with a probability."),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(c.buildPrompt(texts)),
					},
				},
			},
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(4000),
	})
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	var parsed openaiResponse
	content := response.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse openai response: %w", err)
	}
	if len(parsed.Results) != len(texts) {
		return nil, fmt.Errorf("openai: got %d results for %d texts", len(parsed.Results), len(texts))
	}

	out := make([]dservice.Classification, len(texts))
	for _, v := range parsed.Results {
		if v.Index < 0 || v.Index >= len(texts) {
			return nil, fmt.Errorf("openai: result index %d out of range", v.Index)
		}
		out[v.Index] = dservice.Classification{Label: v.Label, Probability: v.Probability}
	}
	return out, nil
}

func (c *OpenAIClassifier) buildPrompt(texts []string) string {
	var sb strings.Builder
	sb.WriteString("Classify the sentiment of each financial news text below.\n")
	sb.WriteString("For each text, produce:\n")
	sb.WriteString("- index: the zero-based position of the text\n")
	sb.WriteString("- label: one of [positive, neutral, negative]\n")
	sb.WriteString("- probability: 0.0-1.0, your confidence in the label\n\n")
	sb.WriteString("Respond with JSON only:\n")
	sb.WriteString(`{"results": [{"index": 0, "label": "positive", "probability": 0.95}]}`)
	sb.WriteString("\n\nTexts:\n\n")

	for i, text := range texts {
		sb.WriteString(fmt.Sprintf("Text %d: %s\n\n", i, text))
	}
	return sb.String()
}
