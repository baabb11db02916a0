package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// OpenRouterExtractor sends the photo to an OpenRouter chat completion model.
type OpenRouterExtractor struct {
	client *resty.Client
	model  string
	log    *zap.Logger
}

func NewOpenRouterExtractor(baseURL, apiKey, model string, timeout time.Duration, log *zap.Logger) *OpenRouterExtractor {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey)).
		SetHeader("X-Title", "WeekPrep")

	return &OpenRouterExtractor{client: client, model: model, log: log}
}

func (o *OpenRouterExtractor) Name() string { return "openrouter" }

func (o *OpenRouterExtractor) Extract(ctx context.Context, imageBase64 string) (*Draft, error) {
	clean, data, err := cleanBase64(imageBase64)
	if err != nil {
		return nil, err
	}
	contentType := http.DetectContentType(data)

	req := map[string]interface{}{
		"model": o.model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": prompt},
					{
						"type":      "image_url",
						"image_url": map[string]string{"url": fmt.Sprintf("data:%s;base64,%s", contentType, clean)},
					},
				},
			},
		},
	}

	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		o.log.Warn("openrouter returned an error", zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("OpenRouter API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in OpenRouter response", ErrUnparseable)
	}
	return parseDraft(result.Choices[0].Message.Content)
}
