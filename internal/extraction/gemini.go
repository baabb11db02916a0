package extraction

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Extractor reads a recipe out of a base64 encoded photo.
type Extractor interface {
	Extract(ctx context.Context, imageBase64 string) (*Draft, error)
	Name() string
}

// GeminiExtractor calls Google Gemini with the photo inlined.
type GeminiExtractor struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *zap.Logger
}

func NewGeminiExtractor(ctx context.Context, apiKey, modelName string, log *zap.Logger) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	return &GeminiExtractor{client: client, model: model, log: log}, nil
}

func (g *GeminiExtractor) Name() string { return "gemini" }

func (g *GeminiExtractor) Extract(ctx context.Context, imageBase64 string) (*Draft, error) {
	_, data, err := cleanBase64(imageBase64)
	if err != nil {
		return nil, err
	}

	format := strings.TrimPrefix(http.DetectContentType(data), "image/")
	if strings.Contains(format, "/") {
		format = "jpeg"
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt), genai.ImageData(format, data))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no content generated", ErrUnparseable)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	g.log.Debug("gemini extraction response", zap.Int("chars", b.Len()))
	return parseDraft(b.String())
}

func (g *GeminiExtractor) Close() error {
	return g.client.Close()
}
