// Package gemini classifies call transcripts with Google's Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"cropline/internal/domain/farm"
)

var errEmptyResponse = errors.New("gemini returned no text candidates")

type Classifier struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func New(ctx context.Context, apiKey, modelName string) (*Classifier, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Classifier{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func (c *Classifier) Close() error {
	return c.client.Close()
}

func (c *Classifier) Classify(ctx context.Context, transcript string) (farm.Classification, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(buildPrompt(transcript)))
	if err != nil {
		return farm.Classification{}, fmt.Errorf("generate classification: %w", err)
	}
	raw, err := responseText(resp)
	if err != nil {
		return farm.Classification{}, err
	}
	return parseClassification(raw)
}

func buildPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("You analyze support calls from sugarcane farmers. ")
	b.WriteString("Reply with a single JSON object and nothing else, using exactly these keys:\n")
	b.WriteString(`{"needs_fertilizer": bool, "needs_seed_cane": bool, "needs_harvesting": bool, ` +
		`"needs_ploughing": bool, "needs_pesticide": bool, "has_crop_issues": bool, ` +
		`"sentiment": "positive"|"neutral"|"negative", "summary": "<one sentence>", "confidence": <0..1>}`)
	b.WriteString("\nMark a need only when the farmer asks for that activity or clearly requires it. ")
	b.WriteString("Set has_crop_issues for pests or disease.\n\nTranscript:\n")
	b.WriteString(transcript)
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyResponse
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text), nil
		}
	}
	return "", errEmptyResponse
}

// wireClassification is flat on purpose; flat keys survive model formatting
// quirks better than nested objects.
type wireClassification struct {
	NeedsFertilizer bool    `json:"needs_fertilizer"`
	NeedsSeedCane   bool    `json:"needs_seed_cane"`
	NeedsHarvesting bool    `json:"needs_harvesting"`
	NeedsPloughing  bool    `json:"needs_ploughing"`
	NeedsPesticide  bool    `json:"needs_pesticide"`
	HasCropIssues   bool    `json:"has_crop_issues"`
	Sentiment       string  `json:"sentiment"`
	Summary         string  `json:"summary"`
	Confidence      float64 `json:"confidence"`
}

// parseClassification accepts the raw model output, tolerating markdown
// code fences and stray prose around the JSON object.
func parseClassification(raw string) (farm.Classification, error) {
	body := strings.TrimSpace(raw)
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return farm.Classification{}, fmt.Errorf("no JSON object in model output: %q", truncate(body, 80))
	}

	var wire wireClassification
	if err := json.Unmarshal([]byte(body[start:end+1]), &wire); err != nil {
		return farm.Classification{}, fmt.Errorf("decode model output: %w", err)
	}

	c := farm.Classification{
		Needs: farm.Needs{
			Fertilizer: wire.NeedsFertilizer,
			SeedCane:   wire.NeedsSeedCane,
			Harvesting: wire.NeedsHarvesting,
			Ploughing:  wire.NeedsPloughing,
			Pesticide:  wire.NeedsPesticide,
		},
		CropIssues: wire.HasCropIssues,
		Sentiment:  farm.Sentiment(strings.ToLower(strings.TrimSpace(wire.Sentiment))),
		Summary:    strings.TrimSpace(wire.Summary),
		Confidence: wire.Confidence,
	}
	return c.Normalized(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
