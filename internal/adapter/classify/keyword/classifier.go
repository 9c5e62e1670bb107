// Package keyword classifies call transcripts with wordlists. It is the
// always-available fallback behind the AI classifier and the whole story
// when no API key is configured.
package keyword

import (
	"context"
	"strings"

	"cropline/internal/domain/farm"
)

var needTerms = map[farm.TaskID][]string{
	farm.TaskFertilizer: {"fertilizer", "fertiliser", "urea", "npk", "nutrient", "manure"},
	farm.TaskSeedCane:   {"seed cane", "seedcane", "seeds", "setts", "planting material", "replant"},
	farm.TaskHarvesting: {"harvest", "ready to cut", "cane is ready", "cutting crew", "ripe"},
	farm.TaskPloughing:  {"plough", "plow", "tillage", "land preparation", "prepare the field", "tractor"},
	farm.TaskPesticide:  {"pest", "pesticide", "insect", "borer", "aphid", "weevil", "spray", "infestation"},
}

var issueTerms = []string{
	"disease", "fungus", "blight", "rot", "wilt", "yellowing",
	"infest", "dying", "damaged", "failing crop",
}

var negativeTerms = []string{
	"worried", "angry", "frustrated", "urgent", "emergency",
	"loss", "ruined", "dying", "failing", "complaint", "bad",
}

var positiveTerms = []string{
	"thank", "thanks", "happy", "good", "great", "excellent",
	"improved", "better", "pleased",
}

const maxSummaryLen = 140

type Classifier struct{}

func New() Classifier {
	return Classifier{}
}

// Classify never fails; an empty transcript yields a neutral, needs-free
// classification with low confidence.
func (Classifier) Classify(_ context.Context, transcript string) (farm.Classification, error) {
	text := strings.ToLower(transcript)

	var c farm.Classification
	matches := 0
	for id, terms := range needTerms {
		if !containsAny(text, terms) {
			continue
		}
		matches++
		switch id {
		case farm.TaskFertilizer:
			c.Needs.Fertilizer = true
		case farm.TaskSeedCane:
			c.Needs.SeedCane = true
		case farm.TaskHarvesting:
			c.Needs.Harvesting = true
		case farm.TaskPloughing:
			c.Needs.Ploughing = true
		case farm.TaskPesticide:
			c.Needs.Pesticide = true
		}
	}
	if containsAny(text, issueTerms) {
		c.CropIssues = true
		// Crop trouble is handled by the pesticide activity, so raise
		// that need alongside the flag.
		c.Needs.Pesticide = true
		matches++
	}

	c.Sentiment = scoreSentiment(text)
	c.Summary = summarize(transcript)
	c.Confidence = 0.35 + 0.05*float64(matches)
	if c.Confidence > 0.7 {
		c.Confidence = 0.7
	}
	return c.Normalized(), nil
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func scoreSentiment(text string) farm.Sentiment {
	score := 0
	for _, term := range negativeTerms {
		if strings.Contains(text, term) {
			score--
		}
	}
	for _, term := range positiveTerms {
		if strings.Contains(text, term) {
			score++
		}
	}
	switch {
	case score < 0:
		return farm.SentimentNegative
	case score > 0:
		return farm.SentimentPositive
	default:
		return farm.SentimentNeutral
	}
}

// summarize keeps the first sentence, trimmed to a dashboard-friendly length.
func summarize(transcript string) string {
	s := strings.TrimSpace(transcript)
	if s == "" {
		return "General inquiry call."
	}
	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if i := strings.Index(s, sep); i >= 0 {
			s = s[:i+1]
			break
		}
	}
	s = strings.TrimSpace(s)
	if len(s) > maxSummaryLen {
		runes := []rune(s)
		if len(runes) > maxSummaryLen {
			s = string(runes[:maxSummaryLen-1]) + "…"
		}
	}
	return s
}
