package keyword

import (
	"context"
	"strings"
	"testing"

	"cropline/internal/domain/farm"
)

func TestClassifyDetectsNeeds(t *testing.T) {
	c := New()
	transcript := "The borer infestation is spreading and I also need urea before the rains. " +
		"Can someone send a cutting crew, the cane is ready."

	got, err := c.Classify(context.Background(), transcript)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !got.Needs.Pesticide {
		t.Fatalf("expected pesticide need: %+v", got.Needs)
	}
	if !got.Needs.Fertilizer {
		t.Fatalf("expected fertilizer need: %+v", got.Needs)
	}
	if !got.Needs.Harvesting {
		t.Fatalf("expected harvesting need: %+v", got.Needs)
	}
	if got.Needs.Ploughing || got.Needs.SeedCane {
		t.Fatalf("unexpected needs raised: %+v", got.Needs)
	}
}

func TestClassifyCropIssuesRaisePesticide(t *testing.T) {
	c := New()
	got, err := c.Classify(context.Background(), "Half the field shows leaf blight and yellowing.")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !got.CropIssues {
		t.Fatalf("expected crop issues flag")
	}
	if !got.Needs.Pesticide {
		t.Fatalf("crop issues should raise the pesticide need")
	}
}

func TestClassifySentiment(t *testing.T) {
	c := New()
	cases := []struct {
		transcript string
		want       farm.Sentiment
	}{
		{"I am worried, the crop is failing and this is urgent.", farm.SentimentNegative},
		{"Thanks, the field looks great after the last visit.", farm.SentimentPositive},
		{"Please note my farm size changed to six acres.", farm.SentimentNeutral},
	}
	for _, tc := range cases {
		got, err := c.Classify(context.Background(), tc.transcript)
		if err != nil {
			t.Fatalf("classify: %v", err)
		}
		if got.Sentiment != tc.want {
			t.Fatalf("sentiment for %q = %s, want %s", tc.transcript, got.Sentiment, tc.want)
		}
	}
}

func TestClassifyEmptyTranscript(t *testing.T) {
	c := New()
	got, err := c.Classify(context.Background(), "   ")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got.Needs.Any() || got.CropIssues {
		t.Fatalf("empty transcript should not raise needs: %+v", got)
	}
	if got.Sentiment != farm.SentimentNeutral {
		t.Fatalf("sentiment = %s, want neutral", got.Sentiment)
	}
	if got.Summary == "" {
		t.Fatalf("summary should have a placeholder")
	}
}

func TestSummarizeTruncatesFirstSentence(t *testing.T) {
	c := New()
	long := strings.Repeat("a", 300)
	got, err := c.Classify(context.Background(), "First sentence here. Second sentence never shows.")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got.Summary != "First sentence here." {
		t.Fatalf("summary = %q", got.Summary)
	}

	got, err = c.Classify(context.Background(), long)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if len([]rune(got.Summary)) > maxSummaryLen {
		t.Fatalf("summary too long: %d runes", len([]rune(got.Summary)))
	}
}

func TestClassifyConfidenceBounds(t *testing.T) {
	c := New()
	everything := "pest fertilizer seeds plough harvest disease"
	got, err := c.Classify(context.Background(), everything)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got.Confidence <= 0 || got.Confidence > 0.7 {
		t.Fatalf("confidence out of range: %v", got.Confidence)
	}
}
