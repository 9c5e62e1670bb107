package farm

import "time"

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

// Score maps sentiment onto -1/0/+1 for the dashboard reductions.
func (s Sentiment) Score() float64 {
	switch s {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

type CallRecord struct {
	ID              string    `json:"call_id"`
	FarmerID        string    `json:"farmer_id"`
	FarmerName      string    `json:"farmer_name"`
	Transcript      string    `json:"transcript"`
	Summary         string    `json:"summary"`
	Sentiment       Sentiment `json:"sentiment"`
	Needs           Needs     `json:"needs"`
	CropIssues      bool      `json:"has_crop_issues"`
	DurationSeconds int       `json:"duration_seconds"`
	ReceivedAt      time.Time `json:"received_at"`
}

// Classification is what transcript analysis produces, whichever classifier
// produced it.
type Classification struct {
	Needs      Needs     `json:"needs"`
	CropIssues bool      `json:"has_crop_issues"`
	Sentiment  Sentiment `json:"sentiment"`
	Summary    string    `json:"summary"`
	Confidence float64   `json:"confidence"`
}

// Normalized clamps classifier output into the domain's value ranges.
func (c Classification) Normalized() Classification {
	if !c.Sentiment.Valid() {
		c.Sentiment = SentimentNeutral
	}
	if c.Confidence < 0 {
		c.Confidence = 0
	}
	if c.Confidence > 1 {
		c.Confidence = 1
	}
	return c
}
