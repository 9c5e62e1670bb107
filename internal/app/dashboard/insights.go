package dashboard

import (
	"math"
	"sort"
	"time"

	"cropline/internal/domain/farm"
)

const forecastWindow = 3

// Metric labels for the correlation matrix, in matrix order.
var metricLabels = []string{"duration_seconds", "sentiment_score", "needs_raised", "crop_issues"}

type MonthVolume struct {
	Month string `json:"month"`
	Calls int    `json:"calls"`
}

type Forecast struct {
	History        []MonthVolume `json:"history"`
	NextMonth      string        `json:"next_month"`
	PredictedCalls float64       `json:"predicted_calls"`
}

type Insights struct {
	MetricLabels []string    `json:"metric_labels"`
	Correlation  [][]float64 `json:"correlation"`
	Forecast     Forecast    `json:"forecast"`
}

// BuildInsights derives the analytics page numbers from the call log: a
// Pearson correlation matrix across per-call metrics and a moving-average
// forecast of next month's call volume.
func BuildInsights(calls []farm.CallRecord, now time.Time) Insights {
	series := make([][]float64, len(metricLabels))
	for _, call := range calls {
		needsRaised := 0
		for _, task := range farm.TaskOrder() {
			if call.Needs.Of(task) {
				needsRaised++
			}
		}
		cropIssues := 0.0
		if call.CropIssues {
			cropIssues = 1
		}
		series[0] = append(series[0], float64(call.DurationSeconds))
		series[1] = append(series[1], call.Sentiment.Score())
		series[2] = append(series[2], float64(needsRaised))
		series[3] = append(series[3], cropIssues)
	}

	matrix := make([][]float64, len(series))
	for i := range series {
		matrix[i] = make([]float64, len(series))
		for j := range series {
			matrix[i][j] = pearson(series[i], series[j])
		}
	}

	return Insights{
		MetricLabels: metricLabels,
		Correlation:  matrix,
		Forecast:     buildForecast(calls, now),
	}
}

// pearson is the sample correlation coefficient. A constant or empty series
// has no defined correlation and reports 0, except against itself.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}
	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 && varY == 0 && sameSeries(xs, ys) {
		return 1
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

func sameSeries(xs, ys []float64) bool {
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}

// buildForecast buckets calls per calendar month (UTC) and predicts the next
// month as the average of the trailing window. Months with no calls inside
// the observed range count as zero.
func buildForecast(calls []farm.CallRecord, now time.Time) Forecast {
	if len(calls) == 0 {
		return Forecast{NextMonth: monthKey(now)}
	}

	counts := map[string]int{}
	first := calls[0].ReceivedAt
	last := calls[0].ReceivedAt
	for _, call := range calls {
		counts[monthKey(call.ReceivedAt)]++
		if call.ReceivedAt.Before(first) {
			first = call.ReceivedAt
		}
		if call.ReceivedAt.After(last) {
			last = call.ReceivedAt
		}
	}

	var history []MonthVolume
	for m := monthStart(first); !m.After(monthStart(last)); m = m.AddDate(0, 1, 0) {
		key := monthKey(m)
		history = append(history, MonthVolume{Month: key, Calls: counts[key]})
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Month < history[j].Month })

	window := forecastWindow
	if len(history) < window {
		window = len(history)
	}
	var sum int
	for _, month := range history[len(history)-window:] {
		sum += month.Calls
	}

	return Forecast{
		History:        history,
		NextMonth:      monthKey(monthStart(last).AddDate(0, 1, 0)),
		PredictedCalls: float64(sum) / float64(window),
	}
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
