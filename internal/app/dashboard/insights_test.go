package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cropline/internal/domain/farm"
)

func TestPearson(t *testing.T) {
	assert.InDelta(t, 1.0, pearson([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.InDelta(t, -1.0, pearson([]float64{1, 2, 3}, []float64{6, 4, 2}), 1e-9)
	assert.InDelta(t, 0.0, pearson([]float64{1, 2, 3}, []float64{5, 5, 5}), 1e-9)
	assert.InDelta(t, 1.0, pearson([]float64{5, 5, 5}, []float64{5, 5, 5}), 1e-9)
	assert.InDelta(t, 0.0, pearson([]float64{5, 5, 5}, []float64{7, 7, 7}), 1e-9)
	assert.Zero(t, pearson(nil, nil))
}

func TestBuildInsights_CorrelationMatrix(t *testing.T) {
	insights := BuildInsights(fixtureCalls(), reportTime())

	assert.Equal(t, metricLabels, insights.MetricLabels)
	n := len(metricLabels)
	if assert.Len(t, insights.Correlation, n) {
		for i := 0; i < n; i++ {
			assert.Len(t, insights.Correlation[i], n)
			assert.InDelta(t, 1.0, insights.Correlation[i][i], 1e-9)
		}
	}

	// Durations 60/120/180 line up exactly with needs 1/2/3 and run exactly
	// against sentiment +1/0/-1.
	assert.InDelta(t, 1.0, insights.Correlation[0][2], 1e-9)
	assert.InDelta(t, -1.0, insights.Correlation[0][1], 1e-9)
	assert.InDelta(t, 0.866, insights.Correlation[0][3], 1e-3)
	// Symmetric.
	assert.InDelta(t, insights.Correlation[2][0], insights.Correlation[0][2], 1e-9)
}

func TestBuildForecast_FillsGapMonths(t *testing.T) {
	f := buildForecast(fixtureCalls(), reportTime())

	if assert.Len(t, f.History, 3) {
		assert.Equal(t, MonthVolume{Month: "2026-01", Calls: 2}, f.History[0])
		assert.Equal(t, MonthVolume{Month: "2026-02", Calls: 0}, f.History[1])
		assert.Equal(t, MonthVolume{Month: "2026-03", Calls: 1}, f.History[2])
	}
	assert.Equal(t, "2026-04", f.NextMonth)
	assert.InDelta(t, 1.0, f.PredictedCalls, 1e-9)
}

func TestBuildForecast_ShortHistoryShrinksWindow(t *testing.T) {
	calls := []farm.CallRecord{
		{ID: "call_1", ReceivedAt: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)},
		{ID: "call_2", ReceivedAt: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)},
		{ID: "call_3", ReceivedAt: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)},
		{ID: "call_4", ReceivedAt: time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)},
	}

	f := buildForecast(calls, reportTime())

	assert.Len(t, f.History, 2)
	assert.Equal(t, "2026-03", f.NextMonth)
	assert.InDelta(t, 2.0, f.PredictedCalls, 1e-9)
}

func TestBuildForecast_NoCalls(t *testing.T) {
	f := buildForecast(nil, reportTime())

	assert.Empty(t, f.History)
	assert.Equal(t, "2026-04", f.NextMonth)
	assert.Zero(t, f.PredictedCalls)
}
