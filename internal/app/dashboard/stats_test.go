package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
)

func reportTime() time.Time {
	return time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
}

func fixtureCalls() []farm.CallRecord {
	return []farm.CallRecord{
		{
			ID: "call_1", FarmerID: "F-0001", Sentiment: farm.SentimentPositive,
			Needs: farm.Needs{Fertilizer: true}, DurationSeconds: 60,
			ReceivedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			ID: "call_2", FarmerID: "F-0002", Sentiment: farm.SentimentNeutral,
			Needs: farm.Needs{Fertilizer: true, Pesticide: true}, CropIssues: true, DurationSeconds: 120,
			ReceivedAt: time.Date(2026, 1, 22, 9, 0, 0, 0, time.UTC),
		},
		{
			ID: "call_3", FarmerID: "F-0001", Sentiment: farm.SentimentNegative,
			Needs: farm.Needs{Fertilizer: true, Pesticide: true, Harvesting: true}, CropIssues: true, DurationSeconds: 180,
			ReceivedAt: time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestBuildSummary(t *testing.T) {
	farmers := []farm.Farmer{
		{ID: "F-0001", FarmSizeAcres: 4, Needs: farm.Needs{Fertilizer: true}},
		{ID: "F-0002", FarmSizeAcres: 2, Needs: farm.Needs{}},
	}
	ended := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	sessions := []ports.SessionRecord{
		{ID: "sim_1", Status: ports.SessionStatusActive, TasksCompleted: 2, UsedFallback: true},
		{ID: "sim_2", Status: ports.SessionStatusClosed, TasksCompleted: 5, AllComplete: true, EndedAt: &ended},
	}

	s := BuildSummary(farmers, fixtureCalls(), sessions, reportTime())

	assert.Equal(t, 3, s.TotalCalls)
	assert.Equal(t, 1, s.CallsBySentiment[farm.SentimentPositive])
	assert.Equal(t, 1, s.CallsBySentiment[farm.SentimentNeutral])
	assert.Equal(t, 1, s.CallsBySentiment[farm.SentimentNegative])
	assert.InDelta(t, 120.0, s.AvgDurationSeconds, 1e-9)
	assert.Equal(t, 2, s.CropIssueCalls)
	assert.Equal(t, 3, s.NeedCounts[farm.TaskFertilizer])
	assert.Equal(t, 2, s.NeedCounts[farm.TaskPesticide])
	assert.Equal(t, 1, s.NeedCounts[farm.TaskHarvesting])
	assert.Equal(t, 0, s.NeedCounts[farm.TaskPloughing])

	assert.Equal(t, 2, s.TotalFarmers)
	assert.Equal(t, 1, s.FarmersWithNeeds)
	assert.InDelta(t, 3.0, s.AvgFarmSizeAcres, 1e-9)

	assert.Equal(t, 2, s.TotalSessions)
	assert.Equal(t, 1, s.ActiveSessions)
	assert.Equal(t, 1, s.CompletedSessions)
	assert.Equal(t, 7, s.TasksCompleted)
	assert.InDelta(t, 0.5, s.FallbackRate, 1e-9)
}

func TestBuildSummary_EmptyInputs(t *testing.T) {
	s := BuildSummary(nil, nil, nil, reportTime())

	assert.Zero(t, s.TotalCalls)
	assert.Zero(t, s.AvgDurationSeconds)
	assert.Zero(t, s.AvgFarmSizeAcres)
	assert.Zero(t, s.FallbackRate)
	assert.NotNil(t, s.CallsBySentiment)
	assert.NotNil(t, s.NeedCounts)
}
