package dashboard

import (
	"time"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
)

type Summary struct {
	GeneratedAt time.Time `json:"generated_at"`

	TotalCalls         int                    `json:"total_calls"`
	CallsBySentiment   map[farm.Sentiment]int `json:"calls_by_sentiment"`
	AvgDurationSeconds float64                `json:"avg_duration_seconds"`
	NeedCounts         map[farm.TaskID]int    `json:"need_counts"`
	CropIssueCalls     int                    `json:"crop_issue_calls"`

	TotalFarmers     int     `json:"total_farmers"`
	FarmersWithNeeds int     `json:"farmers_with_needs"`
	AvgFarmSizeAcres float64 `json:"avg_farm_size_acres"`

	TotalSessions     int     `json:"total_sessions"`
	ActiveSessions    int     `json:"active_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	TasksCompleted    int     `json:"tasks_completed"`
	FallbackRate      float64 `json:"fallback_rate"`
}

// BuildSummary reduces raw intake and simulation records into the numbers the
// operations dashboard shows. Pure, so the numbers are reproducible from the
// same rows.
func BuildSummary(farmers []farm.Farmer, calls []farm.CallRecord, sessions []ports.SessionRecord, now time.Time) Summary {
	s := Summary{
		GeneratedAt:      now,
		CallsBySentiment: map[farm.Sentiment]int{},
		NeedCounts:       map[farm.TaskID]int{},
	}

	var totalDuration int
	for _, call := range calls {
		s.TotalCalls++
		s.CallsBySentiment[call.Sentiment]++
		totalDuration += call.DurationSeconds
		if call.CropIssues {
			s.CropIssueCalls++
		}
		for _, task := range farm.TaskOrder() {
			if call.Needs.Of(task) {
				s.NeedCounts[task]++
			}
		}
	}
	if s.TotalCalls > 0 {
		s.AvgDurationSeconds = float64(totalDuration) / float64(s.TotalCalls)
	}

	var totalAcres float64
	for _, farmer := range farmers {
		s.TotalFarmers++
		totalAcres += farmer.FarmSizeAcres
		if farmer.Needs.Any() {
			s.FarmersWithNeeds++
		}
	}
	if s.TotalFarmers > 0 {
		s.AvgFarmSizeAcres = totalAcres / float64(s.TotalFarmers)
	}

	var fallbacks int
	for _, session := range sessions {
		s.TotalSessions++
		if session.Status == ports.SessionStatusActive {
			s.ActiveSessions++
		}
		if session.AllComplete {
			s.CompletedSessions++
		}
		s.TasksCompleted += session.TasksCompleted
		if session.UsedFallback {
			fallbacks++
		}
	}
	if s.TotalSessions > 0 {
		s.FallbackRate = float64(fallbacks) / float64(s.TotalSessions)
	}
	return s
}
