// Package model holds the row types behind the gorm repositories. Columns
// mirror migrations/0001_init.sql.
package model

import "time"

type Farmer struct {
	FarmerID        string    `gorm:"column:farmer_id;primaryKey"`
	Name            string    `gorm:"column:name"`
	FarmSizeAcres   float64   `gorm:"column:farm_size_acres"`
	NeedsFertilizer bool      `gorm:"column:needs_fertilizer"`
	NeedsSeedCane   bool      `gorm:"column:needs_seed_cane"`
	NeedsHarvesting bool      `gorm:"column:needs_harvesting"`
	NeedsPloughing  bool      `gorm:"column:needs_ploughing"`
	NeedsPesticide  bool      `gorm:"column:needs_pesticide"`
	HasCropIssues   bool      `gorm:"column:has_crop_issues"`
	Version         int64     `gorm:"column:version"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (*Farmer) TableName() string { return "farmers" }

type CallLog struct {
	CallID          string    `gorm:"column:call_id;primaryKey"`
	FarmerID        string    `gorm:"column:farmer_id"`
	FarmerName      string    `gorm:"column:farmer_name"`
	Transcript      string    `gorm:"column:transcript"`
	Summary         string    `gorm:"column:summary"`
	Sentiment       string    `gorm:"column:sentiment"`
	NeedsFertilizer bool      `gorm:"column:needs_fertilizer"`
	NeedsSeedCane   bool      `gorm:"column:needs_seed_cane"`
	NeedsHarvesting bool      `gorm:"column:needs_harvesting"`
	NeedsPloughing  bool      `gorm:"column:needs_ploughing"`
	NeedsPesticide  bool      `gorm:"column:needs_pesticide"`
	HasCropIssues   bool      `gorm:"column:has_crop_issues"`
	DurationSeconds int32     `gorm:"column:duration_seconds"`
	ReceivedAt      time.Time `gorm:"column:received_at"`
}

func (*CallLog) TableName() string { return "call_logs" }

type SimSession struct {
	SessionID      string     `gorm:"column:session_id;primaryKey"`
	FarmerID       string     `gorm:"column:farmer_id"`
	FarmerName     string     `gorm:"column:farmer_name"`
	UsedFallback   bool       `gorm:"column:used_fallback"`
	Status         string     `gorm:"column:status"`
	TasksCompleted int32      `gorm:"column:tasks_completed"`
	AllComplete    bool       `gorm:"column:all_complete"`
	StartedAt      time.Time  `gorm:"column:started_at"`
	EndedAt        *time.Time `gorm:"column:ended_at"`
	Version        int64      `gorm:"column:version"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (*SimSession) TableName() string { return "sim_sessions" }

type SimEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID  string    `gorm:"column:session_id"`
	Type       string    `gorm:"column:type"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
	Payload    []byte    `gorm:"column:payload"`
}

func (*SimEvent) TableName() string { return "sim_events" }

type OperatorCredential struct {
	OperatorID string    `gorm:"column:operator_id;primaryKey"`
	Name       string    `gorm:"column:name"`
	KeySalt    []byte    `gorm:"column:key_salt"`
	KeyHash    []byte    `gorm:"column:key_hash"`
	Status     string    `gorm:"column:status"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (*OperatorCredential) TableName() string { return "operator_credentials" }
