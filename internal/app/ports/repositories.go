package ports

import (
	"context"
	"time"

	"cropline/internal/domain/farm"
	"cropline/internal/domain/sim"
)

const (
	SessionStatusActive = "active"
	SessionStatusClosed = "closed"
)

type SessionRecord struct {
	ID             string
	FarmerID       string
	FarmerName     string
	UsedFallback   bool
	Status         string
	TasksCompleted int
	AllComplete    bool
	StartedAt      time.Time
	EndedAt        *time.Time
	Version        int64
	UpdatedAt      time.Time
}

type SessionRepository interface {
	Create(ctx context.Context, record SessionRecord) error
	Get(ctx context.Context, sessionID string) (SessionRecord, error)
	SaveWithVersion(ctx context.Context, record SessionRecord, expectedVersion int64) error
	ListRecent(ctx context.Context, limit int) ([]SessionRecord, error)
}

type EventRepository interface {
	Append(ctx context.Context, sessionID string, events []sim.Event) error
	ListBySessionID(ctx context.Context, sessionID string, limit int) ([]sim.Event, error)
}

type FarmerRepository interface {
	GetByID(ctx context.Context, farmerID string) (farm.Farmer, error)
	List(ctx context.Context, limit int) ([]farm.Farmer, error)
	Create(ctx context.Context, farmer farm.Farmer) error
	SaveWithVersion(ctx context.Context, farmer farm.Farmer, expectedVersion int64) error
}

type CallQuery struct {
	FarmerID string
	Limit    int
}

type CallRepository interface {
	Create(ctx context.Context, record farm.CallRecord) error
	List(ctx context.Context, query CallQuery) ([]farm.CallRecord, error)
}

type OperatorCredentialRecord struct {
	OperatorID string
	Name       string
	KeySalt    []byte
	KeyHash    []byte
	Status     string
	CreatedAt  time.Time
}

type OperatorCredentialRepository interface {
	Create(ctx context.Context, credential OperatorCredentialRecord) error
	GetByOperatorID(ctx context.Context, operatorID string) (OperatorCredentialRecord, error)
}
