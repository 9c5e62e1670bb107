package dashboard

import (
	"context"
	"errors"
	"io"
	"time"

	"cropline/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid dashboard request")

// reportRowLimit bounds how many rows one report pulls; beyond this the
// numbers describe the most recent slice, which is what the dashboard is for.
const (
	reportCallLimit    = 1000
	reportFarmerLimit  = 500
	reportSessionLimit = 500
)

type Overview struct {
	Summary  Summary  `json:"summary"`
	Insights Insights `json:"insights"`
}

type UseCase struct {
	Farmers  ports.FarmerRepository
	Calls    ports.CallRepository
	Sessions ports.SessionRepository
	Now      func() time.Time
}

func (u UseCase) Overview(ctx context.Context) (Overview, error) {
	if u.Farmers == nil || u.Calls == nil || u.Sessions == nil {
		return Overview{}, ErrInvalidRequest
	}
	now := u.now()

	farmers, err := u.Farmers.List(ctx, reportFarmerLimit)
	if err != nil {
		return Overview{}, err
	}
	calls, err := u.Calls.List(ctx, ports.CallQuery{Limit: reportCallLimit})
	if err != nil {
		return Overview{}, err
	}
	sessions, err := u.Sessions.ListRecent(ctx, reportSessionLimit)
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		Summary:  BuildSummary(farmers, calls, sessions, now),
		Insights: BuildInsights(calls, now),
	}, nil
}

func (u UseCase) ReportPDF(ctx context.Context, w io.Writer) error {
	overview, err := u.Overview(ctx)
	if err != nil {
		return err
	}
	return RenderReport(w, overview)
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}
