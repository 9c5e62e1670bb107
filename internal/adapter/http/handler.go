package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"cropline/internal/app/calls"
	"cropline/internal/app/dashboard"
	"cropline/internal/app/farmers"
	"cropline/internal/app/operators"
	"cropline/internal/app/ports"
	"cropline/internal/app/replay"
	"cropline/internal/app/session"
	"cropline/internal/domain/sim"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const operatorIDHeader = "X-Operator-ID"
const operatorKeyHeader = "X-Operator-Key"

type Handler struct {
	RegisterUC  operators.RegisterUseCase
	VerifyUC    operators.VerifyUseCase
	CallsUC     calls.UseCase
	FarmersUC   farmers.UseCase
	DashboardUC dashboard.UseCase
	ReplayUC    replay.UseCase
	Sessions    *session.Manager
	KPI         kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.POST("/operators/register", h.registerOperator)

	api.POST("/calls", h.logCall)
	api.GET("/calls", h.listCalls)

	api.GET("/farmers", h.listFarmers)
	api.GET("/farmers/:id", h.getFarmer)
	api.PUT("/farmers/:id", h.upsertFarmer)

	simGroup := api.Group("/sim/sessions")
	simGroup.POST("", h.startSession)
	simGroup.GET("/:id", h.viewSession)
	simGroup.POST("/:id/input", h.sessionInput)
	simGroup.POST("/:id/reset", h.resetSession)
	simGroup.DELETE("/:id", h.closeSession)
	simGroup.GET("/:id/watch", h.watchSession)
	simGroup.GET("/:id/events", h.sessionEvents)

	api.GET("/dashboard/summary", h.dashboardSummary)
	api.GET("/dashboard/report.pdf", h.dashboardReport)

	s.GET("/ops/kpi", h.kpi)
}

func (h Handler) registerOperator(c context.Context, ctx *app.RequestContext) {
	var body operators.RegisterRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.RegisterUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) logCall(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireAuthenticatedOperator(c, ctx); err != nil {
		writeError(ctx, err)
		return
	}

	var body calls.LogRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.CallsUC.Log(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) listCalls(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireAuthenticatedOperator(c, ctx); err != nil {
		writeError(ctx, err)
		return
	}

	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	records, err := h.CallsUC.List(c, ports.CallQuery{
		FarmerID: string(ctx.Query("farmer_id")),
		Limit:    limit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"calls": records})
}

func (h Handler) listFarmers(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireAuthenticatedOperator(c, ctx); err != nil {
		writeError(ctx, err)
		return
	}

	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	list, err := h.FarmersUC.List(c, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"farmers": list})
}

// getFarmer is unauthenticated: the simulator and the terminal client fetch
// farmer snapshots without operator credentials.
func (h Handler) getFarmer(c context.Context, ctx *app.RequestContext) {
	detail, err := h.FarmersUC.Get(c, string(ctx.Param("id")))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, detail)
}

func (h Handler) upsertFarmer(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireAuthenticatedOperator(c, ctx); err != nil {
		writeError(ctx, err)
		return
	}

	var body farmers.UpsertRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	// The path owns the identity; a mismatched body id is rejected rather
	// than silently ignored.
	pathID := strings.TrimSpace(string(ctx.Param("id")))
	if body.FarmerID != "" && body.FarmerID != pathID {
		writeErrorBody(ctx, consts.StatusBadRequest, "farmer_id_mismatch", "farmer_id in body does not match path")
		return
	}
	body.FarmerID = pathID

	farmer, err := h.FarmersUC.Upsert(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, farmer)
}

func (h Handler) startSession(c context.Context, ctx *app.RequestContext) {
	var body session.StartRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	view, err := h.Sessions.Start(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, view)
}

func (h Handler) viewSession(c context.Context, ctx *app.RequestContext) {
	view, err := h.Sessions.View(c, string(ctx.Param("id")))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, view)
}

func (h Handler) sessionInput(c context.Context, ctx *app.RequestContext) {
	var body sim.Input
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	view, err := h.Sessions.Input(c, string(ctx.Param("id")), body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, view)
}

func (h Handler) resetSession(c context.Context, ctx *app.RequestContext) {
	view, err := h.Sessions.Reset(c, string(ctx.Param("id")))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, view)
}

func (h Handler) closeSession(c context.Context, ctx *app.RequestContext) {
	if err := h.Sessions.Close(c, string(ctx.Param("id"))); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) sessionEvents(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)

	resp, err := h.ReplayUC.Execute(c, replay.Request{
		SessionID:    string(ctx.Param("id")),
		Type:         string(ctx.Query("type")),
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) dashboardSummary(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireAuthenticatedOperator(c, ctx); err != nil {
		writeError(ctx, err)
		return
	}

	overview, err := h.DashboardUC.Overview(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, overview)
}

func (h Handler) dashboardReport(c context.Context, ctx *app.RequestContext) {
	if _, err := h.requireAuthenticatedOperator(c, ctx); err != nil {
		writeError(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := h.DashboardUC.ReportPDF(c, &buf); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="cropline-report.pdf"`)
	ctx.Data(consts.StatusOK, "application/pdf", buf.Bytes())
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingOperatorIDHeader = errors.New("missing x-operator-id header")
var ErrMissingOperatorKeyHeader = errors.New("missing x-operator-key header")
var ErrMissingOperatorCredentials = errors.New("missing operator credentials")

func (h Handler) requireAuthenticatedOperator(c context.Context, ctx *app.RequestContext) (string, error) {
	operatorID := strings.TrimSpace(string(ctx.GetHeader(operatorIDHeader)))
	operatorKey := strings.TrimSpace(string(ctx.GetHeader(operatorKeyHeader)))
	if operatorID == "" && operatorKey == "" {
		return "", ErrMissingOperatorCredentials
	}
	if operatorID == "" {
		return "", ErrMissingOperatorIDHeader
	}
	if operatorKey == "" {
		return "", ErrMissingOperatorKeyHeader
	}
	if err := h.VerifyUC.Execute(c, operators.VerifyRequest{
		OperatorID:  operatorID,
		OperatorKey: operatorKey,
	}); err != nil {
		return "", err
	}
	return operatorID, nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingOperatorCredentials):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_operator_credentials", err.Error())
	case errors.Is(err, ErrMissingOperatorIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_operator_id", err.Error())
	case errors.Is(err, ErrMissingOperatorKeyHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_operator_key", err.Error())
	case errors.Is(err, operators.ErrInvalidCredentials):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_operator_credentials", err.Error())
	case errors.Is(err, calls.ErrEmptyTranscript):
		writeErrorBody(ctx, consts.StatusBadRequest, "empty_transcript", err.Error())
	case errors.Is(err, ports.ErrSessionClosed):
		writeErrorBody(ctx, consts.StatusConflict, "session_closed", err.Error())
	case errors.Is(err, calls.ErrInvalidRequest),
		errors.Is(err, operators.ErrInvalidRequest),
		errors.Is(err, farmers.ErrInvalidRequest),
		errors.Is(err, session.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, dashboard.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
