package simapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"cropline/internal/app/ports"
	"cropline/internal/app/simview"
	"cropline/internal/domain/sim"
)

func sampleView(sessionID string) simview.View {
	return simview.View{
		SessionID:  sessionID,
		Farmer:     simview.FarmerView{ID: "farmer_1", Name: "Asha", FarmSizeAcres: 2.5},
		GridWidth:  12,
		GridHeight: 9,
		Avatar:     sim.Avatar{Position: sim.Position{X: 6, Y: 4}, Facing: sim.DirDown},
		Vitality:   simview.VitalityView{State: sim.VitalitySafe},
		ServerTime: time.Now().UTC(),
	}
}

func TestClient_StartAndInput(t *testing.T) {
	var gotStartBody map[string]string
	var gotInput sim.Input

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/sim/sessions":
			if err := json.NewDecoder(r.Body).Decode(&gotStartBody); err != nil {
				t.Errorf("decode start body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(sampleView("sess_1"))
		case r.Method == http.MethodPost && r.URL.Path == "/api/sim/sessions/sess_1/input":
			if err := json.NewDecoder(r.Body).Decode(&gotInput); err != nil {
				t.Errorf("decode input body: %v", err)
			}
			json.NewEncoder(w).Encode(sampleView("sess_1"))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := Client{BaseURL: srv.URL}
	view, err := client.Start(context.Background(), "farmer_1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if view.SessionID != "sess_1" {
		t.Fatalf("session id = %q, want sess_1", view.SessionID)
	}
	if gotStartBody["farmer_id"] != "farmer_1" {
		t.Fatalf("start body farmer_id = %q", gotStartBody["farmer_id"])
	}

	in := sim.Input{Type: sim.InputMoveTap, Direction: sim.DirRight}
	if _, err := client.Input(context.Background(), "sess_1", in); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if gotInput.Type != sim.InputMoveTap || gotInput.Direction != sim.DirRight {
		t.Fatalf("server saw input %+v", gotInput)
	}
}

func TestClient_NotFoundMapsToErrNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]map[string]string{
			"error": {"code": "not_found", "message": "session not found"},
		})
	}))
	defer srv.Close()

	client := Client{BaseURL: srv.URL}
	_, err := client.View(context.Background(), "sess_missing")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("err = %v, want ports.ErrNotFound", err)
	}
}

func TestClient_ErrorBodySurfacesCodeAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]map[string]string{
			"error": {"code": "session_closed", "message": "session is closed"},
		})
	}))
	defer srv.Close()

	client := Client{BaseURL: srv.URL}
	_, err := client.Reset(context.Background(), "sess_1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Code != "session_closed" || apiErr.Status != http.StatusConflict {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestClient_Close(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := Client{BaseURL: srv.URL}
	if err := client.Close(context.Background(), "sess_1"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/sim/sessions/sess_1" {
		t.Fatalf("server saw %s %s", gotMethod, gotPath)
	}
}

func TestClient_WatchStreamsViews(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sim/sessions/sess_1/watch" {
			t.Errorf("unexpected watch path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for i := 0; i < 2; i++ {
			payload, _ := json.Marshal(sampleView("sess_1"))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				t.Errorf("write frame: %v", err)
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
	}))
	defer srv.Close()

	client := Client{BaseURL: srv.URL}
	stream, err := client.Watch(context.Background(), "sess_1")
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stream.Close()

	for i := 0; i < 2; i++ {
		select {
		case view, ok := <-stream.Views():
			if !ok {
				t.Fatalf("stream closed after %d frames, want 2", i)
			}
			if view.SessionID != "sess_1" {
				t.Fatalf("frame %d session id = %q", i, view.SessionID)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for frame %d", i)
		}
	}

	select {
	case _, ok := <-stream.Views():
		if ok {
			t.Fatal("expected stream to close after server close frame")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream close")
	}
}

func TestClient_WatchUnknownSessionFailsBeforeUpgrade(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]map[string]string{
			"error": {"code": "not_found", "message": "session not found"},
		})
	}))
	defer srv.Close()

	client := Client{BaseURL: srv.URL}
	_, err := client.Watch(context.Background(), "sess_missing")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("err = %v, want ports.ErrNotFound", err)
	}
}
