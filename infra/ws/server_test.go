package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/coordinator"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/metrics"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/model"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/protocol"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/session"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/solver"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/store"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/version"
	"github.com/axelvallin-balder/schedule-builder-sub001/infra/logger"
)

func newTestServer(t *testing.T) (*httptest.Server, *coordinator.Coordinator) {
	t.Helper()
	reg := session.NewRegistry(logger.NopLogger{}, metrics.NopSink{})
	versions := version.NewMemoryStore()
	versions.Load([]model.Lesson{
		{ID: "l1", ScheduleID: "s1", CourseID: "c1", Day: model.Monday, Start: "09:00", End: "10:00", Version: 1},
	})
	dir := store.NewMemoryDirectory(nil, nil)
	coord := coordinator.New(coordinator.Config{}, reg, versions, solver.NewGreedySolver(), dir, nil, logger.NopLogger{}, nil)
	t.Cleanup(coord.Close)

	srv := NewServer(Config{}, coord, logger.NopLogger{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, coord
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	sock, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = sock.Close() })
	return sock
}

func send(t *testing.T, sock *websocket.Conn, kind protocol.MessageType, payload any) {
	t.Helper()
	if err := sock.WriteJSON(protocol.NewEnvelope(kind, payload)); err != nil {
		t.Fatalf("write %s: %v", kind, err)
	}
}

func read(t *testing.T, sock *websocket.Conn) protocol.Envelope {
	t.Helper()
	_ = sock.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env protocol.Envelope
	if err := sock.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestServer_AuthenticateRoundTrip(t *testing.T) {
	ts, _ := newTestServer(t)
	sock := dialWS(t, ts)

	send(t, sock, protocol.TypeAuthenticate, protocol.Authenticate{UserID: "alice"})
	if env := read(t, sock); env.Type != protocol.TypeAuthenticated {
		t.Fatalf("expected authenticated, got %s", env.Type)
	}

	send(t, sock, protocol.TypeJoinSchedule, protocol.JoinSchedule{ScheduleID: "s1"})
	if env := read(t, sock); env.Type != protocol.TypeScheduleSnapshot {
		t.Fatalf("expected schedule_snapshot, got %s", env.Type)
	}

	send(t, sock, protocol.TypeScheduleUpdate, protocol.ScheduleUpdate{
		ScheduleID: "s1", LessonID: "l1",
		Changes: map[string]any{"start": "10:00"}, BaseVersion: 1,
	})
	if env := read(t, sock); env.Type != protocol.TypeUpdateConfirmed {
		t.Fatalf("expected update_confirmed, got %s", env.Type)
	}

	send(t, sock, protocol.TypeHeartbeat, nil)
	if env := read(t, sock); env.Type != protocol.TypeHeartbeatAck {
		t.Fatalf("expected heartbeat_ack, got %s", env.Type)
	}
}

func TestServer_UnauthenticatedErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	sock := dialWS(t, ts)

	send(t, sock, protocol.TypeJoinSchedule, protocol.JoinSchedule{ScheduleID: "s1"})
	if env := read(t, sock); env.Type != protocol.TypeError {
		t.Fatalf("expected error, got %s", env.Type)
	}
}

func TestServer_DisconnectLeavesSession(t *testing.T) {
	ts, coord := newTestServer(t)
	sock := dialWS(t, ts)

	send(t, sock, protocol.TypeAuthenticate, protocol.Authenticate{UserID: "alice"})
	if env := read(t, sock); env.Type != protocol.TypeAuthenticated {
		t.Fatalf("expected authenticated, got %s", env.Type)
	}
	if coord.Registry().Count() != 1 {
		t.Fatalf("expected one session, got %d", coord.Registry().Count())
	}

	_ = sock.Close()
	deadline := time.Now().Add(2 * time.Second)
	for coord.Registry().Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session survived disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_Healthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status %d", resp.StatusCode)
	}
}
