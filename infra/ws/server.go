// Package ws exposes the engine over WebSocket: one bidirectional
// message channel per connected editor. Transport failures tear down
// only the affected session; protocol errors never do.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/axelvallin-balder/schedule-builder-sub001/core/coordinator"
	"github.com/axelvallin-balder/schedule-builder-sub001/core/protocol"
	"github.com/axelvallin-balder/schedule-builder-sub001/infra/logger"
)

// Config defines the websocket server parameters.
type Config struct {
	Addr           string `json:"addr"`
	ReadLimitBytes int64  `json:"read_limit_bytes"`
	WriteTimeoutMS int    `json:"write_timeout_ms"`
	PongTimeoutMS  int    `json:"pong_timeout_ms"`
	PingIntervalMS int    `json:"ping_interval_ms"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadLimitBytes <= 0 {
		c.ReadLimitBytes = 64 * 1024
	}
	if c.WriteTimeoutMS <= 0 {
		c.WriteTimeoutMS = 10000
	}
	if c.PongTimeoutMS <= 0 {
		c.PongTimeoutMS = 60000
	}
	if c.PingIntervalMS <= 0 {
		c.PingIntervalMS = 25000
	}
}

// Server upgrades HTTP connections and pumps frames between the socket
// and the coordinator.
type Server struct {
	cfg      Config
	coord    *coordinator.Coordinator
	log      logger.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a websocket server for the coordinator.
func NewServer(cfg Config, coord *coordinator.Coordinator, log logger.Logger) *Server {
	cfg.SetDefaults()
	return &Server{
		cfg:   cfg,
		coord: coord,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Origin checks are the responsibility of the reverse proxy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler serving /ws, /healthz and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

// Run serves until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("ws server shutdown: %v", err)
		}
	}()
	s.log.Infof("websocket server listening on %s", s.cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("upgrade: %v", err)
		return
	}

	// All socket writes flow through out, drained by a single writer.
	out := make(chan protocol.Envelope, 64)
	var closeOnce sync.Once
	closeOut := func() { closeOnce.Do(func() { close(out) }) }

	conn := s.coord.NewConn(func(env protocol.Envelope) {
		select {
		case out <- env:
		default:
			s.log.Warnf("dropped %s: connection send buffer full", env.Type)
		}
	})

	go s.writePump(sock, out)

	sock.SetReadLimit(s.cfg.ReadLimitBytes)
	pongWait := time.Duration(s.cfg.PongTimeoutMS) * time.Millisecond
	_ = sock.SetReadDeadline(time.Now().Add(pongWait))
	sock.SetPongHandler(func(string) error {
		return sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	forwarding := false
	for {
		_, raw, err := sock.ReadMessage()
		if err != nil {
			break
		}
		_ = sock.SetReadDeadline(time.Now().Add(pongWait))
		conn.HandleRaw(raw)
		// Once authenticated, bridge the session queue onto the socket.
		if sess := conn.Session(); sess != nil && !forwarding {
			forwarding = true
			go func() {
				for env := range sess.Outbound() {
					select {
					case out <- env:
					default:
						// writer stalled or gone; dropping beats leaking
						s.log.Warnf("dropped %s for %s: socket buffer full", env.Type, sess.EditorID)
					}
				}
				closeOut()
			}()
		}
	}

	// Socket closed: run the disconnect path. Leave closes the session
	// queue, which ends the forwarder and then the writer.
	conn.Close()
	if conn.Session() == nil {
		closeOut()
	}
}

// writePump drains the out channel onto the socket. It owns every write,
// so broadcast order per session is the enqueue order.
func (s *Server) writePump(sock *websocket.Conn, out <-chan protocol.Envelope) {
	writeTimeout := time.Duration(s.cfg.WriteTimeoutMS) * time.Millisecond
	ticker := time.NewTicker(time.Duration(s.cfg.PingIntervalMS) * time.Millisecond)
	defer func() {
		ticker.Stop()
		_ = sock.Close()
	}()
	for {
		select {
		case env, ok := <-out:
			_ = sock.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = sock.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := sock.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = sock.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
