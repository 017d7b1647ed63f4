package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/sim"
)

const (
	writeWait    = 5 * time.Second
	readWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	outboxSize   = 256
)

// session is one websocket client. At most one run streams at a time;
// starting or stopping cancels whatever was in flight.
type session struct {
	srv *Server
	ctx context.Context
	out chan ServerMsg

	mu     sync.Mutex
	cancel context.CancelFunc
	timer  *time.Timer
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ss := &session{srv: s, ctx: ctx, out: make(chan ServerMsg, outboxSize)}
	defer ss.stop()

	writeErr := make(chan error, 1)
	go func() { writeErr <- ss.writeLoop(conn) }()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	s.log.Debug("websocket connected", "remote", r.RemoteAddr)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		ss.handle(data)
	}

	ss.stop()
	cancel()
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

	select {
	case <-writeErr:
	case <-time.After(500 * time.Millisecond):
	}
	s.log.Debug("websocket closed", "remote", r.RemoteAddr)
}

func (ss *session) writeLoop(conn *websocket.Conn) error {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-ss.ctx.Done():
			return ss.ctx.Err()
		case msg := <-ss.out:
			b, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return err
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

func (ss *session) handle(data []byte) {
	var msg ClientMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		ss.send(ss.ctx, errorMsg("invalid message: "+err.Error()))
		return
	}

	switch msg.Type {
	case MsgStartSimulation:
		p, err := ss.resolve(msg)
		if err != nil {
			ss.send(ss.ctx, errorMsg(err.Error()))
			return
		}
		ss.start(msg.ScenarioID, p, 0)

	case MsgUpdateParams:
		p, err := ss.resolve(msg)
		if err != nil {
			ss.send(ss.ctx, errorMsg(err.Error()))
			return
		}
		ss.stop()
		if _, err := ss.srv.scenarios.UpdateParams(msg.ScenarioID, p); err != nil {
			ss.srv.log.Debug("update_params for unstored scenario", "id", msg.ScenarioID)
		}
		ss.send(ss.ctx, ServerMsg{Type: MsgParamsAck, ScenarioID: msg.ScenarioID})
		ss.start(msg.ScenarioID, p, ss.srv.debounce)

	case MsgStopSimulation:
		ss.stop()

	default:
		ss.send(ss.ctx, errorMsg(fmt.Sprintf("unknown message type %q", msg.Type)))
	}
}

// resolve builds the parameters for msg: the stored scenario, or the
// defaults when none is stored, overlaid with any params in the message.
func (ss *session) resolve(msg ClientMsg) (config.Scenario, error) {
	stored, err := ss.srv.scenarios.Get(msg.ScenarioID)
	if err != nil && len(msg.Params) == 0 {
		return config.Scenario{}, fmt.Errorf("scenario '%s' not found", msg.ScenarioID)
	}
	p := stored.Params
	if err != nil {
		p = *config.DefaultScenario()
		p.Meta.ID = msg.ScenarioID
	}
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return config.Scenario{}, fmt.Errorf("invalid params: %w", err)
		}
	}
	return p, nil
}

func (ss *session) start(id string, p config.Scenario, delay time.Duration) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.stopLocked()

	ctx, cancel := context.WithCancel(ss.ctx)
	ss.cancel = cancel
	if delay <= 0 {
		go ss.run(ctx, id, p)
		return
	}
	ss.timer = time.AfterFunc(delay, func() { ss.run(ctx, id, p) })
}

func (ss *session) stop() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.stopLocked()
}

func (ss *session) stopLocked() {
	if ss.timer != nil {
		ss.timer.Stop()
		ss.timer = nil
	}
	if ss.cancel != nil {
		ss.cancel()
		ss.cancel = nil
	}
}

// run solves p and forwards the trajectory one sample per message.
func (ss *session) run(ctx context.Context, id string, p config.Scenario) {
	out, err := sim.Run(ss.srv.tables, &p)
	if err != nil {
		ss.send(ctx, errorMsg(err.Error()))
		return
	}
	for _, st := range out.States {
		if !ss.send(ctx, stepMsg(st)) {
			return
		}
	}
	if ss.send(ctx, ServerMsg{Type: MsgSimComplete, ScenarioID: id, TotalSteps: len(out.States)}) {
		ss.srv.scenarios.SetOutput(id, out)
	}
}

func (ss *session) send(ctx context.Context, msg ServerMsg) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case ss.out <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}
