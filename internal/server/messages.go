package server

import (
	"encoding/json"

	"github.com/san-kum/world3/internal/world"
)

// Client message types.
const (
	MsgStartSimulation = "start_simulation"
	MsgUpdateParams    = "update_params"
	MsgStopSimulation  = "stop_simulation"
)

// Server message types.
const (
	MsgSimStep     = "sim_step"
	MsgSimComplete = "sim_complete"
	MsgSimError    = "sim_error"
	MsgParamsAck   = "params_ack"
)

// ClientMsg is any message a websocket client sends. Params, when present,
// is decoded over the stored scenario so partial overrides are allowed.
type ClientMsg struct {
	Type       string          `json:"type"`
	ScenarioID string          `json:"scenario_id,omitempty"`
	Params     json.RawMessage `json:"params,omitempty"`
}

// ServerMsg is any message the server pushes to a websocket client.
type ServerMsg struct {
	Type       string       `json:"type"`
	Year       float64      `json:"year,omitempty"`
	State      *world.State `json:"state,omitempty"`
	ScenarioID string       `json:"scenario_id,omitempty"`
	TotalSteps int          `json:"total_steps,omitempty"`
	Message    string       `json:"message,omitempty"`
}

func stepMsg(s world.State) ServerMsg {
	return ServerMsg{Type: MsgSimStep, Year: s.Time, State: &s}
}

func errorMsg(msg string) ServerMsg {
	return ServerMsg{Type: MsgSimError, Message: msg}
}
