package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/dynamo"
	"github.com/san-kum/world3/internal/sim"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errorStatus maps store and solver errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrScenarioNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPresetReadOnly):
		return http.StatusForbidden
	case errors.Is(err, ErrMissingID), errors.Is(err, config.ErrUnknownParam):
		return http.StatusBadRequest
	case errors.Is(err, dynamo.ErrDiverged), errors.Is(err, dynamo.ErrInvalidConfig), errors.Is(err, dynamo.ErrInvalidInitial):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeScenario reads a scenario body over base so omitted fields keep
// base's values.
func decodeScenario(w http.ResponseWriter, r *http.Request, base *config.Scenario) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(base)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.Descriptors())
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.scenarios.List(false))
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.scenarios.List(true))
}

func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	p := config.DefaultScenario()
	p.Meta.ID = ""
	if err := decodeScenario(w, r, p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid scenario: "+err.Error())
		return
	}
	sc, err := s.scenarios.Create(*p)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	s.log.Info("scenario created", "id", p.Meta.ID)
	writeJSON(w, http.StatusCreated, sc)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := s.scenarios.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.scenarios.Delete(id); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	s.log.Info("scenario deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleUpdateParams(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	cur, err := s.scenarios.Get(id)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	p := cur.Params
	if err := decodeScenario(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid params: "+err.Error())
		return
	}
	sc, err := s.scenarios.UpdateParams(id, p)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sc, err := s.scenarios.Get(id)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	out, err := sim.Run(s.tables, &sc.Params)
	if err != nil {
		s.log.Warn("run failed", "id", id, "error", err)
		writeError(w, errorStatus(err), err.Error())
		return
	}
	s.scenarios.SetOutput(id, out)
	writeJSON(w, http.StatusOK, out)
}
