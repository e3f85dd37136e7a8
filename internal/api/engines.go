package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hyalite/mediacopy/internal/engine"
	"github.com/hyalite/mediacopy/internal/model"
)

// listEnginesResponse is the JSON response for GET /v1/engines.
type listEnginesResponse struct {
	Generation string         `json:"generation"`
	Engines    []model.Engine `json:"engines"`
}

func (s *Server) handleListEngines(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, listEnginesResponse{
		Generation: s.generation.Name(),
		Engines:    s.registry.List(),
	})
}

// probeRequest is the JSON body for POST /v1/capabilities.
type probeRequest struct {
	Src    surfaceSpec `json:"src"`
	Dst    surfaceSpec `json:"dst"`
	Policy string      `json:"policy"`
}

// probeResponse answers a capability probe without allocating surfaces or
// touching hardware.
type probeResponse struct {
	Legal        bool                `json:"legal"`
	Capabilities model.CapabilitySet `json:"capabilities"`
	Engine       model.Engine        `json:"engine,omitempty"`
	Reason       string              `json:"reason,omitempty"`
}

// handleProbeCapabilities runs the same legality, capability, and selection
// pipeline the engine runs, against metadata alone. The answer matches what a
// real copy of these surfaces would do.
func (s *Server) handleProbeCapabilities(w http.ResponseWriter, r *http.Request) {
	var req probeRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	policy, err := model.ParsePolicy(req.Policy)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	src, err := req.Src.surface()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "src: "+err.Error())
		return
	}
	dst, err := req.Dst.surface()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "dst: "+err.Error())
		return
	}

	if err := engine.CheckProtection(src, dst, s.allowProtectedBltCopy); err != nil {
		s.writeJSON(w, http.StatusOK, probeResponse{Legal: false, Reason: err.Error()})
		return
	}

	caps, err := engine.EvaluateCaps(src, dst, s.generation, s.registry.Available())
	if errors.Is(err, engine.ErrNoCapableEngine) {
		s.writeJSON(w, http.StatusOK, probeResponse{Legal: true, Capabilities: caps, Reason: err.Error()})
		return
	}
	if err != nil {
		s.logger.Error("probe capabilities", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to evaluate capabilities")
		return
	}

	choice, err := engine.SelectEngine(caps, policy, model.ForceNone)
	if err != nil {
		s.logger.Error("probe selection", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to select engine")
		return
	}

	s.writeJSON(w, http.StatusOK, probeResponse{
		Legal:        true,
		Capabilities: caps,
		Engine:       choice,
	})
}
