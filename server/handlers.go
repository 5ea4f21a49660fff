package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/caba-llero/pytellite/config"
	"github.com/caba-llero/pytellite/session"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// defaultsView is the normalized shape §6 promises for GET /api/defaults —
// a subset of SimulationConfig's fields under the same JSON key names
// (omega_bi_radps, qc), leaving out name, frame, r_eci_m, v_eci_mps and
// epoch_utc.
type defaultsView struct {
	Spacecraft struct {
		Inertia [3]float64 `json:"inertia"`
		Shape   [3]float64 `json:"shape"`
	} `json:"spacecraft"`
	InitialConditions struct {
		QBI          [4]float64    `json:"q_bi"`
		OmegaBIRadps [3]float64    `json:"omega_bi_radps"`
		Orbit        config.Orbit  `json:"orbit"`
	} `json:"initial_conditions"`
	Simulation struct {
		DtSim         float64 `json:"dt_sim"`
		TMax          float64 `json:"t_max"`
		PlaybackSpeed float64 `json:"playback_speed"`
		SampleRate    float64 `json:"sample_rate"`
		RTol          float64 `json:"rtol"`
		ATol          float64 `json:"atol"`
	} `json:"simulation"`
	Control struct {
		ControlType string     `json:"control_type"`
		Kp          float64    `json:"kp"`
		Kd          float64    `json:"kd"`
		QC          [4]float64 `json:"qc"`
	} `json:"control"`
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	var v defaultsView
	v.Spacecraft.Inertia = s.Defaults.Spacecraft.Inertia
	v.Spacecraft.Shape = s.Defaults.Spacecraft.Shape
	v.InitialConditions.QBI = s.Defaults.InitialConditions.QBI
	v.InitialConditions.OmegaBIRadps = s.Defaults.InitialConditions.OmegaBIRadps
	v.InitialConditions.Orbit = s.Defaults.InitialConditions.Orbit
	v.Simulation.DtSim = s.Defaults.Simulation.DtSim
	v.Simulation.TMax = s.Defaults.Simulation.TMax
	v.Simulation.PlaybackSpeed = s.Defaults.Simulation.PlaybackSpeed
	v.Simulation.SampleRate = s.Defaults.Simulation.SampleRate
	v.Simulation.RTol = s.Defaults.Simulation.RTol
	v.Simulation.ATol = s.Defaults.Simulation.ATol
	v.Control.ControlType = s.Defaults.Control.ControlType
	v.Control.Kp = s.Defaults.Control.Kp
	v.Control.Kd = s.Defaults.Control.Kd
	v.Control.QC = s.Defaults.Control.QCmd

	writeJSON(w, http.StatusOK, v)
}

type presetSummary struct {
	Name string `json:"name"`
	File string `json:"file"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	matches, err := filepath.Glob(filepath.Join(s.PresetsDir, "*.yaml"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	presets := make([]presetSummary, 0, len(matches))
	for _, path := range matches {
		cfg, err := loadPresetNameOnly(path)
		if err != nil {
			continue
		}
		name := cfg.Name
		if name == "" {
			name = filepath.Base(path)
		}
		presets = append(presets, presetSummary{Name: name, File: filepath.Base(path)})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"presets": presets})
}

func (s *Server) handlePresetFile(w http.ResponseWriter, r *http.Request) {
	filename := filepath.Base(mux.Vars(r)["filename"])
	if !strings.HasSuffix(filename, ".yaml") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid preset filename"})
		return
	}
	path := filepath.Join(s.PresetsDir, filename)
	if _, err := os.Stat(path); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "preset not found"})
		return
	}
	raw, err := loadPresetRaw(path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	merged := config.Merge(s.Defaults, payload)

	result, err := session.Compute(merged)
	if err != nil {
		s.Logger.Log("level", "warn", "subsys", "server", "msg", "compute failed", "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dataset": result.Dataset,
		"metrics": result.Metrics,
	})
}

func (s *Server) servePage(filename string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(s.StaticDir, filename))
	}
}

func (s *Server) handleIndexHead(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) serveStaticFile(relPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(s.StaticDir, relPath))
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
