package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/rook-computer/overlay/internal/app"
	"github.com/rook-computer/overlay/internal/gfx/memdev"
	"github.com/rook-computer/overlay/internal/state"
)

// SimControl exposes the headless surface's fault switches and the scene
// presets over HTTP so recovery paths can be driven from outside.
type SimControl struct {
	surface         *memdev.Surface
	store           *state.Store
	width, height   int
	startupScenario string
	currentScenario atomic.Value // string
}

func NewSimControl(surface *memdev.Surface, store *state.Store, startupScenario string) *SimControl {
	c := &SimControl{
		surface:         surface,
		store:           store,
		width:           surface.Image.Bounds().Dx(),
		height:          surface.Image.Bounds().Dy(),
		startupScenario: strings.TrimSpace(startupScenario),
	}
	if c.startupScenario == "" {
		c.startupScenario = "demo"
	}
	c.currentScenario.Store(c.startupScenario)
	return c
}

func (c *SimControl) Scenario() string { return c.currentScenario.Load().(string) }

func (c *SimControl) ApplyScenario(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.startupScenario
	}
	scene, err := app.Preset(name, c.width, c.height)
	if err != nil {
		return err
	}
	c.store.SetScene(scene)
	c.currentScenario.Store(name)
	return nil
}

func (c *SimControl) Reset() error {
	c.surface.SetFaults(memdev.Faults{})
	return c.ApplyScenario(c.startupScenario)
}

// LoseDevice makes the next present fail with a lost device.
func (c *SimControl) LoseDevice() memdev.Faults {
	f := c.surface.CurrentFaults()
	f.LoseNext = true
	c.surface.SetFaults(f)
	return f
}

type simStatus struct {
	Scenario string        `json:"scenario"`
	Opens    int           `json:"opens"`
	Faults   memdev.Faults `json:"faults"`
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl) {
	status := func() simStatus {
		return simStatus{
			Scenario: control.Scenario(),
			Opens:    control.surface.OpenCount(),
			Faults:   control.surface.CurrentFaults(),
		}
	}

	mux.HandleFunc("/sim/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeSimJSON(w, http.StatusOK, status())
	})

	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := control.Reset(); err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, status())
	})

	mux.HandleFunc("/sim/scenario/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/sim/scenario/"), "/")
		if err := control.ApplyScenario(name); err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, status())
	})

	mux.HandleFunc("/sim/lose", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		control.LoseDevice()
		writeSimJSON(w, http.StatusOK, status())
	})

	mux.HandleFunc("/sim/faults", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, control.surface.CurrentFaults())
		case http.MethodPost:
			var patch struct {
				FailOpen          *bool `json:"failOpen"`
				FailTextureN      *int  `json:"failTextureN"`
				LoseAfterPresents *int  `json:"loseAfterPresents"`
				LoseNext          *bool `json:"loseNext"`
			}
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&patch); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			current := control.surface.CurrentFaults()
			if patch.FailOpen != nil {
				current.FailOpen = *patch.FailOpen
			}
			if patch.FailTextureN != nil {
				current.FailTextureN = *patch.FailTextureN
			}
			if patch.LoseAfterPresents != nil {
				current.LoseAfterPresents = *patch.LoseAfterPresents
			}
			if patch.LoseNext != nil {
				current.LoseNext = *patch.LoseNext
			}
			if current.FailTextureN < 0 || current.LoseAfterPresents < 0 {
				writeSimError(w, http.StatusBadRequest, fmt.Sprintf("negative fault counter in %+v", current))
				return
			}
			control.surface.SetFaults(current)
			writeSimJSON(w, http.StatusOK, current)
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
