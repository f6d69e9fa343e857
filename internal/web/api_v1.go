package web

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/rook-computer/overlay/internal/palette"
	"github.com/rook-computer/overlay/internal/raster"
	"github.com/rook-computer/overlay/internal/state"
)

const maxBodyBytes = 64 << 10

// defaultMaxExtent caps shape sizes when APIV1Deps.MaxExtent is unset.
const defaultMaxExtent = 4096

// maxCoordinate bounds shape anchor points so box arithmetic cannot overflow.
const maxCoordinate = 1 << 40

// SceneStore is the part of state.Store the API needs.
type SceneStore interface {
	Snapshot() state.State
	AddShape(shape state.Shape)
	AddLabel(label state.Label)
	ClearScene()
}

type APIV1Deps struct {
	Store   SceneStore
	Preview *Preview
	// MaxExtent is the largest size, thickness, w or h a posted shape may
	// carry. Zero means defaultMaxExtent.
	MaxExtent int
}

func (d APIV1Deps) maxExtent() int {
	if d.MaxExtent > 0 {
		return d.MaxExtent
	}
	return defaultMaxExtent
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type statusResponse struct {
	Phase     string `json:"phase"`
	Frames    int64  `json:"frames"`
	Failures  int64  `json:"failures"`
	Reinits   int64  `json:"reinits"`
	LastError string `json:"lastError,omitempty"`
	Shapes    int    `json:"shapes"`
	Labels    int    `json:"labels"`
}

type labelRequest struct {
	Text  string `json:"text"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
}

type shapeRequest struct {
	Kind      string `json:"kind"`
	From      [2]int `json:"from"`
	To        [2]int `json:"to"`
	W         int    `json:"w"`
	H         int    `json:"h"`
	Size      int    `json:"size"`
	Color     string `json:"color"`
	Fill      bool   `json:"fill"`
	Thickness int    `json:"thickness"`
	Style     string `json:"style"`
}

type sceneResponse struct {
	Shapes []shapeRequest `json:"shapes"`
	Labels []labelRequest `json:"labels"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFrame(w, r, deps) })
	mux.HandleFunc("/labels", func(w http.ResponseWriter, r *http.Request) { handleLabels(w, r, deps) })
	mux.HandleFunc("/shapes", func(w http.ResponseWriter, r *http.Request) { handleShapes(w, r, deps) })
	mux.HandleFunc("/scene", func(w http.ResponseWriter, r *http.Request) { handleScene(w, r, deps) })
	return mux
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	snap := deps.Store.Snapshot()
	writeJSON(w, http.StatusOK, statusResponse{
		Phase:     snap.Phase.String(),
		Frames:    snap.Stats.Frames,
		Failures:  snap.Stats.Failures,
		Reinits:   snap.Stats.Reinits,
		LastError: snap.Stats.LastError,
		Shapes:    len(snap.Scene.Shapes),
		Labels:    len(snap.Scene.Labels),
	})
}

func handleFrame(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Preview == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "preview not configured")
		return
	}
	data, at, err := deps.Preview.PNG()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	if data == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no frame rendered yet")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Last-Modified", at.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func handleLabels(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var req labelRequest
	if err := decodeBody(r, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	label, err := req.toLabel()
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	deps.Store.AddLabel(label)
	writeJSON(w, http.StatusCreated, okResponse{OK: true})
}

func handleShapes(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var req shapeRequest
	if err := decodeBody(r, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	shape, err := req.toShape(deps.maxExtent())
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	deps.Store.AddShape(shape)
	writeJSON(w, http.StatusCreated, okResponse{OK: true})
}

func handleScene(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	switch r.Method {
	case http.MethodGet:
		snap := deps.Store.Snapshot()
		resp := sceneResponse{Shapes: []shapeRequest{}, Labels: []labelRequest{}}
		for _, s := range snap.Scene.Shapes {
			resp.Shapes = append(resp.Shapes, shapeFrom(s))
		}
		for _, l := range snap.Scene.Labels {
			resp.Labels = append(resp.Labels, labelRequest{Text: l.Text, X: l.At.X, Y: l.At.Y, Color: l.Color.String()})
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodDelete:
		deps.Store.ClearScene()
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func (req labelRequest) toLabel() (state.Label, error) {
	if req.Text == "" {
		return state.Label{}, fmt.Errorf("text is required")
	}
	c, err := parseColor(req.Color)
	if err != nil {
		return state.Label{}, err
	}
	return state.Label{Text: req.Text, At: image.Pt(req.X, req.Y), Color: c}, nil
}

func (req shapeRequest) toShape(maxExtent int) (state.Shape, error) {
	kind, ok := state.ParseShapeKind(req.Kind)
	if !ok {
		return state.Shape{}, fmt.Errorf("unknown shape kind %q", req.Kind)
	}
	for _, f := range []struct {
		name string
		v    int
	}{{"w", req.W}, {"h", req.H}, {"size", req.Size}, {"thickness", req.Thickness}} {
		if f.v < 0 || f.v > maxExtent {
			return state.Shape{}, fmt.Errorf("%s %d out of range [0, %d]", f.name, f.v, maxExtent)
		}
	}
	for _, v := range [...]int{req.From[0], req.From[1], req.To[0], req.To[1]} {
		if v < -maxCoordinate || v > maxCoordinate {
			return state.Shape{}, fmt.Errorf("coordinate %d out of range", v)
		}
	}
	c, err := parseColor(req.Color)
	if err != nil {
		return state.Shape{}, err
	}
	style := raster.Solid
	if req.Style != "" {
		if style, ok = raster.ParseLineStyle(req.Style); !ok {
			return state.Shape{}, fmt.Errorf("unknown line style %q", req.Style)
		}
	}
	return state.Shape{
		Kind:      kind,
		From:      image.Pt(req.From[0], req.From[1]),
		To:        image.Pt(req.To[0], req.To[1]),
		W:         req.W,
		H:         req.H,
		Size:      req.Size,
		Color:     c,
		Fill:      req.Fill,
		Thickness: req.Thickness,
		Style:     style,
	}, nil
}

func shapeFrom(s state.Shape) shapeRequest {
	return shapeRequest{
		Kind:      s.Kind.String(),
		From:      [2]int{s.From.X, s.From.Y},
		To:        [2]int{s.To.X, s.To.Y},
		W:         s.W,
		H:         s.H,
		Size:      s.Size,
		Color:     s.Color.String(),
		Fill:      s.Fill,
		Thickness: s.Thickness,
		Style:     s.Style.String(),
	}
}

// parseColor defaults an empty name to white.
func parseColor(name string) (palette.Color, error) {
	if name == "" {
		return palette.White, nil
	}
	return palette.Parse(name)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
