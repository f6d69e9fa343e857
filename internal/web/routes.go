package web

import "net/http"

type APIV1Config struct {
	Deps    APIV1Deps
	DevMode bool
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	var h http.Handler = http.StripPrefix("/api/v1", apiV1Router(cfg.Deps))
	if cfg.DevMode {
		h = WithDevCORS(h)
	}
	mux.Handle("/api/v1/", h)
}

// RegisterUI serves staticDir at "/", or a built-in page showing the
// latest frame when staticDir is empty.
func RegisterUI(mux *http.ServeMux, staticDir string) {
	mux.Handle("/", StaticUIHandler(staticDir))
}

// NewDefaultMux builds the mux used by the binary:
// - /api/v1/* for the API
// - / for the preview page
func NewDefaultMux(staticDir string, cfg APIV1Config) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	RegisterUI(mux, staticDir)
	return mux
}
