package server

import "net/http"

func NewMux(h *Handlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", h.handleAnalyze)
	mux.HandleFunc("/api/pack", h.handlePack)
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/", h.handleRoot)
	return cors(mux)
}
