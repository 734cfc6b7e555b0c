package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dealguard-ai/dealguard/internal/analyzer"
	"github.com/dealguard-ai/dealguard/internal/ner"
	"github.com/dealguard-ai/dealguard/internal/recorder"
	"github.com/dealguard-ai/dealguard/internal/redact"
	"github.com/dealguard-ai/dealguard/internal/telemetry"
)

// maxBodyBytes bounds the request body; negotiation messages are short.
const maxBodyBytes = 1 << 20

// Server wraps the HTTP components for the analysis API.
type Server struct {
	mux      *http.ServeMux
	analyzer *analyzer.Analyzer
	rec      recorder.Recorder
	tel      *telemetry.Provider
	lazy     *ner.Lazy
	version  string
}

// NewServer builds the API server. rec, tel and lazy may be nil.
func NewServer(a *analyzer.Analyzer, rec recorder.Recorder, tel *telemetry.Provider, lazy *ner.Lazy, version string) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	s := &Server{
		mux:      http.NewServeMux(),
		analyzer: a,
		rec:      rec,
		tel:      tel,
		lazy:     lazy,
		version:  version,
	}

	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/v1/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/v1/status", s.handleStatus)

	return s
}

// Handler exposes the mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Start runs the HTTP server on the given address.
func (s *Server) Start(addr string) error {
	redact.Logf("dealguard API running on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok\n"))
}

type analyzeRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req analyzeRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := r.Context()
	if s.tel != nil {
		spanCtx, span := s.tel.StartSpan(ctx, "analyze")
		defer span.End()
		ctx = spanCtx
	}

	report, err := s.analyzer.Analyze(ctx, req.Message)
	if err != nil {
		if errors.Is(err, analyzer.ErrEmptyInput) {
			writeError(w, http.StatusBadRequest, "message is empty")
			return
		}
		redact.Logf("analyze failed: %v", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	labels := make([]string, 0, len(report.Risk.Reasons))
	for _, reason := range report.Risk.Reasons {
		labels = append(labels, reason.Label)
	}
	if err := s.rec.RecordAnalysis(&recorder.Entry{
		Score:     report.Risk.Score,
		Tier:      string(report.Risk.Tier),
		Labels:    labels,
		Payment:   report.Snapshot.Payment,
		LinkCount: len(report.Snapshot.Links),
		Source:    "http",
	}); err != nil {
		redact.Logf("record analysis: %v", err)
	}

	writeJSON(w, http.StatusOK, report)
}

type statusResponse struct {
	Version  string `json:"version"`
	NERState string `json:"ner_state"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	state := "disabled"
	if s.lazy != nil {
		state = string(s.lazy.State())
	}
	writeJSON(w, http.StatusOK, statusResponse{Version: s.version, NERState: state})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		redact.Logf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
