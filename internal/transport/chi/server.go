// Package chi exposes the capability inspector over HTTP: provider
// matrices, query compatibility checks, and the fallback pass as a
// service.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/searchbridge/searchbridge"
	"github.com/searchbridge/searchbridge/capability"
	"github.com/searchbridge/searchbridge/internal/metrics"
)

// Error response codes.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeProviderNotFound   = "provider_not_found"
	codeUnsupportedFeature = "unsupported_feature"
	codeInternalError      = "internal_error"
)

// errorResponse is the wire form of every error.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the inspector API over a set of configured providers.
type Server struct {
	providers     map[string]*searchbridge.Provider
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the inspector server. providers maps provider
// name to its configured Provider; every known name should be present.
func NewServer(providers map[string]*searchbridge.Provider, logger *zap.Logger) *Server {
	s := &Server{
		providers: providers,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(searchbridge.ErrUnknownProvider, http.StatusNotFound, codeProviderNotFound),
		sentinelHandler(searchbridge.ErrInvalidQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(searchbridge.ErrUnsupported, http.StatusNotImplemented, codeUnsupportedFeature),
		sentinelHandler(searchbridge.ErrInternal, http.StatusInternalServerError, codeInternalError),
	}
	return s
}

// Routes mounts all inspector routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1/providers", func(r chi.Router) {
		r.Get("/", s.ListProviders)
		r.Route("/{provider}", func(r chi.Router) {
			r.Get("/capabilities", s.GetCapabilities)
			r.Post("/check", s.CheckQuery)
			r.Post("/process", s.ProcessResults)
		})
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListProviders handles GET /v1/providers.
func (s *Server) ListProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"providers": searchbridge.Providers(),
	})
}

// GetCapabilities handles GET /v1/providers/{provider}/capabilities.
func (s *Server) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	p, ok := s.provider(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.CapabilityMatrix())
}

// CheckQuery handles POST /v1/providers/{provider}/check.
func (s *Server) CheckQuery(w http.ResponseWriter, r *http.Request) {
	p, ok := s.provider(w, r)
	if !ok {
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	query, err := req.toQuery()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	report := p.ValidateQueryCompatibility(&query)
	s.recordCheck(p.Name(), report.FullySupported)
	for _, issue := range report.Issues {
		metrics.CompatibilityIssuesTotal.WithLabelValues(p.Name(), string(issue.Kind)).Inc()
	}

	writeJSON(w, http.StatusOK, report)
}

// processRequest is the body of the process endpoint.
type processRequest struct {
	Results resultsPayload `json:"results"`
	Query   queryRequest   `json:"query"`
}

// ProcessResults handles POST /v1/providers/{provider}/process.
func (s *Server) ProcessResults(w http.ResponseWriter, r *http.Request) {
	p, ok := s.provider(w, r)
	if !ok {
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	query, err := req.Query.toQuery()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results := req.Results.toResults()
	if err := p.ProcessResults(&results, &query); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultsToPayload(results))
}

// provider resolves the {provider} URL param. On failure it writes
// the error response and returns ok=false.
func (s *Server) provider(w http.ResponseWriter, r *http.Request) (*searchbridge.Provider, bool) {
	name := chi.URLParam(r, "provider")
	p, ok := s.providers[name]
	if !ok {
		s.handleDomainError(w, capability.ErrUnknownProvider)
		return nil, false
	}
	return p, true
}

func (s *Server) recordCheck(provider string, fullySupported bool) {
	result := "degraded"
	if fullySupported {
		result = "supported"
	}
	metrics.CompatibilityChecksTotal.WithLabelValues(provider, result).Inc()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		searchbridge.ErrUnknownProvider,
		searchbridge.ErrInvalidQuery,
		searchbridge.ErrUnsupported,
		searchbridge.ErrInternal,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
