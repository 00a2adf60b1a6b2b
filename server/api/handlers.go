package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mynextid/zk-sum/models"
	"github.com/mynextid/zk-sum/prover"
	"github.com/mynextid/zk-sum/zkvm"
)

// Server handles HTTP requests for prover operations
type Server struct {
	registry *ProgramRegistry
	backend  prover.Backend
	metrics  *Metrics
}

// NewServer creates a new HTTP server
func NewServer(registry *ProgramRegistry, backend prover.Backend, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Server{
		registry: registry,
		backend:  backend,
		metrics:  metrics,
	}
}

// Metrics returns the metrics collected by the server
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ==== Handlers ====

// HandleHealth handles health check requests
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// HandleListPrograms lists all available programs
func (s *Server) HandleListPrograms(w http.ResponseWriter, r *http.Request) {
	programs := make([]models.ProgramInfo, 0, len(ProgramList))

	for name := range ProgramList {
		programs = append(programs, s.info(name))
	}

	respondJSON(w, http.StatusOK, models.ProgramListResponse{
		Programs: programs,
		Count:    len(programs),
	})
}

// HandleGetProgram gets information about a specific program
func (s *Server) HandleGetProgram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "program")

	if _, ok := ProgramList[name]; !ok {
		respondError(w, http.StatusNotFound, models.CodeProgramNotFound,
			fmt.Sprintf("program '%s' not found", name))
		return
	}

	respondJSON(w, http.StatusOK, s.info(name))
}

// HandleSetup returns the full verifying key of a program
func (s *Server) HandleSetup(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loaded(w, r)
	if !ok {
		return
	}

	vk, err := p.VerifyingKey.Encode()
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.CodeBackendFailure, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, models.SetupResponse{
		Program:      p.Image.ID(),
		VerifyingKey: vk,
		Digest:       p.Digest.String(),
	})
}

// HandleExecute runs a program without proof
func (s *Server) HandleExecute(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loaded(w, r)
	if !ok {
		return
	}

	var req models.ExecuteRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	stdin, ok := decodeStdin(w, req.Stdin)
	if !ok {
		return
	}

	start := time.Now()
	pv, report, err := s.backend.Execute(r.Context(), p.Image, stdin)
	s.metrics.Observe("execute", p.Image.ID(), start, status(err))
	if err != nil {
		respondBackendError(w, "execution failed", err)
		return
	}

	respondJSON(w, http.StatusOK, models.ExecuteResponse{
		PublicValues: pv.Bytes(),
		Cycles:       report.Cycles,
		Reads:        report.Reads,
		Commits:      report.Commits,
		Timestamp:    time.Now(),
	})
}

// HandleProve handles proof generation requests
func (s *Server) HandleProve(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loaded(w, r)
	if !ok {
		return
	}

	var req models.ProveRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	stdin, ok := decodeStdin(w, req.Stdin)
	if !ok {
		return
	}

	start := time.Now()
	bundle, err := s.backend.Prove(r.Context(), p.ProvingKey, stdin)
	s.metrics.Observe("prove", p.Image.ID(), start, status(err))
	if err != nil {
		respondBackendError(w, "failed to generate proof", err)
		return
	}

	data, err := bundle.Encode()
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.CodeBackendFailure, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, models.ProveResponse{
		Bundle:    data,
		Timestamp: time.Now(),
	})
}

// HandleVerify handles proof verification requests against the served key
func (s *Server) HandleVerify(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loaded(w, r)
	if !ok {
		return
	}

	var req models.VerifyRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if len(req.Bundle) == 0 {
		respondError(w, http.StatusBadRequest, models.CodeMissingInput, "bundle is required")
		return
	}

	bundle, err := prover.DecodeProofBundle(req.Bundle)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.CodeMalformed, err.Error())
		return
	}

	start := time.Now()
	err = s.backend.Verify(r.Context(), bundle, p.VerifyingKey)
	s.metrics.Observe("verify", p.Image.ID(), start, status(err))
	if err != nil && !prover.IsRejection(err) {
		respondBackendError(w, "verification failed", err)
		return
	}

	response := models.VerifyResponse{
		Valid:     err == nil,
		Timestamp: time.Now(),
	}
	if err != nil {
		response.Message = fmt.Sprintf("verification failed: %v", err)
	} else {
		response.Message = "proof is valid"
	}

	respondJSON(w, http.StatusOK, response)
}

// ==== Helper Functions ====

func (s *Server) info(name string) models.ProgramInfo {
	img := ProgramList[name]
	info := models.ProgramInfo{
		Name:        img.Name,
		ID:          img.ID(),
		Version:     img.Version,
		Description: img.Description,
	}
	if p, err := s.registry.Get(name); err == nil {
		info.Loaded = true
		info.Constraints = p.Constraints
		info.Integrity = p.Digest.String()
	}
	return info
}

// loaded resolves the program of the request, answering the error itself when it is not served
func (s *Server) loaded(w http.ResponseWriter, r *http.Request) (*Program, bool) {
	name := chi.URLParam(r, "program")

	if _, ok := ProgramList[name]; !ok {
		respondError(w, http.StatusNotFound, models.CodeProgramNotFound,
			fmt.Sprintf("program '%s' not found", name))
		return nil, false
	}

	p, err := s.registry.Get(name)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, models.CodeProgramNotLoaded,
			fmt.Sprintf("program '%s' is not loaded: %v", name, err))
		return nil, false
	}
	return p, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.CodeInvalidRequest,
			"failed to read request body")
		return false
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, v); err != nil {
		respondError(w, http.StatusBadRequest, models.CodeInvalidJSON,
			fmt.Sprintf("failed to parse request: %v", err))
		return false
	}
	return true
}

func decodeStdin(w http.ResponseWriter, data []byte) (*zkvm.Stdin, bool) {
	stdin := zkvm.NewStdin()
	if len(data) == 0 {
		return stdin, true
	}
	if err := stdin.UnmarshalBinary(data); err != nil {
		respondError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return nil, false
	}
	return stdin, true
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case prover.IsRejection(err):
		return "rejected"
	default:
		return "error"
	}
}

func respondBackendError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, zkvm.ErrGuestFault):
		respondError(w, http.StatusUnprocessableEntity, models.CodeGuestFault, fmt.Sprintf("%s: %v", msg, err))
	case errors.Is(err, prover.ErrMalformedArtifact):
		respondError(w, http.StatusBadRequest, models.CodeMalformed, fmt.Sprintf("%s: %v", msg, err))
	default:
		respondError(w, http.StatusInternalServerError, models.CodeBackendFailure, fmt.Sprintf("%s: %v", msg, err))
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, models.ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: time.Now(),
	})
}
