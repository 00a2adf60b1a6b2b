package models

import "time"

// ProgramInfo describes a program image served by a prover
type ProgramInfo struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	Version     uint   `json:"version"`
	Description string `json:"description,omitempty"`
	Constraints int    `json:"constraints"`
	// Integrity is the hex compact digest of the program's verifying key
	Integrity string `json:"integrity,omitempty"`
	Loaded    bool   `json:"loaded"`
}

// ProgramListResponse represents a list of programs
type ProgramListResponse struct {
	Programs []ProgramInfo `json:"programs"`
	Count    int           `json:"count"`
}

// SetupResponse carries the full verifying key of a program
type SetupResponse struct {
	Program      string `json:"program"`
	VerifyingKey []byte `json:"verifying_key"` // base64 encoded full form
	Digest       string `json:"digest"`
}

// ExecuteRequest represents a run without proof
type ExecuteRequest struct {
	Stdin []byte `json:"stdin"` // base64 encoded private inputs
}

// ExecuteResponse returns the committed values and the execution report
type ExecuteResponse struct {
	PublicValues []byte    `json:"public_values"`
	Cycles       uint64    `json:"cycles"`
	Reads        int       `json:"reads"`
	Commits      int       `json:"commits"`
	Timestamp    time.Time `json:"timestamp"`
}

// ProveRequest represents a proof generation request
type ProveRequest struct {
	Stdin []byte `json:"stdin"`
}

// ProveResponse represents a proof generation response
type ProveResponse struct {
	Bundle    []byte    `json:"bundle"` // base64 encoded proof bundle
	Timestamp time.Time `json:"timestamp"`
}

// VerifyRequest represents a proof verification request against the served key
type VerifyRequest struct {
	Bundle []byte `json:"bundle"`
}

// VerifyResponse represents a proof verification response
type VerifyResponse struct {
	Valid     bool      `json:"valid"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
}

// Error codes returned by the prover service
const (
	CodeProgramNotFound  = "program_not_found"
	CodeProgramNotLoaded = "program_not_loaded"
	CodeInvalidRequest   = "invalid_request"
	CodeInvalidJSON      = "invalid_json"
	CodeMissingInput     = "missing_input"
	CodeGuestFault       = "guest_fault"
	CodeBackendFailure   = "backend_failure"
	CodeMalformed        = "malformed_artifact"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
