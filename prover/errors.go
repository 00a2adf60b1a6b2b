package prover

import (
	"errors"

	"github.com/mynextid/zk-sum/common"
	"github.com/mynextid/zk-sum/zkvm"
)

var (
	// ErrBackend is returned when setup, execution, proving or verification fails internally
	ErrBackend = errors.New("backend failure")
	// ErrRejected is returned when a proof is not valid for the given verifying key
	ErrRejected = errors.New("proof rejected")
	// ErrCompactKey is returned when a compact key digest is decoded as a full verifying key
	ErrCompactKey = errors.New("compact verifying key digest where a full verifying key is required")
)

// re-exported so callers of the backend need a single import
var (
	ErrGuestFault        = zkvm.ErrGuestFault
	ErrArtifactNotFound  = common.ErrArtifactNotFound
	ErrMalformedArtifact = common.ErrMalformedArtifact
)

// IsRejection reports whether err is a verification rejection rather than a fault
func IsRejection(err error) bool {
	return errors.Is(err, ErrRejected)
}
