package prover

import (
	"context"

	"github.com/mynextid/zk-sum/zkvm"
)

// Backend is the proving engine capability: run, setup, prove and verify
type Backend interface {
	// Execute runs the guest without producing a proof
	Execute(ctx context.Context, p *zkvm.Program, stdin *zkvm.Stdin) (*zkvm.PublicValues, *ExecutionReport, error)
	// Setup derives the key pair of a program image
	Setup(ctx context.Context, p *zkvm.Program) (*ProvingKey, *VerifyingKey, error)
	// Prove runs the guest and proves its public values
	Prove(ctx context.Context, pk *ProvingKey, stdin *zkvm.Stdin) (*ProofBundle, error)
	// Verify returns nil iff the bundle is accepted, ErrRejected otherwise
	Verify(ctx context.Context, bundle *ProofBundle, vk *VerifyingKey) error
}

// ExecutionReport describes a run without proof
type ExecutionReport struct {
	// Cycles is the number of constraints checked against the execution trace
	Cycles  uint64 `json:"cycles"`
	Reads   int    `json:"reads"`
	Commits int    `json:"commits"`
}

// TotalInstructionCount returns the cycle count of the run
func (r *ExecutionReport) TotalInstructionCount() uint64 {
	return r.Cycles
}
