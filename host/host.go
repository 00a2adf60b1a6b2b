package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mynextid/zk-sum/common"
	"github.com/mynextid/zk-sum/prover"
	"github.com/mynextid/zk-sum/zkvm"
)

// Default artifact file names
const (
	DefaultProofFile        = "proof_with_public_values.bin"
	DefaultVerifyingKeyFile = "vkey.bin"
)

// Paths locates the artifacts of a pipeline. Relative files are resolved against Dir.
type Paths struct {
	Dir              string
	ProofFile        string
	VerifyingKeyFile string
}

func DefaultPaths() Paths {
	return Paths{
		Dir:              ".",
		ProofFile:        DefaultProofFile,
		VerifyingKeyFile: DefaultVerifyingKeyFile,
	}
}

func (p Paths) resolve(name string) string {
	if filepath.IsAbs(name) || p.Dir == "" {
		return name
	}
	return filepath.Join(p.Dir, name)
}

// Proof returns the proof bundle path
func (p Paths) Proof() string {
	return p.resolve(p.ProofFile)
}

// VerifyingKey returns the verifying key path
func (p Paths) VerifyingKey() string {
	return p.resolve(p.VerifyingKeyFile)
}

// Host drives one program through execute, prove, verify and vkey export.
// Each call is a single linear pipeline; the first failing stage aborts it.
type Host struct {
	Backend prover.Backend
	Program *zkvm.Program
	Paths   Paths
	Out     io.Writer
	Logger  common.Logger
}

// New creates a host. Out receives the diagnostic text of every mode.
func New(backend prover.Backend, program *zkvm.Program, paths Paths, out io.Writer, logger common.Logger) *Host {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = common.NopLogger()
	}
	return &Host{
		Backend: backend,
		Program: program,
		Paths:   paths,
		Out:     out,
		Logger:  logger,
	}
}

// ExecuteResult is the outcome of Execute
type ExecuteResult struct {
	Commitment   uint32
	PublicValues *zkvm.PublicValues
	Report       *prover.ExecutionReport
}

// ProveResult is the outcome of Prove
type ProveResult struct {
	Bundle       *prover.ProofBundle
	VerifyingKey *prover.VerifyingKey
	Elapsed      time.Duration
}

// VerifyResult is the outcome of an accepted Verify
type VerifyResult struct {
	Bundle     *prover.ProofBundle
	Commitment uint32
}

// VkeyResult is the outcome of Vkey
type VkeyResult struct {
	Digest prover.VerifyingKeyDigest
}

// inputs writes a then b, in that order, into a fresh channel
func inputs(a, b uint32) *zkvm.Stdin {
	stdin := zkvm.NewStdin()
	stdin.WriteU32(a)
	stdin.WriteU32(b)
	return stdin
}

// decodeCommitment decodes the single u32 every hosted program commits
func decodeCommitment(pv *zkvm.PublicValues) (uint32, error) {
	if pv.Len() != 4 {
		return 0, fmt.Errorf("%w: want one u32, have %d bytes", zkvm.ErrPublicValues, pv.Len())
	}
	return pv.U32At(0)
}

// Execute runs the guest without proof and prints the commitment and cycle count
func (h *Host) Execute(ctx context.Context, a, b uint32) (*ExecuteResult, error) {
	pv, report, err := h.Backend.Execute(ctx, h.Program, inputs(a, b))
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	commitment, err := decodeCommitment(pv)
	if err != nil {
		return nil, fmt.Errorf("execute: decode commitment: %w", err)
	}

	fmt.Fprintf(h.Out, "Execution output: %d\n", commitment)
	fmt.Fprintf(h.Out, "Cycles count: %d\n", report.TotalInstructionCount())

	return &ExecuteResult{Commitment: commitment, PublicValues: pv, Report: report}, nil
}

// Prove derives the key pair, proves the run over (a, b) and persists the
// proof bundle and the full verifying key.
func (h *Host) Prove(ctx context.Context, a, b uint32) (*ProveResult, error) {
	stdin := inputs(a, b)

	pk, vk, err := h.Backend.Setup(ctx, h.Program)
	if err != nil {
		return nil, fmt.Errorf("prove: setup: %w", err)
	}

	start := time.Now()
	bundle, err := h.Backend.Prove(ctx, pk, stdin)
	if err != nil {
		return nil, fmt.Errorf("prove: %w", err)
	}
	elapsed := time.Since(start)
	h.Logger.Info("proof generated", "program", h.Program.ID(), "took", elapsed)

	proofPath := h.Paths.Proof()
	if err := bundle.Save(proofPath); err != nil {
		return nil, fmt.Errorf("prove: write proof bundle: %w", err)
	}

	// a failure here leaves the bundle without its key, verify will refuse to load
	vkPath := h.Paths.VerifyingKey()
	if err := common.WriteArtifact(vkPath, vk); err != nil {
		return nil, fmt.Errorf("prove: write verifying key: %w", err)
	}

	fmt.Fprintf(h.Out, "[OK] Wrote %s and %s\n", proofPath, vkPath)
	fmt.Fprintf(h.Out, "Proving time: %s\n", elapsed.Round(time.Millisecond))

	return &ProveResult{Bundle: bundle, VerifyingKey: vk, Elapsed: elapsed}, nil
}

// Verify loads the artifacts written by Prove and checks the proof.
// Missing files surface as prover.ErrArtifactNotFound, invalid proofs as prover.ErrRejected.
func (h *Host) Verify(ctx context.Context) (*VerifyResult, error) {
	proofPath := h.Paths.Proof()
	if wd, err := os.Getwd(); err == nil {
		fmt.Fprintf(h.Out, "Current directory: %s\n", wd)
	}
	if abs, err := filepath.Abs(proofPath); err == nil {
		fmt.Fprintf(h.Out, "Looking for proof file at: %s\n", abs)
	}

	bundle, err := prover.LoadProofBundle(proofPath)
	if err != nil {
		return nil, fmt.Errorf("verify: load proof bundle: %w", err)
	}

	data, err := common.ReadArtifact(h.Paths.VerifyingKey())
	if err != nil {
		return nil, fmt.Errorf("verify: load verifying key: %w", err)
	}
	vk, err := prover.DecodeVerifyingKey(h.Program, data)
	if err != nil {
		return nil, fmt.Errorf("verify: load verifying key: %w", err)
	}

	if err := h.Backend.Verify(ctx, bundle, vk); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	commitment, err := decodeCommitment(bundle.Public())
	if err != nil {
		return nil, fmt.Errorf("verify: decode commitment: %w", err)
	}

	fmt.Fprintf(h.Out, "[OK] Proof is valid! Public commitment: %d\n", commitment)
	return &VerifyResult{Bundle: bundle, Commitment: commitment}, nil
}

// Vkey runs setup and persists only the compact digest of the verifying key
func (h *Host) Vkey(ctx context.Context) (*VkeyResult, error) {
	_, vk, err := h.Backend.Setup(ctx, h.Program)
	if err != nil {
		return nil, fmt.Errorf("vkey: setup: %w", err)
	}

	digest, err := vk.Digest()
	if err != nil {
		return nil, fmt.Errorf("vkey: %w", err)
	}

	vkPath := h.Paths.VerifyingKey()
	if err := common.WriteFileAtomic(vkPath, digest.Bytes()); err != nil {
		return nil, fmt.Errorf("vkey: write verifying key digest: %w", err)
	}

	fmt.Fprintf(h.Out, "[OK] %s written.\n", vkPath)
	fmt.Fprintf(h.Out, "Verifying key digest: %s\n", digest)

	return &VkeyResult{Digest: digest}, nil
}
