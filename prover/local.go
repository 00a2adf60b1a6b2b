package prover

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/consensys/gnark/backend/plonk"
	"github.com/mynextid/zk-sum/common"
	"github.com/mynextid/zk-sum/zkvm"
)

// Local proves and verifies in process with gnark PLONK over BN254
type Local struct {
	seed   []byte
	logger common.Logger
}

// NewLocal creates an in-process backend. The seed is used as given; see
// ResolveSetupSeed. Without a seed the backend can execute and verify but
// refuses Setup.
func NewLocal(seed string, logger common.Logger) *Local {
	if logger == nil {
		logger = common.NopLogger()
	}
	return &Local{seed: []byte(seed), logger: logger}
}

func (l *Local) Execute(ctx context.Context, p *zkvm.Program, stdin *zkvm.Stdin) (*zkvm.PublicValues, *ExecutionReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	exec, err := zkvm.Run(p, stdin)
	if err != nil {
		return nil, nil, err
	}

	ccs, err := p.Image()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}

	w, err := p.Witness(stdin, exec.PublicValues)
	if err != nil {
		return nil, nil, err
	}
	if err := ccs.IsSolved(w); err != nil {
		return nil, nil, fmt.Errorf("%w: execution does not satisfy %s: %w", ErrBackend, p.ID(), err)
	}

	report := &ExecutionReport{
		Cycles:  uint64(ccs.GetNbConstraints()),
		Reads:   exec.Reads,
		Commits: exec.Commits,
	}
	l.logger.Debug("executed", "program", p.ID(), "cycles", report.Cycles)
	return exec.PublicValues, report, nil
}

func (l *Local) Setup(ctx context.Context, p *zkvm.Program) (*ProvingKey, *VerifyingKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if len(l.seed) == 0 {
		return nil, nil, fmt.Errorf("%w: %w: none configured", ErrBackend, ErrSetupSeed)
	}

	start := time.Now()
	ccs, err := p.Image()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}

	srs, srsLagrange, err := NewSRS(ccs, ToxicValue(l.seed, p.ID()))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}

	pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: setup failed: %w", ErrBackend, err)
	}
	l.logger.Debug("setup complete", "program", p.ID(), "constraints", ccs.GetNbConstraints(), "took", time.Since(start))

	verifyingKey := &VerifyingKey{Program: p, Key: vk}
	return &ProvingKey{Program: p, VerifyingKey: verifyingKey, key: pk}, verifyingKey, nil
}

func (l *Local) Prove(ctx context.Context, pk *ProvingKey, stdin *zkvm.Stdin) (*ProofBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pk.Remote() {
		return nil, fmt.Errorf("%w: proving key of %s is held by a remote prover", ErrBackend, pk.Program.ID())
	}
	p := pk.Program

	exec, err := zkvm.Run(p, stdin)
	if err != nil {
		return nil, err
	}

	ccs, err := p.Image()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}

	w, err := p.Witness(stdin, exec.PublicValues)
	if err != nil {
		return nil, err
	}

	proof, err := plonk.Prove(ccs, pk.key, w)
	if err != nil {
		return nil, fmt.Errorf("%w: proof creation failed: %w", ErrBackend, err)
	}

	var proofBuf bytes.Buffer
	if _, err := proof.WriteTo(&proofBuf); err != nil {
		return nil, fmt.Errorf("%w: proof to buffer failed: %w", ErrBackend, err)
	}

	return &ProofBundle{
		Version:      BundleVersion,
		Program:      p.ID(),
		PublicValues: exec.PublicValues.Bytes(),
		Proof:        proofBuf.Bytes(),
	}, nil
}

func (l *Local) Verify(ctx context.Context, bundle *ProofBundle, vk *VerifyingKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bundle.Program != vk.Program.ID() {
		return fmt.Errorf("%w: bundle attests %s, verifying key is for %s", ErrRejected, bundle.Program, vk.Program.ID())
	}

	if err := checkProofLayout(bundle.Proof); err != nil {
		return err
	}
	proof := plonk.NewProof(zkvm.Curve)
	n, err := proof.ReadFrom(bytes.NewReader(bundle.Proof))
	if err != nil {
		return fmt.Errorf("%w: failed to parse the proof: %w", common.ErrMalformedArtifact, err)
	}
	if n != int64(len(bundle.Proof)) {
		return fmt.Errorf("%w: %d trailing bytes after proof", common.ErrMalformedArtifact, int64(len(bundle.Proof))-n)
	}

	pw, err := vk.Program.PublicWitness(bundle.Public())
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrMalformedArtifact, err)
	}

	if err := plonk.Verify(proof, vk.Key, pw); err != nil {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return nil
}
