package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/mynextid/zk-sum/prover"
	"github.com/mynextid/zk-sum/zkvm"
)

// Program with compiled image and its key pair
type Program struct {
	Image        *zkvm.Program
	ProvingKey   *prover.ProvingKey
	VerifyingKey *prover.VerifyingKey
	Digest       prover.VerifyingKeyDigest
	Constraints  int
}

// ProgramRegistry stores set-up programs by name
type ProgramRegistry struct {
	mu       sync.RWMutex
	Programs map[string]*Program
}

// NewProgramRegistry creates a new registry
func NewProgramRegistry() *ProgramRegistry {
	return &ProgramRegistry{
		Programs: make(map[string]*Program),
	}
}

// LoadProgram compiles the image, runs setup and registers the result
func (pr *ProgramRegistry) LoadProgram(ctx context.Context, backend prover.Backend, p *zkvm.Program) error {
	ccs, err := p.Image()
	if err != nil {
		return fmt.Errorf("failed to load the program: %w", err)
	}

	pk, vk, err := backend.Setup(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to set up the program: %w", err)
	}

	digest, err := vk.Digest()
	if err != nil {
		return err
	}

	return pr.Register(p.Name, &Program{
		Image:        p,
		ProvingKey:   pk,
		VerifyingKey: vk,
		Digest:       digest,
		Constraints:  ccs.GetNbConstraints(),
	})
}

// Get returns a program by name
func (pr *ProgramRegistry) Get(name string) (*Program, error) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	if p, ok := pr.Programs[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("program %s not found", name)
}

// Register registers a new program by user-defined name
func (pr *ProgramRegistry) Register(name string, p *Program) error {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if _, ok := pr.Programs[name]; ok {
		return fmt.Errorf("program with name %s already exists", name)
	}
	pr.Programs[name] = p
	return nil
}

// Loaded reports whether name has been registered
func (pr *ProgramRegistry) Loaded(name string) bool {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	_, ok := pr.Programs[name]
	return ok
}
