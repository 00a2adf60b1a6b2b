package zkvm

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
)

// Curve every program image is compiled for
const Curve = ecc.BN254

// Program is an immutable program image: the native guest routine and
// the circuit it is proved against.
type Program struct {
	Name        string
	Version     uint
	Description string

	// Entry is the guest routine
	Entry func(env *Env)
	// Circuit is the compile template of the guest
	Circuit frontend.Circuit
	// Assign builds a full assignment from the private inputs and the committed values
	Assign func(in *Reader, out *PublicValues) (frontend.Circuit, error)
	// AssignPublic builds the public part of the assignment from the committed values
	AssignPublic func(out *PublicValues) (frontend.Circuit, error)

	once sync.Once
	ccs  constraint.ConstraintSystem
	err  error
}

// ID identifies the image by name and version
func (p *Program) ID() string {
	return fmt.Sprintf("%s-%d", p.Name, p.Version)
}

// Field returns the scalar field of the image
func (p *Program) Field() *big.Int {
	return Curve.ScalarField()
}

// Image compiles the circuit to a PLONK constraint system. The result is
// computed once and shared by every caller.
func (p *Program) Image() (constraint.ConstraintSystem, error) {
	p.once.Do(func() {
		p.ccs, p.err = frontend.Compile(p.Field(), scs.NewBuilder, p.Circuit)
		if p.err != nil {
			p.err = fmt.Errorf("failed to compile %s: %w", p.ID(), p.err)
		}
	})
	return p.ccs, p.err
}

// Witness builds the full witness for a run over stdin that committed pv
func (p *Program) Witness(stdin *Stdin, pv *PublicValues) (witness.Witness, error) {
	assignment, err := p.Assign(stdin.Reader(), pv)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: assignment: %w", ErrGuestFault, p.ID(), err)
	}
	w, err := frontend.NewWitness(assignment, p.Field())
	if err != nil {
		return nil, fmt.Errorf("witness creation failed: %w", err)
	}
	return w, nil
}

// PublicWitness builds the public witness attested by pv
func (p *Program) PublicWitness(pv *PublicValues) (witness.Witness, error) {
	assignment, err := p.AssignPublic(pv)
	if err != nil {
		return nil, err
	}
	w, err := frontend.NewWitness(assignment, p.Field(), frontend.PublicOnly())
	if err != nil {
		return nil, fmt.Errorf("public witness creation failed: %w", err)
	}
	return w, nil
}
