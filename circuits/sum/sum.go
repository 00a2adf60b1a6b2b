package sum

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/mynextid/zk-sum/zkvm"
)

// Circuit proves knowledge of two private 32-bit values whose wrapping sum is Sum
type Circuit struct {
	// Secret input
	A frontend.Variable `gnark:",secret"`
	B frontend.Variable `gnark:",secret"`

	// Public input
	Sum frontend.Variable `gnark:",public"`
}

func (c *Circuit) Define(api frontend.API) error {
	// range check both operands
	api.ToBinary(c.A, 32)
	api.ToBinary(c.B, 32)

	// the carry is bit 32, everything below it is the wrapped sum
	bits := api.ToBinary(api.Add(c.A, c.B), 33)
	api.AssertIsEqual(c.Sum, api.FromBinary(bits[:32]...))

	return nil
}

// Main is the guest routine: reads a and b, commits a+b mod 2^32
func Main(env *zkvm.Env) {
	a := env.ReadU32()
	b := env.ReadU32()

	env.CommitU32(a + b)
}

// Assign builds the full assignment of a run
func Assign(in *zkvm.Reader, out *zkvm.PublicValues) (frontend.Circuit, error) {
	a, err := in.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("read a: %w", err)
	}
	b, err := in.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("read b: %w", err)
	}
	s, err := Commitment(out)
	if err != nil {
		return nil, err
	}
	return &Circuit{
		A:   uint64(a),
		B:   uint64(b),
		Sum: uint64(s),
	}, nil
}

// AssignPublic builds the public assignment from the committed sum
func AssignPublic(out *zkvm.PublicValues) (frontend.Circuit, error) {
	s, err := Commitment(out)
	if err != nil {
		return nil, err
	}
	return &Circuit{Sum: uint64(s)}, nil
}

// Commitment decodes the single committed value
func Commitment(out *zkvm.PublicValues) (uint32, error) {
	if out.Len() != 4 {
		return 0, fmt.Errorf("%w: want one u32 commitment, have %d bytes", zkvm.ErrPublicValues, out.Len())
	}
	return out.U32At(0)
}

// Program is the image of the sum guest
var Program = &zkvm.Program{
	Name:         "sum",
	Version:      1,
	Description:  "Commits the wrapping sum of two private u32 values",
	Entry:        Main,
	Circuit:      &Circuit{},
	Assign:       Assign,
	AssignPublic: AssignPublic,
}
