package api

import (
	"github.com/mynextid/zk-sum/circuits/sum"
	"github.com/mynextid/zk-sum/zkvm"
)

// ProgramList contains the program images a prover can serve, by name
var ProgramList = map[string]*zkvm.Program{
	sum.Program.Name: sum.Program,
}
