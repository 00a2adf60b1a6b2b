package zkvm_test

import (
	"testing"

	"github.com/mynextid/zk-sum/zkvm"
	"github.com/stretchr/testify/require"
)

func testProgram(entry func(env *zkvm.Env)) *zkvm.Program {
	return &zkvm.Program{Name: "test", Version: 1, Entry: entry}
}

func TestRunCommits(t *testing.T) {
	p := testProgram(func(env *zkvm.Env) {
		a := env.ReadU32()
		b := env.ReadU32()
		env.CommitU32(a * b)
	})

	stdin := zkvm.NewStdin()
	stdin.WriteU32(6)
	stdin.WriteU32(7)

	exec, err := zkvm.Run(p, stdin)
	require.NoError(t, err)
	require.Equal(t, 2, exec.Reads)
	require.Equal(t, 1, exec.Commits)

	v, err := exec.PublicValues.U32At(0)
	require.NoError(t, err)
	require.Equal(t, uint32(42), v)
}

func TestRunGuestFault(t *testing.T) {
	p := testProgram(func(env *zkvm.Env) {
		env.CommitU32(env.ReadU32() + env.ReadU32())
	})

	tests := []struct {
		name  string
		stdin func() *zkvm.Stdin
		cause error
	}{
		{
			name:  "empty",
			stdin: zkvm.NewStdin,
			cause: zkvm.ErrInputUnderflow,
		},
		{
			name: "one value",
			stdin: func() *zkvm.Stdin {
				s := zkvm.NewStdin()
				s.WriteU32(1)
				return s
			},
			cause: zkvm.ErrInputUnderflow,
		},
		{
			name: "wrong type",
			stdin: func() *zkvm.Stdin {
				s := zkvm.NewStdin()
				s.WriteU32(1)
				s.WriteBytes([]byte{2})
				return s
			},
			cause: zkvm.ErrInputType,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exec, err := zkvm.Run(p, tc.stdin())
			require.Nil(t, exec)
			require.ErrorIs(t, err, zkvm.ErrGuestFault)
			require.ErrorIs(t, err, tc.cause)
		})
	}
}

func TestRunGuestPanic(t *testing.T) {
	p := testProgram(func(env *zkvm.Env) {
		var values []uint32
		env.CommitU32(values[env.ReadU32()])
	})

	stdin := zkvm.NewStdin()
	stdin.WriteU32(3)

	_, err := zkvm.Run(p, stdin)
	require.ErrorIs(t, err, zkvm.ErrGuestFault)
}
