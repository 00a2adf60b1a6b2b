package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mynextid/zk-sum/prover"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestScenario(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ZKSUM_PROVER", "local")
	t.Setenv("ZKSUM_SETUP_SEED", "setup seed for the cli tests")

	out, err := run(t, "execute", "--a", "7", "--b", "35", "--artifacts-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "Execution output: 42")
	require.Contains(t, out, "Cycles count: ")

	out, err = run(t, "prove", "-a", "7", "-b", "35", "--artifacts-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "Proving time: ")
	require.FileExists(t, filepath.Join(dir, "proof_with_public_values.bin"))
	require.FileExists(t, filepath.Join(dir, "vkey.bin"))

	out, err = run(t, "verify", "--artifacts-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "Proof is valid!")

	_, err = run(t, "vkey", "--artifacts-dir", dir)
	require.NoError(t, err)
	vk, err := os.ReadFile(filepath.Join(dir, "vkey.bin"))
	require.NoError(t, err)
	require.Len(t, vk, prover.DigestSize)
}

func TestVerifyWithoutProve(t *testing.T) {
	_, err := run(t, "verify", "--artifacts-dir", t.TempDir())
	require.ErrorIs(t, err, prover.ErrArtifactNotFound)
}

func TestExecuteRequiresInputs(t *testing.T) {
	_, err := run(t, "execute", "--a", "1")
	require.Error(t, err)

	_, err = run(t, "execute", "--a", "4294967296", "--b", "1")
	require.Error(t, err)
}

func TestUnknownProverMode(t *testing.T) {
	t.Setenv("ZKSUM_PROVER", "quantum")

	_, err := run(t, "vkey", "--artifacts-dir", t.TempDir())
	require.Error(t, err)
}
