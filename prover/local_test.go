package prover_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/mynextid/zk-sum/circuits/sum"
	"github.com/mynextid/zk-sum/prover"
	"github.com/mynextid/zk-sum/zkvm"
	"github.com/stretchr/testify/require"
)

const (
	testSeed  = "setup seed for the prover tests"
	otherSeed = "another ceremony of the prover tests"
)

func sumInputs(a, b uint32) *zkvm.Stdin {
	stdin := zkvm.NewStdin()
	stdin.WriteU32(a)
	stdin.WriteU32(b)
	return stdin
}

func TestLocalExecute(t *testing.T) {
	backend := prover.NewLocal(testSeed, nil)

	pv, report, err := backend.Execute(context.Background(), sum.Program, sumInputs(7, 35))
	require.NoError(t, err)

	c, err := sum.Commitment(pv)
	require.NoError(t, err)
	require.Equal(t, uint32(42), c)
	require.Positive(t, report.TotalInstructionCount())
	require.Equal(t, 2, report.Reads)
	require.Equal(t, 1, report.Commits)
}

func TestLocalExecuteGuestFault(t *testing.T) {
	backend := prover.NewLocal(testSeed, nil)

	stdin := zkvm.NewStdin()
	stdin.WriteU32(7)

	_, _, err := backend.Execute(context.Background(), sum.Program, stdin)
	require.ErrorIs(t, err, prover.ErrGuestFault)
	require.ErrorIs(t, err, zkvm.ErrInputUnderflow)
}

func TestLocalSetupDeterministic(t *testing.T) {
	ctx := context.Background()

	_, vk1, err := prover.NewLocal(testSeed, nil).Setup(ctx, sum.Program)
	require.NoError(t, err)
	_, vk2, err := prover.NewLocal(testSeed, nil).Setup(ctx, sum.Program)
	require.NoError(t, err)

	b1, err := vk1.Encode()
	require.NoError(t, err)
	b2, err := vk2.Encode()
	require.NoError(t, err)
	require.Equal(t, b1, b2)

	d1, err := vk1.Digest()
	require.NoError(t, err)
	d2, err := vk2.Digest()
	require.NoError(t, err)
	require.Equal(t, d1, d2)

	_, other, err := prover.NewLocal(otherSeed, nil).Setup(ctx, sum.Program)
	require.NoError(t, err)
	d3, err := other.Digest()
	require.NoError(t, err)
	require.NotEqual(t, d1, d3)
}

func TestLocalProveVerify(t *testing.T) {
	ctx := context.Background()
	backend := prover.NewLocal(testSeed, nil)

	pk, vk, err := backend.Setup(ctx, sum.Program)
	require.NoError(t, err)
	require.False(t, pk.Remote())

	bundle, err := backend.Prove(ctx, pk, sumInputs(4294967295, 1))
	require.NoError(t, err)
	require.Equal(t, sum.Program.ID(), bundle.Program)

	c, err := sum.Commitment(bundle.Public())
	require.NoError(t, err)
	require.Equal(t, uint32(0), c)

	require.NoError(t, backend.Verify(ctx, bundle, vk))

	// through the wire format
	data, err := bundle.Encode()
	require.NoError(t, err)
	decoded, err := prover.DecodeProofBundle(data)
	require.NoError(t, err)
	require.NoError(t, backend.Verify(ctx, decoded, vk))
}

func TestLocalVerifyRejects(t *testing.T) {
	ctx := context.Background()
	backend := prover.NewLocal(testSeed, nil)

	pk, vk, err := backend.Setup(ctx, sum.Program)
	require.NoError(t, err)
	bundle, err := backend.Prove(ctx, pk, sumInputs(7, 35))
	require.NoError(t, err)

	t.Run("other commitment", func(t *testing.T) {
		forged := *bundle
		pv := &zkvm.PublicValues{}
		pv.CommitU32(43)
		forged.PublicValues = pv.Bytes()

		err := backend.Verify(ctx, &forged, vk)
		require.ErrorIs(t, err, prover.ErrRejected)
	})

	t.Run("foreign key", func(t *testing.T) {
		_, foreign, err := prover.NewLocal(otherSeed, nil).Setup(ctx, sum.Program)
		require.NoError(t, err)

		err = backend.Verify(ctx, bundle, foreign)
		require.Error(t, err)
		require.True(t, prover.IsRejection(err))
	})

	t.Run("other program", func(t *testing.T) {
		forged := *bundle
		forged.Program = "sum-2"

		err := backend.Verify(ctx, &forged, vk)
		require.ErrorIs(t, err, prover.ErrRejected)
	})

	t.Run("flipped proof byte", func(t *testing.T) {
		forged := *bundle
		forged.Proof = bytes.Clone(bundle.Proof)
		// inside the first commitment, away from the encoding flags
		forged.Proof[5] ^= 0xff

		err := backend.Verify(ctx, &forged, vk)
		require.Error(t, err)
	})
}

func TestProofBundleChecksum(t *testing.T) {
	ctx := context.Background()
	backend := prover.NewLocal(testSeed, nil)

	pk, _, err := backend.Setup(ctx, sum.Program)
	require.NoError(t, err)
	bundle, err := backend.Prove(ctx, pk, sumInputs(1, 2))
	require.NoError(t, err)

	data, err := bundle.Encode()
	require.NoError(t, err)

	for i := range data {
		tampered := bytes.Clone(data)
		tampered[i] ^= 0xff

		_, err := prover.DecodeProofBundle(tampered)
		require.ErrorIs(t, err, prover.ErrMalformedArtifact, "byte %d", i)
	}
}

func TestVerifyingKeyEncodings(t *testing.T) {
	_, vk, err := prover.NewLocal(testSeed, nil).Setup(context.Background(), sum.Program)
	require.NoError(t, err)

	full, err := vk.Encode()
	require.NoError(t, err)
	require.Greater(t, len(full), prover.DigestSize)

	decoded, err := prover.DecodeVerifyingKey(sum.Program, full)
	require.NoError(t, err)
	again, err := decoded.Encode()
	require.NoError(t, err)
	require.Equal(t, full, again)

	digest, err := vk.Digest()
	require.NoError(t, err)

	_, err = prover.DecodeVerifyingKey(sum.Program, digest.Bytes())
	require.ErrorIs(t, err, prover.ErrCompactKey)
	require.ErrorIs(t, err, prover.ErrMalformedArtifact)

	_, err = prover.DecodeVerifyingKey(sum.Program, append(bytes.Clone(full), 0))
	require.ErrorIs(t, err, prover.ErrMalformedArtifact)

	parsed, err := prover.DecodeVerifyingKeyDigest(digest.Bytes())
	require.NoError(t, err)
	require.Equal(t, digest, parsed)

	_, err = prover.DecodeVerifyingKeyDigest(full)
	require.ErrorIs(t, err, prover.ErrMalformedArtifact)
}

func TestNewFromConfig(t *testing.T) {
	b, err := prover.NewFromConfig(prover.Config{}, nil)
	require.NoError(t, err)
	require.IsType(t, &prover.Local{}, b)

	b, err = prover.NewFromConfig(prover.Config{Mode: "remote", URL: "http://localhost:8080"}, nil)
	require.NoError(t, err)
	require.IsType(t, &prover.Remote{}, b)

	_, err = prover.NewFromConfig(prover.Config{Mode: "remote"}, nil)
	require.Error(t, err)

	_, err = prover.NewFromConfig(prover.Config{Mode: "gpu"}, nil)
	require.Error(t, err)
}
