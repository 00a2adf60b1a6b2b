package prover_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mynextid/zk-sum/circuits/sum"
	"github.com/mynextid/zk-sum/models"
	"github.com/mynextid/zk-sum/prover"
	"github.com/stretchr/testify/require"
)

// Qcp length prefix of a compressed BN254 PLONK verifying key
const qcpPrefixOffset = 8 + 32 + 32 + 8 + 32 + 8*32

// ClaimedValues length prefix of a compressed BN254 PLONK proof
const claimedPrefixOffset = 8 * 32

func TestDecodeVerifyingKeyOversizedPrefix(t *testing.T) {
	_, vk, err := prover.NewLocal(testSeed, nil).Setup(context.Background(), sum.Program)
	require.NoError(t, err)
	full, err := vk.Encode()
	require.NoError(t, err)

	tampered := bytes.Clone(full)
	binary.BigEndian.PutUint32(tampered[qcpPrefixOffset:], 0xff000000)
	_, err = prover.DecodeVerifyingKey(sum.Program, tampered)
	require.ErrorIs(t, err, prover.ErrMalformedArtifact)

	_, err = prover.DecodeVerifyingKey(sum.Program, full[:len(full)-1])
	require.ErrorIs(t, err, prover.ErrMalformedArtifact)
}

func TestVerifyCraftedProof(t *testing.T) {
	ctx := context.Background()
	backend := prover.NewLocal(testSeed, nil)

	pk, vk, err := backend.Setup(ctx, sum.Program)
	require.NoError(t, err)
	bundle, err := backend.Prove(ctx, pk, sumInputs(7, 35))
	require.NoError(t, err)

	claimed := int(binary.BigEndian.Uint32(bundle.Proof[claimedPrefixOffset:]))
	require.GreaterOrEqual(t, claimed, 6)
	values := claimedPrefixOffset + 4

	shortened := append([]byte{}, bundle.Proof[:claimedPrefixOffset]...)
	shortened = binary.BigEndian.AppendUint32(shortened, 5)
	shortened = append(shortened, bundle.Proof[values:values+5*32]...)
	shortened = append(shortened, bundle.Proof[values+claimed*32:]...)

	oversized := bytes.Clone(bundle.Proof)
	binary.BigEndian.PutUint32(oversized[claimedPrefixOffset:], 0xffffffff)

	tests := map[string][]byte{
		"oversized length prefix": oversized,
		"too few claimed values":  shortened,
		"trailing bytes":          append(bytes.Clone(bundle.Proof), 0),
	}

	for name, proof := range tests {
		t.Run(name, func(t *testing.T) {
			forged := *bundle
			forged.Proof = proof

			// the checksum is recomputed, so only the layout check stands in the way
			data, err := forged.Encode()
			require.NoError(t, err)
			decoded, err := prover.DecodeProofBundle(data)
			require.NoError(t, err)

			err = backend.Verify(ctx, decoded, vk)
			require.ErrorIs(t, err, prover.ErrMalformedArtifact)
			require.False(t, prover.IsRejection(err))
		})
	}
}

func TestRemoteSetupMalformedKey(t *testing.T) {
	_, vk, err := prover.NewLocal(testSeed, nil).Setup(context.Background(), sum.Program)
	require.NoError(t, err)
	full, err := vk.Encode()
	require.NoError(t, err)
	binary.BigEndian.PutUint32(full[qcpPrefixOffset:], 0xffffffff)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.SetupResponse{Program: sum.Program.ID(), VerifyingKey: full})
	}))
	t.Cleanup(srv.Close)

	remote, err := prover.NewRemote(srv.URL, srv.Client(), nil)
	require.NoError(t, err)

	_, _, err = remote.Setup(context.Background(), sum.Program)
	require.ErrorIs(t, err, prover.ErrBackend)
	require.ErrorIs(t, err, prover.ErrMalformedArtifact)
}
