package prover

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/mynextid/zk-sum/common"
	"github.com/mynextid/zk-sum/zkvm"
)

// BundleVersion is the current proof bundle layout
const BundleVersion = 1

// ProofBundle is a proof together with the public values it attests.
// Checksum covers every other field and is checked before the proof is parsed.
type ProofBundle struct {
	Version      uint   `cbor:"1,keyasint"`
	Program      string `cbor:"2,keyasint"`
	PublicValues []byte `cbor:"3,keyasint"`
	Proof        []byte `cbor:"4,keyasint"`
	Checksum     []byte `cbor:"5,keyasint"`
}

var (
	bundleEncMode, _ = cbor.CoreDetEncOptions().EncMode()
	bundleDecMode, _ = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
)

// Public returns the committed values attested by the proof
func (b *ProofBundle) Public() *zkvm.PublicValues {
	return zkvm.NewPublicValues(b.PublicValues)
}

func (b *ProofBundle) checksum() []byte {
	h := sha256.New()
	var n [8]byte

	binary.BigEndian.PutUint64(n[:], uint64(b.Version))
	h.Write(n[:])
	for _, part := range [][]byte{[]byte(b.Program), b.PublicValues, b.Proof} {
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		h.Write(n[:])
		h.Write(part)
	}
	return h.Sum(nil)
}

// Encode serializes the bundle, refreshing its checksum
func (b *ProofBundle) Encode() ([]byte, error) {
	b.Checksum = b.checksum()
	data, err := bundleEncMode.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to encode proof bundle: %w", err)
	}
	return data, nil
}

// DecodeProofBundle parses a serialized bundle
func DecodeProofBundle(data []byte) (*ProofBundle, error) {
	var b ProofBundle
	if err := bundleDecMode.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: failed to decode proof bundle: %w", common.ErrMalformedArtifact, err)
	}
	if b.Version != BundleVersion {
		return nil, fmt.Errorf("%w: unsupported proof bundle version %d", common.ErrMalformedArtifact, b.Version)
	}
	if b.Program == "" || len(b.Proof) == 0 {
		return nil, fmt.Errorf("%w: incomplete proof bundle", common.ErrMalformedArtifact)
	}
	if !bytes.Equal(b.Checksum, b.checksum()) {
		return nil, fmt.Errorf("%w: proof bundle checksum mismatch", common.ErrMalformedArtifact)
	}
	return &b, nil
}

// Save writes the bundle to path in one atomic write
func (b *ProofBundle) Save(path string) error {
	data, err := b.Encode()
	if err != nil {
		return err
	}
	return common.WriteFileAtomic(path, data)
}

// LoadProofBundle reads a bundle written by Save
func LoadProofBundle(path string) (*ProofBundle, error) {
	data, err := common.ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	return DecodeProofBundle(data)
}
