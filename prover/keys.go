package prover

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/consensys/gnark/backend/plonk"
	"github.com/mynextid/zk-sum/common"
	"github.com/mynextid/zk-sum/zkvm"
)

// DigestSize is the size of the compact verifying key encoding
const DigestSize = sha256.Size

// ProvingKey is only used during a single proving call and is never persisted.
// key is nil when the proving key is held by a remote prover.
type ProvingKey struct {
	Program      *zkvm.Program
	VerifyingKey *VerifyingKey
	key          plonk.ProvingKey
}

// Remote reports whether proving must be delegated to a prover service
func (pk *ProvingKey) Remote() bool {
	return pk.key == nil
}

// VerifyingKey is the full verifying key of a program image
type VerifyingKey struct {
	Program *zkvm.Program
	Key     plonk.VerifyingKey
}

// Encode returns the full form: the native gnark serialization of the key
func (vk *VerifyingKey) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := vk.Key.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("verifying key to buffer failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTo implements io.WriterTo with the full form
func (vk *VerifyingKey) WriteTo(w io.Writer) (int64, error) {
	return vk.Key.WriteTo(w)
}

// Digest returns the compact form of the key
func (vk *VerifyingKey) Digest() (VerifyingKeyDigest, error) {
	b, err := vk.Encode()
	if err != nil {
		return VerifyingKeyDigest{}, err
	}
	return sha256.Sum256(b), nil
}

// DecodeVerifyingKey parses the full form of a verifying key for program p
func DecodeVerifyingKey(p *zkvm.Program, data []byte) (*VerifyingKey, error) {
	if len(data) == DigestSize {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedArtifact, ErrCompactKey)
	}
	if err := checkVerifyingKeyLayout(data); err != nil {
		return nil, err
	}

	key := plonk.NewVerifyingKey(zkvm.Curve)
	n, err := key.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read verifying key: %w", common.ErrMalformedArtifact, err)
	}
	if n != int64(len(data)) {
		return nil, fmt.Errorf("%w: %d trailing bytes after verifying key", common.ErrMalformedArtifact, int64(len(data))-n)
	}
	return &VerifyingKey{Program: p, Key: key}, nil
}

// VerifyingKeyDigest is the compact 32-byte form of a verifying key.
// It identifies a key but cannot be used for verification.
type VerifyingKeyDigest [DigestSize]byte

func (d VerifyingKeyDigest) Bytes() []byte {
	return d[:]
}

func (d VerifyingKeyDigest) String() string {
	return "0x" + hex.EncodeToString(d[:])
}

// DecodeVerifyingKeyDigest parses the compact form
func DecodeVerifyingKeyDigest(data []byte) (VerifyingKeyDigest, error) {
	var d VerifyingKeyDigest
	if len(data) != DigestSize {
		return d, fmt.Errorf("%w: verifying key digest has %d bytes, want %d", common.ErrMalformedArtifact, len(data), DigestSize)
	}
	copy(d[:], data)
	return d, nil
}
