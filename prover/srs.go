package prover

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	kzg_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	"github.com/consensys/gnark-crypto/kzg"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"
)

// DevSetupSeed is published with the source. Anyone can rebuild the SRS
// secret it derives and forge proofs, so it is only used on explicit opt-in.
const DevSetupSeed = "zk-sum/dev-setup/v1"

// MinSetupSeedLength is the shortest seed accepted for a real setup
const MinSetupSeedLength = 16

// ErrSetupSeed is returned when no usable setup seed is configured
var ErrSetupSeed = errors.New("setup seed")

// ResolveSetupSeed applies the seed policy. The seed is the setup secret:
// whoever holds it can forge proofs for every program it sets up. An empty
// seed with allowDev selects DevSetupSeed; DevSetupSeed itself is refused
// without allowDev.
func ResolveSetupSeed(seed string, allowDev bool) (string, error) {
	switch {
	case seed == "" && allowDev:
		return DevSetupSeed, nil
	case seed == "":
		return "", fmt.Errorf("%w: none configured", ErrSetupSeed)
	case seed == DevSetupSeed:
		if !allowDev {
			return "", fmt.Errorf("%w: %q is the public development seed", ErrSetupSeed, seed)
		}
		return seed, nil
	case len(seed) < MinSetupSeedLength:
		return "", fmt.Errorf("%w: %d bytes, want at least %d", ErrSetupSeed, len(seed), MinSetupSeedLength)
	}
	return seed, nil
}

// ToxicValue derives the KZG secret for a program image from the setup seed.
// The same seed and image always give the same SRS, hence the same keys.
func ToxicValue(seed []byte, programID string) *big.Int {
	h := sha256.New()
	h.Write(seed)
	h.Write([]byte{0})
	h.Write([]byte(programID))

	var tau fr.Element
	tau.SetBytes(h.Sum(nil))
	if tau.IsZero() {
		tau.SetOne()
	}
	return tau.BigInt(new(big.Int))
}

// NewSRS builds the canonical and Lagrange KZG SRS sized for ccs
func NewSRS(ccs constraint.ConstraintSystem, tau *big.Int) (kzg.SRS, kzg.SRS, error) {
	sizeCanonical, sizeLagrange := plonk.SRSSize(ccs)

	srs, err := kzg_bn254.NewSRS(uint64(sizeCanonical), tau)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create srs: %w", err)
	}

	lagrangeG1, err := kzg_bn254.ToLagrangeG1(srs.Pk.G1[:sizeLagrange])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to convert srs to lagrange form: %w", err)
	}
	srsLagrange := &kzg_bn254.SRS{Vk: srs.Vk}
	srsLagrange.Pk.G1 = lagrangeG1

	return srs, srsLagrange, nil
}
