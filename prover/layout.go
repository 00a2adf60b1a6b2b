package prover

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	kzg_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	"github.com/mynextid/zk-sum/common"
)

// gnark sizes decoded slices from the length prefixes in the payload, so a
// single flipped byte can request gigabytes. The scanners below walk the
// BN254 PLONK encodings field by field and refuse any prefix that claims
// more elements than the remaining bytes could hold.

// the most significant byte of an encoded point carries its flags
const uncompressedMask = 0b11 << 6

var linesSize = binary.Size(kzg_bn254.VerifyingKey{}.Lines)

type layoutScanner struct {
	what string
	data []byte
	off  int
	err  error
}

func (s *layoutScanner) fail(format string, args ...any) {
	if s.err == nil {
		s.err = fmt.Errorf("%w: %s at byte %d: %s", common.ErrMalformedArtifact, s.what, s.off, fmt.Sprintf(format, args...))
	}
}

func (s *layoutScanner) remaining() int {
	return len(s.data) - s.off
}

func (s *layoutScanner) skip(n int) {
	if s.err != nil {
		return
	}
	if n > s.remaining() {
		s.fail("need %d bytes, %d left", n, s.remaining())
		return
	}
	s.off += n
}

func (s *layoutScanner) point(compressed, uncompressed int) {
	if s.err != nil {
		return
	}
	if s.remaining() < 1 {
		s.fail("truncated point")
		return
	}
	if s.data[s.off]&uncompressedMask == 0 {
		s.skip(uncompressed)
		return
	}
	s.skip(compressed)
}

func (s *layoutScanner) g1() {
	s.point(bn254.SizeOfG1AffineCompressed, bn254.SizeOfG1AffineUncompressed)
}

func (s *layoutScanner) g2() {
	s.point(bn254.SizeOfG2AffineCompressed, bn254.SizeOfG2AffineUncompressed)
}

func (s *layoutScanner) scalar() {
	s.skip(fr.Bytes)
}

func (s *layoutScanner) u64() {
	s.skip(8)
}

// sliceLen reads a length prefix and checks it against the smallest
// encoding of one element
func (s *layoutScanner) sliceLen(minElem int) int {
	if s.err != nil {
		return 0
	}
	if s.remaining() < 4 {
		s.fail("truncated length prefix")
		return 0
	}
	n := uint64(binary.BigEndian.Uint32(s.data[s.off:]))
	s.off += 4
	if n*uint64(minElem) > uint64(s.remaining()) {
		s.fail("length prefix %d exceeds the %d remaining bytes", n, s.remaining())
		return 0
	}
	return int(n)
}

func (s *layoutScanner) g1Slice() {
	n := s.sliceLen(bn254.SizeOfG1AffineCompressed)
	for i := 0; i < n && s.err == nil; i++ {
		s.g1()
	}
}

func (s *layoutScanner) scalarSlice() int {
	n := s.sliceLen(fr.Bytes)
	s.skip(n * fr.Bytes)
	return n
}

func (s *layoutScanner) u64Slice() {
	s.skip(s.sliceLen(8) * 8)
}

func (s *layoutScanner) done() error {
	if s.err == nil && s.remaining() != 0 {
		s.fail("%d trailing bytes", s.remaining())
	}
	return s.err
}

// checkVerifyingKeyLayout validates the full form of a BN254 PLONK
// verifying key before it is handed to the gnark decoder
func checkVerifyingKeyLayout(data []byte) error {
	s := &layoutScanner{what: "verifying key", data: data}
	s.u64()    // Size
	s.scalar() // SizeInv
	s.scalar() // Generator
	s.u64()    // NbPublicVariables
	s.scalar() // CosetShift
	for range 3 {
		s.g1() // S
	}
	for range 5 {
		s.g1() // Ql Qr Qm Qo Qk
	}
	s.g1Slice() // Qcp
	s.g1()      // Kzg.G1
	s.g2()
	s.g2()
	s.skip(linesSize)
	s.u64Slice() // CommitmentConstraintIndexes
	return s.done()
}

// checkProofLayout validates a serialized BN254 PLONK proof
func checkProofLayout(data []byte) error {
	s := &layoutScanner{what: "proof", data: data}
	for range 7 {
		s.g1() // LRO, Z, H
	}
	s.g1() // BatchedProof.H
	// linearised polynomial, l, r, o, s1, s2, then one per commitment
	if n := s.scalarSlice(); s.err == nil && n < 6 {
		s.fail("%d claimed values, want at least 6", n)
	}
	s.g1() // ZShiftedOpening.H
	s.scalar()
	s.g1Slice() // Bsb22Commitments
	return s.done()
}
