package zkvm

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrPublicValues is returned when committed values do not have the expected layout
var ErrPublicValues = errors.New("malformed public values")

// PublicValues is the append-only buffer of values committed by a guest.
// Integers are little-endian, in commit order.
type PublicValues struct {
	buf []byte
}

// NewPublicValues wraps previously committed bytes
func NewPublicValues(b []byte) *PublicValues {
	return &PublicValues{buf: append([]byte(nil), b...)}
}

func (pv *PublicValues) CommitU32(v uint32) {
	pv.buf = binary.LittleEndian.AppendUint32(pv.buf, v)
}

func (pv *PublicValues) CommitU64(v uint64) {
	pv.buf = binary.LittleEndian.AppendUint64(pv.buf, v)
}

func (pv *PublicValues) CommitBytes(b []byte) {
	pv.buf = append(pv.buf, b...)
}

// Bytes returns a copy of the committed bytes
func (pv *PublicValues) Bytes() []byte {
	return append([]byte(nil), pv.buf...)
}

func (pv *PublicValues) Len() int {
	return len(pv.buf)
}

// U32At decodes the uint32 committed at byte offset off
func (pv *PublicValues) U32At(off int) (uint32, error) {
	if off < 0 || off+4 > len(pv.buf) {
		return 0, fmt.Errorf("%w: u32 at offset %d, have %d bytes", ErrPublicValues, off, len(pv.buf))
	}
	return binary.LittleEndian.Uint32(pv.buf[off:]), nil
}

func (pv *PublicValues) String() string {
	return fmt.Sprintf("PublicValues(%x)", pv.buf)
}
