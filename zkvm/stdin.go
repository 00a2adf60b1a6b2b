package zkvm

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	// ErrInputUnderflow is returned when the guest reads past the last private input
	ErrInputUnderflow = errors.New("private input exhausted")
	// ErrInputType is returned when the next private input has a different type than requested
	ErrInputType = errors.New("private input type mismatch")
)

// Kind tags every item written to the private input channel
type Kind uint8

const (
	KindU32 Kind = iota + 1
	KindU64
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindBytes:
		return "bytes"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Item is one typed value of the private input channel
type Item struct {
	Kind Kind   `cbor:"1,keyasint"`
	Data []byte `cbor:"2,keyasint"`
}

// Stdin is the ordered private input channel handed to a guest.
// Values are consumed in the order they were written.
type Stdin struct {
	items []Item
}

func NewStdin() *Stdin {
	return &Stdin{}
}

func (s *Stdin) WriteU32(v uint32) {
	s.items = append(s.items, Item{Kind: KindU32, Data: binary.LittleEndian.AppendUint32(nil, v)})
}

func (s *Stdin) WriteU64(v uint64) {
	s.items = append(s.items, Item{Kind: KindU64, Data: binary.LittleEndian.AppendUint64(nil, v)})
}

func (s *Stdin) WriteBytes(b []byte) {
	s.items = append(s.items, Item{Kind: KindBytes, Data: append([]byte(nil), b...)})
}

// Len returns the number of written items
func (s *Stdin) Len() int {
	return len(s.items)
}

// Reader returns a fresh FIFO cursor over the channel
func (s *Stdin) Reader() *Reader {
	return &Reader{items: s.items}
}

var wireDecMode, _ = cbor.DecOptions{
	DupMapKey:         cbor.DupMapKeyEnforcedAPF,
	ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
}.DecMode()

// MarshalBinary encodes the channel for transport to a remote prover
func (s *Stdin) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(s.items)
}

func (s *Stdin) UnmarshalBinary(data []byte) error {
	var items []Item
	if err := wireDecMode.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to decode stdin: %w", err)
	}
	for i, it := range items {
		if err := it.validate(); err != nil {
			return fmt.Errorf("stdin item %d: %w", i, err)
		}
	}
	s.items = items
	return nil
}

func (it Item) validate() error {
	switch it.Kind {
	case KindU32:
		if len(it.Data) != 4 {
			return fmt.Errorf("u32 item has %d bytes", len(it.Data))
		}
	case KindU64:
		if len(it.Data) != 8 {
			return fmt.Errorf("u64 item has %d bytes", len(it.Data))
		}
	case KindBytes:
	default:
		return fmt.Errorf("unknown item kind %d", it.Kind)
	}
	return nil
}

// Reader consumes a Stdin in FIFO order
type Reader struct {
	items []Item
	pos   int
}

func (r *Reader) next(want Kind) ([]byte, error) {
	if r.pos >= len(r.items) {
		return nil, fmt.Errorf("%w: read %d of %d", ErrInputUnderflow, r.pos+1, len(r.items))
	}
	it := r.items[r.pos]
	if it.Kind != want {
		return nil, fmt.Errorf("%w: item %d is %s, want %s", ErrInputType, r.pos, it.Kind, want)
	}
	r.pos++
	return it.Data, nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.next(KindU32)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.next(KindU64)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadBytes() ([]byte, error) {
	b, err := r.next(KindBytes)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// Consumed returns the number of items read so far
func (r *Reader) Consumed() int {
	return r.pos
}

// Remaining returns the number of unread items
func (r *Reader) Remaining() int {
	return len(r.items) - r.pos
}
