package zkvm_test

import (
	"testing"

	"github.com/mynextid/zk-sum/zkvm"
	"github.com/stretchr/testify/require"
)

func TestStdinFIFO(t *testing.T) {
	stdin := zkvm.NewStdin()
	stdin.WriteU32(7)
	stdin.WriteU64(1 << 40)
	stdin.WriteBytes([]byte("abc"))
	stdin.WriteU32(35)

	r := stdin.Reader()
	a, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(7), a)

	big, err := r.ReadU64()
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), big)

	b, err := r.ReadBytes()
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), b)

	c, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(35), c)

	require.Equal(t, 4, r.Consumed())
	require.Zero(t, r.Remaining())

	// every reader starts from the first item
	again, err := stdin.Reader().ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(7), again)
}

func TestStdinUnderflow(t *testing.T) {
	stdin := zkvm.NewStdin()
	stdin.WriteU32(1)

	r := stdin.Reader()
	_, err := r.ReadU32()
	require.NoError(t, err)

	_, err = r.ReadU32()
	require.ErrorIs(t, err, zkvm.ErrInputUnderflow)
}

func TestStdinTypeMismatch(t *testing.T) {
	stdin := zkvm.NewStdin()
	stdin.WriteU64(1)

	r := stdin.Reader()
	_, err := r.ReadU32()
	require.ErrorIs(t, err, zkvm.ErrInputType)

	// a failed read does not consume the item
	v, err := r.ReadU64()
	require.NoError(t, err)
	require.Equal(t, uint64(1), v)
}

func TestStdinWireEncoding(t *testing.T) {
	stdin := zkvm.NewStdin()
	stdin.WriteU32(4294967295)
	stdin.WriteBytes([]byte{1, 2, 3})

	data, err := stdin.MarshalBinary()
	require.NoError(t, err)

	decoded := zkvm.NewStdin()
	require.NoError(t, decoded.UnmarshalBinary(data))
	require.Equal(t, 2, decoded.Len())

	v, err := decoded.Reader().ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(4294967295), v)

	require.Error(t, decoded.UnmarshalBinary([]byte{0xff, 0x00}))
}

func TestPublicValues(t *testing.T) {
	pv := &zkvm.PublicValues{}
	pv.CommitU32(42)
	pv.CommitU64(7)

	require.Equal(t, 12, pv.Len())

	v, err := pv.U32At(0)
	require.NoError(t, err)
	require.Equal(t, uint32(42), v)

	_, err = pv.U32At(10)
	require.ErrorIs(t, err, zkvm.ErrPublicValues)

	copied := zkvm.NewPublicValues(pv.Bytes())
	require.Equal(t, pv.Bytes(), copied.Bytes())
}
