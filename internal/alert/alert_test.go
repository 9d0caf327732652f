package alert

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEncode_SingleSegment verifies a short GSM text fits one PDU with an empty SMSC prefix.
func TestEncode_SingleSegment(t *testing.T) {
	t.Parallel()

	msg, err := Encode("+79161234567", "Door opened")
	require.NoError(t, err)
	require.Len(t, msg.Segments, 1)

	seg := msg.Segments[0]
	require.True(t, strings.HasPrefix(seg.PDU, "00"), "empty SMSC expected, got %s", seg.PDU)

	raw, err := hex.DecodeString(seg.PDU)
	require.NoError(t, err)
	require.Len(t, raw, seg.TPDULength+1)
}

// TestEncode_LongTextSplits checks texts beyond one SMS produce several segments.
func TestEncode_LongTextSplits(t *testing.T) {
	t.Parallel()

	msg, err := Encode("+79161234567", strings.Repeat("door opened ", 30))
	require.NoError(t, err)
	require.Greater(t, len(msg.Segments), 1)

	for _, seg := range msg.Segments {
		require.Positive(t, seg.TPDULength)
		require.NotEmpty(t, seg.PDU)
	}
}

// TestEncode_Unicode ensures non-GSM characters are accepted.
func TestEncode_Unicode(t *testing.T) {
	t.Parallel()

	msg, err := Encode("+79161234567", "Дверь открыта")
	require.NoError(t, err)
	require.NotEmpty(t, msg.Segments)
}

// TestEncode_Validates rejects missing inputs.
func TestEncode_Validates(t *testing.T) {
	t.Parallel()

	_, err := Encode(" ", "Door opened")
	require.ErrorIs(t, err, ErrPhoneRequired)

	_, err = Encode("+79161234567", "")
	require.ErrorIs(t, err, ErrMessageRequired)
}
