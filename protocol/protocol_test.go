package protocol

import (
	"bytes"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(n int) string { return strconv.Itoa(n) }

func header(t *testing.T, line string) interface{} {
	t.Helper()
	h, err := ParseHeader([]byte(line))
	require.NoError(t, err)
	return h
}

func TestParseHeaderSet(t *testing.T) {
	h := header(t, "set foo 0 0 3")
	sh, ok := h.(*SetHeader)
	require.True(t, ok)
	assert.Equal(t, "foo", sh.Key)
	assert.Equal(t, uint16(0), sh.Flags)
	assert.Equal(t, uint64(0), sh.ExpTime)
	assert.Equal(t, 3, sh.Bytes)
	assert.False(t, sh.NoReply)
}

func TestParseHeaderSetWithNoReply(t *testing.T) {
	h := header(t, "set foo 5 100 3 noreply")
	sh := h.(*SetHeader)
	assert.True(t, sh.NoReply)
	assert.Equal(t, uint16(5), sh.Flags)
	assert.Equal(t, uint64(100), sh.ExpTime)
}

func TestParseHeaderGetSingleKey(t *testing.T) {
	h := header(t, "get foo")
	gc := h.(*GetCommand)
	assert.Equal(t, []string{"foo"}, gc.Keys)
}

func TestParseHeaderGetMultiKey(t *testing.T) {
	h := header(t, "get foo bar baz")
	gc := h.(*GetCommand)
	assert.Equal(t, []string{"foo", "bar", "baz"}, gc.Keys)
}

func TestParseHeaderUnknownCommand(t *testing.T) {
	_, err := ParseHeader([]byte("delete foo"))
	assert.Same(t, ErrUnknownCommand, err)
	assert.Equal(t, "ERROR", err.Error())
}

func TestParseHeaderShortFrame(t *testing.T) {
	_, err := ParseHeader([]byte("ab"))
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "ERROR wrong command format", err.Error())
}

func TestParseHeaderSetMissingFields(t *testing.T) {
	_, err := ParseHeader([]byte("set foo 0"))
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
}

func TestParseHeaderGetMissingKey(t *testing.T) {
	_, err := ParseHeader([]byte("get"))
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
}

func TestKeyLengthBoundary(t *testing.T) {
	key250 := strings.Repeat("k", 250)
	key251 := strings.Repeat("k", 251)

	h, err := ParseHeader([]byte("get " + key250))
	require.NoError(t, err)
	assert.Equal(t, key250, h.(*GetCommand).Keys[0])

	_, err = ParseHeader([]byte("get " + key251))
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Contains(t, clientErr.Reason, "250")
}

func TestKeyRejectsControlCharacters(t *testing.T) {
	_, err := ParseHeader([]byte("get fo\to"))
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
}

func TestSetValueLengthBoundaries(t *testing.T) {
	for _, n := range []int{MinValueLength, MaxValueLength} {
		h, err := ParseHeader([]byte("set foo 0 0 " + itoa(n)))
		require.NoError(t, err)
		assert.Equal(t, n, h.(*SetHeader).Bytes)
	}

	_, err := ParseHeader([]byte("set foo 0 0 0"))
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)

	_, err = ParseHeader([]byte("set foo 0 0 " + itoa(MaxValueLength+1)))
	require.ErrorAs(t, err, &clientErr)
}

func TestFinishSetRejectsDeclaredLengthMismatch(t *testing.T) {
	h := header(t, "set foo 0 0 5").(*SetHeader)
	_, err := FinishSet(h, []byte("abc\r\n"))
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
}

func TestFinishSetRejectsMissingTrailingCRLF(t *testing.T) {
	h := header(t, "set foo 0 0 3").(*SetHeader)
	_, err := FinishSet(h, []byte("abcXX"))
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
}

func TestFinishSetRoundTripsExactBytes(t *testing.T) {
	h := header(t, "set foo 0 0 3").(*SetHeader)
	cmd, err := FinishSet(h, []byte("abc\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), cmd.Value)
}

// a value containing embedded CRLF and other control bytes must
// round-trip through FinishSet/FormatGetReply exactly.
func TestFinishSetRoundTripsEmbeddedCRLF(t *testing.T) {
	value := []byte{0x00, 0x01, '\r', '\n', 0xff, 0x7f}
	h := header(t, "set foo 0 0 "+itoa(len(value))).(*SetHeader)
	body := append(append([]byte{}, value...), '\r', '\n')

	cmd, err := FinishSet(h, body)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(value, cmd.Value))

	reply := FormatGetReply([]ValueHit{{Key: "foo", Flags: 0, Value: cmd.Value}})
	assert.True(t, bytes.Contains(reply, value))
}

func TestFinishSetRoundTripRandomBytes(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		n := 1 + r.Intn(2048)
		value := make([]byte, n)
		r.Read(value)

		h := header(t, "set k 0 0 "+itoa(n)).(*SetHeader)
		body := append(append([]byte{}, value...), '\r', '\n')
		cmd, err := FinishSet(h, body)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(value, cmd.Value))
	}
}

func TestFormatStored(t *testing.T) {
	assert.Equal(t, []byte("STORED\r\n"), FormatStored())
}

func TestFormatGetReplyNoHits(t *testing.T) {
	assert.Equal(t, []byte{}, FormatGetReply(nil))
}

func TestFormatGetReplyMultipleHits(t *testing.T) {
	reply := FormatGetReply([]ValueHit{
		{Key: "foo", Flags: 0, Value: []byte("bar")},
		{Key: "baz", Flags: 7, Value: []byte("qux")},
	})
	expected := "VALUE foo 0 3\r\nbar\r\nVALUE baz 7 3\r\nqux\r\n"
	assert.Equal(t, expected, string(reply))
}

func TestFormatClientError(t *testing.T) {
	out := FormatClientError(&ClientError{Reason: "wrong command format"})
	assert.Equal(t, "CLIENT_ERROR wrong command format\r\n", string(out))
}

func TestFormatCommandErrorBare(t *testing.T) {
	out := FormatCommandError(ErrUnknownCommand)
	assert.Equal(t, "ERROR\r\n", string(out))
}
