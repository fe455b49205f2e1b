package protocol

import (
	"bytes"
	"strconv"
)

// ValueHit is one key/value pair matched by a `get` request, ready to
// be serialized into the reply stream.
type ValueHit struct {
	Key   string
	Flags uint16
	Value []byte
}

var crlf = []byte("\r\n")

// FormatStored renders the success reply to a `set` request.
func FormatStored() []byte {
	return []byte("STORED\r\n")
}

// FormatGetReply renders zero or more VALUE lines for a `get`
// request. No trailing END marker is emitted — the reply is simply
// the concatenation of the matched VALUE blocks (empty when nothing
// matched).
func FormatGetReply(hits []ValueHit) []byte {
	buf := bytes.NewBuffer([]byte{})
	for _, h := range hits {
		buf.WriteString("VALUE ")
		buf.WriteString(h.Key)
		buf.WriteByte(' ')
		buf.WriteString(strconv.FormatUint(uint64(h.Flags), 10))
		buf.WriteByte(' ')
		buf.WriteString(strconv.Itoa(len(h.Value)))
		buf.Write(crlf)
		buf.Write(h.Value)
		buf.Write(crlf)
	}
	return buf.Bytes()
}

// FormatClientError renders a CLIENT_ERROR reply. err must be a
// *ClientError; any other error renders as a generic malformed-frame
// CLIENT_ERROR so callers can never fail to produce wire output.
func FormatClientError(err error) []byte {
	ce, ok := err.(*ClientError)
	if !ok {
		ce = &ClientError{Reason: "wrong command format"}
	}
	return []byte(ce.Error() + "\r\n")
}

// FormatCommandError renders an ERROR reply. err must be a
// *CommandError; any other error renders as a bare ERROR.
func FormatCommandError(err error) []byte {
	cmd, ok := err.(*CommandError)
	if !ok {
		cmd = &CommandError{}
	}
	return []byte(cmd.Error() + "\r\n")
}
