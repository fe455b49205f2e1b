package protocol

import (
	"bytes"
	"strconv"
)

// ParseHeader parses one CRLF-stripped header line and returns either
// a *GetCommand or a *SetHeader. See request.go for why `set` yields
// a header rather than a finished command.
func ParseHeader(line []byte) (interface{}, error) {
	if len(line) < 3 {
		return nil, shortFrameError()
	}

	token, rest, hasRest := splitFirstToken(line)
	switch string(token) {
	case "set":
		if !hasRest {
			return nil, clientError("wrong command format")
		}
		return parseSetHeader(rest)
	case "get":
		if !hasRest {
			return nil, clientError("wrong command format")
		}
		return parseGetHeader(rest)
	default:
		return nil, ErrUnknownCommand
	}
}

// FinishSet validates the body the framer read for a `set` request
// (exactly header.Bytes value bytes followed by a trailing CRLF) and
// returns the completed command.
func FinishSet(header *SetHeader, body []byte) (*SetCommand, error) {
	if len(body) != header.Bytes+2 {
		return nil, clientError("wrong command format")
	}
	if body[len(body)-2] != '\r' || body[len(body)-1] != '\n' {
		return nil, clientError("wrong command format")
	}
	value := make([]byte, header.Bytes)
	copy(value, body[:header.Bytes])
	return &SetCommand{SetHeader: *header, Value: value}, nil
}

func parseSetHeader(rest []byte) (*SetHeader, error) {
	keyTok, rest, ok := splitFirstToken(rest)
	if !ok {
		return nil, clientError("wrong command format")
	}
	if err := validateKey(keyTok); err != nil {
		return nil, err
	}

	flagsTok, rest, ok := splitFirstToken(rest)
	if !ok {
		return nil, clientError("expected flag")
	}
	flags, err := parseUint16(flagsTok)
	if err != nil {
		return nil, clientError("expected flag")
	}

	expTok, rest, ok := splitFirstToken(rest)
	if !ok {
		return nil, clientError("expected expiry time")
	}
	expTime, err := parseUint64(expTok)
	if err != nil {
		return nil, clientError("expected expiry time")
	}

	bytesTok, rest, hasRest := splitFirstToken(rest)
	if len(bytesTok) == 0 {
		return nil, clientError("wrong bytes format")
	}
	n, err := parseUint64(bytesTok)
	if err != nil || n < MinValueLength || n > MaxValueLength {
		return nil, clientError("wrong bytes format")
	}

	noReply := false
	if hasRest {
		rest = bytes.TrimLeft(rest, " ")
		if len(rest) > 0 {
			if string(rest) != NoReplyToken {
				return nil, clientError("wrong command format")
			}
			noReply = true
		}
	}

	return &SetHeader{
		Key:     string(keyTok),
		Flags:   flags,
		ExpTime: expTime,
		Bytes:   int(n),
		NoReply: noReply,
	}, nil
}

func parseGetHeader(rest []byte) (*GetCommand, error) {
	var keys []string
	remaining := rest
	for len(remaining) > 0 {
		tok, next, hasNext := splitFirstToken(remaining)
		if len(tok) == 0 {
			return nil, clientError("wrong command format")
		}
		if err := validateKey(tok); err != nil {
			return nil, err
		}
		keys = append(keys, string(tok))
		if !hasNext {
			break
		}
		remaining = next
	}
	if len(keys) == 0 {
		return nil, clientError("wrong command format")
	}
	return &GetCommand{Keys: keys}, nil
}

// splitFirstToken splits data on the first space byte, returning the
// token before it, the remainder after it, and whether a space was
// found at all (as opposed to data being the final token).
func splitFirstToken(data []byte) (token []byte, rest []byte, hasRest bool) {
	idx := bytes.IndexByte(data, ' ')
	if idx < 0 {
		return data, nil, false
	}
	return data[:idx], data[idx+1:], true
}

func validateKey(key []byte) error {
	if len(key) == 0 {
		return clientError("wrong command format")
	}
	if len(key) > MaxKeyLength {
		return clientError("key length exceeds 250 character limit")
	}
	for _, c := range key {
		if c < 0x20 || c == 0x7f {
			return clientError("key contains control character")
		}
	}
	return nil
}

func parseUint16(tok []byte) (uint16, error) {
	v, err := strconv.ParseUint(string(tok), 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func parseUint64(tok []byte) (uint64, error) {
	return strconv.ParseUint(string(tok), 10, 64)
}
