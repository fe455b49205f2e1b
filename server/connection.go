package server

import (
	"bufio"
	"errors"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/krishna8167/linecache/protocol"
)

// handleConnection owns one accepted connection end to end: framing,
// dispatch, and reply writing. It returns when the connection is
// closed by either side.
func (s *Server) handleConnection(conn net.Conn, connID string) {
	log := s.logger.With(zap.String("conn", connID), zap.String("remote", conn.RemoteAddr().String()))
	log.Info("connection opened")

	defer func() {
		s.trackConn(conn, false)
		_ = conn.Close()
		log.Info("connection closed")
	}()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	for {
		line, err := readLine(reader)
		if err != nil {
			if err != io.EOF {
				log.Debug("read error", zap.Error(err))
			}
			return
		}
		if len(line) == 0 {
			continue
		}

		reply, fatal := s.handleFrame(reader, line, log)
		if reply != nil {
			if _, err := writer.Write(reply); err != nil {
				return
			}
			if err := writer.Flush(); err != nil {
				return
			}
		}
		if fatal {
			return
		}
	}
}

// readLine reads one CRLF- or LF-terminated line and returns it with
// the terminator stripped.
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	line = line[:len(line)-1]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line, nil
}

// handleFrame parses one header line, reads any further bytes a `set`
// body requires, dispatches the resulting command on the worker pool,
// and blocks until the pool has produced a reply (or decided none is
// owed). fatal reports whether the connection must be closed.
func (s *Server) handleFrame(reader *bufio.Reader, line []byte, log *zap.Logger) (reply []byte, fatal bool) {
	parsed, err := protocol.ParseHeader(line)
	if err != nil {
		return replyForParseError(err), false
	}

	switch cmd := parsed.(type) {
	case *protocol.GetCommand:
		return s.dispatchSync(func() []byte { return s.handleGet(cmd) }), false

	case *protocol.SetHeader:
		body := make([]byte, cmd.Bytes+2)
		if _, err := io.ReadFull(reader, body); err != nil {
			return nil, true
		}
		setCmd, err := protocol.FinishSet(cmd, body)
		if err != nil {
			return protocol.FormatClientError(err), false
		}
		// noreply is accepted but does not suppress the reply in this
		// implementation.
		return s.dispatchSync(func() []byte { return s.handleSet(setCmd) }), false

	default:
		log.Warn("unreachable parsed command type")
		return protocol.FormatCommandError(protocol.ErrUnknownCommand), false
	}
}

// dispatchSync submits job to the worker pool and blocks until it has
// run, returning whatever bytes it produced. This is what gives each
// connection FIFO reply ordering without dedicating a worker to it.
func (s *Server) dispatchSync(job func() []byte) []byte {
	done := make(chan []byte, 1)
	s.workers.Submit(func() {
		done <- job()
	})
	return <-done
}

func replyForParseError(err error) []byte {
	var clientErr *protocol.ClientError
	if errors.As(err, &clientErr) {
		return protocol.FormatClientError(err)
	}
	return protocol.FormatCommandError(err)
}
