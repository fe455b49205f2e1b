package server

import "github.com/krishna8167/linecache/protocol"

// handleGet executes a parsed `get` request against the store and
// formats its reply. Missing keys are silently omitted.
func (s *Server) handleGet(cmd *protocol.GetCommand) []byte {
	hits := make([]protocol.ValueHit, 0, len(cmd.Keys))
	for _, key := range cmd.Keys {
		entry, found := s.store.Get(key)
		outcome := "miss"
		if found {
			outcome = "hit"
			hits = append(hits, protocol.ValueHit{
				Key:   entry.Key,
				Flags: entry.Flags,
				Value: entry.Value,
			})
		}
		if s.metrics != nil {
			s.metrics.ObserveCommand("get", outcome)
			if found {
				s.metrics.Hits.Inc()
			} else {
				s.metrics.Misses.Inc()
			}
		}
	}
	if s.metrics != nil {
		s.metrics.ResidentEntries.Set(float64(s.store.Len()))
	}
	return protocol.FormatGetReply(hits)
}

// handleSet executes a parsed `set` request against the store and
// formats its reply.
func (s *Server) handleSet(cmd *protocol.SetCommand) []byte {
	var before uint64
	if s.metrics != nil {
		before = s.store.Stats().Evictions
	}

	err := s.store.InsertOrUpdate(cmd.Key, cmd.Flags, cmd.ExpTime, cmd.Value)

	if s.metrics != nil {
		outcome := "stored"
		if err != nil {
			outcome = "error"
		}
		s.metrics.ObserveCommand("set", outcome)
		s.metrics.ResidentEntries.Set(float64(s.store.Len()))
		if after := s.store.Stats().Evictions; after > before {
			s.metrics.Evictions.Add(float64(after - before))
		}
	}
	if err != nil {
		return protocol.FormatClientError(&protocol.ClientError{Reason: "unable to store item"})
	}
	return protocol.FormatStored()
}
