package cache

import "time"

/*
startReporter initializes and launches the background stats-reporter
goroutine.

================================================================================
LINEAGE
================================================================================

This store performs no TTL expiration, so there is nothing to sweep —
but a background goroutine that wakes up periodically and does
something read-only with the store's state is still useful. Here it
logs a structured snapshot of Stats() via the injected Logger, which
is how an operator gets hit-ratio visibility without a wire-protocol
`stats` command.

================================================================================
EXECUTION MODEL
================================================================================

- If reportInterval <= 0 (the default): disabled entirely, reportDone
  is closed immediately so Close() never blocks.
- If reportInterval > 0: a time.Ticker drives one goroutine that logs
  a snapshot on every tick and exits when reportStop is closed.
*/

func (s *Store) startReporter() {
	if s.reportInterval <= 0 {
		close(s.reportDone)
		return
	}

	ticker := time.NewTicker(time.Duration(s.reportInterval))

	go func() {
		defer close(s.reportDone)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.logSnapshot()
			case <-s.reportStop:
				return
			}
		}
	}()
}

func (s *Store) logSnapshot() {
	st := s.Stats()
	s.logger.Infow("cache stats",
		"hits", st.Hits,
		"misses", st.Misses,
		"evictions", st.Evictions,
		"len", s.Len(),
		"capacity", s.Capacity(),
	)
}
