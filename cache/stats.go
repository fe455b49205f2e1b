package cache

/*
Stats represents runtime performance metrics of the store.

================================================================================
PURPOSE
================================================================================

This structure tracks key operational indicators:

- Hits      → Successful retrievals (valid key found)
- Misses    → Failed lookups (missing key)
- Evictions → Entries removed due to capacity pressure

These metrics provide visibility into cache effectiveness and
operational behavior. There is no wire-protocol `stats` command —
these numbers only ever leave the process via Stats(), the periodic reporter
(reporter.go), or the optional Prometheus listener in
internal/metrics.

================================================================================
OBSERVABILITY VALUE
================================================================================

Tracking cache statistics enables:

- Cache hit ratio analysis
- Performance tuning
- Capacity planning
- Debugging production behavior

For example:

    hit_ratio = Hits / (Hits + Misses)

================================================================================
CONCURRENCY MODEL
================================================================================

Stats fields are modified under Store's mutex. The Stats() method
returns a snapshot under the read lock, ensuring consistent reads
without races.
*/

type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}
