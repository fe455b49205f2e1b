package cache

import (
	"time"
)

/*
Option defines a functional configuration modifier for Store.

DESIGN PATTERN

This file implements the Functional Options Pattern, a common
idiomatic Go design used for flexible and extensible configuration.

Instead of passing multiple parameters to the constructor, New()
accepts a variadic list of Option functions:

    store, err := New(
        WithCapacity(5000),
        WithReportInterval(30 * time.Second),
    )

Each Option modifies the Store instance before it becomes active.

BENEFITS

1. API Stability:
   Adding new configuration knobs does not change New()'s signature.

2. Readability:
   Configuration is self-documenting and explicit.

3. Extensibility:
   Future knobs can be added without breaking existing call sites.
*/

type Option func(*Store)

// WithCapacity sets the maximum number of resident entries. The
// default, if this option is omitted, is DefaultCapacity.
func WithCapacity(n int) Option {
	return func(s *Store) {
		s.capacity = n
	}
}

// WithReportInterval enables the background stats reporter (see
// reporter.go) at the given period. Omitting this option, or passing
// a non-positive duration, leaves the reporter disabled.
func WithReportInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.reportInterval = int64(d)
		}
	}
}

// WithLogger attaches a Logger the background reporter writes
// periodic snapshots to. Defaults to a no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}
