package cache

/*
Entry is a single cache record stored inside the Store's map.

DESIGN PURPOSE

Each cache key maps to an Entry instead of directly storing the value.
This lets the store associate memcached's wire metadata (flags,
exptime) with the stored bytes without widening the value type.

STRUCTURE

Flags   -> opaque 16-bit value supplied by the client, round-tripped
           verbatim on Get.
ExpTime -> seconds value supplied by the client. Recorded for
           protocol compatibility but never interpreted: this store
           performs no TTL expiration (see package doc in cache.go).
Value   -> owned copy of the payload bytes. Values are arbitrary
           octets, not text, so this is []byte rather than string.
*/

type Entry struct {
	Key     string
	Flags   uint16
	ExpTime uint64
	Value   []byte
}

// clone returns a copy of the entry with its own backing array, so
// callers can hold the result after the store's lock is released.
func (e Entry) clone() Entry {
	v := make([]byte, len(e.Value))
	copy(v, e.Value)
	return Entry{Key: e.Key, Flags: e.Flags, ExpTime: e.ExpTime, Value: v}
}
