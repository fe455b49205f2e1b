package cache

import "container/list"

/*
evictOldest removes the least recently used entry from the store.
Called by InsertOrUpdate when a new key arrives at capacity.

Callers must already hold the write lock; this method performs no
synchronization of its own.
*/
func (s *Store) evictOldest() {
	elem := s.order.Back()
	if elem != nil {
		s.removeElement(elem)
		s.stats.Evictions++
	}
}

/*
removeElement removes a given list element from both the recency list
and the map, keeping them consistent. Used by evictOldest only:
updates to an existing key never evict.

Callers must already hold the write lock.
*/
func (s *Store) removeElement(e *list.Element) {
	s.order.Remove(e)
	entry := e.Value.(*Entry)
	delete(s.data, entry.Key)
}
