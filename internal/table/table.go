// Package table implements the open-addressing hash table used for global
// variables and string interning.
//
// Keys are string handles compared by identity. Collisions are resolved by
// linear probing; deletions leave tombstones so later keys on the same probe
// sequence stay reachable. Tombstones count towards the load factor and are
// dropped whenever the row array is rebuilt.
package table

import "github.com/xirelogy/go-lox/internal/value"

const maxLoad = 0.75

type entry struct {
	key   *value.String
	value value.Value
}

// empty rows hold nil, tombstones hold true
func (e *entry) isTombstone() bool {
	return e.key == nil && !e.value.IsNil()
}

// Table maps string handles to values.
type Table struct {
	entries []entry
	count   int // occupied + tombstones
	live    int // occupied only
}

// New returns an empty table. The zero value is also ready to use.
func New() *Table {
	return &Table{}
}

// Len reports the number of live keys.
func (t *Table) Len() int { return t.live }

// Capacity reports the size of the row array.
func (t *Table) Capacity() int { return len(t.entries) }

// Tombstones reports how many deleted rows are still occupying slots.
func (t *Table) Tombstones() int { return t.count - t.live }

// Get looks up key, reporting whether it was present.
func (t *Table) Get(key *value.String) (value.Value, bool) {
	if t.count == 0 {
		return value.Nil(), false
	}
	e := &t.entries[findEntry(t.entries, key)]
	if e.key == nil {
		return value.Nil(), false
	}
	return e.value, true
}

// Set binds key to v and reports whether key was newly added.
func (t *Table) Set(key *value.String, v value.Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoad {
		t.adjustCapacity(growCapacity(len(t.entries)))
	}

	e := &t.entries[findEntry(t.entries, key)]
	isNew := e.key == nil
	if isNew {
		// reusing a tombstone does not change the load
		if e.value.IsNil() {
			t.count++
		}
		t.live++
	}
	e.key = key
	e.value = v
	return isNew
}

// Delete removes key, leaving a tombstone in its row.
func (t *Table) Delete(key *value.String) bool {
	if t.count == 0 {
		return false
	}
	e := &t.entries[findEntry(t.entries, key)]
	if e.key == nil {
		return false
	}
	e.key = nil
	e.value = value.Bool(true)
	t.live--
	return true
}

// AddAll copies every live entry of from into t.
func (t *Table) AddAll(from *Table) {
	for i := range from.entries {
		e := &from.entries[i]
		if e.key != nil {
			t.Set(e.key, e.value)
		}
	}
}

// FindString looks a key up by content rather than identity.
// It is what makes interning possible: the caller hashes the bytes once
// and gets back the canonical handle, if one exists.
func (t *Table) FindString(chars string, hash uint32) *value.String {
	if t.count == 0 {
		return nil
	}
	capacity := uint32(len(t.entries))
	index := hash % capacity
	for {
		e := &t.entries[index]
		if e.key == nil {
			if !e.isTombstone() {
				return nil
			}
		} else if e.key.Hash == hash && e.key.Chars == chars {
			return e.key
		}
		index = (index + 1) % capacity
	}
}

// Each calls fn for every live entry until fn returns false.
// Iteration order is the row order and is not stable across resizes.
func (t *Table) Each(fn func(key *value.String, v value.Value) bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key == nil {
			continue
		}
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Free drops the row array.
func (t *Table) Free() {
	t.entries = nil
	t.count = 0
	t.live = 0
}

// findEntry returns the row holding key, or the row where key should be
// inserted: the first tombstone passed on the way, else the empty row that
// ended the probe.
func findEntry(entries []entry, key *value.String) int {
	capacity := uint32(len(entries))
	index := key.Hash % capacity
	tombstone := -1
	for {
		e := &entries[index]
		if e.key == nil {
			if !e.isTombstone() {
				if tombstone != -1 {
					return tombstone
				}
				return int(index)
			}
			if tombstone == -1 {
				tombstone = int(index)
			}
		} else if e.key == key {
			return int(index)
		}
		index = (index + 1) % capacity
	}
}

func (t *Table) adjustCapacity(capacity int) {
	entries := make([]entry, capacity) // zero rows are empty: nil key, nil value

	t.count = 0
	for i := range t.entries {
		old := &t.entries[i]
		if old.key == nil {
			continue
		}
		dst := &entries[findEntry(entries, old.key)]
		dst.key = old.key
		dst.value = old.value
		t.count++
	}
	t.live = t.count
	t.entries = entries
}

func growCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity * 2
}
