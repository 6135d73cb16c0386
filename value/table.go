package value

import "bytes"

// tableMaxLoad is the load-factor bound from §3/§4.4: capacity doubles
// before count/capacity would exceed it.
const tableMaxLoad = 0.75

// entry is a single slot: (nil key, Nil value) is empty, (nil key, true
// Bool value) is a tombstone, anything else is a live mapping. The CORE
// only ever stores Nil as the value (the table is used as an interned-key
// set), but the tombstone convention still needs a Value slot to
// distinguish itself from empty.
type entry struct {
	key   *ObjString
	value Value
}

func isEmpty(e *entry) bool     { return e.key == nil && e.value.IsNil() }
func isTombstone(e *entry) bool { return e.key == nil && e.value.IsBool() && e.value.AsBool() }

// Table is the open-addressed, linear-probed string-interning set
// described in §4.4. It is used elsewhere (e.g. VM globals) as a general
// string-keyed map, but the CORE's own use is purely as a set: Set is
// always called with NilValue().
type Table struct {
	count   int
	entries []entry
}

func NewTable() *Table {
	return &Table{}
}

func growCapacity(old int) int {
	if old < 8 {
		return 8
	}
	return old * 2
}

// findEntry returns the slot a key occupies, or — if the key is absent —
// the first tombstone seen along the probe sequence (so inserts reuse
// tombstones), or else the first empty slot.
func findEntry(entries []entry, key *ObjString) *entry {
	capacity := len(entries)
	index := int(key.Hash) % capacity
	var tombstone *entry

	for {
		e := &entries[index]
		if e.key == nil {
			if isTombstone(e) {
				if tombstone == nil {
					tombstone = e
				}
			} else {
				if tombstone != nil {
					return tombstone
				}
				return e
			}
		} else if e.key == key {
			return e
		}
		index = (index + 1) % capacity
	}
}

// adjustCapacity grows (or initializes) the backing array, re-inserting
// every live entry via findEntry and dropping tombstones. count is
// recomputed from scratch so it excludes the dropped tombstones.
func (t *Table) adjustCapacity(capacity int) {
	entries := make([]entry, capacity)
	for i := range entries {
		entries[i].value = NilValue()
	}

	t.count = 0
	for i := range t.entries {
		old := &t.entries[i]
		if old.key == nil {
			continue
		}
		dest := findEntry(entries, old.key)
		dest.key = old.key
		dest.value = old.value
		t.count++
	}

	t.entries = entries
}

// Set inserts or overwrites key's value, growing the table first if the
// insert would push the load factor above tableMaxLoad. Returns true if
// key was not already present.
func (t *Table) Set(key *ObjString, v Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*tableMaxLoad {
		t.adjustCapacity(growCapacity(len(t.entries)))
	}

	e := findEntry(t.entries, key)
	isNew := e.key == nil
	if isNew && isEmpty(e) {
		t.count++
	}

	e.key = key
	e.value = v
	return isNew
}

// Get reports whether key is present and, if so, its value.
func (t *Table) Get(key *ObjString) (Value, bool) {
	if t.count == 0 {
		return Value{}, false
	}
	e := findEntry(t.entries, key)
	if e.key == nil {
		return Value{}, false
	}
	return e.value, true
}

// Delete removes key, leaving a tombstone so later linear-probe chains
// stay intact. Returns whether the key was present.
func (t *Table) Delete(key *ObjString) bool {
	if t.count == 0 {
		return false
	}
	e := findEntry(t.entries, key)
	if e.key == nil {
		return false
	}
	e.key = nil
	e.value = BoolValue(true)
	return true
}

// FindString is the intern lookup proper: it probes by hash, then
// confirms length and byte content before returning the canonical
// ObjString. A nil result means the caller must allocate and insert.
func (t *Table) FindString(chars []byte, hash uint32) *ObjString {
	if t.count == 0 {
		return nil
	}

	capacity := len(t.entries)
	index := int(hash) % capacity
	for {
		e := &t.entries[index]
		if e.key == nil {
			if !isTombstone(e) {
				return nil
			}
		} else if e.key.Hash == hash && len(e.key.Chars) == len(chars) && bytes.Equal(e.key.Chars, chars) {
			return e.key
		}
		index = (index + 1) % capacity
	}
}

// Count reports the number of occupied slots: live entries plus any
// tombstones left by Delete since the last rehash.
func (t *Table) Count() int { return t.count }

// LoadFactor is count/capacity, exposed so callers (and tests) can assert
// the §8 property that it never exceeds tableMaxLoad after any Set.
func (t *Table) LoadFactor() float64 {
	if len(t.entries) == 0 {
		return 0
	}
	return float64(t.count) / float64(len(t.entries))
}
