package ltv

// Entries is an ordered list of records. Where a type appears more than once only the first
// occurrence is meaningful to readers; the others are carried along untouched.
//
// The mutating helpers never modify the receiver in place, they return a new list.
type Entries []Entry

// Index returns the position of the first entry of type t, or -1.
func (es Entries) Index(t byte) int {
	for i, e := range es {
		if e.Type == t {
			return i
		}
	}
	return -1
}

// First returns the first entry of type t.
func (es Entries) First(t byte) (Entry, bool) {
	i := es.Index(t)
	if i < 0 {
		return Entry{}, false
	}
	return es[i], true
}

// Clone deep copies the list, values included.
func (es Entries) Clone() Entries {
	if es == nil {
		return nil
	}

	out := make(Entries, len(es))
	for i, e := range es {
		v := make([]byte, len(e.Value))
		copy(v, e.Value)
		out[i] = Entry{Type: e.Type, Value: v}
	}
	return out
}

// Insert returns a list with e placed at position i. i is clamped to [0, len].
func (es Entries) Insert(i int, e Entry) Entries {
	switch {
	case i < 0:
		i = 0
	case i > len(es):
		i = len(es)
	}

	out := make(Entries, 0, len(es)+1)
	out = append(out, es[:i]...)
	out = append(out, e)
	return append(out, es[i:]...)
}

// RemoveAt returns a list without the entry at position i. Out of range positions return
// an unchanged copy.
func (es Entries) RemoveAt(i int) Entries {
	out := make(Entries, 0, len(es))
	for j, e := range es {
		if j != i {
			out = append(out, e)
		}
	}
	return out
}

// RemoveType returns a list without any entry of type t.
func (es Entries) RemoveType(t byte) Entries {
	out := make(Entries, 0, len(es))
	for _, e := range es {
		if e.Type != t {
			out = append(out, e)
		}
	}
	return out
}

// Upsert replaces the first entry of e.Type with e, or appends e when there is none.
func (es Entries) Upsert(e Entry) Entries {
	i := es.Index(e.Type)
	if i < 0 {
		return es.Insert(len(es), e)
	}

	out := make(Entries, len(es))
	copy(out, es)
	out[i] = e
	return out
}
