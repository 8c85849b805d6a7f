package cptrie

import (
	"bytes"
	"math"
)

const (
	// sparseMax is the number of entries a sparse node holds before it
	// restructures on the next insertion
	sparseMax = 32

	// the suffix buffer is compacted once garbage exceeds both this and the live bytes
	minKeysGarbage = 64
)

// locate results
const (
	hitNone = iota
	hitValue
	hitChild
)

// sEntry describes one item of a sparse node: either a value stored under a
// full key suffix or a child node stored under a non-empty prefix.
type sEntry struct {
	off   int32 // suffix offset in sNode.keys
	size  int32 // suffix length
	slot  int16 // index in values or children, -1 is the zero value
	child bool
}

// sNode is a sparse node: a short sorted list of entries.
//
// Entry keys are packed into one byte buffer, stored values and children live
// in compact slices. No entry key starts with the prefix of a child entry
// (except that entry itself), so the entry order is the key order.
type sNode[T any] struct {
	entries  []sEntry
	keys     []byte
	values   []T
	children []node[T]
	garbage  int
}

func newSNode[T any](entries, keyBytes int) *sNode[T] {
	return &sNode[T]{
		entries: make([]sEntry, 0, entries),
		keys:    make([]byte, 0, keyBytes),
	}
}

func (s *sNode[T]) suffix(i int) []byte {
	ent := &s.entries[i]
	return s.keys[ent.off : ent.off+ent.size]
}

func (s *sNode[T]) valueAt(i int) T {
	if slot := s.entries[i].slot; slot >= 0 {
		return s.values[slot]
	}

	var zero T

	return zero
}

// locate returns the entry matching a key exactly, the child entry whose
// prefix the key starts with, or the insertion point for the key.
func (s *sNode[T]) locate(key []byte) (int, int) {
	for i := range s.entries {
		var (
			ent = &s.entries[i]
			sfx = s.suffix(i)
		)

		if ent.child && bytes.HasPrefix(key, sfx) {
			return i, hitChild
		}

		switch c := bytes.Compare(sfx, key); {
		case c == 0 && !ent.child:
			return i, hitValue
		case c > 0:
			return i, hitNone
		}
	}

	return len(s.entries), hitNone
}

func (s *sNode[T]) find(key *KeyWalker, e *Enumerator[T]) bool {
	e.push(s)

	var rest = key.Remaining()

	for i := range s.entries {
		var (
			ent = s.entries[i]
			sfx = s.suffix(i)
		)

		if ent.child && bytes.HasPrefix(rest, sfx) {
			e.setIndex(i)
			e.descend(sfx...)
			key.Advance(len(sfx))

			return s.children[ent.slot].find(key, e)
		}

		switch c := bytes.Compare(sfx, rest); {
		case c == 0:
			s.position(e, i)
			return true
		case c > 0:
			s.position(e, i)
			return false
		}
	}

	e.pop()
	e.advance()

	return false
}

func (s *sNode[T]) get(key *KeyWalker) (T, bool) {
	i, hit := s.locate(key.Remaining())

	switch hit {
	case hitValue:
		return s.valueAt(i), true
	case hitChild:
		ent := s.entries[i]
		key.Advance(int(ent.size))
		return s.children[ent.slot].get(key)
	}

	var zero T

	return zero, false
}

func (s *sNode[T]) set(key *KeyWalker, value *T, self *node[T], mode Mode) bool {
	var (
		rest   = key.Remaining()
		i, hit = s.locate(rest)
	)

	switch hit {
	case hitChild:
		ent := s.entries[i]
		key.Advance(int(ent.size))
		return s.children[ent.slot].set(key, value, &s.children[ent.slot], mode)

	case hitValue:
		if mode&ModeSet != 0 {
			old := s.valueAt(i)
			s.setValueAt(i, *value)
			*value = old
		} else {
			*value = s.valueAt(i)
		}
		return true
	}

	if mode&ModeCreate == 0 {
		return false
	}

	if len(s.entries) >= sparseMax && mode&ModeFixedStructure == 0 {
		s.restructure(self, rest)
		return (*self).set(key, value, self, mode)
	}

	s.insertValue(i, rest, *value)

	return false
}

func (s *sNode[T]) remove(key *KeyWalker, oldValue *T, self *node[T]) bool {
	i, hit := s.locate(key.Remaining())

	switch hit {
	case hitValue:
		*oldValue = s.valueAt(i)
		s.deleteEntry(i)

	case hitChild:
		ent := s.entries[i]
		key.Advance(int(ent.size))

		if !s.children[ent.slot].remove(key, oldValue, &s.children[ent.slot]) {
			return false
		}

		if s.children[ent.slot] != nil {
			s.collapse(i)
			return true
		}

		s.deleteEntry(i)

	default:
		return false
	}

	if len(s.entries) == 0 {
		*self = nil
	}

	return true
}

func (s *sNode[T]) addChild(key *KeyWalker, child node[T], self *node[T]) {
	var (
		rest   = key.Remaining()
		i, hit = s.locate(rest)
	)

	switch hit {
	case hitChild:
		ent := s.entries[i]
		key.Advance(int(ent.size))
		s.children[ent.slot].addChild(key, child, &s.children[ent.slot])
		return
	case hitValue:
		invariant(false, "child prefix %q collides with a stored key", rest)
	}

	invariant(len(rest) > 0, "child prefix must not be empty")

	s.insertChild(i, rest, child)
}

// restructure makes room in a full node that is about to get the given key.
func (s *sNode[T]) restructure(self *node[T], key []byte) {
	var single = len(key) == 1

	for i := 0; single && i < len(s.entries); i++ {
		single = !s.entries[i].child && s.entries[i].size == 1
	}

	if single {
		// all the keys end in the next byte - a bit array leaf fits them best
		leaf := newBitArrayLeaf[T]()

		for i := range s.entries {
			leaf.assign(s.keys[s.entries[i].off], s.valueAt(i))
			leaf.count++
		}

		*self = leaf

		return
	}

	// group the entries by their first byte (the zero-length key is not in any group)
	var (
		n              = len(s.entries)
		groups         int
		bestLo, bestHi int
	)

	for lo := 0; lo < n; {
		if s.entries[lo].size == 0 {
			lo++
			continue
		}

		var (
			b  = s.keys[s.entries[lo].off]
			hi = lo + 1
		)

		for hi < n && s.keys[s.entries[hi].off] == b {
			hi++
		}

		if hi-lo > bestHi-bestLo {
			bestLo, bestHi = lo, hi
		}

		groups++
		lo = hi
	}

	if groups > sparseMax/2 {
		s.convertToBNode(self)
		return
	}

	s.split(bestLo, bestHi)
}

// split moves the entries lo..hi-1 (sharing the first byte) into a new child
// node stored under their longest common prefix.
func (s *sNode[T]) split(lo, hi int) {
	invariant(hi-lo >= 2, "cannot split a group of %d entries", hi-lo)

	var common = s.suffix(lo)

	for i := lo + 1; i < hi; i++ {
		common = common[:commonPrefixLen(common, s.suffix(i))]
	}

	var (
		prefix = bytes.Clone(common)
		child  = newSNode[T](hi-lo, 0)
	)

	for i := lo; i < hi; i++ {
		var (
			ent = s.entries[i]
			sfx = s.suffix(i)[len(prefix):]
		)

		if ent.child {
			invariant(len(sfx) > 0, "child prefix %q swallowed by a split", s.suffix(i))
			child.insertChild(len(child.entries), sfx, s.children[ent.slot])
		} else {
			child.insertValue(len(child.entries), sfx, s.valueAt(i))
		}
	}

	for i := hi - 1; i >= lo; i-- {
		s.deleteEntry(i)
	}

	s.insertChild(lo, prefix, child)
}

func (s *sNode[T]) convertToBNode(self *node[T]) {
	var n node[T] = newBNode[T]()

	for i := range s.entries {
		var (
			ent = s.entries[i]
			kw  = NewKeyWalker(s.suffix(i))
		)

		if ent.child {
			n.addChild(&kw, s.children[ent.slot], &n)
		} else {
			value := s.valueAt(i)
			n.set(&kw, &value, &n, ModeCreate|ModeFixedStructure)
		}
	}

	*self = n
}

// collapse merges a child holding a single entry into the parent entry i.
func (s *sNode[T]) collapse(i int) {
	var ent = s.entries[i]

	child, ok := s.children[ent.slot].(*sNode[T])
	if !ok || len(child.entries) != 1 {
		return
	}

	var (
		sub = child.entries[0]
		key = append(bytes.Clone(s.suffix(i)), child.suffix(0)...)
	)

	s.deleteEntry(i)

	if sub.child {
		s.insertChild(i, key, child.children[sub.slot])
	} else {
		s.insertValue(i, key, child.valueAt(0))
	}
}

func (s *sNode[T]) appendKey(key []byte) (int32, int32) {
	off := len(s.keys)
	s.keys = append(s.keys, key...)

	return int32(off), int32(len(key))
}

func (s *sNode[T]) insertEntry(i int, ent sEntry) {
	s.entries = append(s.entries, sEntry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = ent
}

func (s *sNode[T]) insertValue(i int, key []byte, value T) {
	var ent = sEntry{slot: -1}

	ent.off, ent.size = s.appendKey(key)

	if !isZero(value) {
		invariant(len(s.values) < math.MaxInt16, "sparse node is out of value slots")
		ent.slot = int16(len(s.values))
		s.values = append(s.values, value)
	}

	s.insertEntry(i, ent)
}

func (s *sNode[T]) insertChild(i int, key []byte, child node[T]) {
	invariant(len(s.children) < math.MaxInt16, "sparse node is out of child slots")

	var ent = sEntry{
		slot:  int16(len(s.children)),
		child: true,
	}

	ent.off, ent.size = s.appendKey(key)
	s.children = append(s.children, child)

	s.insertEntry(i, ent)
}

func (s *sNode[T]) setValueAt(i int, value T) {
	var ent = &s.entries[i]

	switch {
	case isZero(value):
		if ent.slot >= 0 {
			s.freeValue(ent.slot)
			ent.slot = -1
		}
	case ent.slot >= 0:
		s.values[ent.slot] = value
	default:
		invariant(len(s.values) < math.MaxInt16, "sparse node is out of value slots")
		ent.slot = int16(len(s.values))
		s.values = append(s.values, value)
	}
}

// freeValue drops a value slot moving the last value into its place.
func (s *sNode[T]) freeValue(slot int16) {
	var (
		zero T
		last = int16(len(s.values) - 1)
	)

	if slot != last {
		s.values[slot] = s.values[last]
		for i := range s.entries {
			if ent := &s.entries[i]; !ent.child && ent.slot == last {
				ent.slot = slot
				break
			}
		}
	}

	s.values[last] = zero
	s.values = s.values[:last]
}

// freeChild drops a child slot moving the last child into its place.
func (s *sNode[T]) freeChild(slot int16) {
	last := int16(len(s.children) - 1)

	if slot != last {
		s.children[slot] = s.children[last]
		for i := range s.entries {
			if ent := &s.entries[i]; ent.child && ent.slot == last {
				ent.slot = slot
				break
			}
		}
	}

	s.children[last] = nil
	s.children = s.children[:last]
}

func (s *sNode[T]) deleteEntry(i int) {
	var ent = s.entries[i]

	switch {
	case ent.child:
		s.freeChild(ent.slot)
	case ent.slot >= 0:
		s.freeValue(ent.slot)
	}

	copy(s.entries[i:], s.entries[i+1:])
	s.entries = s.entries[:len(s.entries)-1]

	s.garbage += int(ent.size)
	if s.garbage > minKeysGarbage && s.garbage > len(s.keys)-s.garbage {
		s.compactKeys()
	}
}

func (s *sNode[T]) compactKeys() {
	keys := make([]byte, 0, len(s.keys)-s.garbage)

	for i := range s.entries {
		ent := &s.entries[i]
		sfx := s.keys[ent.off : ent.off+ent.size]

		ent.off = int32(len(keys))
		keys = append(keys, sfx...)
	}

	s.keys = keys
	s.garbage = 0
}

// position makes entry i current: the value itself or the first key of the child.
func (s *sNode[T]) position(e *Enumerator[T], i int) {
	var ent = s.entries[i]

	e.setIndex(i)

	if ent.child {
		e.descend(s.suffix(i)...)
		s.children[ent.slot].moveFirst(e)
		return
	}

	e.emit(s.valueAt(i), s.suffix(i)...)
}

// positionLast is position descending to the last key of a child.
func (s *sNode[T]) positionLast(e *Enumerator[T], i int) {
	var ent = s.entries[i]

	e.setIndex(i)

	if ent.child {
		e.descend(s.suffix(i)...)
		s.children[ent.slot].moveLast(e)
		return
	}

	e.emit(s.valueAt(i), s.suffix(i)...)
}

func (s *sNode[T]) moveFirst(e *Enumerator[T]) {
	e.push(s)
	s.position(e, 0)
}

func (s *sNode[T]) moveLast(e *Enumerator[T]) {
	e.push(s)
	s.positionLast(e, len(s.entries)-1)
}

func (s *sNode[T]) moveNext(e *Enumerator[T]) bool {
	i := e.top().index + 1
	if i >= len(s.entries) {
		return false
	}

	s.position(e, i)

	return true
}

func (s *sNode[T]) movePrev(e *Enumerator[T]) bool {
	i := e.top().index - 1
	if i < 0 {
		return false
	}

	s.positionLast(e, i)

	return true
}

func (s *sNode[T]) localCount() int {
	return len(s.entries)
}

func (s *sNode[T]) countMemoryUsage(sizeOfT int) int {
	size := objectSize + 4*sliceSize + 8 +
		cap(s.entries)*12 + cap(s.keys) + cap(s.values)*sizeOfT + cap(s.children)*interfaceSize

	for _, child := range s.children {
		size += child.countMemoryUsage(sizeOfT)
	}

	return size
}

func commonPrefixLen(a, b []byte) int {
	n := min(len(a), len(b))

	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}

	return n
}
