package cptrie

const (
	leafSections    = 8   // 8 * 32 = 256 key bits
	valueFlagsStart = 8   // flag words 8..15 track allocated value slots
	maxValueSlots   = 256 // slot numbers are bytes
	noValue         = 0xFF

	// a leaf below leafDemoteCount keys turns into a sparse node if it stores
	// values; a leaf holding defaults only is kept down to leafDemoteBare keys
	leafDemoteCount = 24
	leafDemoteBare  = 12

	// convertToBOrSNode picks a sparse node below this many keys
	leafSparseLimit = 32

	minValueSlots = 4
)

// bitArrayLeaf stores keys that end exactly one byte below its position.
//
// flags[0:8] is the 256-bit set of present key bytes, flags[8:16] the set of
// allocated slots in values. indices maps a present key byte to its value slot
// or to noValue, meaning the value is the zero value of T and not stored.
// Sections of indices are allocated on demand: a missing section means every
// key in it has the zero value.
//
// noValue doubles as slot 255: that slot is only handed out when slots 0..254
// are taken, and it is vacated as soon as any other slot frees up, so while it
// is in use no key of the leaf has a zero value.
type bitArrayLeaf[T any] struct {
	flags      [16]uint32
	indices    [leafSections][]byte
	values     []T
	count      int16
	valueCount int16
}

func newBitArrayLeaf[T any]() *bitArrayLeaf[T] {
	return &bitArrayLeaf[T]{}
}

func (l *bitArrayLeaf[T]) isPresent(k byte) bool {
	return l.flags[k>>sectionShift]>>(k&sectionMask)&1 != 0
}

func (l *bitArrayLeaf[T]) lastSlotInUse() bool {
	return l.flags[15]>>31 != 0
}

// slotOf returns the value slot of a present key or -1.
func (l *bitArrayLeaf[T]) slotOf(k byte) int {
	sec := l.indices[k>>sectionShift]
	if sec == nil {
		return -1
	}

	idx := sec[k&sectionMask]
	if idx == noValue && !l.lastSlotInUse() {
		return -1
	}

	return int(idx)
}

func (l *bitArrayLeaf[T]) valueOf(k byte) T {
	if slot := l.slotOf(k); slot >= 0 {
		return l.values[slot]
	}

	var zero T

	return zero
}

// section returns the index section of a key allocating it if necessary.
func (l *bitArrayLeaf[T]) section(k byte) []byte {
	var sec = l.indices[k>>sectionShift]

	if sec == nil {
		sec = make([]byte, sectionBits)
		for i := range sec {
			sec[i] = noValue
		}
		l.indices[k>>sectionShift] = sec
	}

	return sec
}

func (l *bitArrayLeaf[T]) find(key *KeyWalker, e *Enumerator[T]) bool {
	e.push(l)

	if key.Left == 0 {
		l.position(e, l.firstKeyInUse())
		return false
	}

	var k = int(key.Byte(0))

	if key.Left == 1 && l.isPresent(byte(k)) {
		l.position(e, k)
		return true
	}

	if key.Left > 1 {
		k++ // the key byte alone sorts before the sought key
	}

	if next := l.findNextInUse(k); next >= 0 {
		l.position(e, next)
		return false
	}

	// nothing here - continue in the parent
	e.pop()
	e.advance()

	return false
}

func (l *bitArrayLeaf[T]) get(key *KeyWalker) (T, bool) {
	var zero T

	if key.Left != 1 || !l.isPresent(key.Byte(0)) {
		return zero, false
	}

	return l.valueOf(key.Byte(0)), true
}

func (l *bitArrayLeaf[T]) set(key *KeyWalker, value *T, self *node[T], mode Mode) bool {
	if key.Left == 1 {
		k := key.Byte(0)

		if l.isPresent(k) {
			if mode&ModeSet != 0 {
				old := l.valueOf(k)
				l.replace(k, *value)
				*value = old
			} else {
				*value = l.valueOf(k)
			}
			return true
		}

		if mode&ModeCreate == 0 {
			return false
		}

		l.assign(k, *value)
		l.count++

		return false
	}

	if mode&ModeCreate == 0 {
		return false // the leaf cannot hold such a key
	}

	// a longer or an empty key needs a node able to branch
	l.convertToBOrSNode(self, key.Left/3+1)

	return (*self).set(key, value, self, mode)
}

// assign marks a key present and stores its value unless it is the zero value.
func (l *bitArrayLeaf[T]) assign(k byte, value T) {
	l.flags[k>>sectionShift] |= 1 << (k & sectionMask)

	if !isZero(value) {
		l.storeValue(k, value)
	} else if sec := l.indices[k>>sectionShift]; sec != nil {
		sec[k&sectionMask] = noValue
	}
}

// replace changes the value of a present key.
func (l *bitArrayLeaf[T]) replace(k byte, value T) {
	slot := l.slotOf(k)

	switch {
	case isZero(value):
		if slot >= 0 {
			l.freeValueSlot(k, slot)
			l.indices[k>>sectionShift][k&sectionMask] = noValue
		}
	case slot >= 0:
		l.values[slot] = value
	default:
		l.storeValue(k, value)
	}
}

func (l *bitArrayLeaf[T]) storeValue(k byte, value T) {
	var (
		slot = l.allocValueSlot()
		sec  = l.section(k)
	)

	l.values[slot] = value
	sec[k&sectionMask] = byte(slot)
	l.valueCount++
}

// allocValueSlot takes the first free value slot growing values if needed.
func (l *bitArrayLeaf[T]) allocValueSlot() int {
	for w := valueFlagsStart; w < len(l.flags); w++ {
		if pos := positionOfLeastSignificantZero(l.flags[w]); pos >= 0 {
			slot := (w-valueFlagsStart)<<sectionShift + pos

			l.flags[w] |= 1 << pos
			l.allocValue(slot)

			return slot
		}
	}

	panic("cptrie: bit array leaf is out of value slots")
}

// allocValue makes sure values has room for the given slot.
func (l *bitArrayLeaf[T]) allocValue(slot int) {
	if slot < len(l.values) {
		return
	}

	size := len(l.values) * 2
	if size < minValueSlots {
		size = minValueSlots
	}
	if size > maxValueSlots {
		size = maxValueSlots
	}

	invariant(slot < size, "value slot %d beyond capacity %d", slot, size)

	values := make([]T, size)
	copy(values, l.values)
	l.values = values
}

// freeValueSlot releases the slot of key k. If the last slot is in use its
// value moves into the freed one, so that noValue means "zero value" again.
func (l *bitArrayLeaf[T]) freeValueSlot(k byte, slot int) {
	var zero T

	if last := maxValueSlots - 1; slot != last && l.lastSlotInUse() {
		// exactly one key other than k refers to the last slot
		for j := l.firstKeyInUse(); j >= 0; j = l.findNextInUse(j + 1) {
			if byte(j) != k && l.indices[j>>sectionShift][j&sectionMask] == noValue {
				l.indices[j>>sectionShift][j&sectionMask] = byte(slot)
				break
			}
		}

		l.values[slot], l.values[last] = l.values[last], zero
		slot = last
	} else {
		l.values[slot] = zero
	}

	l.flags[valueFlagsStart+slot>>sectionShift] &^= 1 << (slot & sectionMask)
	l.valueCount--
}

func (l *bitArrayLeaf[T]) remove(key *KeyWalker, oldValue *T, self *node[T]) bool {
	if key.Left != 1 {
		return false // only one-byte suffixes are stored here
	}

	k := key.Byte(0)

	if !l.isPresent(k) {
		return false
	}

	invariant(l.count > 0, "bit array leaf count underflow")

	*oldValue = l.valueOf(k)

	if slot := l.slotOf(k); slot >= 0 {
		l.freeValueSlot(k, slot)
	}

	if sec := l.indices[k>>sectionShift]; sec != nil {
		sec[k&sectionMask] = noValue
	}

	l.flags[k>>sectionShift] &^= 1 << (k & sectionMask)
	l.count--

	switch {
	case l.count == 0:
		*self = nil
	case l.count < leafDemoteCount && (l.valueCount > 0 || l.count < leafDemoteBare):
		l.convertToBOrSNode(self, 0)
	}

	return true
}

func (l *bitArrayLeaf[T]) addChild(key *KeyWalker, child node[T], self *node[T]) {
	l.convertToBOrSNode(self, 1)
	(*self).addChild(key, child, self)
}

// convertToBOrSNode replaces the leaf with a sparse node (or a bitmap node
// when the leaf is large) holding the same keys.
func (l *bitArrayLeaf[T]) convertToBOrSNode(self *node[T], extraCells int) {
	var (
		n   node[T]
		buf [1]byte
	)

	if count := int(l.count); count < leafSparseLimit {
		n = newSNode[T](count+extraCells, count+extraCells*3)
	} else {
		n = newBNode[T]()
	}

	for k := l.firstKeyInUse(); k >= 0; k = l.findNextInUse(k + 1) {
		buf[0] = byte(k)

		var (
			kw    = NewKeyWalker(buf[:])
			value = l.valueOf(byte(k))
		)

		n.set(&kw, &value, &n, ModeCreate|ModeFixedStructure)
	}

	*self = n
}

// findNextInUse returns the first present key >= k or -1.
func (l *bitArrayLeaf[T]) findNextInUse(k int) int {
	if k >= maxValueSlots {
		return -1
	}

	var (
		sec  = k >> sectionShift
		word = l.flags[sec] & (^uint32(0) << (k & sectionMask))
	)

	for {
		if pos := positionOfLeastSignificantOne(word); pos >= 0 {
			return sec<<sectionShift + pos
		}
		if sec++; sec == leafSections {
			return -1
		}
		word = l.flags[sec]
	}
}

// findPrevInUse returns the last present key <= k or -1.
func (l *bitArrayLeaf[T]) findPrevInUse(k int) int {
	if k < 0 {
		return -1
	}

	var (
		sec  = k >> sectionShift
		word = l.flags[sec] & (^uint32(0) >> (sectionMask - k&sectionMask))
	)

	for {
		if pos := positionOfMostSignificantOne(word); pos >= 0 {
			return sec<<sectionShift + pos
		}
		if sec--; sec < 0 {
			return -1
		}
		word = l.flags[sec]
	}
}

func (l *bitArrayLeaf[T]) firstKeyInUse() int {
	return l.findNextInUse(0)
}

func (l *bitArrayLeaf[T]) lastKeyInUse() int {
	return l.findPrevInUse(maxValueSlots - 1)
}

func (l *bitArrayLeaf[T]) position(e *Enumerator[T], k int) {
	e.setIndex(k)
	e.emit(l.valueOf(byte(k)), byte(k))
}

func (l *bitArrayLeaf[T]) moveFirst(e *Enumerator[T]) {
	e.push(l)
	l.position(e, l.firstKeyInUse())
}

func (l *bitArrayLeaf[T]) moveLast(e *Enumerator[T]) {
	e.push(l)
	l.position(e, l.lastKeyInUse())
}

func (l *bitArrayLeaf[T]) moveNext(e *Enumerator[T]) bool {
	next := l.findNextInUse(e.top().index + 1)
	if next < 0 {
		return false
	}

	l.position(e, next)

	return true
}

func (l *bitArrayLeaf[T]) movePrev(e *Enumerator[T]) bool {
	prev := l.findPrevInUse(e.top().index - 1)
	if prev < 0 {
		return false
	}

	l.position(e, prev)

	return true
}

func (l *bitArrayLeaf[T]) localCount() int {
	return int(l.count)
}

func (l *bitArrayLeaf[T]) countMemoryUsage(sizeOfT int) int {
	size := objectSize + len(l.flags)*4 + leafSections*sliceSize + sliceSize + 2*2

	for _, sec := range l.indices {
		if sec != nil {
			size += objectSize + len(sec)
		}
	}

	if l.values != nil {
		size += objectSize + cap(l.values)*sizeOfT
	}

	return size
}
