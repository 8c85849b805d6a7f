package cptrie

// bNodeMin is the local count below which a bitmap node turns back into a
// sparse node. A sparse node only becomes a bitmap node with more than
// sparseMax/2 distinct first bytes.
const bNodeMin = 8

// bNode is a bitmap inner node: one child per first key byte.
//
// The child under byte b holds the keys starting with b, the key ending right
// at b being the child's zero-length key. children is ranked by bitmap, like
// the fan-nodes of a QP-trie.
type bNode[T any] struct {
	bitmap   [4]uint64
	children []node[T]
	hasZLK   bool
	zlk      T
}

func newBNode[T any]() *bNode[T] {
	return &bNode[T]{}
}

func (b *bNode[T]) childSlot(k byte) *node[T] {
	if !test256(&b.bitmap, k) {
		return nil
	}
	return &b.children[rank256(&b.bitmap, k)]
}

func (b *bNode[T]) child(k int) node[T] {
	return b.children[rank256(&b.bitmap, byte(k))]
}

func (b *bNode[T]) insertChild(k byte, child node[T]) {
	idx := rank256(&b.bitmap, k)

	b.children = append(b.children, nil)
	copy(b.children[idx+1:], b.children[idx:])
	b.children[idx] = child

	b.bitmap[k>>6] |= 1 << (k & 0x3F)
}

func (b *bNode[T]) deleteChild(k byte) {
	var (
		idx  = rank256(&b.bitmap, k)
		last = len(b.children) - 1
	)

	copy(b.children[idx:], b.children[idx+1:])
	b.children[last] = nil
	b.children = b.children[:last]

	b.bitmap[k>>6] &^= 1 << (k & 0x3F)
}

func (b *bNode[T]) find(key *KeyWalker, e *Enumerator[T]) bool {
	e.push(b)

	if key.Left == 0 {
		if b.hasZLK {
			b.positionZLK(e)
			return true
		}

		b.positionChild(e, next256(&b.bitmap, 0))

		return false
	}

	k := key.Byte(0)

	if slot := b.childSlot(k); slot != nil {
		e.setIndex(int(k))
		e.descend(k)
		key.Advance(1)

		return (*slot).find(key, e)
	}

	if next := next256(&b.bitmap, int(k)+1); next >= 0 {
		b.positionChild(e, next)
		return false
	}

	e.pop()
	e.advance()

	return false
}

func (b *bNode[T]) get(key *KeyWalker) (T, bool) {
	if key.Left == 0 {
		return b.zlk, b.hasZLK
	}

	slot := b.childSlot(key.Byte(0))
	if slot == nil {
		var zero T
		return zero, false
	}

	key.Advance(1)

	return (*slot).get(key)
}

func (b *bNode[T]) set(key *KeyWalker, value *T, self *node[T], mode Mode) bool {
	if key.Left == 0 {
		if b.hasZLK {
			if mode&ModeSet != 0 {
				b.zlk, *value = *value, b.zlk
			} else {
				*value = b.zlk
			}
			return true
		}

		if mode&ModeCreate == 0 {
			return false
		}

		b.hasZLK, b.zlk = true, *value

		return false
	}

	k := key.Byte(0)

	if slot := b.childSlot(k); slot != nil {
		key.Advance(1)
		return (*slot).set(key, value, slot, mode)
	}

	if mode&ModeCreate == 0 {
		return false
	}

	key.Advance(1)

	var child node[T] = newSNode[T](1, key.Left)

	child.set(key, value, &child, mode)
	b.insertChild(k, child)

	return false
}

func (b *bNode[T]) remove(key *KeyWalker, oldValue *T, self *node[T]) bool {
	if key.Left == 0 {
		if !b.hasZLK {
			return false
		}

		var zero T

		*oldValue = b.zlk
		b.hasZLK, b.zlk = false, zero
	} else {
		k := key.Byte(0)

		slot := b.childSlot(k)
		if slot == nil {
			return false
		}

		key.Advance(1)

		if !(*slot).remove(key, oldValue, slot) {
			return false
		}

		if *slot == nil {
			b.deleteChild(k)
		}
	}

	switch n := b.localCount(); {
	case n == 0:
		*self = nil
	case n < bNodeMin:
		b.convertToSNode(self)
	}

	return true
}

func (b *bNode[T]) addChild(key *KeyWalker, child node[T], self *node[T]) {
	invariant(key.Left > 0, "child prefix must not be empty")

	k := key.Byte(0)
	key.Advance(1)

	if slot := b.childSlot(k); slot != nil {
		(*slot).addChild(key, child, slot)
		return
	}

	if key.Left == 0 {
		b.insertChild(k, child)
		return
	}

	var sub node[T] = newSNode[T](1, key.Left)

	sub.addChild(key, child, &sub)
	b.insertChild(k, sub)
}

// convertToSNode replaces the node with a sparse node holding every child
// under its one-byte prefix.
func (b *bNode[T]) convertToSNode(self *node[T]) {
	var s = newSNode[T](b.localCount(), len(b.children))

	if b.hasZLK {
		s.insertValue(0, nil, b.zlk)
	}

	for k := next256(&b.bitmap, 0); k >= 0; k = next256(&b.bitmap, k+1) {
		i := len(s.entries)

		s.insertChild(i, []byte{byte(k)}, b.child(k))
		s.collapse(i)
	}

	*self = s
}

func (b *bNode[T]) positionZLK(e *Enumerator[T]) {
	e.setIndex(-1)
	e.emit(b.zlk)
}

func (b *bNode[T]) positionChild(e *Enumerator[T], k int) {
	e.setIndex(k)
	e.descend(byte(k))
	b.child(k).moveFirst(e)
}

func (b *bNode[T]) positionChildLast(e *Enumerator[T], k int) {
	e.setIndex(k)
	e.descend(byte(k))
	b.child(k).moveLast(e)
}

func (b *bNode[T]) moveFirst(e *Enumerator[T]) {
	e.push(b)

	if b.hasZLK {
		b.positionZLK(e)
		return
	}

	b.positionChild(e, next256(&b.bitmap, 0))
}

func (b *bNode[T]) moveLast(e *Enumerator[T]) {
	e.push(b)

	if last := prev256(&b.bitmap, 0xFF); last >= 0 {
		b.positionChildLast(e, last)
		return
	}

	b.positionZLK(e)
}

func (b *bNode[T]) moveNext(e *Enumerator[T]) bool {
	next := next256(&b.bitmap, e.top().index+1)
	if next < 0 {
		return false
	}

	b.positionChild(e, next)

	return true
}

func (b *bNode[T]) movePrev(e *Enumerator[T]) bool {
	idx := e.top().index
	if idx < 0 {
		return false
	}

	if prev := prev256(&b.bitmap, idx-1); prev >= 0 {
		b.positionChildLast(e, prev)
		return true
	}

	if b.hasZLK {
		b.positionZLK(e)
		return true
	}

	return false
}

func (b *bNode[T]) localCount() int {
	n := count256(&b.bitmap)
	if b.hasZLK {
		n++
	}
	return n
}

func (b *bNode[T]) countMemoryUsage(sizeOfT int) int {
	size := objectSize + len(b.bitmap)*8 + sliceSize + cap(b.children)*interfaceSize + 8 + sizeOfT

	for _, child := range b.children {
		size += child.countMemoryUsage(sizeOfT)
	}

	return size
}
