package cptrie

import (
	"fmt"
	"reflect"
)

// Mode controls what Set is allowed to do.
type Mode uint8

const (
	// ModeSet replaces the value of an existing key.
	ModeSet Mode = 1 << iota
	// ModeCreate adds an absent key.
	ModeCreate
	// ModeFixedStructure tells a node its capacity was sized by the caller,
	// so it must not restructure while inserting.
	ModeFixedStructure
)

func (m Mode) String() string {
	return fmt.Sprintf("Mode(set:%v,create:%v,fixed:%v)", m&ModeSet != 0, m&ModeCreate != 0, m&ModeFixedStructure != 0)
}

// node is one radix step of the trie: *bitArrayLeaf, *sNode or *bNode.
//
// Operations that can change the representation of a node receive self, the
// address of the slot owning the node, and store the replacement there.
// A node emptied by remove sets *self to nil.
type node[T any] interface {
	// find positions e at the first key >= key and reports an exact match.
	find(key *KeyWalker, e *Enumerator[T]) bool
	get(key *KeyWalker) (T, bool)
	// set returns true if the key existed. An existing value is swapped into
	// *value under ModeSet and copied into it otherwise.
	set(key *KeyWalker, value *T, self *node[T], mode Mode) bool
	remove(key *KeyWalker, oldValue *T, self *node[T]) bool
	addChild(key *KeyWalker, child node[T], self *node[T])
	localCount() int
	countMemoryUsage(sizeOfT int) int

	moveFirst(e *Enumerator[T])
	moveLast(e *Enumerator[T])
	moveNext(e *Enumerator[T]) bool
	movePrev(e *Enumerator[T]) bool
}

const (
	ptrSize       = 8
	sliceSize     = 3 * ptrSize
	interfaceSize = 2 * ptrSize
	objectSize    = 2 * ptrSize // allocation header estimate
)

// isZero reports whether v is the zero value of T.
// The switch is on &v so that an interface T holding 0 is not taken for nil.
func isZero[T any](v T) bool {
	switch x := any(&v).(type) {
	case *any:
		return *x == nil
	case *int:
		return *x == 0
	case *int64:
		return *x == 0
	case *int32:
		return *x == 0
	case *uint64:
		return *x == 0
	case *uint32:
		return *x == 0
	case *byte:
		return *x == 0
	case *bool:
		return !*x
	case *string:
		return *x == ""
	}

	return reflect.ValueOf(&v).Elem().IsZero()
}

func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic("cptrie: " + fmt.Sprintf(format, args...))
	}
}
