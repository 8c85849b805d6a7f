package cptrie

import (
	"github.com/aglyzov/cptrie/dlist"
)

// frame is a traversal step: the node being walked, the position inside it
// and the key length at the moment the node was entered.
//
// The meaning of index depends on the node: a key byte for *bitArrayLeaf, an
// entry number for *sNode, a child byte (or -1 for the zero-length key) for
// *bNode.
type frame[T any] struct {
	node   node[T]
	index  int
	keyLen int
}

// Enumerator walks a trie in key order.
//
// Nodes do not point at their parents: the path from the root lives in an
// explicit stack of frames. Modifying the trie while an Enumerator is in use
// is undefined behavior.
type Enumerator[T any] struct {
	stack *dlist.DList[frame[T]]
	key   []byte
	value T
	valid bool
}

func newEnumerator[T any]() *Enumerator[T] {
	return &Enumerator[T]{
		stack: dlist.New[frame[T]](),
	}
}

// Valid reports whether the enumerator points at an item.
func (e *Enumerator[T]) Valid() bool {
	return e != nil && e.valid
}

// Key returns the current key. The slice is reused by the next move.
func (e *Enumerator[T]) Key() []byte {
	return e.key
}

func (e *Enumerator[T]) Value() T {
	return e.value
}

// Depth returns the number of frames on the stack.
func (e *Enumerator[T]) Depth() int {
	return e.stack.Len()
}

// MoveNext advances to the next key in ascending order.
func (e *Enumerator[T]) MoveNext() bool {
	for e.stack.Len() > 0 {
		top, _ := e.stack.Last()
		if top.node.moveNext(e) {
			e.valid = true
			return true
		}
		e.stack.PopLast()
	}

	e.valid = false

	return false
}

// MovePrev goes back to the previous key.
func (e *Enumerator[T]) MovePrev() bool {
	for e.stack.Len() > 0 {
		top, _ := e.stack.Last()
		if top.node.movePrev(e) {
			e.valid = true
			return true
		}
		e.stack.PopLast()
	}

	e.valid = false

	return false
}

func (e *Enumerator[T]) push(n node[T]) {
	e.stack.PushLast(frame[T]{
		node:   n,
		index:  -1,
		keyLen: len(e.key),
	})
}

func (e *Enumerator[T]) pop() {
	e.stack.PopLast()
}

func (e *Enumerator[T]) top() frame[T] {
	f, _ := e.stack.Last()
	return f
}

func (e *Enumerator[T]) setIndex(i int) {
	f, _ := e.stack.Last()
	f.index = i
	e.stack.SetLast(f)
}

// descend appends a child prefix to the key of the top frame.
func (e *Enumerator[T]) descend(prefix ...byte) {
	e.key = append(e.key[:e.top().keyLen], prefix...)
}

// emit makes the item with the given suffix (relative to the top frame) current.
func (e *Enumerator[T]) emit(value T, suffix ...byte) {
	e.key = append(e.key[:e.top().keyLen], suffix...)
	e.value = value
}

// advance resumes in the parent frames once a node ran out of keys >= the sought one.
func (e *Enumerator[T]) advance() {
	e.MoveNext()
}
