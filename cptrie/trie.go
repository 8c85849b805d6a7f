package cptrie

import (
	"bytes"
	"fmt"
)

// Trie maps byte-sequence keys to values of type T.
type Trie[T any] struct {
	root  node[T]
	count int
}

// New returns an empty Trie.
func New[T any]() *Trie[T] {
	return &Trie[T]{}
}

// Len returns the number of keys.
func (t *Trie[T]) Len() int {
	return t.count
}

func (t *Trie[T]) Clear() {
	t.root = nil
	t.count = 0
}

// Find returns the value associated with a key.
func (t *Trie[T]) Find(key []byte) (T, bool) {
	if t.root == nil {
		var zero T
		return zero, false
	}

	kw := NewKeyWalker(key)

	return t.root.get(&kw)
}

func (t *Trie[T]) ContainsKey(key []byte) bool {
	_, ok := t.Find(key)
	return ok
}

// Set stores a value according to mode and reports whether the key existed.
// For an existing key it also returns the previous value (with ModeSet) or the
// current one (without it). ModeFixedStructure is ignored: it is only
// meaningful while a node rebuilds itself.
func (t *Trie[T]) Set(key []byte, value T, mode Mode) (T, bool) {
	mode &^= ModeFixedStructure

	if t.root == nil {
		if mode&ModeCreate == 0 {
			return value, false
		}
		t.root = newSNode[T](1, len(key))
	}

	kw := NewKeyWalker(key)

	existed := t.root.set(&kw, &value, &t.root, mode)
	if !existed && mode&ModeCreate != 0 {
		t.count++
	}

	return value, existed
}

// Add inserts a new key. It fails with ErrKeyExists leaving the trie intact.
func (t *Trie[T]) Add(key []byte, value T) error {
	if !t.TryAdd(key, value) {
		return fmt.Errorf("%w: %q", ErrKeyExists, key)
	}
	return nil
}

// TryAdd inserts a new key and reports whether it did.
func (t *Trie[T]) TryAdd(key []byte, value T) bool {
	_, existed := t.Set(key, value, ModeCreate)
	return !existed
}

// Put inserts or replaces the value of a key.
func (t *Trie[T]) Put(key []byte, value T) {
	t.Set(key, value, ModeSet|ModeCreate)
}

// Get returns the value of a key or ErrKeyNotFound.
func (t *Trie[T]) Get(key []byte) (T, error) {
	value, ok := t.Find(key)
	if !ok {
		return value, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return value, nil
}

// Replace changes the value of an existing key only. It returns the previous value.
func (t *Trie[T]) Replace(key []byte, value T) (T, bool) {
	return t.Set(key, value, ModeSet)
}

// Remove deletes a key and returns its value.
func (t *Trie[T]) Remove(key []byte) (T, bool) {
	var old T

	if t.root == nil {
		return old, false
	}

	kw := NewKeyWalker(key)

	if !t.root.remove(&kw, &old, &t.root) {
		return old, false
	}

	t.count--

	return old, true
}

// FindAtLeast returns an enumerator positioned at the first key >= key and
// reports whether that key is the one sought. The enumerator is not Valid if
// every key is smaller.
func (t *Trie[T]) FindAtLeast(key []byte) (*Enumerator[T], bool) {
	var e = newEnumerator[T]()

	if t.root == nil {
		return e, false
	}

	kw := NewKeyWalker(key)
	exact := t.root.find(&kw, e)
	e.valid = e.stack.Len() > 0

	return e, exact && e.valid
}

// FindExact returns an enumerator positioned at the key or nil.
func (t *Trie[T]) FindExact(key []byte) *Enumerator[T] {
	if e, ok := t.FindAtLeast(key); ok {
		return e
	}
	return nil
}

// First returns an enumerator positioned at the smallest key.
func (t *Trie[T]) First() *Enumerator[T] {
	var e = newEnumerator[T]()

	if t.root != nil {
		t.root.moveFirst(e)
		e.valid = true
	}

	return e
}

// Last returns an enumerator positioned at the largest key.
func (t *Trie[T]) Last() *Enumerator[T] {
	var e = newEnumerator[T]()

	if t.root != nil {
		t.root.moveLast(e)
		e.valid = true
	}

	return e
}

// Iter calls a handler for all keys with a given prefix in ascending order.
// It returns whether all prefixed keys were iterated.
// The handler can continue the process by returning true or abort with false.
func (t *Trie[T]) Iter(prefix []byte, handler func(key []byte, val T) bool) bool {
	e, _ := t.FindAtLeast(prefix)

	for ; e.Valid() && bytes.HasPrefix(e.Key(), prefix); e.MoveNext() {
		if !handler(e.Key(), e.Value()) {
			return false
		}
	}

	return true
}

// Keys returns copies of all keys in ascending order.
func (t *Trie[T]) Keys() [][]byte {
	keys := make([][]byte, 0, t.count)

	t.Iter(nil, func(key []byte, _ T) bool {
		keys = append(keys, bytes.Clone(key))
		return true
	})

	return keys
}

// CountMemoryUsage estimates the bytes taken by the trie, assuming every
// stored value takes sizeOfT bytes.
func (t *Trie[T]) CountMemoryUsage(sizeOfT int) int {
	size := objectSize + interfaceSize + 8

	if t.root != nil {
		size += t.root.countMemoryUsage(sizeOfT)
	}

	return size
}

// Stats returns the shape of the trie.
func (t *Trie[T]) Stats() Stats {
	var st Stats

	if t.root != nil {
		collectStats(t.root, 1, &st)
	}

	return st
}
