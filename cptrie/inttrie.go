package cptrie

import (
	"encoding/binary"
	"fmt"
)

const intKeySize = 8

// IntTrie is a Trie keyed by int64 numbers.
//
// A key is stored as 8 big-endian bytes with the sign bit flipped, so the
// byte order of keys is their numeric order. Dense ranges of numbers end up
// in bit array leaves holding up to 256 neighbours each.
type IntTrie[T any] struct {
	trie Trie[T]
}

func NewIntTrie[T any]() *IntTrie[T] {
	return &IntTrie[T]{}
}

func encodeInt(key int64) [intKeySize]byte {
	var buf [intKeySize]byte

	binary.BigEndian.PutUint64(buf[:], uint64(key)^(1<<63))

	return buf
}

func decodeInt(buf []byte) int64 {
	return int64(binary.BigEndian.Uint64(buf) ^ (1 << 63))
}

func (it *IntTrie[T]) Len() int {
	return it.trie.Len()
}

func (it *IntTrie[T]) Clear() {
	it.trie.Clear()
}

// Add inserts a new key. It fails with ErrKeyExists if the key is present.
func (it *IntTrie[T]) Add(key int64, val T) error {
	buf := encodeInt(key)

	if !it.trie.TryAdd(buf[:], val) {
		return fmt.Errorf("%w: %d", ErrKeyExists, key)
	}

	return nil
}

func (it *IntTrie[T]) TryAdd(key int64, val T) bool {
	buf := encodeInt(key)
	return it.trie.TryAdd(buf[:], val)
}

// Set associates a value with a key replacing the previous one (if any).
func (it *IntTrie[T]) Set(key int64, val T) {
	buf := encodeInt(key)
	it.trie.Put(buf[:], val)
}

// Get returns the value of a key or ErrKeyNotFound.
func (it *IntTrie[T]) Get(key int64) (T, error) {
	buf := encodeInt(key)

	val, ok := it.trie.Find(buf[:])
	if !ok {
		return val, fmt.Errorf("%w: %d", ErrKeyNotFound, key)
	}

	return val, nil
}

func (it *IntTrie[T]) TryGetValue(key int64) (T, bool) {
	buf := encodeInt(key)
	return it.trie.Find(buf[:])
}

func (it *IntTrie[T]) ContainsKey(key int64) bool {
	_, ok := it.TryGetValue(key)
	return ok
}

func (it *IntTrie[T]) Remove(key int64) bool {
	buf := encodeInt(key)
	_, ok := it.trie.Remove(buf[:])
	return ok
}

// Iter calls a handler for all keys >= from in ascending order until it returns false.
func (it *IntTrie[T]) Iter(from int64, handler func(key int64, val T) bool) bool {
	buf := encodeInt(from)

	for e, _ := it.trie.FindAtLeast(buf[:]); e.Valid(); e.MoveNext() {
		if !handler(decodeInt(e.Key()), e.Value()) {
			return false
		}
	}

	return true
}

// Keys returns all keys in ascending order.
func (it *IntTrie[T]) Keys() []int64 {
	var (
		keys = make([]int64, 0, it.trie.Len())
		e    = it.trie.First()
	)

	for ; e.Valid(); e.MoveNext() {
		keys = append(keys, decodeInt(e.Key()))
	}

	return keys
}

func (it *IntTrie[T]) CountMemoryUsage(sizeOfT int) int {
	return it.trie.CountMemoryUsage(sizeOfT)
}

func (it *IntTrie[T]) Stats() Stats {
	return it.trie.Stats()
}
