package cptrie

import (
	"fmt"
	"unsafe"
)

// StringTrie is a Trie keyed by strings (by their UTF-8 bytes).
type StringTrie[T any] struct {
	trie Trie[T]
}

// StringKV represents a key-value pair.
type StringKV[T any] struct {
	Key string
	Val T
}

// NewStringTrie returns a StringTrie optionally initialized with the given key-value pairs.
func NewStringTrie[T any](init ...StringKV[T]) *StringTrie[T] {
	var st = &StringTrie[T]{}

	for _, kv := range init {
		st.Set(kv.Key, kv.Val)
	}

	return st
}

// stringToBytes returns the bytes of a string without copying.
// Nodes never retain key slices, they copy what they keep.
func stringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (st *StringTrie[T]) Len() int {
	return st.trie.Len()
}

func (st *StringTrie[T]) Clear() {
	st.trie.Clear()
}

// Add inserts a new key. It fails with ErrKeyExists if the key is present.
func (st *StringTrie[T]) Add(key string, val T) error {
	if !st.trie.TryAdd(stringToBytes(key), val) {
		return fmt.Errorf("%w: %q", ErrKeyExists, key)
	}
	return nil
}

func (st *StringTrie[T]) TryAdd(key string, val T) bool {
	return st.trie.TryAdd(stringToBytes(key), val)
}

// Set associates a value with a key replacing the previous one (if any).
func (st *StringTrie[T]) Set(key string, val T) {
	st.trie.Put(stringToBytes(key), val)
}

// Get returns the value of a key or ErrKeyNotFound.
func (st *StringTrie[T]) Get(key string) (T, error) {
	val, ok := st.trie.Find(stringToBytes(key))
	if !ok {
		return val, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return val, nil
}

func (st *StringTrie[T]) TryGetValue(key string) (T, bool) {
	return st.trie.Find(stringToBytes(key))
}

func (st *StringTrie[T]) ContainsKey(key string) bool {
	return st.trie.ContainsKey(stringToBytes(key))
}

// Remove deletes a key and reports whether it was present.
func (st *StringTrie[T]) Remove(key string) bool {
	_, ok := st.trie.Remove(stringToBytes(key))
	return ok
}

// RemoveValue deletes a key and returns its value.
func (st *StringTrie[T]) RemoveValue(key string) (T, bool) {
	return st.trie.Remove(stringToBytes(key))
}

// FindAtLeast returns an enumerator at the first key >= key, see Trie.FindAtLeast.
func (st *StringTrie[T]) FindAtLeast(key string) (*Enumerator[T], bool) {
	return st.trie.FindAtLeast(stringToBytes(key))
}

func (st *StringTrie[T]) First() *Enumerator[T] {
	return st.trie.First()
}

func (st *StringTrie[T]) Last() *Enumerator[T] {
	return st.trie.Last()
}

// Iter calls a handler for all keys with a given prefix in ascending order.
func (st *StringTrie[T]) Iter(prefix string, handler func(key string, val T) bool) bool {
	return st.trie.Iter(stringToBytes(prefix), func(key []byte, val T) bool {
		return handler(string(key), val)
	})
}

// Keys returns all keys in ascending order.
func (st *StringTrie[T]) Keys() []string {
	keys := make([]string, 0, st.trie.Len())

	st.Iter("", func(key string, _ T) bool {
		keys = append(keys, key)
		return true
	})

	return keys
}

// Items returns all key-value pairs in ascending key order.
func (st *StringTrie[T]) Items() []StringKV[T] {
	items := make([]StringKV[T], 0, st.trie.Len())

	st.Iter("", func(key string, val T) bool {
		items = append(items, StringKV[T]{key, val})
		return true
	})

	return items
}

func (st *StringTrie[T]) CountMemoryUsage(sizeOfT int) int {
	return st.trie.CountMemoryUsage(sizeOfT)
}

func (st *StringTrie[T]) Stats() Stats {
	return st.trie.Stats()
}
